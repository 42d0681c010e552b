package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"pocketspace/pkg/errors"
)

type KakaoVerifier struct {
	userInfoURL string
}

func NewKakaoVerifier(userInfoURL string) *KakaoVerifier {
	return &KakaoVerifier{userInfoURL: userInfoURL}
}

func (v *KakaoVerifier) Provider() string { return "kakao" }

func (v *KakaoVerifier) Verify(ctx context.Context, accessToken string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.userInfoURL, nil)
	if err != nil {
		return nil, errors.Internal("Failed to build Kakao userinfo request", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, errors.Internal("Kakao userinfo request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Unauthorized("Kakao rejected the access token", nil)
	}

	var body struct {
		ID           int64 `json:"id"`
		KakaoAccount struct {
			Email   string `json:"email"`
			Profile struct {
				Nickname        string `json:"nickname"`
				ProfileImageURL string `json:"profile_image_url"`
			} `json:"profile"`
		} `json:"kakao_account"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Internal("Failed to decode Kakao userinfo response", err)
	}
	if body.ID == 0 {
		return nil, errors.Unauthorized("Kakao userinfo response carried no account id", nil)
	}

	return &Identity{
		Provider: v.Provider(),
		UID:      strconv.FormatInt(body.ID, 10),
		Email:    body.KakaoAccount.Email,
		Nickname: body.KakaoAccount.Profile.Nickname,
		PhotoURL: body.KakaoAccount.Profile.ProfileImageURL,
	}, nil
}
