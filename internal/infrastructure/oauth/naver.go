package oauth

import (
	"context"
	"encoding/json"
	"net/http"

	"pocketspace/pkg/errors"
)

type NaverVerifier struct {
	userInfoURL string
}

func NewNaverVerifier(userInfoURL string) *NaverVerifier {
	return &NaverVerifier{userInfoURL: userInfoURL}
}

func (v *NaverVerifier) Provider() string { return "naver" }

func (v *NaverVerifier) Verify(ctx context.Context, accessToken string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.userInfoURL, nil)
	if err != nil {
		return nil, errors.Internal("Failed to build Naver userinfo request", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, errors.Internal("Naver userinfo request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Unauthorized("Naver rejected the access token", nil)
	}

	var body struct {
		ResultCode string `json:"resultcode"`
		Response   struct {
			ID           string `json:"id"`
			Email        string `json:"email"`
			Nickname     string `json:"nickname"`
			ProfileImage string `json:"profile_image"`
		} `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Internal("Failed to decode Naver userinfo response", err)
	}
	if body.Response.ID == "" {
		return nil, errors.Unauthorized("Naver userinfo response carried no account id", nil)
	}

	return &Identity{
		Provider: v.Provider(),
		UID:      body.Response.ID,
		Email:    body.Response.Email,
		Nickname: body.Response.Nickname,
		PhotoURL: body.Response.ProfileImage,
	}, nil
}
