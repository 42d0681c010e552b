package oauth

import (
	"context"
	"encoding/json"
	"net/http"

	"pocketspace/pkg/errors"
)

type GoogleVerifier struct {
	userInfoURL string
}

func NewGoogleVerifier(userInfoURL string) *GoogleVerifier {
	return &GoogleVerifier{userInfoURL: userInfoURL}
}

func (v *GoogleVerifier) Provider() string { return "google" }

func (v *GoogleVerifier) Verify(ctx context.Context, accessToken string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.userInfoURL, nil)
	if err != nil {
		return nil, errors.Internal("Failed to build Google userinfo request", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, errors.Internal("Google userinfo request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Unauthorized("Google rejected the access token", nil)
	}

	var body struct {
		Sub     string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Internal("Failed to decode Google userinfo response", err)
	}
	if body.Sub == "" {
		return nil, errors.Unauthorized("Google userinfo response carried no subject", nil)
	}

	return &Identity{
		Provider: v.Provider(),
		UID:      body.Sub,
		Email:    body.Email,
		Nickname: body.Name,
		PhotoURL: body.Picture,
	}, nil
}
