package oauth

import (
	"context"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"

	"pocketspace/pkg/errors"
	"pocketspace/pkg/logger"
)

const appleIssuer = "https://appleid.apple.com"

// AppleVerifier validates Sign in with Apple identity tokens against Apple's
// published JWKS. Unlike the other providers there is no userinfo endpoint;
// everything comes from the token's claims.
type AppleVerifier struct {
	jwks     *keyfunc.JWKS
	clientID string
}

func NewAppleVerifier(jwksURL, clientID string) (*AppleVerifier, error) {
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		RefreshInterval:  time.Hour,
		RefreshRateLimit: time.Minute,
		RefreshErrorHandler: func(err error) {
			logger.Warn("Apple JWKS refresh failed: %v", err)
		},
	})
	if err != nil {
		return nil, errors.Internal("Failed to load Apple JWKS", err)
	}

	return &AppleVerifier{
		jwks:     jwks,
		clientID: clientID,
	}, nil
}

func (v *AppleVerifier) Provider() string { return "apple" }

type appleClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

func (v *AppleVerifier) Verify(ctx context.Context, identityToken string) (*Identity, error) {
	claims := &appleClaims{}
	token, err := jwt.ParseWithClaims(identityToken, claims, v.jwks.Keyfunc)
	if err != nil || !token.Valid {
		return nil, errors.Unauthorized("Apple identity token is invalid", err)
	}

	if claims.Issuer != appleIssuer {
		return nil, errors.Unauthorized("Apple identity token has an unexpected issuer", nil)
	}
	if v.clientID != "" && !claims.VerifyAudience(v.clientID, true) {
		return nil, errors.Unauthorized("Apple identity token is for a different app", nil)
	}
	if claims.Subject == "" {
		return nil, errors.Unauthorized("Apple identity token carried no subject", nil)
	}

	// Apple never ships a display name in the token; the client supplies one
	// on first sign-in and the account keeps it afterwards.
	return &Identity{
		Provider: v.Provider(),
		UID:      claims.Subject,
		Email:    claims.Email,
	}, nil
}

func (v *AppleVerifier) Close() {
	v.jwks.EndBackground()
}
