package oauth

import (
	"context"
	"net/http"
	"time"
)

// Identity is the normalized result of a provider-side credential check.
type Identity struct {
	Provider string
	UID      string
	Email    string
	Nickname string
	PhotoURL string
}

// Verifier validates a provider credential (access token or identity token)
// and returns the identity behind it.
type Verifier interface {
	Provider() string
	Verify(ctx context.Context, credential string) (*Identity, error)
}

var httpClient = &http.Client{Timeout: 10 * time.Second}
