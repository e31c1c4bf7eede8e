package provider

import (
	"context"

	"github.com/abdelrhman-sys/MoviX-API/internal/auth"
)

// OAuthProvider is an external identity source using the authorization
// code flow with PKCE. It reports who the user is; linking that identity
// to an account and starting a session happen elsewhere.
type OAuthProvider interface {
	// Name is the route segment and registry key, e.g. "google".
	Name() string

	// AuthCodeURL builds the consent URL for the given state and S256
	// code challenge.
	AuthCodeURL(state string, codeChallenge string) string

	// ExchangeCode redeems code with the PKCE verifier and returns the
	// verified identity.
	ExchangeCode(ctx context.Context, code string, codeVerifier string) (*auth.Identity, error)
}
