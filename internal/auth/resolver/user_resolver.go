package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/abdelrhman-sys/MoviX-API/internal/auth"
	"github.com/abdelrhman-sys/MoviX-API/internal/auth/credentials"
	"github.com/abdelrhman-sys/MoviX-API/internal/users"
)

// UserResolver links an OAuth identity to a user by email, creating the
// user on first login. OAuth-created users carry the OAuth password marker.
type UserResolver struct {
	users users.Repository
}

func NewUserResolver(repo users.Repository) *UserResolver {
	return &UserResolver{users: repo}
}

func (r *UserResolver) Resolve(
	ctx context.Context,
	identity *auth.Identity,
) (*users.User, error) {

	if identity == nil {
		return nil, errors.New("identity is nil")
	}

	email := users.NormalizeEmail(identity.Email)
	if email == "" {
		return nil, errors.New("identity has no email")
	}

	// 1. Existing user (local or OAuth) logs in
	u, err := r.users.GetByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, users.ErrNotFound) {
		return nil, fmt.Errorf("resolver: lookup %s: %w", identity.Provider, err)
	}

	// 2. First login creates the account
	u, err = r.users.Create(ctx, users.NewUser{
		Email:        email,
		PasswordHash: credentials.OAuthPasswordMarker,
		FirstName:    truncate(identity.GivenName, 30),
		SecName:      truncate(identity.FamilyName, 30),
	})
	if err == nil {
		return u, nil
	}

	// 3. A concurrent first login created it between 1 and 2
	if errors.Is(err, users.ErrEmailTaken) {
		return r.users.GetByEmail(ctx, email)
	}
	return nil, fmt.Errorf("resolver: create %s user: %w", identity.Provider, err)
}

// truncate keeps provider names within the column limit without
// splitting a multi-byte rune.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
