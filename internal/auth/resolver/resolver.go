package resolver

import (
	"context"

	"github.com/abdelrhman-sys/MoviX-API/internal/auth"
	"github.com/abdelrhman-sys/MoviX-API/internal/users"
)

// Resolver determines which internal user an external identity belongs to.
// It is the ONLY place where identity-to-user mapping logic lives.
type Resolver interface {
	Resolve(
		ctx context.Context,
		identity *auth.Identity,
	) (*users.User, error)
}
