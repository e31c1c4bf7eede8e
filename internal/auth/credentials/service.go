package credentials

import (
	"context"
	"errors"
	"strings"

	"github.com/abdelrhman-sys/MoviX-API/internal/apperror"
	"github.com/abdelrhman-sys/MoviX-API/internal/users"
)

// Service verifies local credentials and registers local accounts.
type Service struct {
	users  users.Repository
	hasher Hasher
}

func NewService(repo users.Repository, hasher Hasher) *Service {
	return &Service{users: repo, hasher: hasher}
}

type RegisterInput struct {
	Email      string
	Password   string
	FirstName  string
	SecName    string
	ProfilePic string
}

// Register creates a local account. The caller is responsible for
// starting a session for the returned user.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*users.User, error) {
	email := users.NormalizeEmail(in.Email)
	if email == "" {
		return nil, apperror.Validation("email", "email is required")
	}
	if in.Password == "" {
		return nil, apperror.Validation("password", "password is required")
	}

	// 1. Reject a known email before paying for a hash
	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperror.Conflict("User is already found")
	case !errors.Is(err, users.ErrNotFound):
		return nil, apperror.Store("Error checking user", err)
	}

	// 2. Hash password
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, &apperror.AppError{
			Kind:    apperror.ErrValidation,
			Message: "Failed hashing password",
			Field:   "password",
			Cause:   err,
		}
	}

	nu := users.NewUser{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		SecName:      strings.TrimSpace(in.SecName),
	}
	if pic := strings.TrimSpace(in.ProfilePic); pic != "" {
		nu.ProfilePic = &pic
	}

	// 3. Insert; a concurrent registration can still win the race
	created, err := s.users.Create(ctx, nu)
	switch {
	case errors.Is(err, users.ErrEmailTaken):
		return nil, apperror.Conflict("User is already found")
	case errors.Is(err, users.ErrEmailTooLong):
		return nil, apperror.Validation("email", "Email is too long, max is 254 character")
	case errors.Is(err, users.ErrValueTooLong):
		return nil, apperror.Validation("name", "Name is too long, max is 30 character")
	case err != nil:
		return nil, apperror.Store("Error creating user", err)
	}

	return created, nil
}

// Authenticate returns the user owning email if password matches.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*users.User, error) {
	u, err := s.users.GetByEmail(ctx, users.NormalizeEmail(email))
	if errors.Is(err, users.ErrNotFound) {
		return nil, apperror.NotFound("User is not found")
	}
	if err != nil {
		return nil, apperror.Store("Error finding user", err)
	}

	if err := s.hasher.Verify(u.PasswordHash, password); err != nil {
		return nil, apperror.InvalidCredentials("Invalid credentials")
	}
	return u, nil
}
