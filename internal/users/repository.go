package users

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("users: not found")
	ErrEmailTaken   = errors.New("users: email already exists")
	ErrValueTooLong = errors.New("users: value too long")
	ErrEmailTooLong = errors.New("users: email too long")
)

// MaxEmailLength matches the varchar(254) email column.
const MaxEmailLength = 254

// Repository is the credential store.
type Repository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u NewUser) (*User, error)
	UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (*User, error)
	UpdateProfilePic(ctx context.Context, id string, path string) (string, error)
	Delete(ctx context.Context, id string) error
}
