package testsupport

import (
	"context"
	"fmt"
	"sync"

	"github.com/abdelrhman-sys/MoviX-API/internal/users"

	"github.com/google/uuid"
)

// UserRepo is an in-memory users.Repository.
type UserRepo struct {
	mu    sync.Mutex
	users map[string]users.User

	// Err, when set, is returned by every call.
	Err error
	// DeleteErr is returned by Delete only.
	DeleteErr error
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[string]users.User)}
}

// Seed stores u as-is, assigning an id when it has none.
func (r *UserRepo) Seed(u users.User) *users.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	r.users[u.ID] = u
	return &u
}

func (r *UserRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	if u, ok := r.findEmail(email); ok {
		return &u, nil
	}
	return nil, users.ErrNotFound
}

func (r *UserRepo) Create(_ context.Context, nu users.NewUser) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	if len(nu.Email) > users.MaxEmailLength {
		return nil, users.ErrEmailTooLong
	}
	if _, ok := r.findEmail(nu.Email); ok {
		return nil, users.ErrEmailTaken
	}

	u := users.User{
		ID:           uuid.NewString(),
		Email:        nu.Email,
		PasswordHash: nu.PasswordHash,
		FirstName:    nu.FirstName,
		SecName:      nu.SecName,
		ProfilePic:   nu.ProfilePic,
	}
	r.users[u.ID] = u
	return &u, nil
}

// UpdateProfile enforces the same 30 character limit as the schema.
func (r *UserRepo) UpdateProfile(_ context.Context, id string, p users.ProfilePatch) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}

	for _, v := range []*string{p.FirstName, p.SecName} {
		if v != nil && len(*v) > 30 {
			return nil, fmt.Errorf("%w: value too long for type character varying(30)", users.ErrValueTooLong)
		}
	}
	if p.Email != nil && len(*p.Email) > users.MaxEmailLength {
		return nil, users.ErrEmailTooLong
	}
	if p.Email != nil {
		if other, ok := r.findEmail(*p.Email); ok && other.ID != id {
			return nil, users.ErrEmailTaken
		}
		u.Email = *p.Email
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.SecName != nil {
		u.SecName = *p.SecName
	}

	r.users[id] = u
	return &u, nil
}

func (r *UserRepo) UpdateProfilePic(_ context.Context, id string, path string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return "", r.Err
	}
	u, ok := r.users[id]
	if !ok {
		return "", users.ErrNotFound
	}
	u.ProfilePic = &path
	r.users[id] = u
	return path, nil
}

func (r *UserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}
	if r.DeleteErr != nil {
		return r.DeleteErr
	}
	if _, ok := r.users[id]; !ok {
		return users.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *UserRepo) findEmail(email string) (users.User, bool) {
	for _, u := range r.users {
		if users.NormalizeEmail(u.Email) == users.NormalizeEmail(email) {
			return u, true
		}
	}
	return users.User{}, false
}
