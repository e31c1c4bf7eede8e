package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/abdelrhman-sys/MoviX-API/internal/apperror"
	"github.com/abdelrhman-sys/MoviX-API/internal/auth/credentials"
	"github.com/abdelrhman-sys/MoviX-API/internal/db"
	"github.com/abdelrhman-sys/MoviX-API/internal/logger"
	"github.com/abdelrhman-sys/MoviX-API/internal/shows"
	"github.com/abdelrhman-sys/MoviX-API/internal/storage"
	"github.com/abdelrhman-sys/MoviX-API/internal/users"
)

// Snapshot is what a client receives after login and on GET /api/user.
type Snapshot struct {
	FavShows   []shows.Entry `json:"favShows"`
	LaterShows []shows.Entry `json:"laterShows"`
	User       users.Profile `json:"user"`
}

type Deps struct {
	Users     users.Repository
	Favorites *shows.Service
	Later     *shows.Service
	Blobs     storage.BlobStore
	Tx        db.Transactor
	Hasher    credentials.Hasher

	// SignedURLTTL bounds profile picture links.
	SignedURLTTL time.Duration
}

// Service owns profile edits and account deletion, the operations that
// touch more than one store.
type Service struct {
	users     users.Repository
	favorites *shows.Service
	later     *shows.Service
	blobs     storage.BlobStore
	tx        db.Transactor
	hasher    credentials.Hasher
	urlTTL    time.Duration
}

func NewService(d Deps) *Service {
	ttl := d.SignedURLTTL
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	blobs := d.Blobs
	if blobs == nil {
		blobs = storage.Disabled{}
	}

	return &Service{
		users:     d.Users,
		favorites: d.Favorites,
		later:     d.Later,
		blobs:     blobs,
		tx:        d.Tx,
		hasher:    d.Hasher,
		urlTTL:    ttl,
	}
}

// Snapshot loads both collections for u.
func (s *Service) Snapshot(ctx context.Context, u *users.User) (Snapshot, error) {
	fav, err := s.favorites.List(ctx, u.ID)
	if err != nil {
		return Snapshot{}, err
	}
	later, err := s.later.List(ctx, u.ID)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{FavShows: fav, LaterShows: later, User: u.Profile()}, nil
}

// Edit applies the non-empty fields of patch to u's profile.
func (s *Service) Edit(ctx context.Context, u *users.User, patch users.ProfilePatch) (users.Profile, error) {
	patch = patch.Normalize()

	if patch.Empty() {
		if patch.ProfilePicFlag {
			return u.Profile(), nil
		}
		return users.Profile{}, apperror.Validation("", "No fields to update")
	}

	updated, err := s.users.UpdateProfile(ctx, u.ID, patch)
	switch {
	case errors.Is(err, users.ErrEmailTaken):
		return users.Profile{}, apperror.Conflict("Email already exists")
	case errors.Is(err, users.ErrEmailTooLong):
		return users.Profile{}, apperror.Validation("email", "Email is too long, max is 254 character")
	case errors.Is(err, users.ErrValueTooLong):
		return users.Profile{}, apperror.Validation("name", "Name is too long, max is 30 character")
	case errors.Is(err, users.ErrNotFound):
		return users.Profile{}, apperror.Unauthenticated()
	case err != nil:
		return users.Profile{}, apperror.Store("Error updating user", err)
	}
	return updated.Profile(), nil
}

// UpdateProfilePicture points u's profile at path. The previous blob is
// left in place.
func (s *Service) UpdateProfilePicture(ctx context.Context, u *users.User, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", apperror.Validation("pic", "pic is required")
	}

	stored, err := s.users.UpdateProfilePic(ctx, u.ID, path)
	if err != nil {
		return "", apperror.Store("Error uploading image", err)
	}
	return stored, nil
}

// ProfilePictureURL signs a short-lived GET link for u's picture.
func (s *Service) ProfilePictureURL(ctx context.Context, u *users.User) (string, error) {
	if u.ProfilePic == nil || *u.ProfilePic == "" {
		return "", apperror.NotFound("No profile picture")
	}

	url, err := s.blobs.SignedURL(ctx, *u.ProfilePic, s.urlTTL)
	if err != nil {
		return "", apperror.Store("Error signing image url", err)
	}
	return url, nil
}

// DeleteAccount re-authenticates u, ends the caller's session through
// endSession, then removes every trace of the account. Collections and
// the user row go in one transaction. The picture blob is removed
// best-effort once that transaction has committed.
func (s *Service) DeleteAccount(
	ctx context.Context,
	u *users.User,
	password string,
	endSession func(ctx context.Context) error,
) error {

	// 1. Re-authenticate; OAuth-only accounts never pass
	if err := s.hasher.Verify(u.PasswordHash, password); err != nil {
		return apperror.Validation("password", "password is not correct")
	}

	// 2. End the session before any data is touched
	if err := endSession(ctx); err != nil {
		return &apperror.AppError{
			Kind:    apperror.ErrValidation,
			Message: "error terminating session",
			Cause:   err,
		}
	}

	// 3. Relational deletes, in foreign-key order
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.favorites.DeleteAll(ctx, u.ID); err != nil {
			return err
		}
		if err := s.later.DeleteAll(ctx, u.ID); err != nil {
			return err
		}
		return s.users.Delete(ctx, u.ID)
	})
	if err != nil {
		return apperror.PartialFailure("error deleting account", err)
	}

	// 4. Blob last; a rolled back delete must keep its picture
	s.removePicture(ctx, u)

	logger.Info("account deleted", map[string]any{
		"user_id": u.ID,
	})
	return nil
}

func (s *Service) removePicture(ctx context.Context, u *users.User) {
	if u.ProfilePic == nil || *u.ProfilePic == "" {
		return
	}

	if err := s.blobs.Remove(ctx, *u.ProfilePic); err != nil {
		logger.Warn("profile image not removed", map[string]any{
			"user_id": u.ID,
			"path":    *u.ProfilePic,
			"error":   err.Error(),
		})
	}
}
