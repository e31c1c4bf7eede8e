package credentials

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// OAuthPasswordMarker is stored in place of a hash for accounts created
// through an OAuth provider. It is not a valid bcrypt hash, and Verify
// refuses it before bcrypt is consulted, so no password can ever match.
const OAuthPasswordMarker = "!oauth"

var (
	ErrEmptyPassword    = errors.New("password is required")
	ErrPasswordMismatch = errors.New("password does not match")
)

// Hasher hashes and verifies passwords with bcrypt.
type Hasher struct {
	Cost int
}

func NewHasher() Hasher {
	return Hasher{Cost: bcrypt.DefaultCost}
}

// Hash returns the bcrypt hash of password. Passwords longer than 72
// bytes are rejected by bcrypt with ErrPasswordTooLong.
func (h Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify compares plaintext password with stored hash in constant time.
func (h Hasher) Verify(hash string, password string) error {
	if hash == "" || hash == OAuthPasswordMarker || password == "" {
		return ErrPasswordMismatch
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}

// IsOAuthOnly reports whether hash marks an account without a local password.
func IsOAuthOnly(hash string) bool {
	return hash == OAuthPasswordMarker
}
