package storage

import (
	"context"
	"errors"
	"time"
)

var ErrNotConfigured = errors.New("storage: object storage is not configured")

// BlobStore addresses profile images by path inside a single bucket.
type BlobStore interface {
	Remove(ctx context.Context, path string) error
	SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error)
}

// Disabled is used when no storage endpoint is configured. Every call
// fails with ErrNotConfigured so callers take their normal error path.
type Disabled struct{}

func (Disabled) Remove(context.Context, string) error {
	return ErrNotConfigured
}

func (Disabled) SignedURL(context.Context, string, time.Duration) (string, error) {
	return "", ErrNotConfigured
}
