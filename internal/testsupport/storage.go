package testsupport

import (
	"context"
	"sync"
	"time"
)

// BlobStore is an in-memory storage.BlobStore.
type BlobStore struct {
	mu      sync.Mutex
	objects map[string]bool

	RemoveErr error
	Removed   []string
}

func NewBlobStore(paths ...string) *BlobStore {
	b := &BlobStore{objects: make(map[string]bool)}
	for _, p := range paths {
		b.objects[p] = true
	}
	return b
}

func (b *BlobStore) Has(path string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.objects[path]
}

func (b *BlobStore) Remove(_ context.Context, path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.Removed = append(b.Removed, path)
	if b.RemoveErr != nil {
		return b.RemoveErr
	}
	delete(b.objects, path)
	return nil
}

func (b *BlobStore) SignedURL(_ context.Context, path string, ttl time.Duration) (string, error) {
	return "https://storage.test/" + path + "?expires=" + ttl.String(), nil
}

// Transactor runs fn directly, recording commits and rollbacks.
type Transactor struct {
	Commits   int
	Rollbacks int
}

func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		t.Rollbacks++
		return err
	}
	t.Commits++
	return nil
}
