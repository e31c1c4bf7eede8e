package testsupport

import (
	"context"
	"sync"

	"github.com/abdelrhman-sys/MoviX-API/internal/shows"
)

type showKey struct {
	userID, showID, showType string
}

// ShowRepo is an in-memory shows.Repository that keeps insertion order.
type ShowRepo struct {
	mu      sync.Mutex
	order   []showKey
	entries map[showKey]shows.Entry

	Err error
}

func NewShowRepo() *ShowRepo {
	return &ShowRepo{entries: make(map[showKey]shows.Entry)}
}

func (r *ShowRepo) Add(_ context.Context, userID string, e shows.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}
	k := showKey{userID, e.ShowID, e.ShowType}
	if _, ok := r.entries[k]; ok {
		return nil
	}
	r.entries[k] = e
	r.order = append(r.order, k)
	return nil
}

func (r *ShowRepo) Remove(_ context.Context, userID, showID, showType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}
	delete(r.entries, showKey{userID, showID, showType})
	return nil
}

func (r *ShowRepo) List(_ context.Context, userID string) ([]shows.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]shows.Entry, 0)
	for _, k := range r.order {
		if e, ok := r.entries[k]; ok && k.userID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *ShowRepo) DeleteAll(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}
	for k := range r.entries {
		if k.userID == userID {
			delete(r.entries, k)
		}
	}
	return nil
}

// Count returns how many entries userID has.
func (r *ShowRepo) Count(userID string) int {
	entries, _ := r.List(context.Background(), userID)
	return len(entries)
}
