package shows

import "context"

// Repository is the collection store for a single Collection.
type Repository interface {
	// Add inserts e; adding an entry that already exists is a no-op.
	Add(ctx context.Context, userID string, e Entry) error
	// Remove deletes the entry; a missing entry is not an error.
	Remove(ctx context.Context, userID, showID, showType string) error
	List(ctx context.Context, userID string) ([]Entry, error)
	DeleteAll(ctx context.Context, userID string) error
}
