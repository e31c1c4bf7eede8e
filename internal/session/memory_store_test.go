package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()

	sess := Session{SessionID: "sid", UserID: "u1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, store.Create(ctx, sess))

	got, err := store.Get(ctx, "sid")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.UserID)

	require.NoError(t, store.Delete(ctx, "sid"))

	got, err = store.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreRejectsInvalidSessions(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	assert.Error(t, store.Create(ctx, Session{UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}))
	assert.Error(t, store.Create(ctx, Session{SessionID: "sid", UserID: "u1", ExpiresAt: time.Now().Add(-time.Second)}))
}

func TestMemoryStoreHidesExpired(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()

	require.NoError(t, store.Create(ctx, Session{SessionID: "sid", UserID: "u1", ExpiresAt: now.Add(time.Minute)}))

	store.now = func() time.Time { return now.Add(2 * time.Minute) }

	got, err := store.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 1, store.Len(), "Get must not delete, the sweep does")
}

func TestMemoryStorePurgeExpired(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()

	require.NoError(t, store.Create(ctx, Session{SessionID: "old", UserID: "u1", ExpiresAt: now.Add(time.Minute)}))
	require.NoError(t, store.Create(ctx, Session{SessionID: "new", UserID: "u2", ExpiresAt: now.Add(time.Hour)}))

	n, err := store.PurgeExpired(ctx, now.Add(10*time.Minute))
	require.NoError(t, err)

	assert.Equal(t, 1, n)
	assert.Equal(t, 1, store.Len())

	got, err := store.Get(ctx, "new")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestMemoryStoreUpdateDoesNotResurrect(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Update(ctx, Session{SessionID: "gone", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}))
	assert.Equal(t, 0, store.Len())
}
