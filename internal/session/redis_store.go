package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "session:"

// RedisStore keeps each session as a JSON value whose TTL matches the
// session expiry, so Redis itself prunes expired sessions.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: defaultRedisPrefix,
		now:    time.Now,
	}
}

func (r *RedisStore) key(sessionID string) string {
	return r.prefix + sessionID
}

func (r *RedisStore) Create(ctx context.Context, s Session) error {
	if s.SessionID == "" || s.UserID == "" {
		return fmt.Errorf("session: missing session_id or user_id")
	}

	ok, err := r.write(ctx, s, false)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("session: expires_at must be in the future")
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	val, err := r.client.Get(ctx, r.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: get: %w", err)
	}

	var s Session
	if err := json.Unmarshal(val, &s); err != nil {
		return nil, fmt.Errorf("session: decode: %w", err)
	}
	return &s, nil
}

// Update rewrites an existing session with a TTL derived from its new
// expiry. A session that is already gone stays gone; one whose expiry
// has passed is deleted.
func (r *RedisStore) Update(ctx context.Context, s Session) error {
	if s.SessionID == "" {
		return fmt.Errorf("session: missing session_id")
	}

	ok, err := r.write(ctx, s, true)
	if err != nil {
		return err
	}
	if !ok {
		return r.Delete(ctx, s.SessionID)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("session: delete: %w", err)
	}
	return nil
}

// write stores s with SET (or SET XX when existingOnly). It reports
// false without touching Redis when s has already expired.
func (r *RedisStore) write(ctx context.Context, s Session, existingOnly bool) (bool, error) {
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return false, nil
	}

	data, err := json.Marshal(s)
	if err != nil {
		return false, fmt.Errorf("session: encode: %w", err)
	}

	if existingOnly {
		err = r.client.SetXX(ctx, r.key(s.SessionID), data, ttl).Err()
	} else {
		err = r.client.Set(ctx, r.key(s.SessionID), data, ttl).Err()
	}
	if err != nil {
		return false, fmt.Errorf("session: set: %w", err)
	}
	return true, nil
}
