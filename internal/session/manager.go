package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var ErrInvalidTTL = errors.New("session: ttl must be positive")

type ManagerOptions struct {
	// TTL is the lifetime of a new session and, when Rolling is set, the
	// idle window each request slides forward.
	TTL time.Duration
	// AbsoluteTTL caps a rolling session. Ignored when Rolling is false.
	AbsoluteTTL time.Duration
	Rolling     bool
	Cookie      CookieOptions
}

// Manager drives the Anonymous/Authenticated transitions: it owns the
// server-side record and the cookie that points at it.
type Manager struct {
	store Store
	opts  ManagerOptions
	now   func() time.Time
}

func NewManager(store Store, opts ManagerOptions) (*Manager, error) {
	if opts.TTL <= 0 {
		return nil, ErrInvalidTTL
	}
	if !opts.Rolling || opts.AbsoluteTTL < opts.TTL {
		opts.AbsoluteTTL = opts.TTL
	}
	opts.Cookie = opts.Cookie.normalize()

	return &Manager{store: store, opts: opts, now: time.Now}, nil
}

// Store exposes the backing store, e.g. for the purge worker.
func (m *Manager) Store() Store {
	return m.store
}

// Start authenticates the client as userID. Any session the request
// already carried is discarded so a login always yields a fresh id.
func (m *Manager) Start(ctx context.Context, w http.ResponseWriter, r *http.Request, userID string) (*Session, error) {
	if old, ok := ReadCookie(r, m.opts.Cookie); ok {
		_ = m.store.Delete(ctx, old)
	}

	sessionID, err := GenerateID()
	if err != nil {
		return nil, err
	}

	now := m.now()
	sess := Session{
		SessionID:         sessionID,
		UserID:            userID,
		CreatedAt:         now,
		ExpiresAt:         now.Add(m.opts.TTL),
		AbsoluteExpiresAt: now.Add(m.opts.AbsoluteTTL),
	}

	if err := m.store.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("session: persist: %w", err)
	}

	SetCookie(w, sess.SessionID, sess.ExpiresAt, m.opts.Cookie)
	return &sess, nil
}

// Load returns the live session named by the request cookie, or nil when
// the client is anonymous. Expired records are deleted on sight.
func (m *Manager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	sessionID, ok := ReadCookie(r, m.opts.Cookie)
	if !ok {
		return nil, nil
	}

	sess, err := m.store.Get(ctx, sessionID)
	if err != nil || sess == nil {
		return nil, err
	}

	if sess.Expired(m.now()) {
		_ = m.store.Delete(ctx, sessionID)
		return nil, nil
	}
	return sess, nil
}

// Touch slides a rolling session forward, never past its absolute expiry.
// It is a no-op for fixed sessions.
func (m *Manager) Touch(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	if !m.opts.Rolling || sess == nil {
		return nil
	}

	next := m.now().Add(m.opts.TTL)
	if next.After(sess.AbsoluteExpiresAt) {
		next = sess.AbsoluteExpiresAt
	}
	if !next.After(sess.ExpiresAt) {
		return nil
	}

	sess.ExpiresAt = next
	if err := m.store.Update(ctx, *sess); err != nil {
		return fmt.Errorf("session: refresh: %w", err)
	}

	SetCookie(w, sess.SessionID, sess.ExpiresAt, m.opts.Cookie)
	return nil
}

// End destroys the session named by the request cookie and tells the
// client to drop it. The cookie is cleared even when the delete fails.
func (m *Manager) End(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	defer ClearCookie(w, m.opts.Cookie)

	sessionID, ok := ReadCookie(r, m.opts.Cookie)
	if !ok {
		return nil
	}
	if err := m.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("session: delete: %w", err)
	}
	return nil
}

// Discard removes a session record without touching any cookie.
func (m *Manager) Discard(ctx context.Context, sessionID string) error {
	return m.store.Delete(ctx, sessionID)
}
