package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	t time.Time
}

func (c *clock) Now() time.Time { return c.t }

func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestManager(t *testing.T, opts ManagerOptions) (*Manager, *MemoryStore, *clock) {
	t.Helper()
	c := &clock{t: time.Now()}
	store := NewMemoryStore()
	store.now = c.Now

	m, err := NewManager(store, opts)
	require.NoError(t, err)
	m.now = c.Now
	return m, store, c
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func requestWithCookie(c *http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	if c != nil {
		r.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	return r
}

func TestNewManagerRejectsZeroTTL(t *testing.T) {
	_, err := NewManager(NewMemoryStore(), ManagerOptions{})
	assert.ErrorIs(t, err, ErrInvalidTTL)
}

func TestStartSetsSecureCrossSiteCookie(t *testing.T) {
	m, _, _ := newTestManager(t, ManagerOptions{TTL: 7 * 24 * time.Hour, Cookie: DefaultCookieOptions(true)})

	rec := httptest.NewRecorder()
	sess, err := m.Start(context.Background(), rec, httptest.NewRequest(http.MethodPost, "/api/local/user", nil), "u1")
	require.NoError(t, err)

	c := sessionCookie(t, rec, CookieName)
	assert.Equal(t, sess.SessionID, c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteNoneMode, c.SameSite)
	assert.Equal(t, "/", c.Path)
	assert.InDelta(t, (7 * 24 * time.Hour).Seconds(), float64(c.MaxAge), 5)
}

func TestLoadResolvesAuthenticatedAndAnonymous(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(t, ManagerOptions{TTL: time.Hour})

	rec := httptest.NewRecorder()
	_, err := m.Start(ctx, rec, httptest.NewRequest(http.MethodPost, "/", nil), "u1")
	require.NoError(t, err)

	sess, err := m.Load(ctx, requestWithCookie(sessionCookie(t, rec, CookieName)))
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "u1", sess.UserID)

	sess, err = m.Load(ctx, requestWithCookie(nil))
	require.NoError(t, err)
	assert.Nil(t, sess, "no cookie is anonymous")

	sess, err = m.Load(ctx, requestWithCookie(&http.Cookie{Name: CookieName, Value: "forged"}))
	require.NoError(t, err)
	assert.Nil(t, sess, "unknown id is anonymous")
}

func TestLoadTreatsExpiredAsAnonymous(t *testing.T) {
	ctx := context.Background()
	m, store, c := newTestManager(t, ManagerOptions{TTL: time.Hour})

	rec := httptest.NewRecorder()
	_, err := m.Start(ctx, rec, httptest.NewRequest(http.MethodPost, "/", nil), "u1")
	require.NoError(t, err)

	c.Advance(2 * time.Hour)

	sess, err := m.Load(ctx, requestWithCookie(sessionCookie(t, rec, CookieName)))
	require.NoError(t, err)
	assert.Nil(t, sess)
	assert.Equal(t, 1, store.Len(), "memory store keeps the record until the sweep")
}

func TestStartRotatesExistingSession(t *testing.T) {
	ctx := context.Background()
	m, store, _ := newTestManager(t, ManagerOptions{TTL: time.Hour})

	first := httptest.NewRecorder()
	_, err := m.Start(ctx, first, httptest.NewRequest(http.MethodPost, "/", nil), "u1")
	require.NoError(t, err)

	second := httptest.NewRecorder()
	_, err = m.Start(ctx, second, requestWithCookie(sessionCookie(t, first, CookieName)), "u1")
	require.NoError(t, err)

	assert.Equal(t, 1, store.Len())
	assert.NotEqual(t, sessionCookie(t, first, CookieName).Value, sessionCookie(t, second, CookieName).Value)
}

func TestEndDeletesAndClearsCookie(t *testing.T) {
	ctx := context.Background()
	m, store, _ := newTestManager(t, ManagerOptions{TTL: time.Hour})

	rec := httptest.NewRecorder()
	_, err := m.Start(ctx, rec, httptest.NewRequest(http.MethodPost, "/", nil), "u1")
	require.NoError(t, err)

	out := httptest.NewRecorder()
	require.NoError(t, m.End(ctx, out, requestWithCookie(sessionCookie(t, rec, CookieName))))

	assert.Equal(t, 0, store.Len())
	cleared := sessionCookie(t, out, CookieName)
	assert.Empty(t, cleared.Value)
	assert.Equal(t, -1, cleared.MaxAge)
}

func TestTouchFixedSessionIsNoop(t *testing.T) {
	ctx := context.Background()
	m, _, c := newTestManager(t, ManagerOptions{TTL: time.Hour})

	sess, err := m.Start(ctx, httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil), "u1")
	require.NoError(t, err)
	expires := sess.ExpiresAt

	c.Advance(30 * time.Minute)
	rec := httptest.NewRecorder()
	require.NoError(t, m.Touch(ctx, rec, sess))

	assert.Equal(t, expires, sess.ExpiresAt)
	assert.Empty(t, rec.Result().Cookies())
}

func TestTouchRollingSessionIsCappedByAbsoluteExpiry(t *testing.T) {
	ctx := context.Background()
	m, store, c := newTestManager(t, ManagerOptions{TTL: time.Hour, AbsoluteTTL: 90 * time.Minute, Rolling: true})

	sess, err := m.Start(ctx, httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil), "u1")
	require.NoError(t, err)
	absolute := sess.AbsoluteExpiresAt

	c.Advance(20 * time.Minute)
	rec := httptest.NewRecorder()
	require.NoError(t, m.Touch(ctx, rec, sess))
	assert.Equal(t, c.Now().Add(time.Hour), sess.ExpiresAt)
	assert.NotEmpty(t, rec.Result().Cookies())

	c.Advance(50 * time.Minute)
	require.NoError(t, m.Touch(ctx, httptest.NewRecorder(), sess))
	assert.Equal(t, absolute, sess.ExpiresAt)

	stored, err := store.Get(ctx, sess.SessionID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, absolute, stored.ExpiresAt)

	c.Advance(21 * time.Minute)
	stored, err = store.Get(ctx, sess.SessionID)
	require.NoError(t, err)
	assert.Nil(t, stored, "rolling sessions never outlive the absolute expiry")
}

func TestInsecureCookieName(t *testing.T) {
	m, _, _ := newTestManager(t, ManagerOptions{TTL: time.Hour, Cookie: DefaultCookieOptions(false)})

	rec := httptest.NewRecorder()
	_, err := m.Start(context.Background(), rec, httptest.NewRequest(http.MethodPost, "/", nil), "u1")
	require.NoError(t, err)

	c := sessionCookie(t, rec, "session")
	assert.False(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
}
