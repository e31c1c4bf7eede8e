package testsupport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abdelrhman-sys/MoviX-API/internal/session"

	"github.com/stretchr/testify/require"
)

// NewSessionManager returns a manager over a fresh MemoryStore issuing
// plain-HTTP cookies, which httptest requests can carry.
func NewSessionManager(t *testing.T, opts session.ManagerOptions) (*session.Manager, *session.MemoryStore) {
	t.Helper()

	if opts.TTL == 0 {
		opts.TTL = time.Hour
	}
	if opts.Cookie.Name == "" {
		opts.Cookie = session.DefaultCookieOptions(false)
	}

	store := session.NewMemoryStore()
	m, err := session.NewManager(store, opts)
	require.NoError(t, err)
	return m, store
}

// Login starts a session for userID and returns the cookie the client
// would send back.
func Login(t *testing.T, m *session.Manager, userID string) *http.Cookie {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/local/user", nil)
	_, err := m.Start(context.Background(), rec, req, userID)
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return &http.Cookie{Name: cookies[0].Name, Value: cookies[0].Value}
}
