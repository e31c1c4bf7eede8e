package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/abdelrhman-sys/MoviX-API/internal/auth/credentials"
	"github.com/abdelrhman-sys/MoviX-API/internal/config"
	"github.com/abdelrhman-sys/MoviX-API/internal/session"
	"github.com/abdelrhman-sys/MoviX-API/internal/testsupport"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() config.Config {
	return config.Config{
		FrontendURL:    "http://localhost:5173",
		AllowedOrigins: []string{"http://localhost:5173"},
		Session: config.SessionConfig{
			TTL:          168 * time.Hour,
			CookieSecure: false,
		},
		Storage: config.StorageConfig{SignedURLTTL: 2 * time.Hour},
	}
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router, _, err := newRouter(testConfig(), components{
		Users:     testsupport.NewUserRepo(),
		Favorites: testsupport.NewShowRepo(),
		Later:     testsupport.NewShowRepo(),
		Tx:        &testsupport.Transactor{},
		Sessions:  session.NewMemoryStore(),
		Blobs:     testsupport.NewBlobStore(),
		Hasher:    credentials.Hasher{Cost: bcrypt.MinCost},
	})
	require.NoError(t, err)
	return router
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := serve(newTestRouter(t), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCORSAllowsFrontendWithCredentials(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/user", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)

	rec := serve(newTestRouter(t), req)

	assert.Less(t, rec.Code, 300)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")

	rec := serve(newTestRouter(t), req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGoogleRoutesAbsentWhenDisabled(t *testing.T) {
	rec := serve(newTestRouter(t), httptest.NewRequest(http.MethodGet, "/api/google/user", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Resource not found", rec.Body.String())
}

func TestRegisterThenFetchUser(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/newuser",
		strings.NewReader(`{"email":"nour@example.com","password":"pw","firstName":"Nour","secName":"Ali"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(router, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session", cookies[0].Name)

	req = httptest.NewRequest(http.MethodGet, "/api/user", nil)
	req.AddCookie(&http.Cookie{Name: cookies[0].Name, Value: cookies[0].Value})
	rec = serve(router, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"nour@example.com"`)
	assert.Contains(t, rec.Body.String(), `"favShows":[]`)
}
