package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/abdelrhman-sys/MoviX-API/internal/account"
	"github.com/abdelrhman-sys/MoviX-API/internal/auth"
	"github.com/abdelrhman-sys/MoviX-API/internal/auth/credentials"
	"github.com/abdelrhman-sys/MoviX-API/internal/auth/handler"
	"github.com/abdelrhman-sys/MoviX-API/internal/auth/provider"
	"github.com/abdelrhman-sys/MoviX-API/internal/auth/resolver"
	"github.com/abdelrhman-sys/MoviX-API/internal/middleware"
	"github.com/abdelrhman-sys/MoviX-API/internal/session"
	"github.com/abdelrhman-sys/MoviX-API/internal/shows"
	"github.com/abdelrhman-sys/MoviX-API/internal/testsupport"
	"github.com/abdelrhman-sys/MoviX-API/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const frontendURL = "http://localhost:5173"

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeProvider accepts the code "good" and records the verifier it saw.
type fakeProvider struct {
	identity     auth.Identity
	lastVerifier string
}

func (p *fakeProvider) Name() string { return "google" }

func (p *fakeProvider) AuthCodeURL(state, challenge string) string {
	q := url.Values{"state": {state}, "code_challenge": {challenge}}
	return "https://accounts.test/auth?" + q.Encode()
}

func (p *fakeProvider) ExchangeCode(_ context.Context, code, verifier string) (*auth.Identity, error) {
	p.lastVerifier = verifier
	if code != "good" {
		return nil, errors.New("invalid_grant")
	}
	id := p.identity
	return &id, nil
}

type fixture struct {
	router   *gin.Engine
	users    *testsupport.UserRepo
	fav      *testsupport.ShowRepo
	sessions *session.Manager
	store    *session.MemoryStore
	google   *fakeProvider
	hasher   credentials.Hasher
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	f := fixture{
		users:  testsupport.NewUserRepo(),
		fav:    testsupport.NewShowRepo(),
		hasher: credentials.Hasher{Cost: bcrypt.MinCost},
		google: &fakeProvider{identity: auth.Identity{
			Provider:      "google",
			Email:         "mona@gmail.com",
			EmailVerified: true,
			GivenName:     "Mona",
			FamilyName:    "Hassan",
		}},
	}
	f.sessions, f.store = testsupport.NewSessionManager(t, session.ManagerOptions{})

	favorites := shows.NewService(shows.Favorites, f.fav)
	later := shows.NewService(shows.Later, testsupport.NewShowRepo())

	h := handler.NewHandler(handler.Deps{
		Providers:   provider.NewRegistry(f.google),
		Sessions:    f.sessions,
		Resolver:    resolver.NewUserResolver(f.users),
		Credentials: credentials.NewService(f.users, f.hasher),
		Accounts: account.NewService(account.Deps{
			Users:     f.users,
			Favorites: favorites,
			Later:     later,
			Tx:        &testsupport.Transactor{},
			Hasher:    f.hasher,
		}),
		FrontendURL: frontendURL,
	})

	f.router = gin.New()
	f.router.Use(middleware.GinResolve(middleware.NewAuthMiddleware(f.sessions, f.users)))
	h.RegisterRoutes(f.router)
	return f
}

func (f fixture) seedLocal(t *testing.T, email, password string) *users.User {
	t.Helper()
	hash, err := f.hasher.Hash(password)
	require.NoError(t, err)
	return f.users.Seed(users.User{Email: email, PasswordHash: hash, FirstName: "Ahmed"})
}

func (f fixture) do(method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLocalLoginReturnsSnapshotAndCookie(t *testing.T) {
	f := newFixture(t)
	u := f.seedLocal(t, "ahmed@example.com", "s3cret")
	require.NoError(t, f.fav.Add(context.Background(), u.ID, shows.Entry{
		ShowID: "603", ShowType: "movie", ShowPoster: "/p.jpg", ShowName: "The Matrix",
	}))

	rec := f.do(http.MethodPost, "/api/local/user", `{"email":"Ahmed@Example.com","password":"s3cret"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body account.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, u.ID, body.User.UserID)
	assert.Len(t, body.FavShows, 1)
	assert.NotNil(t, body.LaterShows)
	assert.NotContains(t, rec.Body.String(), "password")

	assert.NotNil(t, cookieNamed(rec, "session"))
	assert.Equal(t, 1, f.store.Len())
}

func TestLocalLoginFailures(t *testing.T) {
	f := newFixture(t)
	f.seedLocal(t, "ahmed@example.com", "s3cret")

	rec := f.do(http.MethodPost, "/api/local/user", `{"email":"ahmed@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", rec.Body.String())

	rec = f.do(http.MethodPost, "/api/local/user", `{"email":"ghost@example.com","password":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User is not found", rec.Body.String())

	assert.Equal(t, 0, f.store.Len())
}

func TestLocalLoginSnapshotFailureStartsNoSession(t *testing.T) {
	f := newFixture(t)
	f.seedLocal(t, "ahmed@example.com", "s3cret")
	f.fav.Err = errors.New("connection reset")

	rec := f.do(http.MethodPost, "/api/local/user", `{"email":"ahmed@example.com","password":"s3cret"}`)

	assert.GreaterOrEqual(t, rec.Code, http.StatusInternalServerError)
	assert.Nil(t, cookieNamed(rec, "session"))
	assert.Equal(t, 0, f.store.Len())
}

func TestOAuthUserCannotLogInLocally(t *testing.T) {
	f := newFixture(t)
	f.users.Seed(users.User{Email: "g@example.com", PasswordHash: credentials.OAuthPasswordMarker})

	rec := f.do(http.MethodPost, "/api/local/user", `{"email":"g@example.com","password":"!oauth"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterStartsSession(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/newuser",
		`{"email":"new@example.com","password":"pw","firstName":"Nour","secName":"Ali","pic":""}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.JSONEq(t, `[]`, string(body["favShows"]))
	assert.JSONEq(t, `[]`, string(body["laterShows"]))
	assert.Contains(t, string(body["user"]), `"first_name":"Nour"`)

	cookie := cookieNamed(rec, "session")
	require.NotNil(t, cookie)

	// registering again while signed in is refused
	rec = f.do(http.MethodPost, "/api/newuser", `{"email":"other@example.com","password":"pw"}`, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "You are already signed in", rec.Body.String())
	assert.Equal(t, 1, f.users.Len())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.seedLocal(t, "ahmed@example.com", "s3cret")

	rec := f.do(http.MethodPost, "/api/newuser", `{"email":"AHMED@example.com","password":"pw"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "User is already found", rec.Body.String())
	assert.Equal(t, 1, f.users.Len())
	assert.Nil(t, cookieNamed(rec, "session"))
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	u := f.seedLocal(t, "ahmed@example.com", "s3cret")
	cookie := testsupport.Login(t, f.sessions, u.ID)

	rec := f.do(http.MethodGet, "/api/logout", "", cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User logged out", rec.Body.String())
	assert.Equal(t, 0, f.store.Len())

	cleared := cookieNamed(rec, "session")
	require.NotNil(t, cleared)
	assert.Equal(t, -1, cleared.MaxAge)

	rec = f.do(http.MethodGet, "/api/logout", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// startGoogleLogin runs the redirect leg and returns the state plus the
// flow cookies the browser would hold.
func startGoogleLogin(t *testing.T, f fixture) (string, []*http.Cookie) {
	t.Helper()

	rec := f.do(http.MethodGet, "/api/google/user", "")
	require.Equal(t, http.StatusFound, rec.Code)

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "accounts.test", loc.Host)

	state := cookieNamed(rec, "__oauth_state")
	pkce := cookieNamed(rec, "__oauth_pkce")
	require.NotNil(t, state)
	require.NotNil(t, pkce)
	assert.Equal(t, state.Value, loc.Query().Get("state"))
	assert.NotEqual(t, pkce.Value, loc.Query().Get("code_challenge"), "verifier never leaves the browser cookie")

	return state.Value, []*http.Cookie{state, pkce}
}

func TestGoogleCallbackCreatesUserOnce(t *testing.T) {
	f := newFixture(t)

	var ids []string
	for i := 0; i < 2; i++ {
		state, cookies := startGoogleLogin(t, f)

		rec := f.do(http.MethodGet, "/api/google/callback?code=good&state="+url.QueryEscape(state), "", cookies...)
		require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())
		assert.Equal(t, frontendURL, rec.Header().Get("Location"))
		assert.Equal(t, cookies[1].Value, f.google.lastVerifier)
		require.NotNil(t, cookieNamed(rec, "session"))

		u, err := f.users.GetByEmail(context.Background(), "mona@gmail.com")
		require.NoError(t, err)
		ids = append(ids, u.ID)
		assert.Equal(t, credentials.OAuthPasswordMarker, u.PasswordHash)
	}

	assert.Equal(t, ids[0], ids[1])
	assert.Equal(t, 1, f.users.Len())
}

func TestGoogleCallbackRejects(t *testing.T) {
	f := newFixture(t)

	t.Run("state mismatch", func(t *testing.T) {
		_, cookies := startGoogleLogin(t, f)
		rec := f.do(http.MethodGet, "/api/google/callback?code=good&state=forged", "", cookies...)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "User not authenticated", rec.Body.String())
	})

	t.Run("provider error", func(t *testing.T) {
		state, cookies := startGoogleLogin(t, f)
		rec := f.do(http.MethodGet, "/api/google/callback?error=access_denied&state="+url.QueryEscape(state), "", cookies...)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bad code", func(t *testing.T) {
		state, cookies := startGoogleLogin(t, f)
		rec := f.do(http.MethodGet, "/api/google/callback?code=bad&state="+url.QueryEscape(state), "", cookies...)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	assert.Equal(t, 0, f.users.Len())
	assert.Equal(t, 0, f.store.Len())
}
