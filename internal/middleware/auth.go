package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/abdelrhman-sys/MoviX-API/internal/logger"
	"github.com/abdelrhman-sys/MoviX-API/internal/session"
	"github.com/abdelrhman-sys/MoviX-API/internal/users"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	User    *users.User
	Session *session.Session
}

// unexported, collision-proof context key
type principalContextKeyType struct{}

var principalKey = principalContextKeyType{}

type lookupErrorContextKeyType struct{}

var lookupErrorKey = lookupErrorContextKeyType{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext extracts the authenticated caller from context.
// ok is false for anonymous requests.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok && p != nil
}

// LookupErrorFromContext returns the store failure that kept Resolve from
// deciding who the caller is, if any.
func LookupErrorFromContext(ctx context.Context) error {
	err, _ := ctx.Value(lookupErrorKey).(error)
	return err
}

// UserLoader is the slice of the user repository the middleware needs.
type UserLoader interface {
	GetByID(ctx context.Context, id string) (*users.User, error)
}

type AuthMiddleware struct {
	sessions *session.Manager
	users    UserLoader
}

func NewAuthMiddleware(sessions *session.Manager, users UserLoader) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions, users: users}
}

// Resolve turns the session cookie into a Principal on the request context.
// It never rejects: a missing or stale session leaves the request anonymous.
// A store failure also leaves it anonymous but is recorded on the context,
// so the route guards can answer 5xx instead of 401.
func (a *AuthMiddleware) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := a.principal(w, r)
		switch {
		case err != nil:
			r = r.WithContext(context.WithValue(r.Context(), lookupErrorKey, err))
		case p != nil:
			r = r.WithContext(WithPrincipal(r.Context(), p))
		}
		next.ServeHTTP(w, r)
	})
}

func (a *AuthMiddleware) principal(w http.ResponseWriter, r *http.Request) (*Principal, error) {
	ctx := r.Context()

	// 1. Cookie -> live session
	sess, err := a.sessions.Load(ctx, r)
	if err != nil {
		logger.Warn("session lookup failed", map[string]any{
			"path":  r.URL.Path,
			"error": err.Error(),
		})
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}

	// 2. Session -> user, re-read on every request
	u, err := a.users.GetByID(ctx, sess.UserID)
	if errors.Is(err, users.ErrNotFound) {
		_ = a.sessions.Discard(ctx, sess.SessionID)
		logger.Info("session dropped for missing user", map[string]any{
			"user_id": sess.UserID,
		})
		return nil, nil
	}
	if err != nil {
		logger.Error("user lookup failed", map[string]any{
			"user_id": sess.UserID,
			"error":   err.Error(),
		})
		return nil, err
	}

	// 3. Rolling sessions slide forward
	if err := a.sessions.Touch(ctx, w, sess); err != nil {
		logger.Warn("session refresh failed", map[string]any{
			"user_id": u.ID,
			"error":   err.Error(),
		})
	}

	return &Principal{User: u, Session: sess}, nil
}
