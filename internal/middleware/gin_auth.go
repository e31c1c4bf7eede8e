package middleware

import (
	"net/http"

	"github.com/abdelrhman-sys/MoviX-API/internal/apperror"

	"github.com/gin-gonic/gin"
)

// GinResolve adapts the net/http AuthMiddleware.Resolve to Gin so the
// principal lands on c.Request's context before any handler runs.
func GinResolve(auth *AuthMiddleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		called := false

		// Bridge handler to allow net/http middleware execution
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			c.Request = r
			c.Next()
		})

		auth.Resolve(next).ServeHTTP(c.Writer, c.Request)

		if !called {
			c.Abort()
		}
	}
}

// GinRequireAuth stops anonymous requests with 401. When the caller could
// not be resolved because a store failed, it answers 500 instead.
func GinRequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentPrincipal(c); !ok {
			if err := LookupErrorFromContext(c.Request.Context()); err != nil {
				RespondError(c, apperror.Store("Error loading session", err))
				return
			}
			c.String(http.StatusUnauthorized, "Not authenticated")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GinRequireAnonymous stops already authenticated requests with 400.
func GinRequireAnonymous() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentPrincipal(c); ok {
			c.String(http.StatusBadRequest, "You are already signed in")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentPrincipal returns the caller resolved by GinResolve.
func CurrentPrincipal(c *gin.Context) (*Principal, bool) {
	return PrincipalFromContext(c.Request.Context())
}
