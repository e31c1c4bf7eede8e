package handler

import (
	"net/http"

	"github.com/abdelrhman-sys/MoviX-API/internal/account"
	"github.com/abdelrhman-sys/MoviX-API/internal/auth/credentials"
	"github.com/abdelrhman-sys/MoviX-API/internal/auth/provider"
	"github.com/abdelrhman-sys/MoviX-API/internal/auth/resolver"
	"github.com/abdelrhman-sys/MoviX-API/internal/logger"
	"github.com/abdelrhman-sys/MoviX-API/internal/middleware"
	"github.com/abdelrhman-sys/MoviX-API/internal/session"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	Providers   *provider.Registry
	Sessions    *session.Manager
	Resolver    resolver.Resolver
	Credentials *credentials.Service
	Accounts    *account.Service

	// FrontendURL receives the browser after a successful OAuth login.
	FrontendURL string
	// SecureCookies marks the short-lived OAuth cookies Secure.
	SecureCookies bool
}

// Handler serves every route that moves a client between the anonymous
// and authenticated states.
type Handler struct {
	providers     *provider.Registry
	sessions      *session.Manager
	resolver      resolver.Resolver
	credentials   *credentials.Service
	accounts      *account.Service
	frontendURL   string
	secureCookies bool
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		providers:     d.Providers,
		sessions:      d.Sessions,
		resolver:      d.Resolver,
		credentials:   d.Credentials,
		accounts:      d.Accounts,
		frontendURL:   d.FrontendURL,
		secureCookies: d.SecureCookies,
	}
}

// RegisterRoutes mounts the auth routes on r. r must already run
// middleware.GinResolve.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	for _, name := range h.providers.Names() {
		p, _ := h.providers.Get(name)
		r.GET("/api/"+name+"/user", h.login(p))
		r.GET("/api/"+name+"/callback", h.callback(p))
	}
	r.POST("/api/local/user", h.Login)
	r.POST("/api/newuser", middleware.GinRequireAnonymous(), h.Register)
	r.GET("/api/logout", middleware.GinRequireAuth(), h.Logout)
}

func (h *Handler) Logout(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	if err := h.sessions.End(c.Request.Context(), c.Writer, c.Request); err != nil {
		logger.Error("logout failed", map[string]any{
			"user_id": p.User.ID,
			"error":   err.Error(),
		})
		c.String(http.StatusBadRequest, "Failed logging out")
		return
	}

	logger.Info("user logged out", map[string]any{
		"user_id": p.User.ID,
		"ip":      c.ClientIP(),
	})
	c.String(http.StatusOK, "User logged out")
}
