package handler

import (
	"net/http"

	"github.com/abdelrhman-sys/MoviX-API/internal/auth/provider"
	"github.com/abdelrhman-sys/MoviX-API/internal/logger"

	"github.com/gin-gonic/gin"
)

// login redirects the browser to the provider's consent page.
func (h *Handler) login(p provider.OAuthProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		state, err := h.generateState(c)
		if err != nil {
			c.String(http.StatusInternalServerError, "Failed starting login")
			return
		}
		_, codeChallenge, err := h.generatePKCE(c)
		if err != nil {
			c.String(http.StatusInternalServerError, "Failed starting login")
			return
		}

		c.Redirect(http.StatusFound, p.AuthCodeURL(state, codeChallenge))
	}
}

func (h *Handler) callback(p provider.OAuthProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		providerName := p.Name()

		// state and verifier are single use
		stateOK := h.validateState(c)
		codeVerifier := h.getPKCEVerifier(c)

		if !stateOK {
			h.rejectCallback(c, providerName, "invalid state")
			return
		}

		// CASE 1: provider reported an error (user cancelled consent, etc.)
		if errParam := c.Query("error"); errParam != "" {
			logger.Warn("oidc callback returned error", map[string]any{
				"provider": providerName,
				"error":    errParam,
				"desc":     c.Query("error_description"),
			})
			h.rejectCallback(c, providerName, "provider error")
			return
		}

		// CASE 2: Normal OAuth callback
		code := c.Query("code")
		if code == "" || codeVerifier == "" {
			h.rejectCallback(c, providerName, "missing code or pkce verifier")
			return
		}

		ctx := c.Request.Context()

		identity, err := p.ExchangeCode(ctx, code, codeVerifier)
		if err != nil {
			h.rejectCallback(c, providerName, err.Error())
			return
		}

		u, err := h.resolver.Resolve(ctx, identity)
		if err != nil {
			logger.Error("failed to resolve oauth user", map[string]any{
				"provider": providerName,
				"error":    err.Error(),
			})
			c.String(http.StatusInternalServerError, "Failed establishing session")
			return
		}

		if _, err := h.sessions.Start(ctx, c.Writer, c.Request, u.ID); err != nil {
			logger.Error("failed to persist session", map[string]any{
				"user_id": u.ID,
				"error":   err.Error(),
			})
			c.String(http.StatusInternalServerError, "Failed establishing session")
			return
		}

		logger.Info("login success", map[string]any{
			"provider": providerName,
			"user_id":  u.ID,
			"ip":       c.ClientIP(),
		})

		c.Redirect(http.StatusFound, h.frontendURL)
	}
}

func (h *Handler) rejectCallback(c *gin.Context, providerName, reason string) {
	logger.Warn("oauth callback rejected", map[string]any{
		"provider": providerName,
		"reason":   reason,
		"ip":       c.ClientIP(),
	})
	c.String(http.StatusUnauthorized, "User not authenticated")
}
