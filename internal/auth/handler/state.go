package handler

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/abdelrhman-sys/MoviX-API/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	stateCookieName = "__oauth_state"
	stateTTL        = 5 * time.Minute
)

func (h *Handler) generateState(c *gin.Context) (string, error) {
	state, err := utils.RandomString(32)
	if err != nil {
		return "", err
	}

	h.setFlowCookie(c, stateCookieName, state, stateTTL)
	return state, nil
}

// validateState compares the query state with the cookie and consumes
// the cookie either way.
func (h *Handler) validateState(c *gin.Context) bool {
	cookie, err := c.Request.Cookie(stateCookieName)
	h.setFlowCookie(c, stateCookieName, "", -1)

	stateQuery := c.Query("state")
	if stateQuery == "" || err != nil {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(stateQuery)) == 1
}

// setFlowCookie writes one of the short-lived OAuth flow cookies. A
// negative ttl deletes it. SameSite=Lax lets the cookie ride along on the
// provider's top-level redirect back to us.
func (h *Handler) setFlowCookie(c *gin.Context, name, value string, ttl time.Duration) {
	maxAge := int(ttl.Seconds())
	if ttl < 0 {
		maxAge = -1
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}
