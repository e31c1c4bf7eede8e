package handler

import (
	"crypto/sha256"
	"encoding/base64"
	"time"

	"github.com/abdelrhman-sys/MoviX-API/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	pkceCookieName = "__oauth_pkce"
	pkceTTL        = 5 * time.Minute
)

func (h *Handler) generatePKCE(c *gin.Context) (verifier string, challenge string, err error) {
	verifier, err = utils.RandomString(32)
	if err != nil {
		return "", "", err
	}

	challenge = pkceChallenge(verifier)

	h.setFlowCookie(c, pkceCookieName, verifier, pkceTTL)
	return verifier, challenge, nil
}

// pkceChallenge is the S256 transform of RFC 7636.
func pkceChallenge(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}

// getPKCEVerifier returns the verifier cookie and consumes it.
func (h *Handler) getPKCEVerifier(c *gin.Context) string {
	cookie, err := c.Request.Cookie(pkceCookieName)
	h.setFlowCookie(c, pkceCookieName, "", -1)
	if err != nil {
		return ""
	}
	return cookie.Value
}
