package middleware

import (
	"github.com/abdelrhman-sys/MoviX-API/internal/apperror"
	"github.com/abdelrhman-sys/MoviX-API/internal/logger"

	"github.com/gin-gonic/gin"
)

// RespondError writes err as a plain-text response. Server-side failures
// are logged with their cause; the client only sees the AppError message.
func RespondError(c *gin.Context, err error) {
	status := apperror.HTTPStatus(err)

	if status >= 500 {
		fields := map[string]any{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"error":  err.Error(),
		}
		if p, ok := CurrentPrincipal(c); ok {
			fields["user_id"] = p.User.ID
		}
		logger.Error("request failed", fields)
	}

	c.String(status, apperror.Message(err))
	c.Abort()
}
