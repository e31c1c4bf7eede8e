package middleware

import (
	"time"

	"github.com/abdelrhman-sys/MoviX-API/internal/logger"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request after it completes. It must run
// before GinResolve so the logged user id reflects the resolved session.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := map[string]any{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"bytes":    c.Writer.Size(),
			"ip":       c.ClientIP(),
		}
		if p, ok := CurrentPrincipal(c); ok {
			fields["user_id"] = p.User.ID
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			logger.Error("request completed", fields)
		case status >= 400:
			logger.Warn("request completed", fields)
		default:
			logger.Info("request completed", fields)
		}
	}
}
