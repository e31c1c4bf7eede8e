package handler

import (
	"net/http"

	"github.com/abdelrhman-sys/MoviX-API/internal/apperror"
	"github.com/abdelrhman-sys/MoviX-API/internal/logger"
	"github.com/abdelrhman-sys/MoviX-API/internal/middleware"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, apperror.Validation("", "Invalid request body"))
		return
	}

	ctx := c.Request.Context()

	u, err := h.credentials.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	snap, err := h.accounts.Snapshot(ctx, u)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	if _, err := h.sessions.Start(ctx, c.Writer, c.Request, u.ID); err != nil {
		middleware.RespondError(c, apperror.Store("Failed establishing session", err))
		return
	}

	logger.Info("login success", map[string]any{
		"provider": "local",
		"user_id":  u.ID,
		"ip":       c.ClientIP(),
	})

	c.JSON(http.StatusOK, snap)
}
