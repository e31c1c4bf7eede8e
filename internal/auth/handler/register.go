package handler

import (
	"net/http"

	"github.com/abdelrhman-sys/MoviX-API/internal/account"
	"github.com/abdelrhman-sys/MoviX-API/internal/apperror"
	"github.com/abdelrhman-sys/MoviX-API/internal/auth/credentials"
	"github.com/abdelrhman-sys/MoviX-API/internal/logger"
	"github.com/abdelrhman-sys/MoviX-API/internal/middleware"
	"github.com/abdelrhman-sys/MoviX-API/internal/shows"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	SecName   string `json:"secName"`
	Pic       string `json:"pic"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, apperror.Validation("", "Invalid request body"))
		return
	}

	ctx := c.Request.Context()

	u, err := h.credentials.Register(ctx, credentials.RegisterInput{
		Email:      req.Email,
		Password:   req.Password,
		FirstName:  req.FirstName,
		SecName:    req.SecName,
		ProfilePic: req.Pic,
	})
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	if _, err := h.sessions.Start(ctx, c.Writer, c.Request, u.ID); err != nil {
		middleware.RespondError(c, apperror.Store("Failed establishing session", err))
		return
	}

	logger.Info("user registered", map[string]any{
		"user_id": u.ID,
		"ip":      c.ClientIP(),
	})

	// a new account has empty collections
	c.JSON(http.StatusCreated, account.Snapshot{
		FavShows:   []shows.Entry{},
		LaterShows: []shows.Entry{},
		User:       u.Profile(),
	})
}
