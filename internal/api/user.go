package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/abdelrhman-sys/MoviX-API/internal/apperror"
	"github.com/abdelrhman-sys/MoviX-API/internal/middleware"
	"github.com/abdelrhman-sys/MoviX-API/internal/users"

	"github.com/gin-gonic/gin"
)

func (h *Handler) getUser(c *gin.Context) {
	snap, err := h.accounts.Snapshot(c.Request.Context(), currentUser(c))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) editUser(c *gin.Context) {
	var patch users.ProfilePatch
	if err := decodeStrict(c, &patch); err != nil {
		middleware.RespondError(c, err)
		return
	}

	profile, err := h.accounts.Edit(c.Request.Context(), currentUser(c), patch)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": profile})
}

type profilePicRequest struct {
	Pic string `json:"pic"`
}

func (h *Handler) updateProfilePic(c *gin.Context) {
	var req profilePicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, apperror.Validation("", "Invalid request body"))
		return
	}

	path, err := h.accounts.UpdateProfilePicture(c.Request.Context(), currentUser(c), req.Pic)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile_pic": path})
}

func (h *Handler) profilePicURL(c *gin.Context) {
	url, err := h.accounts.ProfilePictureURL(c.Request.Context(), currentUser(c))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

type deleteUserRequest struct {
	Password string `json:"password"`
}

func (h *Handler) deleteUser(c *gin.Context) {
	var req deleteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, apperror.Validation("password", "password is not correct"))
		return
	}

	endSession := func(ctx context.Context) error {
		return h.sessions.End(ctx, c.Writer, c.Request)
	}

	if err := h.accounts.DeleteAccount(c.Request.Context(), currentUser(c), req.Password, endSession); err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.String(http.StatusOK, "User is deleted")
}

// decodeStrict rejects bodies carrying keys outside v's fields.
func decodeStrict(c *gin.Context, v any) error {
	body, err := c.GetRawData()
	if err != nil {
		return apperror.Validation("", "Invalid request body")
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &apperror.AppError{
			Kind:    apperror.ErrValidation,
			Message: "Invalid request body",
			Cause:   err,
		}
	}
	return nil
}
