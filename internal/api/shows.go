package api

import (
	"net/http"

	"github.com/abdelrhman-sys/MoviX-API/internal/apperror"
	"github.com/abdelrhman-sys/MoviX-API/internal/middleware"
	"github.com/abdelrhman-sys/MoviX-API/internal/shows"

	"github.com/gin-gonic/gin"
)

type addShowRequest struct {
	ShowID     string `json:"showId"`
	ShowType   string `json:"showType"`
	ShowPoster string `json:"showPoster"`
	ShowName   string `json:"showName"`
}

func (h *Handler) addShow(svc *shows.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addShowRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.RespondError(c, apperror.Validation("", "Invalid request body"))
			return
		}

		err := svc.Add(c.Request.Context(), currentUser(c).ID, shows.Entry{
			ShowID:     req.ShowID,
			ShowType:   req.ShowType,
			ShowPoster: req.ShowPoster,
			ShowName:   req.ShowName,
		})
		if err != nil {
			middleware.RespondError(c, err)
			return
		}
		c.String(http.StatusOK, "Show is added")
	}
}

func (h *Handler) removeShow(svc *shows.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := svc.Remove(c.Request.Context(), currentUser(c).ID, c.Param("showId"), c.Query("type"))
		if err != nil {
			middleware.RespondError(c, err)
			return
		}
		c.String(http.StatusOK, "Show is removed")
	}
}
