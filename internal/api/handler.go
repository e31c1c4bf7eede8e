package api

import (
	"net/http"

	"github.com/abdelrhman-sys/MoviX-API/internal/account"
	"github.com/abdelrhman-sys/MoviX-API/internal/middleware"
	"github.com/abdelrhman-sys/MoviX-API/internal/session"
	"github.com/abdelrhman-sys/MoviX-API/internal/shows"
	"github.com/abdelrhman-sys/MoviX-API/internal/users"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	Accounts  *account.Service
	Favorites *shows.Service
	Later     *shows.Service
	Sessions  *session.Manager
}

// Handler serves the authenticated data routes: profile, collections
// and account deletion.
type Handler struct {
	accounts  *account.Service
	favorites *shows.Service
	later     *shows.Service
	sessions  *session.Manager
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		accounts:  d.Accounts,
		favorites: d.Favorites,
		later:     d.Later,
		sessions:  d.Sessions,
	}
}

// RegisterRoutes mounts the data routes on r behind GinRequireAuth.
// r must already run middleware.GinResolve.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	api := r.Group("/api")
	api.Use(middleware.GinRequireAuth())

	api.GET("/user", h.getUser)
	api.PATCH("/edit/user", h.editUser)
	api.PATCH("/update/profile_pic", h.updateProfilePic)
	api.GET("/profile_pic/url", h.profilePicURL)
	api.DELETE("/delete/user", h.deleteUser)

	for _, svc := range []*shows.Service{h.favorites, h.later} {
		path := "/" + string(svc.Collection())
		api.POST(path, h.addShow(svc))
		api.DELETE(path+"/:showId", h.removeShow(svc))
	}
}

// currentUser is safe behind GinRequireAuth.
func currentUser(c *gin.Context) *users.User {
	p, _ := middleware.CurrentPrincipal(c)
	return p.User
}

// NotFound answers every route nothing else matched.
func NotFound(c *gin.Context) {
	c.String(http.StatusNotFound, "Resource not found")
}
