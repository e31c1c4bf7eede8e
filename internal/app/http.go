package app

import (
	"context"
	"net/http"
	"time"

	"github.com/abdelrhman-sys/MoviX-API/internal/account"
	"github.com/abdelrhman-sys/MoviX-API/internal/api"
	"github.com/abdelrhman-sys/MoviX-API/internal/auth/credentials"
	"github.com/abdelrhman-sys/MoviX-API/internal/auth/handler"
	"github.com/abdelrhman-sys/MoviX-API/internal/auth/provider"
	"github.com/abdelrhman-sys/MoviX-API/internal/auth/provider/google"
	"github.com/abdelrhman-sys/MoviX-API/internal/auth/resolver"
	"github.com/abdelrhman-sys/MoviX-API/internal/config"
	"github.com/abdelrhman-sys/MoviX-API/internal/db"
	"github.com/abdelrhman-sys/MoviX-API/internal/logger"
	"github.com/abdelrhman-sys/MoviX-API/internal/middleware"
	"github.com/abdelrhman-sys/MoviX-API/internal/session"
	"github.com/abdelrhman-sys/MoviX-API/internal/shows"
	"github.com/abdelrhman-sys/MoviX-API/internal/storage"
	"github.com/abdelrhman-sys/MoviX-API/internal/users"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// components are the stores the router is built on. Production wires
// Postgres, Redis and MinIO; tests wire in-memory fakes.
type components struct {
	Users     users.Repository
	Favorites shows.Repository
	Later     shows.Repository
	Tx        db.Transactor
	Sessions  session.Store
	Blobs     storage.BlobStore
	Providers []provider.OAuthProvider
	Hasher    credentials.Hasher
}

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	favRepo, err := shows.NewPostgresRepository(infra.DB, shows.Favorites)
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}
	laterRepo, err := shows.NewPostgresRepository(infra.DB, shows.Later)
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}

	var providers []provider.OAuthProvider
	if cfg.Google.Enabled() {
		googleProvider, err := google.New(ctx, google.Config{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Google.RedirectURL,
		})
		if err != nil {
			_ = infra.Close()
			return nil, nil, err
		}
		providers = append(providers, googleProvider)
	} else {
		logger.Warn("google login disabled", map[string]any{
			"reason": "GOOGLE_CLIENT_ID or GOOGLE_CLIENT_SECRET not set",
		})
	}

	router, sessions, err := newRouter(cfg, components{
		Users:     users.NewPostgresRepository(infra.DB),
		Favorites: favRepo,
		Later:     laterRepo,
		Tx:        infra.DB,
		Sessions:  infra.Sessions,
		Blobs:     infra.Blobs,
		Providers: providers,
		Hasher:    credentials.NewHasher(),
	})
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}

	// ----------------------------
	// Background
	// ----------------------------

	stopPurge := session.StartPurgeWorker(ctx, sessions.Store(), cfg.Session.PurgeInterval)

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		stopPurge()
		return infra.Close()
	}, nil
}

func newRouter(cfg config.Config, c components) (*gin.Engine, *session.Manager, error) {
	sessions, err := session.NewManager(c.Sessions, session.ManagerOptions{
		TTL:         cfg.Session.TTL,
		AbsoluteTTL: cfg.Session.AbsoluteTTL,
		Rolling:     cfg.Session.Rolling,
		Cookie:      session.DefaultCookieOptions(cfg.Session.CookieSecure),
	})
	if err != nil {
		return nil, nil, err
	}

	favorites := shows.NewService(shows.Favorites, c.Favorites)
	later := shows.NewService(shows.Later, c.Later)

	accounts := account.NewService(account.Deps{
		Users:        c.Users,
		Favorites:    favorites,
		Later:        later,
		Blobs:        c.Blobs,
		Tx:           c.Tx,
		Hasher:       c.Hasher,
		SignedURLTTL: cfg.Storage.SignedURLTTL,
	})

	authHandler := handler.NewHandler(handler.Deps{
		Providers:     provider.NewRegistry(c.Providers...),
		Sessions:      sessions,
		Resolver:      resolver.NewUserResolver(c.Users),
		Credentials:   credentials.NewService(c.Users, c.Hasher),
		Accounts:      accounts,
		FrontendURL:   cfg.FrontendURL,
		SecureCookies: cfg.Session.CookieSecure,
	})

	apiHandler := api.NewHandler(api.Deps{
		Accounts:  accounts,
		Favorites: favorites,
		Later:     later,
		Sessions:  sessions,
	})

	authMiddleware := middleware.NewAuthMiddleware(sessions, c.Users)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, nil, err
	}

	router.Use(
		gin.Recovery(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.RequestLogger(),
		middleware.GinResolve(authMiddleware),
	)

	// ----------------------------
	// Routes
	// ----------------------------

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler.RegisterRoutes(router)
	apiHandler.RegisterRoutes(router)

	router.NoRoute(api.NotFound)

	return router, sessions, nil
}
