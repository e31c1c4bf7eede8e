package app

import (
	"context"
	"fmt"

	"github.com/abdelrhman-sys/MoviX-API/internal/config"
	"github.com/abdelrhman-sys/MoviX-API/internal/db"
	"github.com/abdelrhman-sys/MoviX-API/internal/logger"
	"github.com/abdelrhman-sys/MoviX-API/internal/redis"
	"github.com/abdelrhman-sys/MoviX-API/internal/session"
	"github.com/abdelrhman-sys/MoviX-API/internal/storage"
)

// Infra holds every external client the process owns.
type Infra struct {
	DB       *db.DB
	Redis    *redis.Client
	Sessions session.Store
	Blobs    storage.BlobStore
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	database, err := db.Open(ctx, cfg.Database.DSN, db.PoolOptions{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx, database.DB); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("db: migrate: %w", err)
	}

	logger.Info("database ready", nil)

	infra := &Infra{DB: database}

	switch cfg.Session.Backend {
	case "memory":
		infra.Sessions = session.NewMemoryStore()
		logger.Warn("using in-memory session store", map[string]any{
			"note": "sessions are lost on restart",
		})
	default:
		redisClient, err := redis.New(ctx, redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			_ = database.Close()
			return nil, err
		}
		infra.Redis = redisClient
		infra.Sessions = session.NewRedisStore(redisClient.Client)
		logger.Info("redis ready", map[string]any{"addr": cfg.Redis.Addr})
	}

	if cfg.Storage.Enabled() {
		blobs, err := storage.NewMinioStore(
			cfg.Storage.Endpoint,
			cfg.Storage.AccessKey,
			cfg.Storage.SecretKey,
			cfg.Storage.Bucket,
			cfg.Storage.UseSSL,
		)
		if err != nil {
			_ = infra.Close()
			return nil, err
		}
		infra.Blobs = blobs
		logger.Info("object storage ready", map[string]any{"bucket": cfg.Storage.Bucket})
	} else {
		infra.Blobs = storage.Disabled{}
		logger.Warn("object storage disabled", nil)
	}

	return infra, nil
}

// Close releases every client; the first error wins.
func (i *Infra) Close() error {
	var first error
	if i.Redis != nil {
		if err := i.Redis.Close(); err != nil {
			first = err
		}
	}
	if err := i.DB.Close(); err != nil && first == nil {
		first = err
	}
	return first
}
