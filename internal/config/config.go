package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	AppPort        string   `env:"APP_PORT" envDefault:"3000"`
	FrontendURL    string   `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	Log      LogConfig      `envPrefix:"LOG_"`
	Database DatabaseConfig `envPrefix:"DATABASE_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	Session  SessionConfig  `envPrefix:"SESSION_"`
	Google   GoogleConfig   `envPrefix:"GOOGLE_"`
	Storage  StorageConfig  `envPrefix:"STORAGE_"`
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
}

type DatabaseConfig struct {
	DSN             string        `env:"DSN,notEmpty"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"10"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"30m"`
}

type RedisConfig struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

type SessionConfig struct {
	Backend       string        `env:"BACKEND" envDefault:"redis"`
	TTL           time.Duration `env:"TTL" envDefault:"168h"`
	AbsoluteTTL   time.Duration `env:"ABSOLUTE_TTL" envDefault:"720h"`
	Rolling       bool          `env:"ROLLING" envDefault:"false"`
	PurgeInterval time.Duration `env:"PURGE_INTERVAL" envDefault:"1h"`
	CookieSecure  bool          `env:"COOKIE_SECURE" envDefault:"true"`
}

type GoogleConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL" envDefault:"http://localhost:3000/api/google/callback"`
}

// Enabled reports whether enough is configured to register the Google provider.
func (g GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

type StorageConfig struct {
	Endpoint     string        `env:"ENDPOINT"`
	AccessKey    string        `env:"ACCESS_KEY"`
	SecretKey    string        `env:"SECRET_KEY"`
	Bucket       string        `env:"BUCKET" envDefault:"profile-images"`
	UseSSL       bool          `env:"USE_SSL" envDefault:"true"`
	SignedURLTTL time.Duration `env:"SIGNED_URL_TTL" envDefault:"2h"`
}

// Enabled reports whether an object storage endpoint is configured.
func (s StorageConfig) Enabled() bool {
	return s.Endpoint != ""
}

// Load reads an optional .env file and then parses the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Session.Backend {
	case "redis", "memory":
	default:
		return fmt.Errorf("config: unknown SESSION_BACKEND %q", c.Session.Backend)
	}
	if c.Session.TTL <= 0 {
		return errors.New("config: SESSION_TTL must be positive")
	}
	if c.Session.Rolling && c.Session.AbsoluteTTL < c.Session.TTL {
		return errors.New("config: SESSION_ABSOLUTE_TTL must be at least SESSION_TTL")
	}
	return nil
}
