package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

type DatabaseOptions struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
	Name     string `env:"DB_NAME" envDefault:"postgres"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
}

// DSN renders the options as a postgres URL.
func (d DatabaseOptions) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type SessionOptions struct {
	Store      string        `env:"SESSION_STORE" envDefault:"memory"`
	Duration   time.Duration `env:"SESSION_DURATION" envDefault:"24h"`
	CookieName string        `env:"SESSION_COOKIE" envDefault:"console_session"`
	Secure     bool          `env:"COOKIE_SECURE" envDefault:"false"`
}

type Configuration struct {
	Port    string `env:"PORT" envDefault:"8080"`
	GinMode string `env:"GIN_MODE" envDefault:"debug"`

	BackendURL     string        `env:"BACKEND_URL" envDefault:"http://localhost:3000"`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"10s"`

	Session  SessionOptions
	Database DatabaseOptions
	RedisURL string `env:"REDIS_URL"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	EntityRegistryPath string   `env:"ENTITY_REGISTRY_PATH"`
	LoginRateLimit     string   `env:"LOGIN_RATE_LIMIT" envDefault:"10-M"`
	CORSOrigins        []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	MetricsPath        string   `env:"METRICS_PATH" envDefault:"/metrics"`
	PageSize           int      `env:"PAGE_SIZE" envDefault:"20"`
}

// LoadEnv loads whichever of the given .env files exist, in order.
func LoadEnv(files ...string) (int, error) {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

// Load reads the configuration from the process environment.
func Load() (*Configuration, error) {
	c := &Configuration{}
	if err := env.Parse(c); err != nil {
		return nil, errors.Wrap(err, "parse environment")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Configuration) Validate() error {
	c.Session.Store = strings.ToLower(strings.TrimSpace(c.Session.Store))
	switch c.Session.Store {
	case StoreMemory, StorePostgres:
	case StoreRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL is required when SESSION_STORE is redis")
		}
	default:
		return errors.Errorf("SESSION_STORE must be memory, postgres or redis, got %q", c.Session.Store)
	}
	if c.BackendURL == "" {
		return errors.New("BACKEND_URL is required")
	}
	if c.BackendTimeout <= 0 {
		return errors.Errorf("BACKEND_TIMEOUT must be positive, got %s", c.BackendTimeout)
	}
	if c.Session.Duration <= 0 {
		return errors.Errorf("SESSION_DURATION must be positive, got %s", c.Session.Duration)
	}
	if c.PageSize < 1 {
		return errors.Errorf("PAGE_SIZE must be at least 1, got %d", c.PageSize)
	}
	return nil
}

// Production reports whether gin runs in release mode.
func (c *Configuration) Production() bool {
	return c.GinMode == "release"
}
