package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v8"
	"github.com/joho/godotenv"

	"finance-backend/internal/models"
)

const (
	defaultDSN         = "host=localhost user=postgres password=postgres dbname=finance port=5432 sslmode=disable"
	defaultCORSOrigins = "http://localhost:5173"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	HTTPPort        string        `env:"HTTP_PORT" envDefault:"8080"`
	DBDriver        string        `env:"DB_DRIVER" envDefault:"postgres"`
	DatabaseDSN     string        `env:"DATABASE_DSN"` // defaultDSN when unset
	CORSOrigins     string        `env:"CORS_ALLOWED_ORIGINS"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"text"`
	AuthSecret      string        `env:"AUTH_SECRET"` // empty disables bearer auth on /api
	StaticDir       string        `env:"STATIC_DIR"`  // optional dashboard assets served at /
	SeedCategories  []string      `env:"SEED_CATEGORIES" envSeparator:","`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return parse(env.Options{})
}

// LoadFromMap builds a config from the given variables only.
func LoadFromMap(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = defaultDSN
	}
	if cfg.CORSOrigins == "" {
		cfg.CORSOrigins = defaultCORSOrigins
	}
	cfg.SeedCategories = cleanNames(cfg.SeedCategories)
	if len(cfg.SeedCategories) == 0 {
		cfg.SeedCategories = append([]string(nil), models.DefaultCategoryNames...)
	}
	return cfg, nil
}

func cleanNames(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, n := range in {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Validate returns every configuration problem at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.HTTPPort); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.HTTPPort))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		problems = append(problems, fmt.Sprintf("invalid db driver '%s': must be one of [postgres sqlite]", c.DBDriver))
	}
	if strings.TrimSpace(c.DatabaseDSN) == "" {
		problems = append(problems, "DATABASE_DSN cannot be empty")
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("invalid log format '%s': must be text or json", c.LogFormat))
	}

	if c.AuthSecret != "" && len(c.AuthSecret) < 32 {
		problems = append(problems, "AUTH_SECRET must be at least 32 characters")
	}

	if c.ShutdownTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("invalid shutdown timeout %v: must be positive", c.ShutdownTimeout))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// Warnings lists settings that are fine for local development but not for a deployment.
func (c *Config) Warnings() []string {
	var w []string
	if c.DBDriver == DriverPostgres && c.DatabaseDSN == defaultDSN {
		w = append(w, "DATABASE_DSN uses the default value, set your own Postgres connection for production")
	}
	if c.CORSOrigins == defaultCORSOrigins {
		w = append(w, "CORS_ALLOWED_ORIGINS uses the default value, set your own domain for production")
	}
	if c.AuthSecret == "" {
		w = append(w, "AUTH_SECRET is not set, /api is served without authentication")
	}
	return w
}

// AllowedOrigins returns the comma separated CORS origins normalized for fiber's cors middleware.
func (c *Config) AllowedOrigins() string {
	parts := strings.Split(c.CORSOrigins, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, ",")
}
