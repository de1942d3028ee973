// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ErrMissingSecret is returned outside development when JWT_SECRET is unset.
// APP_ENV defaults to production, so development must be asked for.
var ErrMissingSecret = errors.New("JWT_SECRET must be set outside development")

// DevSecret signs tokens in development when JWT_SECRET is unset.
const DevSecret = "loveletter-dev-secret"

// Config holds process settings read from the environment.
type Config struct {
	Port              string
	DatabaseURL       string // empty disables Postgres persistence
	RedisURL          string // empty disables the historian
	JWTSecret         string
	AppEnv            string
	LogLevel          string
	LogFormat         string // "text" or "json"
	TurnTimerSec      int    // 0 disables the turn timer
	AllowedOrigins    []string
	PrinceDrawsBurned bool
}

// Development reports whether the process runs with APP_ENV=development.
func (c *Config) Development() bool { return c.AppEnv == "development" }

// Load reads a .env file when one exists, then the environment.
func Load() (*Config, error) {
	// A missing .env is not an error.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:        getenv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		AppEnv:      getenv("APP_ENV", "production"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		LogFormat:   strings.ToLower(getenv("LOG_FORMAT", "text")),
	}

	var err error
	if cfg.TurnTimerSec, err = atoi("TURN_TIMER_SEC", 0); err != nil {
		return nil, err
	}
	if cfg.TurnTimerSec < 0 {
		return nil, fmt.Errorf("TURN_TIMER_SEC must not be negative, got %d", cfg.TurnTimerSec)
	}
	if v := os.Getenv("PRINCE_DRAWS_BURNED"); v != "" {
		if cfg.PrinceDrawsBurned, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("parsing PRINCE_DRAWS_BURNED: %w", err)
		}
	}
	for _, o := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	if cfg.JWTSecret == "" {
		if !cfg.Development() {
			return nil, ErrMissingSecret
		}
		cfg.JWTSecret = DevSecret
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return n, nil
}
