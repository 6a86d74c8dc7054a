package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type Config struct {
	Port         string
	GinMode      string
	LogLevel     string
	LogFormat    string
	DatabasePath string
	ContentPath  string
	StaticDir    string

	AdminUsername string
	AdminPassword string

	SubmitDelay      time.Duration
	ResetDelay       time.Duration
	SessionTTL       time.Duration
	VisitorRetention time.Duration
}

// Load reads the configuration from the environment. A .env file is picked up
// by godotenv/autoload in main before this runs.
func Load() (Config, error) {
	cfg := Config{
		Port:          valueOrDefault("PORT", "8080"),
		GinMode:       valueOrDefault("GIN_MODE", gin.DebugMode),
		LogLevel:      valueOrDefault("LOG_LEVEL", "info"),
		LogFormat:     valueOrDefault("LOG_FORMAT", "json"),
		DatabasePath:  valueOrDefault("DATABASE_PATH", "folio.db"),
		ContentPath:   strings.TrimSpace(os.Getenv("CONTENT_PATH")),
		StaticDir:     valueOrDefault("STATIC_DIR", "static"),
		AdminUsername: strings.TrimSpace(os.Getenv("ADMIN_USERNAME")),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	durations := []struct {
		key      string
		fallback time.Duration
		dst      *time.Duration
	}{
		{"CONTACT_SUBMIT_DELAY", 1500 * time.Millisecond, &cfg.SubmitDelay},
		{"CONTACT_RESET_DELAY", 5000 * time.Millisecond, &cfg.ResetDelay},
		{"CONTACT_SESSION_TTL", 30 * time.Minute, &cfg.SessionTTL},
		{"VISITOR_RETENTION", 365 * 24 * time.Hour, &cfg.VisitorRetention},
	}
	for _, d := range durations {
		v, err := durationOrDefault(d.key, d.fallback)
		if err != nil {
			return Config{}, err
		}
		*d.dst = v
	}

	switch cfg.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return Config{}, fmt.Errorf("invalid GIN_MODE %q", cfg.GinMode)
	}
	switch cfg.LogFormat {
	case "json", "console":
	default:
		return Config{}, fmt.Errorf("invalid LOG_FORMAT %q", cfg.LogFormat)
	}

	// Development gets default admin credentials; release mode must set them.
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		if cfg.GinMode == gin.ReleaseMode {
			return Config{}, errors.New("ADMIN_USERNAME and ADMIN_PASSWORD are required in release mode")
		}
		if cfg.AdminUsername == "" {
			cfg.AdminUsername = "admin"
		}
		if cfg.AdminPassword == "" {
			cfg.AdminPassword = "admin123"
		}
	}

	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func valueOrDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func durationOrDefault(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return v, nil
}
