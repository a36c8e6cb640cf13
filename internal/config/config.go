package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the client settings resolved from flags, env vars, and an
// optional .env file. Flags win over env; env wins over defaults.
type Config struct {
	// APIURL is the base URL of the Accountabilidash API, without the
	// /api/v1 prefix.
	APIURL string
	// ConfigDir overrides where the token file lives. Empty means the
	// platform default.
	ConfigDir string
	// LogLevel is a zap level name: debug, info, warn, error.
	LogLevel string
}

const defaultAPIURL = "http://localhost:8000"

// FromEnv reads configuration from the environment. A .env file in the
// working directory is loaded best-effort first, so local development can
// keep DASH_API_URL there.
func FromEnv() Config {
	_ = godotenv.Load()

	cfg := Config{
		APIURL:    strings.TrimSpace(os.Getenv("DASH_API_URL")),
		ConfigDir: strings.TrimSpace(os.Getenv("DASH_CONFIG_DIR")),
		LogLevel:  strings.TrimSpace(os.Getenv("DASH_LOG_LEVEL")),
	}
	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	return cfg
}
