package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultEnv             = "development"
	defaultDBPath          = ":memory:"
	defaultPort            = "8080"
	defaultLogLevel        = "info"
	defaultMatrixCacheSize = 64
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env             string
	Port            string
	DBPath          string
	LogLevel        string
	MatrixCacheSize int
	SeedDemo        bool

	// Warnings lists values that were ignored in favour of defaults. They are
	// logged once the logger exists.
	Warnings []string
}

// IsDev reports whether the app runs in development mode.
func (c Config) IsDev() bool {
	return c.Env == defaultEnv
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: production injects real environment variables.
	_ = loadDotEnv(".env")

	cfg := Config{
		Env:      envOr("APP_ENV", defaultEnv),
		Port:     envOr("PORT", defaultPort),
		DBPath:   envOr("DB_PATH", defaultDBPath),
		LogLevel: envOr("LOG_LEVEL", defaultLogLevel),
	}

	cfg.MatrixCacheSize = defaultMatrixCacheSize
	if raw := os.Getenv("MATRIX_CACHE_SIZE"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("MATRIX_CACHE_SIZE=%q is not a positive integer, using %d", raw, defaultMatrixCacheSize))
		} else {
			cfg.MatrixCacheSize = n
		}
	}

	cfg.SeedDemo = cfg.IsDev()
	if raw := os.Getenv("SEED_DEMO"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("SEED_DEMO=%q is not a boolean, using %t", raw, cfg.SeedDemo))
		} else {
			cfg.SeedDemo = b
		}
	}

	return cfg
}

// loadDotEnv loads a dotenv file without overwriting variables that are
// already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
