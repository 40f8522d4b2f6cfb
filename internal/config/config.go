package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

const devSecret = "dev-secret-change-in-production"

// Config holds process-wide configuration, sourced from the environment once
// at startup and passed explicitly to the components that need it.
type Config struct {
	Port         string
	Env          string
	Debug        bool
	DatabaseDSN  string
	JWTSecret    string
	JWTAlgorithm string
	JWTExpiry    time.Duration
}

// Load reads configuration from the environment, applying development
// defaults. Missing production secrets are fatal.
func Load() Config {
	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		Env:          getEnv("ENV", "development"),
		Debug:        getEnv("DEBUG", "false") == "true",
		DatabaseDSN:  getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/taskdeck?parseTime=true"),
		JWTSecret:    getEnv("JWT_SECRET", devSecret),
		JWTAlgorithm: getEnv("JWT_ALGORITHM", "HS256"),
		JWTExpiry:    time.Duration(getEnvInt("JWT_EXPIRY_SECONDS", 3600)) * time.Second,
	}

	if cfg.Env == "production" {
		if cfg.JWTSecret == devSecret {
			slog.Error("JWT_SECRET must be set in production environment")
			os.Exit(1)
		}
		if os.Getenv("DATABASE_DSN") == "" {
			slog.Error("DATABASE_DSN must be set in production environment")
			os.Exit(1)
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		slog.Warn("ignoring non-numeric environment value", "key", key, "value", v)
	}
	return fallback
}
