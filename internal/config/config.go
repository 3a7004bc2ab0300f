package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr    string
	TLSCert string
	TLSKey  string

	DatabaseURL string // empty keeps presets in memory

	TokenKey          string
	AdminLogin        string
	AdminPasswordHash string // bcrypt

	LogLevel  string
	LogFormat string // json or console

	RateLimit  float64 // requests per second per client
	RateBurst  int
	CORSOrigin string
}

// AdminEnabled reports whether preset editing can be unlocked.
func (c *Config) AdminEnabled() bool {
	return c.TokenKey != "" && c.AdminLogin != "" && c.AdminPasswordHash != ""
}

func (c *Config) TLSEnabled() bool {
	return c.TLSCert != "" && c.TLSKey != ""
}

// Load reads the environment, after merging a .env file from the working
// directory when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Addr:    getEnv("ADDR", ":8080"),
		TLSCert: os.Getenv("TLS_CERT"),
		TLSKey:  os.Getenv("TLS_KEY"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		TokenKey:          os.Getenv("TOKEN_KEY"),
		AdminLogin:        os.Getenv("ADMIN_LOGIN"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		RateLimit:  getEnvFloat("RATE_LIMIT", 5),
		RateBurst:  getEnvInt("RATE_BURST", 10),
		CORSOrigin: getEnv("CORS_ORIGIN", "*"),
	}

	if (cfg.TLSCert == "") != (cfg.TLSKey == "") {
		return nil, fmt.Errorf("TLS_CERT and TLS_KEY must be set together")
	}
	if cfg.RateLimit <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT must be positive, got %v", cfg.RateLimit)
	}
	if cfg.RateBurst < 1 {
		return nil, fmt.Errorf("RATE_BURST must be at least 1, got %d", cfg.RateBurst)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
