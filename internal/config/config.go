package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI       string
	MongoDatabase  string
	ConnectTimeout time.Duration
	JWTSecret      string
	APIPrefix      string
	Environment    string
	Port           string
}

var ErrMissingJWTSecret = errors.New("config: JWT_SECRET is not set")

// Load reads the process environment, first merging a .env file from the
// working directory when one exists. Variables already set win over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	timeout, err := time.ParseDuration(getEnv("MONGODB_CONNECT_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("MONGODB_CONNECT_TIMEOUT: %w", err)
	}

	cfg := &Config{
		MongoURI:       getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:  getEnv("MONGODB_DATABASE", "givento"),
		ConnectTimeout: timeout,
		JWTSecret:      os.Getenv("JWT_SECRET"),
		APIPrefix:      normalizePrefix(getEnv("API_PREFIX", "/api")),
		Environment:    getEnv("APP_ENV", "development"),
		Port:           os.Getenv("PORT"),
	}

	return cfg, nil
}

// RequireJWTSecret fails when no token signing secret is configured. Every
// entry point that serves the API calls it before accepting requests.
func (c *Config) RequireJWTSecret() error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

// normalizePrefix turns "api/", "/api/" and "/api" into "/api"; "" and "/"
// both mean no prefix.
func normalizePrefix(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}
