// Package config loads runtime configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port      string
	DBPath    string
	JWTSecret string
	JWTTTL    time.Duration

	// ParserURL is the base URL of the external natural-language expense
	// parser. Empty disables the assistant endpoint.
	ParserURL string
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Port:      fallback(os.Getenv("PORT"), "8080"),
		DBPath:    fallback(os.Getenv("DB_PATH"), "./data/spendsavvy.db"),
		JWTSecret: strings.TrimSpace(os.Getenv("JWT_SECRET")),
		ParserURL: strings.TrimSpace(os.Getenv("PARSER_URL")),
	}

	hours := fallback(os.Getenv("JWT_TTL_HOURS"), "24")
	if ttlHours, err := strconv.Atoi(hours); err == nil && ttlHours > 0 {
		cfg.JWTTTL = time.Duration(ttlHours) * time.Hour
	} else {
		cfg.JWTTTL = 24 * time.Hour
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}
