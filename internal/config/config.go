package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Env          string
	Port         int
	DBURL        string
	JWTSecret    string
	BcryptCost   int
	CORSOrigins  []string
	OTelEndpoint string
}

// Load reads configuration from the environment. A missing JWT secret or
// database credential is a startup error, never a lazy per-request failure.
func Load() (Config, error) {
	cfg := Config{
		Env:          getEnv("APP_ENV", "dev"),
		Port:         getEnvInt("PORT", 8080),
		JWTSecret:    strings.TrimSpace(os.Getenv("JWT_SECRET")),
		BcryptCost:   getEnvInt("BCRYPT_COST", bcrypt.DefaultCost),
		CORSOrigins:  splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		OTelEndpoint: os.Getenv("OTEL_EXPORTER_ENDPOINT"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	dbURL, err := buildDBURL()
	if err != nil {
		return Config{}, err
	}
	cfg.DBURL = dbURL

	return cfg, nil
}

func buildDBURL() (string, error) {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASSWORD")
	name := os.Getenv("DB_NAME")
	ssl := getEnv("DB_SSLMODE", "disable")

	for _, req := range []struct{ key, val string }{
		{"DB_USER", user},
		{"DB_PASSWORD", pass},
		{"DB_NAME", name},
	} {
		if req.val == "" {
			return "", fmt.Errorf("%s is required", req.key)
		}
	}

	// Escape credentials so passwords with special characters survive the URL.
	return "postgres://" + url.QueryEscape(user) + ":" + url.QueryEscape(pass) +
		"@" + host + ":" + port + "/" + name + "?sslmode=" + ssl, nil
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			return fallback
		}

		return num
	}
	return fallback
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}
