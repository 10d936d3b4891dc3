package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config is built once at process start and handed to components
// explicitly; nothing reads the environment after Load returns.
type Config struct {
	Env      string
	HTTPAddr string

	AppOrigin   string
	DatabaseURL string

	JWTSecret        string
	JWTRefreshSecret string

	ResendAPIKey string
	EmailSender  string

	CookieDomain  string
	SecureCookies bool
}

func Load() (*Config, error) {
	// A missing .env file is fine in production.
	_ = godotenv.Load()

	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		AppOrigin:        getEnv("APP_ORIGIN", "http://localhost:5173"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTRefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		ResendAPIKey:     os.Getenv("RESEND_API_KEY"),
		EmailSender:      getEnv("EMAIL_SENDER", "onboarding@resend.dev"),
		CookieDomain:     os.Getenv("COOKIE_DOMAIN"),
		SecureCookies:    os.Getenv("COOKIE_SECURE") != "false",
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" || cfg.JWTRefreshSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET and JWT_REFRESH_SECRET are required")
	}
	return cfg, nil
}

func getEnv(key string, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
