package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	// DefaultSessionSecret signs development sessions. It must never reach
	// production.
	DefaultSessionSecret = "lumina-dev-session-secret"
)

// ErrInsecureSessionSecret is returned by Validate when production would sign
// admin sessions with a missing or well-known key.
var ErrInsecureSessionSecret = errors.New("SESSION_SECRET must be set to a private value in production")

// AppConfig collects everything the server needs at start-up. It is built once
// in main and handed to the packages that need it.
type AppConfig struct {
	ListenAddr    string
	Port          string
	Environment   string
	AdminPassword string
	SessionSecret string
	DatabaseURL   string
	DatabasePath  string
	RedisURL      string
	PageCacheTTL  time.Duration
	CSRFKey       string
	ResendAPIKey  string
	NotifyFrom    string
	NotifyTo      string
	SiteBaseURL   string
}

// IsProduction reports whether secure-only cookies should be issued.
func (c AppConfig) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GinMode maps the environment onto gin's run modes.
func (c AppConfig) GinMode() string {
	if c.IsProduction() {
		return "release"
	}
	return "debug"
}

// Validate rejects configurations that are unsafe to serve with.
func (c AppConfig) Validate() error {
	if c.IsProduction() && (c.SessionSecret == "" || c.SessionSecret == DefaultSessionSecret) {
		return ErrInsecureSessionSecret
	}
	return nil
}

// Load reads the configuration from the environment, after merging a .env file
// if one exists, and fills in development defaults for anything missing.
func Load() AppConfig {
	_ = godotenv.Load()

	port := env("PORT", "8080")
	listenAddr := env("LISTEN_ADDR", fmt.Sprintf(":%s", port))

	environment := strings.ToLower(env("APP_ENV", EnvDevelopment))
	if environment != EnvProduction {
		environment = EnvDevelopment
	}

	ttl, err := time.ParseDuration(env("PAGE_CACHE_TTL", "10m"))
	if err != nil || ttl <= 0 {
		ttl = 10 * time.Minute
	}

	return AppConfig{
		ListenAddr:    listenAddr,
		Port:          port,
		Environment:   environment,
		AdminPassword: env("ADMIN_PASSWORD", ""),
		SessionSecret: env("SESSION_SECRET", DefaultSessionSecret),
		DatabaseURL:   env("DATABASE_URL", ""),
		DatabasePath:  env("DATABASE_PATH", "lumina.db"),
		RedisURL:      env("REDIS_URL", ""),
		PageCacheTTL:  ttl,
		CSRFKey:       env("CSRF_KEY", ""),
		ResendAPIKey:  env("RESEND_API_KEY", ""),
		NotifyFrom:    env("NOTIFY_FROM", "Lumina <noreply@luminaapp.org>"),
		NotifyTo:      env("NOTIFY_TO", ""),
		SiteBaseURL:   strings.TrimRight(env("SITE_BASE_URL", "http://localhost:8080"), "/"),
	}
}

func env(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
