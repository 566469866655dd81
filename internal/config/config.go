package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every setting of the API server. It is filled from the
// environment (after godotenv has loaded an optional .env file).
type Config struct {
	Port     string
	GinMode  string
	LogLevel string
	BaseURL  string

	Database  DatabaseConfig
	Auth      AuthConfig
	Admin     AdminConfig
	RateLimit RateLimitConfig

	CORSOrigins []string
	// TrustedProxies are the IPs or CIDRs whose X-Forwarded-For is believed
	// when resolving the client IP. Empty means the peer address is used.
	TrustedProxies []string
	UploadDir      string
	SeedCatalog    bool
}

type DatabaseConfig struct {
	Driver string // "sqlite3" or "mysql"
	DSN    string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// AdminConfig describes the bootstrap administrator seeded on first start.
type AdminConfig struct {
	Name     string
	Email    string
	Password string
	Mobile   string
}

type RateLimitConfig struct {
	RedisURL string
	Requests int
	Window   time.Duration
}

const (
	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"
)

func Load() (*Config, error) {
	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		GinMode:  getEnv("GIN_MODE", "debug"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		BaseURL:  strings.TrimSuffix(getEnv("BASE_URL", "http://localhost:8080"), "/"),
		Database: DatabaseConfig{
			Driver: getEnv("DB_DRIVER", DriverSQLite),
			DSN:    getEnv("DB_DSN", "sweets.sqlite"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  getEnvAsDuration("TOKEN_TTL", 30*24*time.Hour),
		},
		Admin: AdminConfig{
			Name:     getEnv("ADMIN_NAME", "Admin User"),
			Email:    getEnv("ADMIN_EMAIL", "admin@shop.com"),
			Password: getEnv("ADMIN_PASSWORD", "admin"),
			Mobile:   getEnv("ADMIN_MOBILE", "1234567890"),
		},
		RateLimit: RateLimitConfig{
			RedisURL: getEnv("REDIS_URL", ""),
			Requests: getEnvAsInt("RATE_LIMIT_REQUESTS", 20),
			Window:   getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		TrustedProxies: splitList(getEnv("TRUSTED_PROXIES", "")),
		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
		SeedCatalog:    getEnvAsBool("SEED_CATALOG", true),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// devSecret is only accepted while gin runs in debug or test mode.
const devSecret = "sweetshop-dev-secret"

func validateConfig(cfg *Config) error {
	if cfg.Database.Driver != DriverSQLite && cfg.Database.Driver != DriverMySQL {
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverSQLite, DriverMySQL, cfg.Database.Driver)
	}
	if cfg.Database.DSN == "" {
		return errors.New("DB_DSN is required")
	}
	if cfg.Auth.JWTSecret == "" {
		if cfg.GinMode == "release" {
			return errors.New("JWT_SECRET is required in release mode")
		}
		cfg.Auth.JWTSecret = devSecret
	}
	if cfg.Auth.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}
	if cfg.RateLimit.Requests <= 0 || cfg.RateLimit.Window <= 0 {
		return errors.New("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive")
	}
	for _, proxy := range cfg.TrustedProxies {
		if net.ParseIP(proxy) == nil {
			if _, _, err := net.ParseCIDR(proxy); err != nil {
				return fmt.Errorf("TRUSTED_PROXIES entry %q is not an IP or CIDR", proxy)
			}
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
