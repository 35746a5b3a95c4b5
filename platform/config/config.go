// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTSecret() string
	GetSessionCookieName() string
}

// AuthConfig provides settings needed by the auth service.
type AuthConfig interface {
	JWTConfig
	GetSessionTTL() time.Duration
	GetSessionCookieSecure() bool
}

// EmailConfig provides settings for email sending.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	GetFrontendBaseURL() string
}

// NotificationConfig provides settings for admin notifications.
type NotificationConfig interface {
	GetAdminNotifyEmail() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSOrigins() []string
}

// RedisConfig provides settings for redis-backed components.
type RedisConfig interface {
	GetRedisAddr() string
	GetSettingsCacheTTL() time.Duration
}

// SchedulerConfig provides settings for the asynq maintenance worker.
type SchedulerConfig interface {
	GetRedisAddr() string
	GetTokenPurgeSpec() string
	GetStatusScanSpec() string
}

// StorageConfig provides settings for MinIO object storage.
type StorageConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOPublicBaseURL() string
	GetImageBucket() string
	IsStorageEnabled() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                 string
	HTTPAddr            string
	DatabaseURL         string
	JWTSecret           string
	SessionTTL          time.Duration
	SessionCookieName   string
	SessionCookieSecure bool
	CORSOrigins         []string
	FrontendBaseURL     string
	EmailEnabled        bool
	SMTPHost            string
	SMTPPort            int
	SMTPUsername        string
	SMTPPassword        string
	EmailFromName       string
	EmailFromAddress    string
	AdminNotifyEmail    string
	RedisAddr           string
	SettingsCacheTTL    time.Duration
	TokenPurgeSpec      string
	StatusScanSpec      string
	MinIOEndpoint       string
	MinIOAccessKey      string
	MinIOSecretKey      string
	MinIOUseSSL         bool
	MinIOPublicBaseURL  string
	ImageBucket         string
}

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTSecret() string         { return c.JWTSecret }
func (c *Config) GetSessionCookieName() string { return c.SessionCookieName }

// AuthConfig implementation
func (c *Config) GetSessionTTL() time.Duration { return c.SessionTTL }
func (c *Config) GetSessionCookieSecure() bool { return c.SessionCookieSecure }

// EmailConfig implementation
func (c *Config) GetEmailEnabled() bool       { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) GetFrontendBaseURL() string  { return c.FrontendBaseURL }

// NotificationConfig implementation; new inquiries fall back to the
// from-address when no dedicated admin inbox is configured.
func (c *Config) GetAdminNotifyEmail() string {
	if c.AdminNotifyEmail != "" {
		return c.AdminNotifyEmail
	}
	return c.EmailFromAddress
}

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

// RedisConfig implementation
func (c *Config) GetRedisAddr() string               { return c.RedisAddr }
func (c *Config) GetSettingsCacheTTL() time.Duration { return c.SettingsCacheTTL }

// SchedulerConfig implementation
func (c *Config) GetTokenPurgeSpec() string { return c.TokenPurgeSpec }
func (c *Config) GetStatusScanSpec() string { return c.StatusScanSpec }

// StorageConfig implementation
func (c *Config) GetMinIOEndpoint() string      { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string     { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string     { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool          { return c.MinIOUseSSL }
func (c *Config) GetMinIOPublicBaseURL() string { return c.MinIOPublicBaseURL }
func (c *Config) GetImageBucket() string        { return c.ImageBucket }
func (c *Config) IsStorageEnabled() bool        { return c.MinIOEndpoint != "" }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "development")

	sessionCookieSecure := strings.EqualFold(getEnv("SESSION_COOKIE_SECURE", ""), "true")
	if getEnv("SESSION_COOKIE_SECURE", "") == "" {
		sessionCookieSecure = strings.EqualFold(env, "production")
	}

	smtpHost := getEnv("SMTP_HOST", "")
	emailEnabled := strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true")

	cfg := &Config{
		Env:                 env,
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		SessionTTL:          mustDuration(getEnv("SESSION_TTL", "720h")),
		SessionCookieName:   getEnv("SESSION_COOKIE_NAME", "retiros_session"),
		SessionCookieSecure: sessionCookieSecure,
		CORSOrigins:         splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		FrontendBaseURL:     getEnv("FRONTEND_BASE_URL", "http://localhost:3000"),
		EmailEnabled:        emailEnabled && smtpHost != "",
		SMTPHost:            smtpHost,
		SMTPPort:            mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:        getEnv("SMTP_USERNAME", ""),
		SMTPPassword:        getEnv("SMTP_PASSWORD", ""),
		EmailFromName:       getEnv("EMAIL_FROM_NAME", "Soul Experiences"),
		EmailFromAddress:    getEnv("EMAIL_FROM_ADDRESS", ""),
		AdminNotifyEmail:    getEnv("ADMIN_NOTIFY_EMAIL", ""),
		RedisAddr:           getEnv("REDIS_ADDR", ""),
		SettingsCacheTTL:    mustDuration(getEnv("SETTINGS_CACHE_TTL", "5m")),
		TokenPurgeSpec:      getEnv("TOKEN_PURGE_SPEC", "@every 1h"),
		StatusScanSpec:      getEnv("STATUS_SCAN_SPEC", "@every 24h"),
		MinIOEndpoint:       getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:      getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:      getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:         strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinIOPublicBaseURL:  getEnv("MINIO_PUBLIC_BASE_URL", ""),
		ImageBucket:         getEnv("MINIO_BUCKET_IMAGES", "retreat-images"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.EmailEnabled && cfg.EmailFromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when email is enabled")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}
