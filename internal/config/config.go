package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds the whole application configuration.
// Populated from environment variables, optionally overlaid on configs/config.yaml.
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Stripe    StripeConfig
	Email     EmailConfig
	CRM       CRMConfig
	Queue     QueueConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	LogLevel    string
	// PublicBaseURL is the storefront origin used in redirect and email links.
	PublicBaseURL  string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host              string
	Port              int
	User              string
	Password          string
	Database          string
	SSLMode           string
	MaxConns          int
	MinConns          int
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	MaxRetries        int
	RetryDelay        time.Duration
	ConnectTimeout    time.Duration
	MigrationsPath    string
}

type RedisConfig struct {
	Host      string
	Password  string
	DB        int
	KeyPrefix string
}

type JWTConfig struct {
	Secret       string
	AccessTTL    time.Duration
	Issuer       string
	MagicLinkTTL time.Duration
}

// =====================================================
// STRIPE
// =====================================================

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
	SuccessURL    string
	CancelURL     string
}

type EmailConfig struct {
	Provider    string // resend, smtp
	APIKey      string
	From        string
	AdminNotify string
	SMTPHost    string
	SMTPPort    string
}

// =====================================================
// CRM (GoHighLevel)
// =====================================================

type CRMConfig struct {
	Enabled    bool
	APIKey     string
	LocationID string
	BaseURL    string
	APIVersion string
	Timeout    time.Duration
	// MembershipFieldID is the contact custom field holding the membership tier.
	MembershipFieldID string
	// AccessTiers lists tier values granting access to every course.
	AccessTiers []string
	// AccessTags grants access when the contact carries any of these tags.
	AccessTags             []string
	EnrolledCoursesFieldID string
	MembershipCacheTTL     time.Duration
}

type QueueConfig struct {
	Concurrency             int
	StaleCheckoutAfter      time.Duration
	ExpireStaleCheckoutCron string
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name:           v.GetString("APP_NAME"),
			Environment:    v.GetString("APP_ENV"),
			Port:           v.GetString("APP_PORT"),
			Version:        v.GetString("APP_VERSION"),
			LogLevel:       v.GetString("LOG_LEVEL"),
			PublicBaseURL:  strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/"),
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:              v.GetString("DB_HOST"),
			Port:              v.GetInt("DB_PORT"),
			User:              v.GetString("DB_USER"),
			Password:          v.GetString("DB_PASSWORD"),
			Database:          v.GetString("DB_NAME"),
			SSLMode:           v.GetString("DB_SSLMODE"),
			MaxConns:          v.GetInt("DB_MAX_CONNS"),
			MinConns:          v.GetInt("DB_MIN_CONNS"),
			MaxConnLifetime:   v.GetDuration("DB_MAX_CONN_LIFETIME"),
			MaxConnIdleTime:   v.GetDuration("DB_MAX_CONN_IDLE_TIME"),
			HealthCheckPeriod: v.GetDuration("DB_HEALTH_CHECK_PERIOD"),
			MaxRetries:        v.GetInt("DB_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("DB_RETRY_DELAY"),
			ConnectTimeout:    v.GetDuration("DB_CONNECT_TIMEOUT"),
			MigrationsPath:    v.GetString("DB_MIGRATIONS_PATH"),
		},
		Redis: RedisConfig{
			Host:      v.GetString("REDIS_HOST"),
			Password:  v.GetString("REDIS_PASSWORD"),
			DB:        v.GetInt("REDIS_DB"),
			KeyPrefix: v.GetString("REDIS_KEY_PREFIX"),
		},
		JWT: JWTConfig{
			Secret:       v.GetString("JWT_SECRET"),
			AccessTTL:    v.GetDuration("JWT_ACCESS_TTL"),
			Issuer:       v.GetString("JWT_ISSUER"),
			MagicLinkTTL: v.GetDuration("MAGIC_LINK_TTL"),
		},
		Stripe: StripeConfig{
			SecretKey:     v.GetString("STRIPE_SECRET_KEY"),
			WebhookSecret: v.GetString("STRIPE_WEBHOOK_SECRET"),
			Currency:      strings.ToLower(v.GetString("STRIPE_CURRENCY")),
			SuccessURL:    v.GetString("STRIPE_SUCCESS_URL"),
			CancelURL:     v.GetString("STRIPE_CANCEL_URL"),
		},
		Email: EmailConfig{
			Provider:    v.GetString("EMAIL_PROVIDER"),
			APIKey:      v.GetString("RESEND_API_KEY"),
			From:        v.GetString("EMAIL_FROM"),
			AdminNotify: v.GetString("EMAIL_ADMIN_NOTIFY"),
			SMTPHost:    v.GetString("SMTP_HOST"),
			SMTPPort:    v.GetString("SMTP_PORT"),
		},
		CRM: CRMConfig{
			Enabled:                v.GetBool("GHL_ENABLED"),
			APIKey:                 v.GetString("GHL_API_KEY"),
			LocationID:             v.GetString("GHL_LOCATION_ID"),
			BaseURL:                strings.TrimRight(v.GetString("GHL_BASE_URL"), "/"),
			APIVersion:             v.GetString("GHL_API_VERSION"),
			Timeout:                v.GetDuration("GHL_TIMEOUT"),
			MembershipFieldID:      v.GetString("GHL_MEMBERSHIP_FIELD_ID"),
			AccessTiers:            splitList(v.GetString("GHL_ACCESS_TIERS")),
			AccessTags:             splitList(v.GetString("GHL_ACCESS_TAGS")),
			EnrolledCoursesFieldID: v.GetString("GHL_ENROLLED_COURSES_FIELD_ID"),
			MembershipCacheTTL:     v.GetDuration("GHL_MEMBERSHIP_CACHE_TTL"),
		},
		Queue: QueueConfig{
			Concurrency:             v.GetInt("WORKER_CONCURRENCY"),
			StaleCheckoutAfter:      v.GetDuration("CHECKOUT_STALE_AFTER"),
			ExpireStaleCheckoutCron: v.GetString("CHECKOUT_EXPIRE_CRON"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             v.GetInt("RATE_LIMIT_BURST"),
		},
	}

	if cfg.Stripe.SuccessURL == "" {
		cfg.Stripe.SuccessURL = cfg.App.PublicBaseURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}"
	}
	if cfg.Stripe.CancelURL == "" {
		cfg.Stripe.CancelURL = cfg.App.PublicBaseURL + "/cart"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "Course Store API")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_VERSION", "1.0.0")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:3000")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "coursestore")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 25)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("DB_MAX_CONN_LIFETIME", "5m")
	v.SetDefault("DB_MAX_CONN_IDLE_TIME", "1m")
	v.SetDefault("DB_HEALTH_CHECK_PERIOD", "1m")
	v.SetDefault("DB_MAX_RETRIES", 5)
	v.SetDefault("DB_RETRY_DELAY", "1s")
	v.SetDefault("DB_CONNECT_TIMEOUT", "10s")
	v.SetDefault("DB_MIGRATIONS_PATH", "file://migrations")

	v.SetDefault("REDIS_HOST", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_KEY_PREFIX", "coursestore")

	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ACCESS_TTL", "24h")
	v.SetDefault("JWT_ISSUER", "coursestore")
	v.SetDefault("MAGIC_LINK_TTL", "15m")

	v.SetDefault("STRIPE_CURRENCY", "usd")

	v.SetDefault("EMAIL_PROVIDER", "smtp")
	v.SetDefault("EMAIL_FROM", "Course Store <noreply@coursestore.dev>")
	v.SetDefault("SMTP_HOST", "localhost")
	v.SetDefault("SMTP_PORT", "1025")

	v.SetDefault("GHL_ENABLED", false)
	v.SetDefault("GHL_BASE_URL", "https://services.leadconnectorhq.com")
	v.SetDefault("GHL_API_VERSION", "2021-07-28")
	v.SetDefault("GHL_TIMEOUT", "10s")
	v.SetDefault("GHL_MEMBERSHIP_CACHE_TTL", "5m")

	v.SetDefault("WORKER_CONCURRENCY", 10)
	v.SetDefault("CHECKOUT_STALE_AFTER", "24h")
	v.SetDefault("CHECKOUT_EXPIRE_CRON", "0 * * * *")

	v.SetDefault("RATE_LIMIT_RPS", 2)
	v.SetDefault("RATE_LIMIT_BURST", 10)
}

// Validate checks settings that must not fall back to defaults in production.
func (c *Config) Validate() error {
	if c.Stripe.Currency == "" {
		return fmt.Errorf("STRIPE_CURRENCY must not be empty")
	}
	if c.Email.Provider != "resend" && c.Email.Provider != "smtp" {
		return fmt.Errorf("EMAIL_PROVIDER must be resend or smtp, got %q", c.Email.Provider)
	}
	if c.Email.Provider == "resend" && c.Email.APIKey == "" {
		return fmt.Errorf("RESEND_API_KEY must be set when EMAIL_PROVIDER=resend")
	}
	if c.CRM.Enabled && (c.CRM.APIKey == "" || c.CRM.LocationID == "") {
		return fmt.Errorf("GHL_API_KEY and GHL_LOCATION_ID must be set when GHL_ENABLED=true")
	}

	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.Stripe.SecretKey == "" || c.Stripe.WebhookSecret == "" {
			return fmt.Errorf("STRIPE_SECRET_KEY and STRIPE_WEBHOOK_SECRET must be set in production")
		}
		if !c.CRM.Enabled {
			log.Warn().Msg("GoHighLevel sync disabled - membership access and CRM sync will not work")
		}
	}

	return nil
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
