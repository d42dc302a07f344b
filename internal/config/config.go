// Package config loads NyaySetu settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Mail transports understood by MAIL_TRANSPORT.
const (
	MailTransportLog  = "log"
	MailTransportSMTP = "smtp"
	MailTransportAMQP = "amqp"
)

// ErrInvalid marks a configuration that parsed but cannot be used.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all application configuration.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Public base URL used in verification links.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	// Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"false"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns  int32  `env:"DB_MIN_CONNS" envDefault:"2"`

	// Cache (Redis)
	RedisURL      string `env:"REDIS_URL,required,notEmpty"`
	RedisPoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts. WriteTimeout must outlive GeminiTimeout.
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Tokens
	JWTSecret       string        `env:"JWT_SECRET,required,notEmpty,unset"`
	VerifyTokenTTL  time.Duration `env:"VERIFY_TOKEN_TTL" envDefault:"24h"`
	SessionTokenTTL time.Duration `env:"SESSION_TOKEN_TTL" envDefault:"60m"`

	// Remote model. An empty key runs the resolver in fallback-only mode.
	GeminiAPIKey          string        `env:"GEMINI_API_KEY,unset"`
	GeminiBaseURL         string        `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	GeminiModel           string        `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`
	GeminiTimeout         time.Duration `env:"GEMINI_TIMEOUT" envDefault:"15s"`
	GeminiMaxRPS          float64       `env:"GEMINI_MAX_RPS" envDefault:"5"`
	GeminiBreakerFailures uint32        `env:"GEMINI_BREAKER_FAILURES" envDefault:"5"`
	GeminiBreakerCooldown time.Duration `env:"GEMINI_BREAKER_COOLDOWN" envDefault:"30s"`

	// Mail
	MailTransport string `env:"MAIL_TRANSPORT" envDefault:"log"`
	MailFrom      string `env:"MAIL_FROM" envDefault:"no-reply@nyaysetu.local"`
	SMTPHost      string `env:"SMTP_HOST"`
	SMTPPort      int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername  string `env:"SMTP_USERNAME"`
	SMTPPassword  string `env:"SMTP_PASSWORD,unset"`
	AMQPURL       string `env:"AMQP_URL,unset"`
	AMQPQueue     string `env:"AMQP_QUEUE" envDefault:"verification_emails"`

	// Rate limiting
	RateLimitEnabled bool    `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitRPS     float64 `env:"RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst   int     `env:"RATE_LIMIT_BURST" envDefault:"20"`

	// Per-account limit on the answer endpoint.
	ChatRateLimitPerMinute int `env:"CHAT_RATE_LIMIT_PER_MINUTE" envDefault:"20"`
	ChatRateLimitBurst     int `env:"CHAT_RATE_LIMIT_BURST" envDefault:"5"`

	// Optional object storage copy of generated forms.
	FormArchiveBucket    string `env:"FORM_ARCHIVE_BUCKET"`
	FormArchiveEndpoint  string `env:"FORM_ARCHIVE_ENDPOINT"`
	FormArchiveRegion    string `env:"FORM_ARCHIVE_REGION" envDefault:"us-east-1"`
	FormArchiveAccessKey string `env:"FORM_ARCHIVE_ACCESS_KEY"`
	FormArchiveSecretKey string `env:"FORM_ARCHIVE_SECRET_KEY,unset"`

	// CORS configuration
	// Comma-separated list of allowed origins (e.g., "https://example.com,https://app.example.com")
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GeminiEnabled reports whether remote answers are configured.
func (c *Config) GeminiEnabled() bool {
	return strings.TrimSpace(c.GeminiAPIKey) != ""
}

// FormArchiveEnabled reports whether generated forms are copied to object storage.
func (c *Config) FormArchiveEnabled() bool {
	return c.FormArchiveBucket != ""
}

// EffectiveMailTransport returns the configured transport, or "log" when the
// chosen transport lacks the settings it needs.
func (c *Config) EffectiveMailTransport() string {
	switch strings.ToLower(strings.TrimSpace(c.MailTransport)) {
	case MailTransportSMTP:
		if c.SMTPHost == "" {
			return MailTransportLog
		}
		return MailTransportSMTP
	case MailTransportAMQP:
		if c.AMQPURL == "" {
			return MailTransportLog
		}
		return MailTransportAMQP
	default:
		return MailTransportLog
	}
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Validate performs cross-field checks that struct tags cannot express.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("%w: JWT_SECRET must not be blank", ErrInvalid)
	}
	if c.VerifyTokenTTL <= 0 {
		return fmt.Errorf("%w: VERIFY_TOKEN_TTL must be positive", ErrInvalid)
	}
	if c.SessionTokenTTL <= 0 {
		return fmt.Errorf("%w: SESSION_TOKEN_TTL must be positive", ErrInvalid)
	}
	if c.GeminiTimeout <= 0 {
		return fmt.Errorf("%w: GEMINI_TIMEOUT must be positive", ErrInvalid)
	}
	if c.DBMaxConns < 1 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("%w: DB_MIN_CONNS must be between 0 and DB_MAX_CONNS (>= 1)", ErrInvalid)
	}
	if c.RedisPoolSize < 1 {
		return fmt.Errorf("%w: REDIS_POOL_SIZE must be positive", ErrInvalid)
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("%w: LOG_FORMAT must be json or text", ErrInvalid)
	}
	return nil
}

// Load parses environment variables and returns a validated Config.
// Missing required variables and failed validation are both errors.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
