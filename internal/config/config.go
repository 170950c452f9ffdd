// Package config loads and validates application configuration from the
// environment, an optional .env file and an optional config.yaml.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values for the API server and the worker.
// Field tags name the environment variable each value is read from.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string `mapstructure:"PORT" validate:"required"`

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string `mapstructure:"DATABASE_URL" validate:"required"`

	// LogLevel controls the minimum log level. Defaults to "info".
	LogLevel string `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`

	// Env selects the logger preset: "production" (JSON) or "development".
	Env string `mapstructure:"APP_ENV" validate:"oneof=production development"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override the Vite dev server default.
	CORSOrigins    []string `mapstructure:"-"`
	CORSOriginsRaw string   `mapstructure:"CORS_ORIGINS"`

	// Redis backs wizard sessions, submission locks, revoked tokens and the task queue.
	RedisAddr     string `mapstructure:"REDIS_ADDR" validate:"required"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB" validate:"gte=0"`

	// AuthJWTSecret verifies access tokens issued by the identity provider. Required.
	AuthJWTSecret string `mapstructure:"AUTH_JWT_SECRET" validate:"required"`

	StripeSecretKey     string `mapstructure:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	PaymentCurrency     string `mapstructure:"PAYMENT_CURRENCY" validate:"len=3"`

	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`

	// SchedulingWebhookSecret signs scheduling widget webhooks. Empty disables the endpoint.
	SchedulingWebhookSecret string `mapstructure:"SCHEDULING_WEBHOOK_SECRET"`

	WizardTTL          time.Duration `mapstructure:"WIZARD_TTL" validate:"gt=0"`
	SubmissionLockTTL  time.Duration `mapstructure:"SUBMISSION_LOCK_TTL" validate:"gt=0"`
	RecordingRetention time.Duration `mapstructure:"RECORDING_RETENTION" validate:"gt=0"`

	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS" validate:"gt=0"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST" validate:"gt=0"`
	MaxBodyBytes   int64   `mapstructure:"MAX_BODY_BYTES" validate:"gt=0"`
	MaxUploadBytes int64   `mapstructure:"MAX_UPLOAD_BYTES" validate:"gt=0"`
}

var defaults = map[string]any{
	"PORT":                      "8080",
	"DATABASE_URL":              "",
	"LOG_LEVEL":                 "info",
	"APP_ENV":                   "production",
	"CORS_ORIGINS":              "http://localhost:5173",
	"REDIS_ADDR":                "localhost:6379",
	"REDIS_PASSWORD":            "",
	"REDIS_DB":                  0,
	"AUTH_JWT_SECRET":           "",
	"STRIPE_SECRET_KEY":         "",
	"STRIPE_WEBHOOK_SECRET":     "",
	"PAYMENT_CURRENCY":          "gbp",
	"CLOUDINARY_CLOUD_NAME":     "",
	"CLOUDINARY_API_KEY":        "",
	"CLOUDINARY_API_SECRET":     "",
	"SCHEDULING_WEBHOOK_SECRET": "",
	"WIZARD_TTL":                30 * time.Minute,
	"SUBMISSION_LOCK_TTL":       30 * time.Second,
	"RECORDING_RETENTION":       30 * 24 * time.Hour,
	"RATE_LIMIT_RPS":            5.0,
	"RATE_LIMIT_BURST":          10,
	"MAX_BODY_BYTES":            1 << 20,
	"MAX_UPLOAD_BYTES":          500 << 20,
}

// Load reads configuration and returns a validated Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	cfg.CORSOrigins = splitCSV(cfg.CORSOriginsRaw)
	cfg.PaymentCurrency = strings.ToLower(cfg.PaymentCurrency)

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// StripeEnabled reports whether payment credentials are configured.
func (c Config) StripeEnabled() bool {
	return c.StripeSecretKey != ""
}

// CloudinaryEnabled reports whether recording storage credentials are configured.
func (c Config) CloudinaryEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// validate reports every missing required variable in one error, followed by
// any other invalid values.
func validate(cfg Config) error {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("mapstructure")
	})

	err := v.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config: validate: %w", err)
	}

	var missing, invalid []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
			continue
		}
		invalid = append(invalid, fmt.Sprintf("%s (%s %s)", fe.Field(), fe.Tag(), fe.Param()))
	}
	if len(missing) > 0 {
		return fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(invalid, ", "))
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
