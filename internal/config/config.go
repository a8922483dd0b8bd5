// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :8000).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN. Required; the server refuses to start without it.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// DBMaxOpenConns caps the connection pool (default 20).
	DBMaxOpenConns int `mapstructure:"DB_MAX_OPEN_CONNS"`
	// DBMaxIdleConns caps idle pooled connections (default 10).
	DBMaxIdleConns int `mapstructure:"DB_MAX_IDLE_CONNS"`
	// DBConnMaxLifetime recycles pooled connections (e.g. "1h").
	DBConnMaxLifetime string `mapstructure:"DB_CONN_MAX_LIFETIME"`
	// CodeTTL is the verification code lifetime (e.g. "300s").
	CodeTTL string `mapstructure:"CODE_TTL"`
	// RequestTimeout bounds each inbound request (e.g. "30s").
	RequestTimeout string `mapstructure:"REQUEST_TIMEOUT"`
	// SMSAPIKey authenticates against the SMS provider. Empty disables real delivery.
	SMSAPIKey string `mapstructure:"SMS_API_KEY"`
	// SMSBaseURL is the provider send endpoint.
	SMSBaseURL string `mapstructure:"SMS_BASE_URL"`
	// SMSSignName is the registered SMS signature shown to recipients.
	SMSSignName string `mapstructure:"SMS_SIGN_NAME"`
	// SMSTemplateCode is the registered template carrying the code variable.
	SMSTemplateCode string `mapstructure:"SMS_TEMPLATE_CODE"`
	// CORSOrigin is a comma-separated list of allowed origins; "*" allows all.
	CORSOrigin string `mapstructure:"CORS_ORIGIN"`
	// OTLPEndpoint enables telemetry export when set (e.g. localhost:4317).
	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`
	// OTLPInsecure forces a plaintext exporter connection for https endpoints.
	OTLPInsecure bool `mapstructure:"OTLP_INSECURE"`
	// CodeReturnToClient enables GET /dev/code: no SMS needed, codes readable
	// per phone. Must not be true when Env is production.
	CodeReturnToClient bool `mapstructure:"CODE_RETURN_TO_CLIENT"`
	// TrustedLogin enables the phone-only login branch that skips code
	// validation. Must not be true when Env is production.
	TrustedLogin bool `mapstructure:"TRUSTED_LOGIN"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8000")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_MAX_OPEN_CONNS", 20)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "1h")
	v.SetDefault("CODE_TTL", "300s")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("SMS_API_KEY", "")
	v.SetDefault("SMS_BASE_URL", "")
	v.SetDefault("SMS_SIGN_NAME", "")
	v.SetDefault("SMS_TEMPLATE_CODE", "")
	v.SetDefault("CORS_ORIGIN", "*")
	v.SetDefault("OTLP_ENDPOINT", "")
	v.SetDefault("OTLP_INSECURE", false)
	v.SetDefault("CODE_RETURN_TO_CLIENT", false)
	v.SetDefault("TRUSTED_LOGIN", false)
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.CodeReturnToClient && cfg.Env == "production" {
		return nil, errors.New("config: CODE_RETURN_TO_CLIENT must not be true when APP_ENV=production")
	}
	if cfg.TrustedLogin && cfg.Env == "production" {
		return nil, errors.New("config: TRUSTED_LOGIN must not be true when APP_ENV=production")
	}
	if cfg.DBMaxOpenConns <= 0 {
		cfg.DBMaxOpenConns = 20
	}
	if cfg.DBMaxIdleConns < 0 {
		cfg.DBMaxIdleConns = 10
	}

	return &cfg, nil
}

// CodeTTLDuration parses CodeTTL as a time.Duration. Returns 5m if unset or invalid.
func (c *Config) CodeTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.CodeTTL)
	if err != nil || d <= 0 {
		return 5 * time.Minute
	}
	return d
}

// RequestTimeoutDuration parses RequestTimeout. Returns 30s if unset or invalid.
func (c *Config) RequestTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// DBConnMaxLifetimeDuration parses DBConnMaxLifetime. Returns 1h if unset or invalid.
func (c *Config) DBConnMaxLifetimeDuration() time.Duration {
	d, err := time.ParseDuration(c.DBConnMaxLifetime)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// CORSOrigins returns allowed origins from the comma-separated config.
func (c *Config) CORSOrigins() []string {
	if c == nil || c.CORSOrigin == "" {
		return nil
	}
	parts := strings.Split(c.CORSOrigin, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimRight(strings.TrimSpace(p), "/"); s != "" {
			out = append(out, s)
		}
	}
	return out
}
