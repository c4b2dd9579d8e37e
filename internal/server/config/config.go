// Package config handles configuration for the server, layering defaults,
// an optional JSON file, environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ZinoChan/LangRhythms/internal/common"
)

// Content sources for the lesson endpoints.
const (
	ContentSourceEmbedded = "embedded"
	ContentSourceS3       = "s3"
)

// Config holds runtime settings for the LangRhythms server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the HTTP API.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects the in-memory store.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the default in prod.
//   - AccessTokenValidityDuration: validity window of a minted token.
//   - RefreshWindow: remaining validity below which a token is reissued.
//   - EmailValidation*: the external email validation service.
//   - AllowedOrigins / CookieSecure: browser-facing settings.
//   - ContentSource and S3*: where lesson documents are read from.
type Config struct {
	EndpointAddrHTTP            string        `env:"HTTP_ADDR"`
	DatabaseDSN                 string        `env:"DATABASE_DSN"`
	SecretKey                   string        `env:"SECRET_KEY"`
	AccessTokenValidityDuration time.Duration `env:"ACCESS_TOKEN_VALIDITY"`
	RefreshWindow               time.Duration `env:"ACCESS_TOKEN_REFRESH_WINDOW"`
	LogLevel                    string        `env:"LOG_LEVEL"`

	EmailValidationURL      string        `env:"EMAIL_VALIDATION_URL"`
	EmailValidationAPIKey   string        `env:"ABSTRACT_API_KEY"`
	EmailValidationTimeout  time.Duration `env:"EMAIL_VALIDATION_TIMEOUT"`
	EmailValidationDisabled bool          `env:"EMAIL_VALIDATION_DISABLED"`

	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	CookieSecure   bool     `env:"COOKIE_SECURE"`

	ContentSource  string `env:"CONTENT_SOURCE"`
	S3RootUser     string `env:"S3_ROOT_USER"`
	S3RootPassword string `env:"S3_ROOT_PASSWORD"`
	S3Bucket       string `env:"S3_BUCKET"`
	S3Region       string `env:"S3_REGION"`
	S3BaseEndpoint string `env:"S3_BASE_ENDPOINT"`
	S3Prefix       string `env:"S3_PREFIX"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret key is insecure and must be overridden in production.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = "localhost:5000"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = common.DefaultAccessTokenValidity
	c.RefreshWindow = common.DefaultRefreshWindow
	c.LogLevel = "info"
	c.EmailValidationURL = "https://emailvalidation.abstractapi.com/v1/"
	c.EmailValidationTimeout = 10 * time.Second
	c.AllowedOrigins = []string{"http://localhost:3000"}
	c.ContentSource = ContentSourceEmbedded
	c.S3Bucket = "lessons"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// Validate rejects combinations the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.EndpointAddrHTTP == "" {
		errs = append(errs, errors.New("http address is required"))
	}
	if c.SecretKey == "" {
		errs = append(errs, errors.New("secret key is required"))
	}
	if c.AccessTokenValidityDuration <= 0 {
		errs = append(errs, fmt.Errorf("access token validity must be positive, got %s", c.AccessTokenValidityDuration))
	}
	if c.RefreshWindow < 0 {
		errs = append(errs, fmt.Errorf("refresh window must not be negative, got %s", c.RefreshWindow))
	}
	if !c.EmailValidationDisabled {
		if c.EmailValidationURL == "" {
			errs = append(errs, errors.New("email validation url is required"))
		}
		if c.EmailValidationAPIKey == "" {
			errs = append(errs, errors.New("email validation api key is required (set ABSTRACT_API_KEY or EMAIL_VALIDATION_DISABLED=true)"))
		}
	}
	switch c.ContentSource {
	case ContentSourceEmbedded:
	case ContentSourceS3:
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("s3 bucket is required for s3 content source"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown content source %q", c.ContentSource))
	}
	return errors.Join(errs...)
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment (.env included) and finally
// command-line flags. args are the program arguments without the binary name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, fmt.Errorf("json config: %w", err)
	}
	if err := parseEnv(cfg); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
