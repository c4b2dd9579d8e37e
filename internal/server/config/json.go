package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ZinoChan/LangRhythms/internal/flagx"
	"github.com/ZinoChan/LangRhythms/internal/timex"
)

// JSONConfig is the on-disk shape of the config file. Intervals use
// timex.Duration so "30m" and integer nanoseconds both work. Pointer and
// zero-valued fields absent from the file leave the defaults untouched.
type JSONConfig struct {
	EndpointAddrHTTP            string          `json:"endpoint_addr_http"`
	DatabaseDSN                 string          `json:"database_dsn"`
	SecretKey                   string          `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	RefreshWindow               *timex.Duration `json:"access_token_refresh_window"`
	LogLevel                    string          `json:"log_level"`
	EmailValidationURL          string          `json:"email_validation_url"`
	EmailValidationAPIKey       string          `json:"email_validation_api_key"`
	EmailValidationTimeout      *timex.Duration `json:"email_validation_timeout"`
	EmailValidationDisabled     *bool           `json:"email_validation_disabled"`
	AllowedOrigins              []string        `json:"allowed_origins"`
	CookieSecure                *bool           `json:"cookie_secure"`
	ContentSource               string          `json:"content_source"`
	S3RootUser                  string          `json:"s3_root_user"`
	S3RootPassword              string          `json:"s3_root_password"`
	S3Bucket                    string          `json:"s3_bucket"`
	S3Region                    string          `json:"s3_region"`
	S3BaseEndpoint              string          `json:"s3_base_endpoint"`
	S3Prefix                    string          `json:"s3_prefix"`
}

// parseJSON loads the file named by -c/-config (if any) into config.
func parseJSON(config *Config, args []string) error {
	path := flagx.JSONConfigFile(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &JSONConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.RefreshWindow, c.RefreshWindow)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.EmailValidationURL, c.EmailValidationURL)
	setString(&config.EmailValidationAPIKey, c.EmailValidationAPIKey)
	setDuration(&config.EmailValidationTimeout, c.EmailValidationTimeout)
	if c.EmailValidationDisabled != nil {
		config.EmailValidationDisabled = *c.EmailValidationDisabled
	}
	if c.AllowedOrigins != nil {
		config.AllowedOrigins = c.AllowedOrigins
	}
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}
	setString(&config.ContentSource, c.ContentSource)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3Prefix, c.S3Prefix)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
