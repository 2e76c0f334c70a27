package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/linkshare/internal/flagx"
	"github.com/dmitrijs2005/linkshare/internal/timex"
)

// JsonConfig mirrors Config for JSON files. Durations accept "24h" style
// strings or integer nanoseconds. Absent fields leave Config untouched.
type JsonConfig struct {
	EndpointAddrHTTP      *string         `json:"endpoint_addr_http"`
	DatabaseDriver        *string         `json:"database_driver"`
	DatabaseDSN           *string         `json:"database_dsn"`
	SecretKey             *string         `json:"secret_key"`
	TokenValidityDuration *timex.Duration `json:"token_validity_duration"`
	Environment           *string         `json:"environment"`
	AllowedOrigins        []string        `json:"allowed_origins"`
	AdminPassword         *string         `json:"admin_password"`
	ShutdownTimeout       *timex.Duration `json:"shutdown_timeout"`
	RateLimit             *int            `json:"rate_limit"`
	RateLimitWindow       *timex.Duration `json:"rate_limit_window"`
}

// parseJson overlays config with the file named by -c / -config.
// Nothing happens when neither flag is given.
func parseJson(config *Config) error {
	path, _ := flagx.SourceFiles()
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.Environment, c.Environment)
	setString(&config.AdminPassword, c.AdminPassword)
	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.RateLimit != nil {
		config.RateLimit = *c.RateLimit
	}
	if c.RateLimitWindow != nil {
		config.RateLimitWindow = c.RateLimitWindow.Duration
	}
	if c.AllowedOrigins != nil {
		config.AllowedOrigins = c.AllowedOrigins
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
