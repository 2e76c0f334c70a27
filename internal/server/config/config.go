// Package config handles configuration for the linkshare server:
// defaults, a JSON overlay, environment variables (optionally from a .env
// file) and command-line flags, applied in that order.
package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/linkshare/internal/common"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"

	// DefaultSecretKey is the well-known development secret. Validate refuses
	// it in production.
	DefaultSecretKey = "DEV_SECRET"
)

// Config holds runtime settings for the linkshare server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the HTTP API.
//   - DatabaseDriver / DatabaseDSN: "sqlite" (modernc) or "pgx" (PostgreSQL) and its DSN.
//   - SecretKey: HMAC secret for signing session tokens (HS256).
//   - TokenValidityDuration: session token lifetime.
//   - Environment: "development" or "production".
//   - AllowedOrigins: CORS origins allowed to call the API.
//   - AdminPassword: password of the seeded "admin" account; empty disables seeding.
//   - ShutdownTimeout: grace period for in-flight requests on shutdown.
//   - RateLimit / RateLimitWindow: requests allowed per client IP per window; 0 disables.
type Config struct {
	EndpointAddrHTTP      string
	DatabaseDriver        string
	DatabaseDSN           string
	SecretKey             string
	TokenValidityDuration time.Duration
	Environment           string
	AllowedOrigins        []string
	AdminPassword         string
	ShutdownTimeout       time.Duration
	RateLimit             int
	RateLimitWindow       time.Duration
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret is insecure and Validate rejects it in production.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":3001"
	c.DatabaseDriver = DriverSQLite
	c.DatabaseDSN = "file:linkshare.sqlite?_pragma=foreign_keys(1)"
	c.SecretKey = DefaultSecretKey
	c.TokenValidityDuration = 24 * time.Hour
	c.Environment = EnvDevelopment
	c.AllowedOrigins = []string{"http://localhost:3000"}
	c.AdminPassword = ""
	c.ShutdownTimeout = 10 * time.Second
	c.RateLimit = 100
	c.RateLimitWindow = 15 * time.Minute
}

// IsProduction reports whether the server runs as a production deployment.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// Validate reports configuration that must stop the process from starting.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("%w: secret key is empty", common.ErrInsecureSecret)
	}
	if c.IsProduction() && c.SecretKey == DefaultSecretKey {
		return fmt.Errorf("%w: the development secret must not be used in production, set JWT_SECRET", common.ErrInsecureSecret)
	}
	switch c.DatabaseDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", c.DatabaseDriver)
	}
	if c.TokenValidityDuration <= 0 {
		return fmt.Errorf("token validity must be positive, got %s", c.TokenValidityDuration)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative, got %d", c.RateLimit)
	}
	if c.RateLimit > 0 && c.RateLimitWindow <= 0 {
		return fmt.Errorf("rate limit window must be positive, got %s", c.RateLimitWindow)
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
