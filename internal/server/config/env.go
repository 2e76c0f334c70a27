package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/linkshare/internal/flagx"
	"github.com/joho/godotenv"
)

// parseEnv loads the dotenv file (-env-file, or ./.env when present) into
// the process environment without overriding variables that are already
// set, then overlays config with the recognised variables.
func parseEnv(config *Config) error {
	_, envFile := flagx.SourceFiles()
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	var problems []string

	lookupString("PORT", func(v string) { config.EndpointAddrHTTP = ":" + v })
	lookupString("HTTP_ADDR", func(v string) { config.EndpointAddrHTTP = v })
	lookupString("DB_DRIVER", func(v string) { config.DatabaseDriver = v })
	lookupString("DATABASE_DSN", func(v string) { config.DatabaseDSN = v })
	lookupString("JWT_SECRET", func(v string) { config.SecretKey = v })
	lookupString("APP_ENV", func(v string) { config.Environment = v })
	lookupString("ADMIN_PASSWORD", func(v string) { config.AdminPassword = v })
	lookupString("CORS_ORIGINS", func(v string) { config.AllowedOrigins = splitList(v) })
	lookupDuration("TOKEN_TTL", &config.TokenValidityDuration, &problems)
	lookupDuration("SHUTDOWN_TIMEOUT", &config.ShutdownTimeout, &problems)
	lookupInt("RATE_LIMIT", &config.RateLimit, &problems)
	lookupDuration("RATE_LIMIT_WINDOW", &config.RateLimitWindow, &problems)

	if len(problems) > 0 {
		return fmt.Errorf("configuration errors:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func lookupString(key string, set func(string)) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		set(v)
	}
}

func lookupDuration(key string, dst *time.Duration, problems *[]string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*problems = append(*problems, fmt.Sprintf("invalid value for %s: expected duration string, got '%s': %v", key, v, err))
		return
	}
	*dst = d
}

func lookupInt(key string, dst *int, problems *[]string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*problems = append(*problems, fmt.Sprintf("invalid value for %s: expected integer, got '%s'", key, v))
		return
	}
	*dst = n
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
