package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/dmitrijs2005/linkshare/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3001")
//	-driver     database driver ("sqlite" or "pgx")
//	-d string   database DSN
//	-s string   JWT HMAC secret key
//	-t duration session token validity (e.g., "24h")
//	-env string deployment environment ("development" or "production")
//
// os.Args is filtered through flagx.FilterArgs first so that flags owned
// by other flag sets (-c, -env-file) do not cause parse errors.
func parseFlags(config *Config) error {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-driver", "-d", "-s", "-t", "-env"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDriver, "driver", config.DatabaseDriver, "database driver (sqlite|pgx)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "token secret key")
	fs.DurationVar(&config.TokenValidityDuration, "t", config.TokenValidityDuration, "session token validity")
	fs.StringVar(&config.Environment, "env", config.Environment, "deployment environment")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
