// Package config loads runtime configuration for the linkshare CLI.
//
// Sources, later ones winning:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file given with --config.
//  3. LINKSHARE_SERVER, LINKSHARE_TIMEOUT and LINKSHARE_TOKEN.
//  4. Command-line flags, bound by the cli package.
//
// # JSON schema
//
//	{
//	  "server_url": "http://localhost:3001",
//	  "timeout": "10s"
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/linkshare/internal/timex"
)

// Config holds runtime settings for the CLI.
type Config struct {
	ServerURL string
	Timeout   time.Duration
	Token     string
}

// JsonConfig is the on-disk form of Config. The token is never read from
// files.
type JsonConfig struct {
	ServerURL *string         `json:"server_url"`
	Timeout   *timex.Duration `json:"timeout"`
}

func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:3001"
	c.Timeout = 10 * time.Second
}

// LoadFile overlays c with the JSON file at path.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	if jc.ServerURL != nil {
		c.ServerURL = *jc.ServerURL
	}
	if jc.Timeout != nil {
		c.Timeout = jc.Timeout.Duration
	}
	return nil
}

// LoadEnv overlays c with the LINKSHARE_* variables that are set.
func (c *Config) LoadEnv() error {
	if v := os.Getenv("LINKSHARE_SERVER"); v != "" {
		c.ServerURL = v
	}
	if v := os.Getenv("LINKSHARE_TOKEN"); v != "" {
		c.Token = v
	}
	if v := os.Getenv("LINKSHARE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid value for LINKSHARE_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	return nil
}
