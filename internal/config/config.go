// Package config handles configuration loading and management
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sokomo/apctl/internal/types"
)

const DefaultConfigFile = "/etc/apctl/config.yaml"

// Config holds all application configuration.
type Config struct {
	// GatewayCIDR is the AP-side address handed to NetworkManager's shared
	// IPv4 method when the user does not supply one.
	GatewayCIDR string `yaml:"gateway_cidr"`
	// DefaultBand is used when neither a band nor a 5GHz channel is given.
	DefaultBand types.Band `yaml:"default_band"`
	// ScanSettleSeconds is how long to wait after triggering a rescan
	// before reading results.
	ScanSettleSeconds int `yaml:"scan_settle_seconds"`
	// SudoPath is the binary used to re-execute with root privileges.
	SudoPath string `yaml:"sudo_path"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		GatewayCIDR:       "192.168.12.1/24",
		DefaultBand:       types.Band24,
		ScanSettleSeconds: 2,
		SudoPath:          "sudo",
	}
}

// Load reads configuration from a YAML file, overlaying defaults. A missing
// file is not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to open config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if !cfg.DefaultBand.Valid() {
		return nil, fmt.Errorf("invalid default_band %q (want 2.4 or 5)", cfg.DefaultBand)
	}
	if cfg.ScanSettleSeconds < 0 {
		return nil, fmt.Errorf("scan_settle_seconds must not be negative")
	}
	return cfg, nil
}

// ScanSettle returns the settle delay as a duration.
func (c *Config) ScanSettle() time.Duration {
	return time.Duration(c.ScanSettleSeconds) * time.Second
}
