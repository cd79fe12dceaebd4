package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Interface == "" {
		return nil, fmt.Errorf("interface is required")
	}

	// Set defaults if necessary
	if len(cfg.Probe.Targets) == 0 {
		cfg.Probe.Targets = []string{"8.8.8.8", "1.1.1.1", "9.9.9.9"}
	}
	if cfg.Probe.RequiredSuccesses == 0 {
		cfg.Probe.RequiredSuccesses = 1
	}
	if cfg.Probe.PingTimeout == 0 {
		cfg.Probe.PingTimeout = 5 * time.Second
	}
	if cfg.Thresholds.MaxConsecutiveFailures == 0 {
		cfg.Thresholds.MaxConsecutiveFailures = 3
	}
	if cfg.Thresholds.RebootThreshold == 0 {
		cfg.Thresholds.RebootThreshold = 5
	}
	if cfg.Thresholds.DHCPTimeout == 0 {
		cfg.Thresholds.DHCPTimeout = 30 * time.Second
	}
	if cfg.StateDir == "" {
		cfg.StateDir = "/var/lib/wifiwatch"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	return &cfg, nil
}
