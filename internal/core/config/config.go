package config

import (
	"time"
)

// Config represents the top-level configuration.
type Config struct {
	Interface   string        `yaml:"interface"`
	Probe       ProbeConfig   `yaml:"probe"`
	Thresholds  Thresholds    `yaml:"thresholds"`
	StateDir    string        `yaml:"state_dir"`
	MetricsFile string        `yaml:"metrics_file"` // node_exporter textfile path, empty disables
	Logging     LoggingConfig `yaml:"logging"`
}

// ProbeConfig holds internet reachability probe settings.
type ProbeConfig struct {
	Targets           []string      `yaml:"targets"`
	RequiredSuccesses int           `yaml:"required_successes"`
	PingTimeout       time.Duration `yaml:"ping_timeout"`
}

// Thresholds holds the escalation policy knobs.
//
// RebootThreshold below MaxConsecutiveFailures is legal configuration: the
// host then reboots before the aggressive tier is ever tried. Load does not
// validate the ordering.
type Thresholds struct {
	MaxConsecutiveFailures int           `yaml:"max_consecutive_failures"`
	RebootThreshold        int           `yaml:"reboot_threshold"`
	DHCPTimeout            time.Duration `yaml:"dhcp_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}
