package config

import (
	"os"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "config_*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	if _, err := tmpFile.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write to temp file: %v", err)
	}
	tmpFile.Close()
	return tmpFile.Name()
}

func TestLoad_EnvSubstitution(t *testing.T) {
	os.Setenv("TEST_WIFI_IFACE", "wlp2s0")
	defer os.Unsetenv("TEST_WIFI_IFACE")

	path := writeConfig(t, `
interface: ${TEST_WIFI_IFACE}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Interface != "wlp2s0" {
		t.Errorf("Expected interface wlp2s0, got %s", cfg.Interface)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
interface: wlan0
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Probe.Targets) != 3 {
		t.Errorf("expected 3 default targets, got %v", cfg.Probe.Targets)
	}
	if cfg.Probe.RequiredSuccesses != 1 {
		t.Errorf("required_successes default = %d, want 1", cfg.Probe.RequiredSuccesses)
	}
	if cfg.Thresholds.MaxConsecutiveFailures != 3 {
		t.Errorf("max_consecutive_failures default = %d, want 3", cfg.Thresholds.MaxConsecutiveFailures)
	}
	if cfg.Thresholds.RebootThreshold != 5 {
		t.Errorf("reboot_threshold default = %d, want 5", cfg.Thresholds.RebootThreshold)
	}
	if cfg.StateDir != "/var/lib/wifiwatch" {
		t.Errorf("state_dir default = %s", cfg.StateDir)
	}
	if cfg.MetricsFile != "" {
		t.Errorf("metrics_file must default to disabled, got %s", cfg.MetricsFile)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("logging level default = %s, want info", cfg.Logging.Level)
	}
}

func TestLoad_MisorderedThresholdsAccepted(t *testing.T) {
	// reboot_threshold below max_consecutive_failures means the host
	// reboots before the aggressive tier is ever tried. Legal, not
	// validated.
	path := writeConfig(t, `
interface: wlan0
thresholds:
  max_consecutive_failures: 5
  reboot_threshold: 2
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load rejected misordered thresholds: %v", err)
	}
	if cfg.Thresholds.RebootThreshold != 2 || cfg.Thresholds.MaxConsecutiveFailures != 5 {
		t.Errorf("thresholds not preserved: %+v", cfg.Thresholds)
	}
}

func TestLoad_MissingInterface(t *testing.T) {
	path := writeConfig(t, `
probe:
  required_successes: 1
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for missing interface")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
