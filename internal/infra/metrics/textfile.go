package metrics

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/haiminh/wifiwatch/internal/core/domain"
	"github.com/haiminh/wifiwatch/internal/recovery"
)

// Writer renders one run's outcome in Prometheus text exposition format for
// the node_exporter textfile collector. The watchdog is a one-shot process,
// so the file is rewritten wholesale after every run instead of being
// scraped from a live registry.
type Writer struct {
	path  string
	iface string
}

// NewWriter creates a Writer targeting path, or nil when path is empty.
func NewWriter(path, iface string) *Writer {
	if path == "" {
		return nil
	}
	return &Writer{path: path, iface: iface}
}

// WriteRun replaces the textfile with the given run's metrics.
func (w *Writer) WriteRun(report recovery.Report, duration time.Duration) error {
	reg := prometheus.NewRegistry()
	labels := prometheus.Labels{"interface": w.iface}

	failures := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "wifiwatch_consecutive_failures",
		Help:        "Consecutive failed watchdog runs after the last run.",
		ConstLabels: labels,
	})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "wifiwatch_last_run_timestamp_seconds",
		Help:        "Unix time of the last watchdog run.",
		ConstLabels: labels,
	})
	lastSuccess := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "wifiwatch_last_run_success",
		Help:        "1 when the last run ended healthy or recovered.",
		ConstLabels: labels,
	})
	runSeconds := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "wifiwatch_last_run_duration_seconds",
		Help:        "Wall-clock duration of the last watchdog run.",
		ConstLabels: labels,
	})
	attempted := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "wifiwatch_last_run_strategies_attempted",
		Help:        "Recovery strategies attempted during the last run.",
		ConstLabels: labels,
	})
	stateVec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name:        "wifiwatch_last_run_state",
		Help:        "Terminal state of the last run (one series set to 1).",
		ConstLabels: labels,
	}, []string{"state"})

	reg.MustRegister(failures, lastRun, lastSuccess, runSeconds, attempted, stateVec)

	failures.Set(float64(report.Failures))
	lastRun.SetToCurrentTime()
	if report.State.Success() {
		lastSuccess.Set(1)
	}
	runSeconds.Set(duration.Seconds())
	attempted.Set(float64(report.Attempted))
	for _, s := range []domain.RunState{
		domain.StateHealthy, domain.StateRecovered,
		domain.StateEscalated, domain.StateRebootPending,
	} {
		v := 0.0
		if s == report.State {
			v = 1
		}
		stateVec.WithLabelValues(string(s)).Set(v)
	}

	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	var buf bytes.Buffer
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(&buf, mf); err != nil {
			return fmt.Errorf("failed to render metrics: %w", err)
		}
	}

	// Atomic replace so node_exporter never scrapes a half-written file.
	tmp, err := os.CreateTemp(filepath.Dir(w.path), filepath.Base(w.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return os.Rename(tmp.Name(), w.path)
}
