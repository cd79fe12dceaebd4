package control

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/haiminh/wifiwatch/internal/core/config"
	"github.com/haiminh/wifiwatch/internal/infra/metrics"
	"github.com/haiminh/wifiwatch/internal/infra/netops"
	"github.com/haiminh/wifiwatch/internal/infra/probe"
	"github.com/haiminh/wifiwatch/internal/infra/reboot"
	"github.com/haiminh/wifiwatch/internal/infra/state"
	"github.com/haiminh/wifiwatch/internal/recovery"
)

// Watchdog is the main application struct wiring the probe, state store,
// remediation actions, and escalation engine for one invocation.
type Watchdog struct {
	cfg     config.Config
	engine  *recovery.Engine
	store   *state.FileStore
	metrics *metrics.Writer
	log     *slog.Logger
}

// NewWatchdog creates a Watchdog instance with all dependencies initialized.
func NewWatchdog(cfg config.Config) (*Watchdog, error) {
	// Every invocation gets its own run_id so interleaved journal lines
	// from adjacent cron runs stay attributable.
	log := slog.Default().With(
		"run_id", uuid.NewString()[:8],
		"interface", cfg.Interface,
	)

	runner := netops.NewExecRunner(log)
	prober := probe.NewLinuxProber(cfg.Interface, cfg.Probe, runner, log)
	actions := netops.NewActions(
		cfg.Interface,
		cfg.Thresholds.DHCPTimeout,
		runner,
		prober.InterfaceHasAddress,
		log,
	)
	store := state.NewFileStore(cfg.StateDir, log)
	coordinator := reboot.NewSystemCoordinator(store, runner, log)

	verify := func(ctx context.Context) bool { return probe.Healthy(ctx, prober) }
	catalog := recovery.NewCatalog(actions, verify)
	engine := recovery.NewEngine(
		prober,
		store,
		catalog,
		recovery.NewExecutor(log),
		coordinator,
		cfg.Thresholds,
		log,
	)

	return &Watchdog{
		cfg:     cfg,
		engine:  engine,
		store:   store,
		metrics: metrics.NewWriter(cfg.MetricsFile, cfg.Interface),
		log:     log,
	}, nil
}

// Store exposes the failure state store for the status/reset commands.
func (w *Watchdog) Store() *state.FileStore {
	return w.store
}

// Run executes one watchdog cycle and returns its report.
func (w *Watchdog) Run(ctx context.Context) recovery.Report {
	start := time.Now()
	report := w.engine.Run(ctx)
	elapsed := time.Since(start)

	w.log.Info("Watchdog run finished",
		"state", report.State,
		"consecutive_failures", report.Failures,
		"duration", elapsed.Round(time.Millisecond))

	if w.metrics != nil {
		if err := w.metrics.WriteRun(report, elapsed); err != nil {
			w.log.Warn("Failed to write metrics file", "error", err)
		}
	}
	return report
}
