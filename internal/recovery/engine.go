package recovery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/haiminh/wifiwatch/internal/core/config"
	"github.com/haiminh/wifiwatch/internal/core/domain"
	"github.com/haiminh/wifiwatch/internal/infra/probe"
	"github.com/haiminh/wifiwatch/internal/infra/reboot"
)

// FailureStore persists the consecutive failure counter and the reboot
// marker across invocations.
type FailureStore interface {
	Count() int
	Increment() (int, error)
	Reset() error
	ConsumeRebootMarker() (time.Time, bool)
}

// Report summarizes one engine invocation.
type Report struct {
	State     domain.RunState
	Failures  int // consecutive failure count after the run
	Winner    domain.StrategyName
	Attempted int
}

// Engine is the top-level escalation state machine. Each Run is a single
// traversal from health classification to one terminal state; the persisted
// failure counter is what carries the machine across invocations.
type Engine struct {
	prober     probe.Prober
	store      FailureStore
	catalog    []Strategy
	executor   *Executor
	rebooter   reboot.Coordinator
	thresholds config.Thresholds
	log        *slog.Logger
}

// NewEngine creates an Engine with all collaborators injected.
func NewEngine(
	prober probe.Prober,
	store FailureStore,
	catalog []Strategy,
	executor *Executor,
	rebooter reboot.Coordinator,
	thresholds config.Thresholds,
	log *slog.Logger,
) *Engine {
	return &Engine{
		prober:     prober,
		store:      store,
		catalog:    catalog,
		executor:   executor,
		rebooter:   rebooter,
		thresholds: thresholds,
		log:        log,
	}
}

// Run executes one watchdog cycle.
func (e *Engine) Run(ctx context.Context) Report {
	// The marker must be consumed before any new decision so a second
	// reboot order cannot ride on stale evidence from the previous boot.
	if at, ok := e.store.ConsumeRebootMarker(); ok {
		e.log.Info("Resumed after forced reboot", "rebooted_at", at.Format(time.RFC3339))
	}

	state := e.classify(ctx)
	if state == domain.StateHealthy {
		if count := e.store.Count(); count > 0 {
			e.log.Info("Network healthy again, clearing failure count", "previous_failures", count)
		}
		e.resetFailures()
		return Report{State: domain.StateHealthy}
	}

	count := e.store.Count()
	e.log.Warn("Network unhealthy, starting recovery",
		"state", state, "consecutive_failures", count)

	// Plan with the pre-increment count: this run's tier reflects the
	// history before it, not its own outcome.
	plan := Plan(count, e.thresholds, e.catalog)
	result := e.executor.Execute(ctx, plan)

	if result.Recovered {
		e.log.Info("Recovery succeeded", "strategy", result.Winner, "attempted", result.Attempted)
		e.resetFailures()
		return Report{State: domain.StateRecovered, Winner: result.Winner, Attempted: result.Attempted}
	}

	newCount, err := e.store.Increment()
	if err != nil {
		e.log.Warn("Failed to persist failure count", "error", err)
	}
	e.log.Error("All recovery strategies failed",
		"attempted", result.Attempted, "consecutive_failures", newCount)

	if newCount >= e.thresholds.RebootThreshold {
		reason := fmt.Sprintf("%d consecutive network failures", newCount)
		if err := e.rebooter.Schedule(ctx, reason); err != nil {
			e.log.Error("Failed to schedule reboot", "error", err)
		}
		return Report{State: domain.StateRebootPending, Failures: newCount, Attempted: result.Attempted}
	}

	return Report{State: domain.StateEscalated, Failures: newCount, Attempted: result.Attempted}
}

// classify probes current health, cheapest check first.
func (e *Engine) classify(ctx context.Context) domain.RunState {
	if !e.prober.InterfaceExists(ctx) || !e.prober.InterfaceUp(ctx) || !e.prober.InterfaceHasAddress(ctx) {
		return domain.StateInterfaceDown
	}
	if !e.prober.InternetReachable(ctx) {
		return domain.StateNoInternet
	}
	return domain.StateHealthy
}

func (e *Engine) resetFailures() {
	if err := e.store.Reset(); err != nil {
		e.log.Warn("Failed to reset failure count", "error", err)
	}
}
