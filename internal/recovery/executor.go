package recovery

import (
	"context"
	"log/slog"

	"github.com/haiminh/wifiwatch/internal/core/domain"
)

// Result is the outcome of running one recovery plan.
type Result struct {
	Recovered bool
	Winner    domain.StrategyName // set when Recovered
	Attempted int
}

// Executor runs a plan in order, stopping at the first strategy that
// verifies success. Strategies are never retried or reordered within a
// plan.
type Executor struct {
	log *slog.Logger
}

// NewExecutor creates an Executor.
func NewExecutor(log *slog.Logger) *Executor {
	return &Executor{log: log}
}

// Execute attempts each strategy in plan order, short-circuiting on the
// first success.
func (e *Executor) Execute(ctx context.Context, plan []Strategy) Result {
	for i, s := range plan {
		e.log.Info("Attempting recovery strategy",
			"strategy", s.Name, "rank", s.Rank, "tier", s.Tier)

		if err := s.Attempt(ctx); err != nil {
			e.log.Warn("Recovery strategy failed", "strategy", s.Name, "error", err)
			continue
		}

		e.log.Info("Recovery strategy succeeded", "strategy", s.Name)
		return Result{Recovered: true, Winner: s.Name, Attempted: i + 1}
	}
	return Result{Attempted: len(plan)}
}
