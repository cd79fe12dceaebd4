package reboot

import (
	"context"
	"fmt"
	"log/slog"
	"syscall"
	"time"

	"github.com/haiminh/wifiwatch/internal/infra/netops"
)

// Marker persists evidence that a reboot was ordered, consumed on the
// first run after restart.
type Marker interface {
	MarkReboot(at time.Time) error
}

// Coordinator performs the terminal escalation.
type Coordinator interface {
	// Schedule orders a delayed system restart. It returns once the
	// restart is in flight; it never waits for the reboot itself.
	Schedule(ctx context.Context, reason string) error
}

// SystemCoordinator schedules a real OS restart via shutdown(8).
type SystemCoordinator struct {
	marker Marker
	runner netops.Runner
	syncFn func()
	log    *slog.Logger
}

// NewSystemCoordinator creates a coordinator that persists the marker
// through the given store before ordering the restart.
func NewSystemCoordinator(marker Marker, runner netops.Runner, log *slog.Logger) *SystemCoordinator {
	return &SystemCoordinator{
		marker: marker,
		runner: runner,
		syncFn: func() { syscall.Sync() },
		log:    log,
	}
}

// Schedule persists the reboot marker, flushes filesystem buffers, and
// requests a restart one minute out so the caller can finish cleanly.
func (c *SystemCoordinator) Schedule(ctx context.Context, reason string) error {
	c.log.Error("Scheduling system reboot", "reason", reason)

	if err := c.marker.MarkReboot(time.Now()); err != nil {
		// Without the marker the post-reboot run cannot tell it resumed,
		// but that is informational only. Keep going.
		c.log.Warn("Failed to persist reboot marker", "error", err)
	}

	c.syncFn()

	if err := c.runner.Run(ctx, "shutdown", "-r", "+1", "wifiwatch: "+reason); err != nil {
		return fmt.Errorf("failed to schedule reboot: %w", err)
	}
	return nil
}
