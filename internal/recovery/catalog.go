package recovery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/haiminh/wifiwatch/internal/core/domain"
	"github.com/haiminh/wifiwatch/internal/infra/netops"
)

// standardRungs is how many leading catalog entries form the standard tier.
const standardRungs = 3

// verifyInterval is how often a strategy re-probes during its settle window.
const verifyInterval = 3 * time.Second

var errUnverified = errors.New("health probe still failing")

// Strategy is one rung of the escalation ladder: a named remediation bound
// to its settle time and self-verification. Strategies are immutable after
// catalog construction.
type Strategy struct {
	Name   domain.StrategyName
	Rank   int
	Tier   domain.Tier
	Settle time.Duration

	run    func(ctx context.Context) error
	verify func(ctx context.Context) bool
}

// Attempt performs the remediation, then polls the health probe for up to
// the settle time. A nil return means the strategy verified its own
// success; the engine trusts that report and does not re-probe.
func (s Strategy) Attempt(ctx context.Context) error {
	if err := s.run(ctx); err != nil {
		return fmt.Errorf("%s: %w", s.Name, err)
	}

	backoff := retry.WithMaxDuration(s.Settle, retry.NewConstant(verifyInterval))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if s.verify(ctx) {
			return nil
		}
		return retry.RetryableError(errUnverified)
	})
	if err != nil {
		return fmt.Errorf("%s: %w after %s", s.Name, errUnverified, s.Settle)
	}
	return nil
}

// NewCatalog builds the fixed escalation ladder, least invasive first. The
// order is a designed escalation, not a priority queue; nothing reorders it
// at runtime.
func NewCatalog(actions *netops.Actions, verify func(ctx context.Context) bool) []Strategy {
	return []Strategy{
		{Name: domain.StrategyLinkRestart, Rank: 0, Tier: domain.TierStandard, Settle: 10 * time.Second, run: actions.RestartLink, verify: verify},
		{Name: domain.StrategyDHCPRenew, Rank: 1, Tier: domain.TierStandard, Settle: 6 * time.Second, run: actions.RenewLease, verify: verify},
		{Name: domain.StrategyUSBReset, Rank: 2, Tier: domain.TierStandard, Settle: 12 * time.Second, run: actions.ResetUSB, verify: verify},
		{Name: domain.StrategyDriverReload, Rank: 3, Tier: domain.TierAggressive, Settle: 12 * time.Second, run: actions.ReloadDriver, verify: verify},
		{Name: domain.StrategyWPARestart, Rank: 4, Tier: domain.TierAggressive, Settle: 15 * time.Second, run: actions.RestartAuth, verify: verify},
		{Name: domain.StrategyStackRestart, Rank: 5, Tier: domain.TierAggressive, Settle: 30 * time.Second, run: actions.RestartStack, verify: verify},
	}
}
