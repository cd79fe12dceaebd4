package recovery

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/haiminh/wifiwatch/internal/core/domain"
	"github.com/haiminh/wifiwatch/internal/infra/netops"
)

func TestNewCatalog_LadderOrder(t *testing.T) {
	actions := netops.NewActions("wlan0", time.Second, netops.NewExecRunner(slog.Default()),
		func(ctx context.Context) bool { return false }, slog.Default())
	catalog := NewCatalog(actions, func(ctx context.Context) bool { return false })

	want := []domain.StrategyName{
		domain.StrategyLinkRestart,
		domain.StrategyDHCPRenew,
		domain.StrategyUSBReset,
		domain.StrategyDriverReload,
		domain.StrategyWPARestart,
		domain.StrategyStackRestart,
	}
	if len(catalog) != len(want) {
		t.Fatalf("catalog has %d strategies, want %d", len(catalog), len(want))
	}
	for i, s := range catalog {
		if s.Name != want[i] {
			t.Errorf("catalog[%d] = %s, want %s", i, s.Name, want[i])
		}
		if s.Rank != i {
			t.Errorf("catalog[%d].Rank = %d, want %d", i, s.Rank, i)
		}
		wantTier := domain.TierStandard
		if i >= standardRungs {
			wantTier = domain.TierAggressive
		}
		if s.Tier != wantTier {
			t.Errorf("catalog[%d].Tier = %s, want %s", i, s.Tier, wantTier)
		}
		if s.run == nil || s.verify == nil {
			t.Errorf("catalog[%d] has unbound action or verification", i)
		}
	}
}
