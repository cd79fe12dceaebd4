package recovery

import (
	"github.com/haiminh/wifiwatch/internal/core/config"
)

// Plan selects the ordered sub-sequence of catalog strategies to attempt
// for the given consecutive failure count. Below the aggressive boundary
// only the standard tier runs; at or above it the whole ladder runs.
//
// Pure function of (count, thresholds, catalog): no side effects, fully
// deterministic.
func Plan(count int, thresholds config.Thresholds, catalog []Strategy) []Strategy {
	if count < thresholds.MaxConsecutiveFailures && len(catalog) > standardRungs {
		return catalog[:standardRungs]
	}
	return catalog
}
