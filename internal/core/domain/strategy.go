package domain

// StrategyName identifies one rung of the escalation ladder.
type StrategyName string

const (
	StrategyLinkRestart  StrategyName = "link-restart"
	StrategyDHCPRenew    StrategyName = "dhcp-renew"
	StrategyUSBReset     StrategyName = "usb-reset"
	StrategyDriverReload StrategyName = "driver-reload"
	StrategyWPARestart   StrategyName = "wpa-restart"
	StrategyStackRestart StrategyName = "stack-restart"
)

// Tier groups strategies by invasiveness. The standard tier is tried on
// every failure; the aggressive tier only once the failure count crosses
// the configured boundary.
type Tier string

const (
	TierStandard   Tier = "standard"
	TierAggressive Tier = "aggressive"
)
