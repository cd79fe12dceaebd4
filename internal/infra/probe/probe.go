package probe

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/haiminh/wifiwatch/internal/core/config"
	"github.com/haiminh/wifiwatch/internal/infra/netops"
)

// Prober reports the health of the monitored interface and its uplink as
// independent checks, cheapest first.
type Prober interface {
	InterfaceExists(ctx context.Context) bool
	InterfaceUp(ctx context.Context) bool
	InterfaceHasAddress(ctx context.Context) bool
	InternetReachable(ctx context.Context) bool
}

// Healthy runs the full probe chain: link present, up, addressed, and
// internet reachable. Recovery strategies use it to self-verify.
func Healthy(ctx context.Context, p Prober) bool {
	return p.InterfaceExists(ctx) &&
		p.InterfaceUp(ctx) &&
		p.InterfaceHasAddress(ctx) &&
		p.InternetReachable(ctx)
}

// LinuxProber checks link state via sysfs and reachability via ping.
type LinuxProber struct {
	iface    string
	cfg      config.ProbeConfig
	runner   netops.Runner
	sysfsNet string
	log      *slog.Logger
}

// NewLinuxProber creates a prober for iface.
func NewLinuxProber(iface string, cfg config.ProbeConfig, runner netops.Runner, log *slog.Logger) *LinuxProber {
	return &LinuxProber{
		iface:    iface,
		cfg:      cfg,
		runner:   runner,
		sysfsNet: "/sys/class/net",
		log:      log,
	}
}

func (p *LinuxProber) InterfaceExists(ctx context.Context) bool {
	_, err := os.Stat(filepath.Join(p.sysfsNet, p.iface))
	return err == nil
}

func (p *LinuxProber) InterfaceUp(ctx context.Context) bool {
	data, err := os.ReadFile(filepath.Join(p.sysfsNet, p.iface, "operstate"))
	if err != nil {
		return false
	}
	state := strings.TrimSpace(string(data))
	// Some wireless drivers report "unknown" while the link is in fact up.
	return state == "up" || state == "unknown"
}

func (p *LinuxProber) InterfaceHasAddress(ctx context.Context) bool {
	out, err := p.runner.Output(ctx, "ip", "-o", "-4", "addr", "show", "dev", p.iface)
	if err != nil {
		return false
	}
	return strings.Contains(out, "inet ")
}

// InternetReachable pings the configured targets sequentially, returning
// true once the required number of them respond. Sequential on purpose:
// the whole watchdog is single-threaded cooperative-blocking.
func (p *LinuxProber) InternetReachable(ctx context.Context) bool {
	timeoutSecs := int(p.cfg.PingTimeout.Seconds())
	if timeoutSecs < 1 {
		timeoutSecs = 1
	}

	successes := 0
	for _, target := range p.cfg.Targets {
		err := p.runner.Run(ctx, "ping",
			"-c", "1",
			"-W", strconv.Itoa(timeoutSecs),
			"-I", p.iface,
			target,
		)
		if err != nil {
			p.log.Debug("Ping failed", "target", target, "error", err)
			continue
		}
		successes++
		if successes >= p.cfg.RequiredSuccesses {
			return true
		}
	}
	return false
}
