package netops

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

var errNoLease = errors.New("no address acquired yet")

// Actions implements the OS-level remediation operations for one network
// interface. Every operation performs its side effect and returns an error
// when the underlying command fails; health verification belongs to the
// strategy layer, not here.
type Actions struct {
	iface       string
	dhcpTimeout time.Duration
	runner      Runner
	// addrReady reports whether the interface currently holds an address,
	// used to bound the lease re-acquisition wait.
	addrReady func(ctx context.Context) bool
	sysfsNet  string
	sleepFn   func(ctx context.Context, d time.Duration) error
	log       *slog.Logger
}

// NewActions creates the remediation action set for iface.
func NewActions(
	iface string,
	dhcpTimeout time.Duration,
	runner Runner,
	addrReady func(ctx context.Context) bool,
	log *slog.Logger,
) *Actions {
	return &Actions{
		iface:       iface,
		dhcpTimeout: dhcpTimeout,
		runner:      runner,
		addrReady:   addrReady,
		sysfsNet:    "/sys/class/net",
		sleepFn:     sleep,
		log:         log,
	}
}

// RestartLink toggles the interface link down and back up.
func (a *Actions) RestartLink(ctx context.Context) error {
	if err := a.runner.Run(ctx, "ip", "link", "set", "dev", a.iface, "down"); err != nil {
		return fmt.Errorf("link down: %w", err)
	}
	if err := a.sleepFn(ctx, 2*time.Second); err != nil {
		return err
	}
	if err := a.runner.Run(ctx, "ip", "link", "set", "dev", a.iface, "up"); err != nil {
		return fmt.Errorf("link up: %w", err)
	}
	return nil
}

// RenewLease releases the DHCP lease and re-acquires it, polling for an
// address until the configured timeout expires.
func (a *Actions) RenewLease(ctx context.Context) error {
	// A failed release is not fatal; there may be no lease to release.
	if err := a.runner.Run(ctx, "dhclient", "-r", a.iface); err != nil {
		a.log.Debug("DHCP release failed", "error", err)
	}
	if err := a.runner.Run(ctx, "dhclient", "-nw", a.iface); err != nil {
		return fmt.Errorf("dhcp request: %w", err)
	}

	backoff := retry.WithMaxDuration(a.dhcpTimeout, retry.NewConstant(2*time.Second))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if a.addrReady(ctx) {
			return nil
		}
		return retry.RetryableError(errNoLease)
	})
	if err != nil {
		return fmt.Errorf("dhcp renew timed out after %s: %w", a.dhcpTimeout, err)
	}
	return nil
}

// ResetUSB unbinds and rebinds the USB device behind the interface. It
// fails up front when the interface is not USB-attached.
func (a *Actions) ResetUSB(ctx context.Context) error {
	devPath, err := filepath.EvalSymlinks(filepath.Join(a.sysfsNet, a.iface, "device"))
	if err != nil {
		return fmt.Errorf("resolve device: %w", err)
	}
	if !strings.Contains(devPath, "/usb") {
		return fmt.Errorf("interface %s is not USB-attached (%s)", a.iface, devPath)
	}

	driverPath, err := filepath.EvalSymlinks(filepath.Join(devPath, "driver"))
	if err != nil {
		return fmt.Errorf("resolve driver: %w", err)
	}
	devID := filepath.Base(devPath)

	if err := os.WriteFile(filepath.Join(driverPath, "unbind"), []byte(devID), 0o200); err != nil {
		return fmt.Errorf("usb unbind: %w", err)
	}
	if err := a.sleepFn(ctx, 3*time.Second); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(driverPath, "bind"), []byte(devID), 0o200); err != nil {
		return fmt.Errorf("usb bind: %w", err)
	}
	return nil
}

// ReloadDriver unloads and reloads the kernel module backing the interface.
func (a *Actions) ReloadDriver(ctx context.Context) error {
	module, err := a.driverModule()
	if err != nil {
		return err
	}

	a.log.Info("Reloading driver module", "module", module)
	if err := a.runner.Run(ctx, "modprobe", "-r", module); err != nil {
		return fmt.Errorf("module unload: %w", err)
	}
	if err := a.sleepFn(ctx, 2*time.Second); err != nil {
		return err
	}
	if err := a.runner.Run(ctx, "modprobe", module); err != nil {
		return fmt.Errorf("module load: %w", err)
	}
	return nil
}

// RestartAuth restarts wpa_supplicant, clearing any stale control socket
// left behind by a crashed instance.
func (a *Actions) RestartAuth(ctx context.Context) error {
	if err := a.runner.Run(ctx, "systemctl", "stop", "wpa_supplicant"); err != nil {
		a.log.Debug("wpa_supplicant stop failed", "error", err)
	}

	socket := filepath.Join("/var/run/wpa_supplicant", a.iface)
	if err := os.Remove(socket); err != nil && !os.IsNotExist(err) {
		a.log.Warn("Failed to remove stale control socket", "path", socket, "error", err)
	}

	if err := a.runner.Run(ctx, "systemctl", "start", "wpa_supplicant"); err != nil {
		return fmt.Errorf("wpa_supplicant start: %w", err)
	}
	return nil
}

// RestartStack stops the networking service, flushes addresses and routes
// on the interface, restarts the service, and re-acquires a lease.
func (a *Actions) RestartStack(ctx context.Context) error {
	if err := a.runner.Run(ctx, "systemctl", "stop", "networking"); err != nil {
		a.log.Debug("networking stop failed", "error", err)
	}
	if err := a.runner.Run(ctx, "ip", "addr", "flush", "dev", a.iface); err != nil {
		return fmt.Errorf("addr flush: %w", err)
	}
	if err := a.runner.Run(ctx, "ip", "route", "flush", "dev", a.iface); err != nil {
		a.log.Debug("route flush failed", "error", err)
	}
	if err := a.runner.Run(ctx, "systemctl", "start", "networking"); err != nil {
		return fmt.Errorf("networking start: %w", err)
	}
	if err := a.sleepFn(ctx, 5*time.Second); err != nil {
		return err
	}
	return a.RenewLease(ctx)
}

// driverModule resolves the kernel module name behind the interface.
func (a *Actions) driverModule() (string, error) {
	link, err := filepath.EvalSymlinks(filepath.Join(a.sysfsNet, a.iface, "device", "driver", "module"))
	if err != nil {
		return "", fmt.Errorf("resolve driver module: %w", err)
	}
	return filepath.Base(link), nil
}

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
