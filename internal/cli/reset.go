package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/haiminh/wifiwatch/internal/core/config"
	"github.com/haiminh/wifiwatch/internal/infra/state"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the persisted consecutive failure counter",
	Run:   runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	store := state.NewFileStore(cfg.StateDir, slog.Default())
	previous := store.Count()
	if err := store.Reset(); err != nil {
		slog.Error("Failed to reset failure count", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully reset failure count for %s (was %d)\n", cfg.Interface, previous)
}
