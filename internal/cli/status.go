package cli

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/haiminh/wifiwatch/internal/core/config"
	"github.com/haiminh/wifiwatch/internal/infra/state"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the persisted watchdog state",
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	store := state.NewFileStore(cfg.StateDir, slog.Default())

	marker := "-"
	if at, ok := store.RebootMarker(); ok {
		marker = at.Format(time.RFC3339)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "INTERFACE\tFAILURES\tREBOOT_MARKER\tSTATE_DIR")
	_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", cfg.Interface, store.Count(), marker, store.Dir())
	_ = w.Flush()
}
