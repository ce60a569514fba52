package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/tripfinder-mcp/internal/output"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalog and search statistics",
	Long: `Display the stored catalog and aggregate statistics over saved searches.

Examples:
  tripfinder stats             # Overall stats
  tripfinder stats --since=7d  # Searches from the last 7 days`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

var statsSince string

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVar(&statsSince, "since", "", "Time period (e.g., 7d, 2w, 1m)")
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var since *time.Time
	if statsSince != "" {
		d, err := parseDuration(statsSince)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		t := time.Now().Add(-d)
		since = &t
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	stats, err := a.planner.Stats(ctx, since)
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}
	return output.Output(outputFmt, stats)
}
