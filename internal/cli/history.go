package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/tripfinder-mcp/internal/catalog"
	"github.com/vijay-prabhu/tripfinder-mcp/internal/database"
	"github.com/vijay-prabhu/tripfinder-mcp/internal/output"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent searches",
	Long: `List saved recommendation requests, newest first.

Examples:
  tripfinder history
  tripfinder history --since 7d
  tripfinder history --from Kandy --limit 5`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var (
	historyFrom  string
	historySince string
	historyLimit int
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyFrom, "from", "", "Filter by start location")
	historyCmd.Flags().StringVar(&historySince, "since", "", "Only searches within this period (e.g., 7d, 2w, 1m)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of searches")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	opts := database.SearchListOptions{Limit: historyLimit}
	if historyFrom != "" {
		loc, err := catalog.ParseStartLocation(historyFrom)
		if err != nil {
			return err
		}
		opts.StartLocation = &loc
	}
	if historySince != "" {
		d, err := parseDuration(historySince)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		since := time.Now().Add(-d)
		opts.Since = &since
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	searches, err := a.planner.RecentSearches(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to list searches: %w", err)
	}
	if searches == nil {
		searches = []database.Search{}
	}
	return output.Output(outputFmt, searches)
}

// parseDuration parses durations like 7d, 2w, 1m
func parseDuration(s string) (time.Duration, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration format")
	}

	unit := s[len(s)-1]
	valueStr := s[:len(s)-1]

	var value int
	if _, err := fmt.Sscanf(valueStr, "%d", &value); err != nil {
		return 0, fmt.Errorf("invalid duration value")
	}
	if value <= 0 {
		return 0, fmt.Errorf("duration must be positive")
	}

	switch unit {
	case 'd':
		return time.Duration(value) * 24 * time.Hour, nil
	case 'w':
		return time.Duration(value) * 7 * 24 * time.Hour, nil
	case 'm':
		return time.Duration(value) * 30 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown duration unit: %c (use d, w, or m)", unit)
	}
}
