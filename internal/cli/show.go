package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/tripfinder-mcp/internal/output"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show an itinerary",
	Long: `Show one combination with its day-by-day plan and cost breakdown.

The budget shown is the itinerary's own total, and the category is the
tier that total falls in.

Examples:
  tripfinder show 13
  tripfinder show 5 -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid combination id %q", args[0])
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	rec, err := a.planner.Combination(ctx, id)
	if err != nil {
		return err
	}
	return output.Output(outputFmt, rec)
}
