package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/tripfinder-mcp/internal/output"
)

var tiersCmd = &cobra.Command{
	Use:   "tiers [amount]",
	Short: "List budget tiers or classify an amount",
	Long: `Without an argument, list the budget tiers. With an amount in LKR,
print the tier it falls in.

Examples:
  tripfinder tiers
  tripfinder tiers 150000
  tripfinder tiers -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTiers,
}

var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List travel styles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		return output.Output(outputFmt, a.planner.TravelStyles())
	},
}

var startLocationsCmd = &cobra.Command{
	Use:     "start-locations",
	Aliases: []string{"starts"},
	Short:   "List start locations",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		locs, err := a.planner.StartLocations(ctx)
		if err != nil {
			return err
		}
		return output.Output(outputFmt, locs)
	},
}

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "List tourist locations",
	Long: `List the tourist locations that appear in itineraries.

Examples:
  tripfinder locations
  tripfinder locations --category cultural
  tripfinder locations --category "Nature/Wildlife"`,
	Args: cobra.NoArgs,
	RunE: runLocations,
}

var locationsCategory string

func init() {
	rootCmd.AddCommand(tiersCmd)
	rootCmd.AddCommand(stylesCmd)
	rootCmd.AddCommand(startLocationsCmd)
	rootCmd.AddCommand(locationsCmd)

	locationsCmd.Flags().StringVar(&locationsCategory, "category", "", "Filter by category (cultural, spiritual, adventure, nature_wildlife)")
}

func runTiers(cmd *cobra.Command, args []string) error {
	var amount int
	if len(args) == 1 {
		var err error
		amount, err = strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid amount %q", args[0])
		}
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if len(args) == 1 {
		return output.Output(outputFmt, a.planner.ClassifyBudget(amount))
	}
	if outputFmt == output.FormatJSON {
		return output.JSON(a.planner.BudgetTiers())
	}
	return output.Output(outputFmt, a.planner.OrderedBudgetTiers())
}

func runLocations(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	locs, err := a.planner.Locations(ctx, locationsCategory)
	if err != nil {
		return err
	}
	return output.Output(outputFmt, locs)
}
