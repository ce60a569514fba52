package cli

import (
	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/tripfinder-mcp/internal/catalog"
	"github.com/vijay-prabhu/tripfinder-mcp/internal/output"
	"github.com/vijay-prabhu/tripfinder-mcp/internal/recommend"
)

var recommendCmd = &cobra.Command{
	Use:     "recommend",
	Aliases: []string{"rec"},
	Short:   "Recommend itineraries",
	Long: `Recommend pre-planned itineraries for a trip.

A combination is considered when it starts where you start, lasts exactly
as many days as you ask for, and uses only the travel styles you list.
Matches are scored on style coverage and budget fit and ranked best first.

Examples:
  tripfinder recommend --style Cultural --days 3 --from "Colombo Port" --budget 150000
  tripfinder recommend -s Cultural -s Adventure -d 3 -f "Colombo Port" -b 150000 -n 3
  tripfinder recommend -s Spiritual -d 1 -f Kandy -b 20000 --explain
  tripfinder recommend -s Cultural -d 3 -f "Colombo Port" -b 150000 -o csv`,
	RunE: runRecommend,
}

var (
	recStyles  []string
	recDays    int
	recFrom    string
	recBudget  int
	recLimit   int
	recExplain bool
)

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().StringArrayVarP(&recStyles, "style", "s", nil, "Travel style (repeatable): Adventure, Cultural, Spiritual, Nature/Wildlife")
	recommendCmd.Flags().IntVarP(&recDays, "days", "d", 0, "Trip length in days")
	recommendCmd.Flags().StringVarP(&recFrom, "from", "f", "", "Start location")
	recommendCmd.Flags().IntVarP(&recBudget, "budget", "b", 0, "Total budget in LKR")
	recommendCmd.Flags().IntVarP(&recLimit, "limit", "n", 0, "Maximum number of results (default from config)")
	recommendCmd.Flags().BoolVar(&recExplain, "explain", false, "Show why each combination was kept or dropped")
}

func buildRequest(styles []string, days int, from string, budget, limit int) recommend.Request {
	req := recommend.Request{
		Days:          days,
		StartLocation: catalog.StartLocation(from),
		Budget:        budget,
		Limit:         limit,
	}
	for _, s := range styles {
		req.TravelStyles = append(req.TravelStyles, catalog.Style(s))
	}
	return req
}

func runRecommend(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	req := buildRequest(recStyles, recDays, recFrom, recBudget, recLimit)

	if recExplain {
		exps, err := a.planner.Explain(ctx, req)
		if err != nil {
			return err
		}
		return output.Output(outputFmt, exps)
	}

	resp, err := a.planner.Recommend(ctx, req)
	if err != nil {
		return err
	}
	return output.Output(outputFmt, resp)
}
