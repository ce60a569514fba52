package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/tripfinder-mcp/internal/output"
	"github.com/vijay-prabhu/tripfinder-mcp/internal/recommend"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to CSV or JSON",
	Long: `Export every combination in the catalog, in catalog order.

Each row carries the combination's own total as its budget, like 'show'.

Supported formats:
  - csv: Comma-separated values (spreadsheet-compatible)
  - json: JSON array of combinations

Examples:
  tripfinder export --format=csv > catalog.csv
  tripfinder export --format=json > catalog.json`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var exportFormat string

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Export format (csv, json)")
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportFormat != output.FormatCSV && exportFormat != output.FormatJSON {
		return fmt.Errorf("unknown format: %s (use csv or json)", exportFormat)
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	recs, err := exportRows(a)
	if err != nil {
		return err
	}
	return output.Write(os.Stdout, exportFormat, recs)
}

func exportRows(a *app) ([]recommend.Recommendation, error) {
	cat, err := a.planner.Catalog()
	if err != nil {
		return nil, err
	}

	engine := a.planner.Engine()
	combos := cat.Combinations()
	recs := make([]recommend.Recommendation, 0, len(combos))
	for _, c := range combos {
		rec, err := engine.GetByID(cat, c.ID)
		if err != nil {
			return nil, err
		}
		recs = append(recs, *rec)
	}
	return recs, nil
}
