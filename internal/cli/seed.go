package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/tripfinder-mcp/internal/config"
	"github.com/vijay-prabhu/tripfinder-mcp/internal/output"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace the stored catalog",
	Long: `Replace the stored catalog with the bundled one or a YAML seed file.

The seed file holds startLocations, locations and travelCombinations. It is
validated in full before anything is written; an invalid file leaves the
current catalog in place.

Examples:
  tripfinder seed
  tripfinder seed --file ./catalog.yaml`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

var seedFile string

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVar(&seedFile, "file", "", "YAML seed file (default: configured seed_path, else bundled catalog)")
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	path := a.cfg.Catalog.SeedPath
	if seedFile != "" {
		path, err = config.ExpandPath(seedFile)
		if err != nil {
			return err
		}
	}

	seed, source, err := seedSource(path)()
	if err != nil {
		return fmt.Errorf("failed to load seed: %w", err)
	}

	info, err := a.planner.Seed(ctx, seed, source)
	if err != nil {
		return err
	}
	return output.Output(outputFmt, info)
}
