package cmd

import (
	"github.com/spf13/cobra"

	"github.com/clutchmetrics/clutch/core"
	"github.com/clutchmetrics/clutch/internal/contract"
)

// processCmd runs the full pipeline and writes both processed tables.
var processCmd = &cobra.Command{
	Use:   "process [data-dir]",
	Short: "Build the full clutch dataset from raw box scores.",
	Long: `Load the raw CSV sources, isolate clutch games, and build the processed
player and team tables in one pass.

The pipeline:
- Parses games, box score lines, teams, and players
- Drops duplicate and unresolvable rows (counted in the integrity report)
- Flags games decided by 5 points or fewer as clutch
- Splits every player-season into clutch and non-clutch rate lines
- Scores each player-season with the Clutch Player Index (CPI)

Text output prints a dataset summary. Use --output parquet with
--output-file to export both tables for analytics tools.

Examples:
  # Summarize the dataset in ./data
  clutch process ./data

  # Export both tables for DuckDB/pandas
  clutch process --output parquet --output-file dataset ./data

  # Full dataset as JSON
  clutch process --output json ./data`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteClutchProcess(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run processing", err)
		}
	},
}
