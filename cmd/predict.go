package cmd

import (
	"github.com/spf13/cobra"

	"github.com/clutchmetrics/clutch/core"
	"github.com/clutchmetrics/clutch/internal/contract"
)

// predictCmd trains the ensemble and projects next-season CPI.
var predictCmd = &cobra.Command{
	Use:   "predict [player-id-or-name] [data-dir]",
	Short: "Project next-season CPI with the ensemble model.",
	Long: `Train an ensemble model on historical player-seasons and project each
current player's CPI for the following season.

The ensemble blends three regressors trained on season-over-season
pairs:
- Random forest (weight 0.50)
- Gradient boosting (weight 0.30)
- Ridge regression (weight 0.20)

Training requires at least --min-train-samples labeled pairs; smaller
datasets fail fast rather than produce junk projections. Players with a
single season of history are projected but flagged as low-history.

With a player argument, only that player's projection is shown.
Otherwise the top of the projected board is printed.

Examples:
  # Projected board for next season
  clutch predict ./data

  # One player's projection
  clutch predict "Stephen Curry" ./data

  # Loosen the training floor for a small dataset
  clutch predict --min-train-samples 20 ./data

  # Export projections for analytics
  clutch predict --output parquet --output-file projections.parquet ./data`,
	Args: cobra.MaximumNArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// The single optional arg is ambiguous: a data directory if it
		// exists on disk as one, a player reference otherwise.
		if len(args) == 1 && looksLikeDataDir(args[0]) {
			return sharedSetup(rootCtx, args[0])
		}
		return sharedSetupAfterNames(1)(cmd, args)
	},
	Run: func(_ *cobra.Command, args []string) {
		var player string
		if len(args) >= 1 && !looksLikeDataDir(args[0]) {
			player = args[0]
		}
		if err := core.ExecuteClutchPredict(rootCtx, cfg, cacheManager, player); err != nil {
			contract.LogFatal("Cannot run prediction", err)
		}
	},
}
