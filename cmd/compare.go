package cmd

import (
	"github.com/spf13/cobra"

	"github.com/clutchmetrics/clutch/core"
	"github.com/clutchmetrics/clutch/internal/contract"
)

// compareCmd compares two players' clutch season rows.
var compareCmd = &cobra.Command{
	Use:   "compare <first-player> <second-player> [data-dir]",
	Short: "Compare two players' clutch numbers head to head.",
	Long: `Put two players' clutch season rows side by side, metric by metric,
with the better value highlighted on each row.

Both players are resolved by ID or case-insensitive name within the
same season (--season, or the latest season by default).

Examples:
  # Who do you want taking the last shot?
  clutch compare "Stephen Curry" "Kevin Durant" ./data

  # A specific season
  clutch compare 201939 201142 --season 2017 ./data`,
	Args:    cobra.RangeArgs(2, 3),
	PreRunE: sharedSetupAfterNames(2),
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteClutchCompare(rootCtx, cfg, cacheManager, args[0], args[1]); err != nil {
			contract.LogFatal("Cannot run comparison", err)
		}
	},
}
