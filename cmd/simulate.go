package cmd

import (
	"github.com/spf13/cobra"

	"github.com/clutchmetrics/clutch/core"
	"github.com/clutchmetrics/clutch/internal/contract"
)

// simulateCmd projects a player's clutch line under a usage change.
var simulateCmd = &cobra.Command{
	Use:   "simulate <player-id-or-name> [data-dir]",
	Short: "Project a player's clutch line under a shot-volume change.",
	Long: `Simulate how a player's clutch scoring line shifts when their shot
volume changes by a given percentage.

The projection holds shooting efficiency constant and applies a mild
diminishing-returns tax to added volume: more shots bring more points,
but also more turnovers and a lower assist-to-turnover ratio.

Use --usage-delta to set the change; positive means more shots.

Examples:
  # What if Curry took 10% more clutch shots? (default delta)
  clutch simulate "Stephen Curry" ./data

  # A 25% reduction in volume
  clutch simulate "Stephen Curry" --usage-delta -25 ./data

  # A specific season
  clutch simulate 201939 --season 2018 --usage-delta 15 ./data`,
	Args:    cobra.RangeArgs(1, 2),
	PreRunE: sharedSetupAfterNames(1),
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteClutchSimulate(rootCtx, cfg, cacheManager, args[0]); err != nil {
			contract.LogFatal("Cannot run simulation", err)
		}
	},
}
