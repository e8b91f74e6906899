package cmd

import (
	"github.com/spf13/cobra"

	"github.com/clutchmetrics/clutch/core"
	"github.com/clutchmetrics/clutch/internal/contract"
)

// teamsCmd performs team-level clutch ranking.
var teamsCmd = &cobra.Command{
	Use:   "teams [data-dir]",
	Short: "Show the top teams ranked by clutch win percentage.",
	Long: `Rank team-seasons by clutch win percentage, best first.

Each row shows the team's record in games decided by 5 points or fewer
next to its record in every other game, so you can spot teams that
outperform (or collapse) in close finishes.

Examples:
  # Top teams for the latest season
  clutch teams ./data

  # A specific season
  clutch teams --season 2018 ./data

  # Export for a report
  clutch teams --output csv --output-file teams.csv ./data`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteClutchTeams(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run teams ranking", err)
		}
	},
}
