package cmd

import (
	"github.com/spf13/cobra"

	"github.com/clutchmetrics/clutch/core"
	"github.com/clutchmetrics/clutch/internal/contract"
)

// playersCmd performs player-level clutch ranking.
var playersCmd = &cobra.Command{
	Use:   "players [data-dir]",
	Short: "Show the top players ranked by Clutch Player Index.",
	Long: `Rank player-seasons by Clutch Player Index (CPI), best first.

CPI blends five clutch-context metrics into one composite score:
- Points per game (weight 0.30)
- Field goal percentage (weight 0.25)
- Assists per game (weight 0.15)
- Turnovers per game (weight -0.15, penalized)
- Plus-minus per game (weight 0.15)

Players with 5 or more clutch games are normalized with z-scores against
their cohort. Smaller samples use min-max scaling with a games-played
discount, so a two-game hot streak cannot top the board.

Examples:
  # Top 25 for the latest season
  clutch players ./data

  # A specific season, more rows
  clutch players --season 2019 --limit 50 ./data

  # Include rate detail and the score breakdown
  clutch players --detail --explain ./data

  # Export the board to CSV
  clutch players --output csv --output-file board.csv ./data`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteClutchPlayers(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run players ranking", err)
		}
	},
}
