package cmd

import (
	"github.com/spf13/cobra"

	"github.com/clutchmetrics/clutch/core"
	"github.com/clutchmetrics/clutch/internal/contract"
)

// teamCmd shows one team's clutch profile.
var teamCmd = &cobra.Command{
	Use:   "team <team-id-or-name> [data-dir]",
	Short: "Show one team's clutch record and top performers.",
	Long: `Display a single team's clutch and non-clutch records for a season,
along with the team's top clutch performers by CPI.

The team can be referenced by ID or by case-insensitive name.

Examples:
  # Team profile, latest season
  clutch team Warriors ./data

  # A specific season by ID
  clutch team 1610612744 --season 2017 ./data`,
	Args:    cobra.RangeArgs(1, 2),
	PreRunE: sharedSetupAfterNames(1),
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteClutchTeam(rootCtx, cfg, cacheManager, args[0]); err != nil {
			contract.LogFatal("Cannot show team profile", err)
		}
	},
}
