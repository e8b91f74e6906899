package cmd

import (
	"github.com/spf13/cobra"

	"github.com/clutchmetrics/clutch/core"
	"github.com/clutchmetrics/clutch/internal/contract"
)

// playerCmd shows one player's clutch profile.
var playerCmd = &cobra.Command{
	Use:   "player <player-id-or-name> [data-dir]",
	Short: "Show one player's clutch profile and season history.",
	Long: `Display a single player's clutch and non-clutch splits side by side,
with the CPI score and the player's other seasons for context.

The player can be referenced by ID or by case-insensitive name. When a
name matches several seasons, --season picks one; otherwise the latest
season the player appears in is used.

Examples:
  # Profile by name, latest season
  clutch player "Stephen Curry" ./data

  # Profile by ID for a specific season
  clutch player 201939 --season 2019 ./data

  # Include the CPI component breakdown
  clutch player "Stephen Curry" --explain ./data`,
	Args:    cobra.RangeArgs(1, 2),
	PreRunE: sharedSetupAfterNames(1),
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteClutchPlayer(rootCtx, cfg, cacheManager, args[0]); err != nil {
			contract.LogFatal("Cannot show player profile", err)
		}
	},
}
