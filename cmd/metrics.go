package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/clutchmetrics/clutch/core"
	"github.com/clutchmetrics/clutch/internal/contract"
)

// metricsCmd displays the formal definitions of the scoring formula.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display the CPI formula, weights, and scoring rules",
	Long: `Show the formal definition of the Clutch Player Index.

Provides complete transparency into how players are ranked, including:
- Each weighted metric and its contribution
- The clutch game definition
- Cohort thresholds and normalization strategies
- Custom weights if configured via .clutch.yaml

No data processing is performed - this is purely informational.

Examples:
  # Show default scoring formula
  clutch metrics

  # View with custom weights from config file
  clutch metrics --config .clutch.yaml`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		// Metrics loads no data, so skip the data directory checks that
		// sharedSetup performs and resolve only the display settings.
		if err := loadConfigFile(); err != nil {
			return err
		}
		if err := viper.Unmarshal(input); err != nil {
			return err
		}
		return contract.ProcessDisplayConfig(cfg, input)
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteClutchMetrics(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot display metrics", err)
		}
	},
}
