package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/clutchmetrics/clutch/internal/contract"
	"github.com/clutchmetrics/clutch/schema"
)

// PrintPlayerProfile outputs a single player-season in depth, with the
// player's other seasons as a history table.
func PrintPlayerProfile(player *schema.PlayerPerformance, history []schema.PlayerPerformance, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			type JSONProfile struct {
				Player  *schema.PlayerPerformance  `json:"player"`
				History []schema.PlayerPerformance `json:"history,omitempty"`
			}
			return writeJSON(w, JSONProfile{Player: player, History: history})
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			rows := append([]schema.PlayerPerformance{*player}, history...)
			return writeCSVResultsForPlayers(csvWriter, rows, fmtFloat, intFmt)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for player profiles")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePlayerProfileText(player, history, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote profile")
	}
}

// writePlayerProfileText writes the clutch/non-clutch split plus history.
func writePlayerProfileText(player *schema.PlayerPerformance, history []schema.PlayerPerformance, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "%s - %s (%d)\n", player.PlayerName, player.TeamName, player.Season); err != nil {
		return err
	}
	if player.CPI != nil {
		if _, err := fmt.Fprintf(writer, "CPI: %s (%s, %s cohort, %s normalization)\n",
			fmtFloat(player.CPI.Value),
			labelFor(player.CPI.Value, cfg.UseColors),
			player.CPI.Cohort,
			player.CPI.Strategy,
		); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintln(writer, "CPI: not scored (no clutch appearances)"); err != nil {
			return err
		}
	}
	if player.Clutch.InsufficientSample {
		if _, err := fmt.Fprintln(writer, "Note: fewer than 5 clutch games. Rates are volatile."); err != nil {
			return err
		}
	}

	// Split table: one row per context, deltas at the end.
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Context", "GP", "MIN", "PPG", "RPG", "APG", "TOPG", "FG%", "3P%", "FT%", "AST/TO", "+/-"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := [][]string{
		splitRow("Clutch", player.Clutch, fmtFloat, intFmt),
		splitRow("Non-clutch", player.NonClutch, fmtFloat, intFmt),
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Deltas (clutch minus non-clutch): PPG %s, FG%% %s, AST/TO %s\n",
		colorDelta(player.PointsDiff, fmtFloat, cfg.UseColors),
		colorDelta(player.FGPctDiff, fmtFloat, cfg.UseColors),
		colorDelta(player.AstToRatioDiff, fmtFloat, cfg.UseColors),
	); err != nil {
		return err
	}

	if cfg.Explain && player.CPI != nil {
		if _, err := fmt.Fprintf(writer, "Score drivers: %s\n", formatTopMetricBreakdown(player.CPI)); err != nil {
			return err
		}
	}

	if len(history) > 0 {
		if _, err := fmt.Fprintln(writer, "\nSeason history:"); err != nil {
			return err
		}
		hist := tablewriter.NewWriter(writer)
		hist.Header([]string{"Season", "Team", "GP", "PPG", "FG%", "APG", "TOPG", "CPI"})
		hist.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignRight
		})
		var rows [][]string
		for _, h := range history {
			cpiStr := "-"
			if h.CPI != nil {
				cpiStr = fmtFloat(h.CPI.Value)
			}
			rows = append(rows, []string{
				strconv.Itoa(h.Season),
				h.TeamName,
				fmt.Sprintf(intFmt, h.Clutch.GamesPlayed),
				fmtFloat(h.Clutch.PointsPerGame),
				fmtFloat(h.Clutch.FGPct),
				fmtFloat(h.Clutch.AssistsPerGame),
				fmtFloat(h.Clutch.TurnoversPerGame),
				cpiStr,
			})
		}
		if err := hist.Bulk(rows); err != nil {
			return err
		}
		if err := hist.Render(); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(writer, "Analysis completed in %v with %d workers. Cache backend: %s\n", duration, cfg.Workers, cfg.CacheBackend)
	return err
}

// splitRow renders one rate line as a table row.
func splitRow(label string, line schema.RateLine, fmtFloat func(float64) string, intFmt string) []string {
	return []string{
		label,
		fmt.Sprintf(intFmt, line.GamesPlayed),
		fmtFloat(line.MinutesPerGame),
		fmtFloat(line.PointsPerGame),
		fmtFloat(line.ReboundsPerGame),
		fmtFloat(line.AssistsPerGame),
		fmtFloat(line.TurnoversPerGame),
		fmtFloat(line.FGPct),
		fmtFloat(line.FG3Pct),
		fmtFloat(line.FTPct),
		fmtFloat(line.AstToRatio),
		fmtFloat(line.PlusMinusPerGame),
	}
}
