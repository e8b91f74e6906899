package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/clutchmetrics/clutch/internal/contract"
	"github.com/clutchmetrics/clutch/internal/parquet"
	"github.com/clutchmetrics/clutch/schema"
)

// topNMetrics caps how many components the Explain column names.
const topNMetrics = 3

// PrintPlayerResults outputs ranked player-seasons, dispatching based on the
// output format configured.
func PrintPlayerResults(players []schema.PlayerPerformance, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONResultsForPlayers(w, players)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVResultsForPlayers(csvWriter, players, fmtFloat, intFmt)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if err := requireOutputFile(cfg.OutputFile); err != nil {
			return err
		}
		rows := parquet.ConvertPlayerPerformances(players)
		if err := parquet.WritePlayersParquet(rows, cfg.OutputFile); err != nil {
			return err
		}
		fmt.Printf("Exported %d player rows to: %s\n", len(rows), cfg.OutputFile)
		return nil
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePlayerTable(players, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
}

// writePlayerTable generates and writes the human-readable table.
func writePlayerTable(players []schema.PlayerPerformance, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Rank", "Player", "Team", "Season", "GP", "PPG", "FG%", "APG", "TOPG", "+/-", "CPI", "Label"}
	if cfg.Detail {
		headers = append(headers, "MIN", "RPG", "3P%", "FT%", "AST/TO", "PPG Off", "Diff")
	}
	if cfg.Explain {
		headers = append(headers, "Drivers")
	}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	var data [][]string
	for i, p := range players {
		cpiStr, labelStr := "-", "-"
		if p.CPI != nil {
			cpiStr = fmtFloat(p.CPI.Value)
			labelStr = labelFor(p.CPI.Value, cfg.UseColors)
		}

		row := []string{
			strconv.Itoa(i + 1),
			contract.TruncateName(p.PlayerName, getMaxTableNameWidth(cfg)),
			p.TeamName,
			strconv.Itoa(p.Season),
			fmt.Sprintf(intFmt, p.Clutch.GamesPlayed),
			fmtFloat(p.Clutch.PointsPerGame),
			fmtFloat(p.Clutch.FGPct),
			fmtFloat(p.Clutch.AssistsPerGame),
			fmtFloat(p.Clutch.TurnoversPerGame),
			fmtFloat(p.Clutch.PlusMinusPerGame),
			cpiStr,
			labelStr,
		}
		if cfg.Detail {
			row = append(
				row,
				fmtFloat(p.Clutch.MinutesPerGame),
				fmtFloat(p.Clutch.ReboundsPerGame),
				fmtFloat(p.Clutch.FG3Pct),
				fmtFloat(p.Clutch.FTPct),
				fmtFloat(p.Clutch.AstToRatio),
				fmtFloat(p.NonClutch.PointsPerGame),
				fmtFloat(p.PointsDiff),
			)
		}
		if cfg.Explain {
			row = append(row, formatTopMetricBreakdown(p.CPI))
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// Compute summary stats
	totalClutchGames := 0
	for _, p := range players {
		totalClutchGames += p.Clutch.GamesPlayed
	}
	if _, err := fmt.Fprintf(writer, "Showing top %d player-seasons (clutch games: %d)\n", len(players), totalClutchGames); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v with %d workers. Cache backend: %s\n", duration, cfg.Workers, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForPlayers writes the ranked rows in CSV format.
func writeCSVResultsForPlayers(w *csv.Writer, players []schema.PlayerPerformance, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"rank",
		"player_id",
		"player",
		"team",
		"season",
		"gp_clutch",
		"ppg_clutch",
		"fg_pct_clutch",
		"apg_clutch",
		"topg_clutch",
		"plus_minus_clutch",
		"ast_to_clutch",
		"gp_non_clutch",
		"ppg_non_clutch",
		"points_diff",
		"cpi",
		"label",
		"cohort",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, p := range players {
		cpiStr, labelStr, cohortStr := "", "", ""
		if p.CPI != nil {
			cpiStr = fmtFloat(p.CPI.Value)
			labelStr = contract.GetPlainLabel(p.CPI.Value)
			cohortStr = string(p.CPI.Cohort)
		}
		rec := []string{
			strconv.Itoa(i + 1),
			p.PlayerID,
			p.PlayerName,
			p.TeamName,
			strconv.Itoa(p.Season),
			fmt.Sprintf(intFmt, p.Clutch.GamesPlayed),
			fmtFloat(p.Clutch.PointsPerGame),
			fmtFloat(p.Clutch.FGPct),
			fmtFloat(p.Clutch.AssistsPerGame),
			fmtFloat(p.Clutch.TurnoversPerGame),
			fmtFloat(p.Clutch.PlusMinusPerGame),
			fmtFloat(p.Clutch.AstToRatio),
			fmt.Sprintf(intFmt, p.NonClutch.GamesPlayed),
			fmtFloat(p.NonClutch.PointsPerGame),
			fmtFloat(p.PointsDiff),
			cpiStr,
			labelStr,
			cohortStr,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONResultsForPlayers writes the ranked rows in JSON format.
func writeJSONResultsForPlayers(w io.Writer, players []schema.PlayerPerformance) error {
	// 1. Prepare the data structure for JSON with rank and label added
	type JSONPlayerResult struct {
		Rank  int    `json:"rank"`
		Label string `json:"label,omitempty"`
		schema.PlayerPerformance
	}

	output := make([]JSONPlayerResult, len(players))
	for i, p := range players {
		label := ""
		if p.CPI != nil {
			label = contract.GetPlainLabel(p.CPI.Value)
		}
		output[i] = JSONPlayerResult{
			Rank:              i + 1,
			Label:             label,
			PlayerPerformance: p,
		}
	}

	// 2. Use the generic JSON writer
	return writeJSON(w, output)
}

// metricBreakdown holds one metric's weighted contribution to a CPI score.
type metricBreakdown struct {
	Name  string
	Value float64
}

// formatTopMetricBreakdown names the top score components, strongest first.
func formatTopMetricBreakdown(score *schema.CPIScore) string {
	if score == nil || len(score.Breakdown) == 0 {
		return "Not applicable"
	}

	metrics := make([]metricBreakdown, 0, len(score.Breakdown))
	for k, v := range score.Breakdown {
		metrics = append(metrics, metricBreakdown{
			Name:  strings.TrimSuffix(string(k), "_clutch"),
			Value: v,
		})
	}

	// Largest absolute contribution first; penalties matter as much as boosts.
	sort.Slice(metrics, func(i, j int) bool {
		return math.Abs(metrics[i].Value) > math.Abs(metrics[j].Value)
	})

	limit := min(len(metrics), topNMetrics)
	parts := make([]string, 0, limit)
	for i := range limit {
		parts = append(parts, metrics[i].Name)
	}
	return strings.Join(parts, " > ")
}
