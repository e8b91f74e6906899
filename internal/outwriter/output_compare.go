package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/clutchmetrics/clutch/internal/contract"
	"github.com/clutchmetrics/clutch/schema"
)

// compareMetric is one row of a head-to-head comparison. lowerWins flips the
// highlight for metrics where less is better, like turnovers.
type compareMetric struct {
	Name      string
	A, B      float64
	lowerWins bool
}

// PrintComparison outputs a head-to-head comparison of two player-seasons,
// dispatching based on the output format configured.
func PrintComparison(a, b *schema.PlayerPerformance, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	metrics := buildCompareMetrics(a, b)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			type JSONComparison struct {
				Left  *schema.PlayerPerformance `json:"left"`
				Right *schema.PlayerPerformance `json:"right"`
			}
			return writeJSON(w, JSONComparison{Left: a, Right: b})
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			if err := csvWriter.Write([]string{"metric", a.PlayerName, b.PlayerName}); err != nil {
				return err
			}
			for _, m := range metrics {
				if err := csvWriter.Write([]string{m.Name, fmtFloat(m.A), fmtFloat(m.B)}); err != nil {
					return err
				}
			}
			return nil
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for comparisons")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeComparisonTable(a, b, metrics, cfg, fmtFloat, duration, w)
		}, "Wrote comparison")
	}
}

// buildCompareMetrics assembles the comparison rows from clutch rate lines.
func buildCompareMetrics(a, b *schema.PlayerPerformance) []compareMetric {
	cpiA, cpiB := 0.0, 0.0
	if a.CPI != nil {
		cpiA = a.CPI.Value
	}
	if b.CPI != nil {
		cpiB = b.CPI.Value
	}
	return []compareMetric{
		{Name: "Clutch GP", A: float64(a.Clutch.GamesPlayed), B: float64(b.Clutch.GamesPlayed)},
		{Name: "Clutch PPG", A: a.Clutch.PointsPerGame, B: b.Clutch.PointsPerGame},
		{Name: "Clutch FG%", A: a.Clutch.FGPct, B: b.Clutch.FGPct},
		{Name: "Clutch 3P%", A: a.Clutch.FG3Pct, B: b.Clutch.FG3Pct},
		{Name: "Clutch FT%", A: a.Clutch.FTPct, B: b.Clutch.FTPct},
		{Name: "Clutch APG", A: a.Clutch.AssistsPerGame, B: b.Clutch.AssistsPerGame},
		{Name: "Clutch TOPG", A: a.Clutch.TurnoversPerGame, B: b.Clutch.TurnoversPerGame, lowerWins: true},
		{Name: "Clutch AST/TO", A: a.Clutch.AstToRatio, B: b.Clutch.AstToRatio},
		{Name: "Clutch +/-", A: a.Clutch.PlusMinusPerGame, B: b.Clutch.PlusMinusPerGame},
		{Name: "PPG Diff", A: a.PointsDiff, B: b.PointsDiff},
		{Name: "CPI", A: cpiA, B: cpiB},
	}
}

// writeComparisonTable writes the head-to-head table with the better value
// highlighted on each row.
func writeComparisonTable(a, b *schema.PlayerPerformance, metrics []compareMetric, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	labelA := fmt.Sprintf("%s (%d)", contract.TruncateName(a.PlayerName, getMaxTableNameWidth(cfg)), a.Season)
	labelB := fmt.Sprintf("%s (%d)", contract.TruncateName(b.PlayerName, getMaxTableNameWidth(cfg)), b.Season)

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Metric", labelA, labelB})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	green := color.New(color.FgGreen).SprintFunc()
	var data [][]string
	for _, m := range metrics {
		valA, valB := fmtFloat(m.A), fmtFloat(m.B)
		if cfg.UseColors && m.A != m.B {
			aWins := m.A > m.B
			if m.lowerWins {
				aWins = m.A < m.B
			}
			if aWins {
				valA = green(valA)
			} else {
				valB = green(valB)
			}
		}
		data = append(data, []string{m.Name, valA, valB})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(writer, "Analysis completed in %v with %d workers. Cache backend: %s\n", duration, cfg.Workers, cfg.CacheBackend)
	return err
}
