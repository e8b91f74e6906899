package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/clutchmetrics/clutch/internal/contract"
	"github.com/clutchmetrics/clutch/schema"
)

// metricDescriptions explains each weighted CPI input in plain terms.
var metricDescriptions = map[schema.MetricKey]string{
	schema.MetricPoints:    "Points per clutch game",
	schema.MetricFGPct:     "Field goal percentage in clutch minutes",
	schema.MetricAssists:   "Assists per clutch game",
	schema.MetricTurnovers: "Turnovers per clutch game (penalized)",
	schema.MetricPlusMinus: "Plus-minus per clutch game",
}

// metricDefinition is one row of the definitions output.
type metricDefinition struct {
	Key         string  `json:"key"`
	Weight      float64 `json:"weight"`
	Description string  `json:"description"`
}

// PrintMetricsDefinitions outputs the CPI formula: each weighted metric with
// its active weight, plus the cohort and normalization rules.
func PrintMetricsDefinitions(cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	defs := buildMetricDefinitions(cfg)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, defs)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			if err := csvWriter.Write([]string{"key", "weight", "description"}); err != nil {
				return err
			}
			for _, d := range defs {
				if err := csvWriter.Write([]string{d.Key, fmtFloat(d.Weight), d.Description}); err != nil {
					return err
				}
			}
			return nil
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for metric definitions")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMetricsTable(defs, cfg, fmtFloat, w)
		}, "Wrote definitions")
	}
}

// buildMetricDefinitions resolves the active weights in canonical order.
func buildMetricDefinitions(cfg *contract.Config) []metricDefinition {
	weights := cfg.MetricWeights
	if len(weights) == 0 {
		weights = schema.GetDefaultWeights()
	}

	defs := make([]metricDefinition, 0, len(schema.AllMetricKeys))
	for _, key := range schema.AllMetricKeys {
		defs = append(defs, metricDefinition{
			Key:         string(key),
			Weight:      weights[key],
			Description: metricDescriptions[key],
		})
	}
	return defs
}

// writeMetricsTable writes the definitions plus scoring rules as text.
func writeMetricsTable(defs []metricDefinition, cfg *contract.Config, fmtFloat func(float64) string, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Metric", "Weight", "Description"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, d := range defs {
		data = append(data, []string{d.Key, fmtFloat(d.Weight), d.Description})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	lines := []string{
		"",
		fmt.Sprintf("A game is clutch when decided by %d points or fewer.", schema.ClutchMargin),
		fmt.Sprintf("Players with %d or more clutch games score in the %s cohort with %s normalization.",
			schema.HighVolumeThreshold, schema.HighVolumeCohort, schema.ZScoreStrategy),
		fmt.Sprintf("Players below the threshold score in the %s cohort with %s normalization, scaled by games played and floored at %s.",
			schema.LowVolumeCohort, schema.MinMaxStrategy, fmtFloat(schema.LowVolumeBaselineFloor)),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(writer, line); err != nil {
			return err
		}
	}
	return nil
}
