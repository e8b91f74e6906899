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
	"github.com/clutchmetrics/clutch/internal/parquet"
	"github.com/clutchmetrics/clutch/schema"
)

// PrintPredictions outputs next-season CPI projections with the model
// quality report, dispatching based on the output format configured.
func PrintPredictions(predictions []schema.PredictionResult, report *schema.ModelReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONPredictions(w, predictions, report)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVPredictions(csvWriter, predictions, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if err := requireOutputFile(cfg.OutputFile); err != nil {
			return err
		}
		rows := parquet.ConvertPredictions(predictions)
		if err := parquet.WritePredictionsParquet(rows, cfg.OutputFile); err != nil {
			return err
		}
		fmt.Printf("Exported %d prediction rows to: %s\n", len(rows), cfg.OutputFile)
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePredictionTable(predictions, report, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
}

// writePredictionTable generates and writes the human-readable table.
func writePredictionTable(predictions []schema.PredictionResult, report *schema.ModelReport, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	headers := []string{"Rank", "Player", "Team", "Target", "CPI (blend)", "Forest", "Boost", "Ridge", "Note"}
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, p := range predictions {
		note := ""
		if p.LowHistory {
			note = "low history"
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncateName(p.PlayerName, getMaxTableNameWidth(cfg)),
			p.TeamName,
			strconv.Itoa(p.TargetSeason),
			fmtFloat(p.Blended),
			fmtFloat(p.Forest),
			fmtFloat(p.Boost),
			fmtFloat(p.Ridge),
			note,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if report != nil {
		if _, err := fmt.Fprintf(writer, "Model fit: train R² %s (%d samples), test R² %s (%d samples), MAE %s, RMSE %s\n",
			fmtFloat(report.TrainR2), report.TrainSamples,
			fmtFloat(report.TestR2), report.TestSamples,
			fmtFloat(report.MAE), fmtFloat(report.RMSE),
		); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Showing top %d projected player-seasons\n", len(predictions)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(writer, "Analysis completed in %v with %d workers. Cache backend: %s\n", duration, cfg.Workers, cfg.CacheBackend)
	return err
}

// writeCSVPredictions writes the projection rows in CSV format.
func writeCSVPredictions(w *csv.Writer, predictions []schema.PredictionResult, fmtFloat func(float64) string) error {
	header := []string{
		"rank",
		"player_id",
		"player",
		"team",
		"target_season",
		"cpi_blended",
		"cpi_forest",
		"cpi_boost",
		"cpi_ridge",
		"low_history",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, p := range predictions {
		rec := []string{
			strconv.Itoa(i + 1),
			p.PlayerID,
			p.PlayerName,
			p.TeamName,
			strconv.Itoa(p.TargetSeason),
			fmtFloat(p.Blended),
			fmtFloat(p.Forest),
			fmtFloat(p.Boost),
			fmtFloat(p.Ridge),
			strconv.FormatBool(p.LowHistory),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONPredictions writes projections plus the model report in JSON format.
func writeJSONPredictions(w io.Writer, predictions []schema.PredictionResult, report *schema.ModelReport) error {
	type JSONPredictionResult struct {
		Rank int `json:"rank"`
		schema.PredictionResult
	}
	type JSONPredictions struct {
		Predictions []JSONPredictionResult `json:"predictions"`
		Report      *schema.ModelReport    `json:"model_report,omitempty"`
	}

	output := JSONPredictions{
		Predictions: make([]JSONPredictionResult, len(predictions)),
		Report:      report,
	}
	for i, p := range predictions {
		output.Predictions[i] = JSONPredictionResult{Rank: i + 1, PredictionResult: p}
	}
	return writeJSON(w, output)
}
