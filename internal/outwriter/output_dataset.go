package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/clutchmetrics/clutch/internal/contract"
	"github.com/clutchmetrics/clutch/internal/parquet"
	"github.com/clutchmetrics/clutch/schema"
)

// PrintDataset outputs a summary of the full processed dataset, dispatching
// based on the output format configured. Parquet mode exports the player and
// team tables to two suffixed files.
func PrintDataset(dataset *schema.Dataset, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, dataset)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVResultsForPlayers(csvWriter, dataset.Players, fmtFloat, intFmt)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeDatasetParquet(dataset, cfg)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDatasetSummary(dataset, cfg, duration, w)
		}, "Wrote summary")
	}
}

// writeDatasetParquet exports player and team tables as two parquet files.
func writeDatasetParquet(dataset *schema.Dataset, cfg *contract.Config) error {
	if err := requireOutputFile(cfg.OutputFile); err != nil {
		return err
	}

	playerRows := parquet.ConvertPlayerPerformances(dataset.Players)
	playersPath := cfg.OutputFile + ".players.parquet"
	if err := parquet.WritePlayersParquet(playerRows, playersPath); err != nil {
		return fmt.Errorf("failed to export players: %w", err)
	}
	fmt.Printf("Exported %d player rows to: %s\n", len(playerRows), playersPath)

	teamRows := parquet.ConvertTeamPerformances(dataset.Teams)
	teamsPath := cfg.OutputFile + ".teams.parquet"
	if err := parquet.WriteTeamsParquet(teamRows, teamsPath); err != nil {
		return fmt.Errorf("failed to export teams: %w", err)
	}
	fmt.Printf("Exported %d team rows to: %s\n", len(teamRows), teamsPath)

	fmt.Println("\nFiles use snappy compression and are compatible with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (Python)")
	fmt.Println("  - DuckDB")
	return nil
}

// writeDatasetSummary writes row counts and the integrity report.
func writeDatasetSummary(dataset *schema.Dataset, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	scored := 0
	for _, p := range dataset.Players {
		if p.CPI != nil {
			scored++
		}
	}

	if _, err := fmt.Fprintf(writer, "Dataset built: %d player-seasons (%d scored), %d team-seasons, %d seasons\n",
		len(dataset.Players), scored, len(dataset.Teams), len(dataset.Seasons)); err != nil {
		return err
	}
	if len(dataset.Seasons) > 0 {
		if _, err := fmt.Fprintf(writer, "Season range: %d-%d\n",
			dataset.Seasons[0], dataset.LatestSeason()); err != nil {
			return err
		}
	}

	r := dataset.Report
	if _, err := fmt.Fprintf(writer, "Integrity: %d rows dropped (%d duplicate games, %d duplicate records, %d missing game refs, %d missing player refs, %d malformed game rows, %d malformed detail rows)\n",
		r.Dropped(), r.DuplicateGames, r.DuplicateRecords, r.MissingGameRefs,
		r.MissingPlayerRefs, r.MalformedGameRows, r.MalformedDetailRows); err != nil {
		return err
	}
	if r.ZeroMinuteRows > 0 {
		if _, err := fmt.Fprintf(writer, "Zero-minute rows excluded from rates: %d\n", r.ZeroMinuteRows); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(writer, "Analysis completed in %v with %d workers. Cache backend: %s\n", duration, cfg.Workers, cfg.CacheBackend)
	return err
}
