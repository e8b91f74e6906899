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

// PrintTeamResults outputs ranked team-seasons, dispatching based on the
// output format configured.
func PrintTeamResults(teams []schema.TeamPerformance, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONResultsForTeams(w, teams)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVResultsForTeams(csvWriter, teams, fmtFloat, intFmt)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if err := requireOutputFile(cfg.OutputFile); err != nil {
			return err
		}
		rows := parquet.ConvertTeamPerformances(teams)
		if err := parquet.WriteTeamsParquet(rows, cfg.OutputFile); err != nil {
			return err
		}
		fmt.Printf("Exported %d team rows to: %s\n", len(rows), cfg.OutputFile)
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTeamTable(teams, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
}

// PrintTeamProfile outputs a single team-season with its top clutch
// performers attached.
func PrintTeamProfile(team *schema.TeamPerformance, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, team)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVResultsForTeams(csvWriter, []schema.TeamPerformance{*team}, fmtFloat, intFmt)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for team profiles")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTeamProfileText(team, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote profile")
	}
}

// writeTeamTable generates and writes the human-readable table.
func writeTeamTable(teams []schema.TeamPerformance, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	headers := []string{"Rank", "Team", "Season", "Clutch GP", "Clutch W", "Clutch Win%", "Other GP", "Other W", "Other Win%", "Win% Diff"}
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, t := range teams {
		diff := t.ClutchWinPct - t.NonClutchWinPct
		row := []string{
			strconv.Itoa(i + 1),
			contract.TruncateName(t.TeamName, getMaxTableNameWidth(cfg)),
			strconv.Itoa(t.Season),
			fmt.Sprintf(intFmt, t.ClutchGames),
			fmt.Sprintf(intFmt, t.ClutchWins),
			fmtFloat(t.ClutchWinPct),
			fmt.Sprintf(intFmt, t.NonClutchGames),
			fmt.Sprintf(intFmt, t.NonClutchWins),
			fmtFloat(t.NonClutchWinPct),
			colorDelta(diff, fmtFloat, cfg.UseColors),
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Showing top %d team-seasons\n", len(teams)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v with %d workers. Cache backend: %s\n", duration, cfg.Workers, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeTeamProfileText writes the one-team summary plus its performer table.
func writeTeamProfileText(team *schema.TeamPerformance, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "%s (%d)\n", team.TeamName, team.Season); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Clutch record: %s-%s (%s)  Other record: %s-%s (%s)\n",
		fmt.Sprintf(intFmt, team.ClutchWins),
		fmt.Sprintf(intFmt, team.ClutchGames-team.ClutchWins),
		fmtFloat(team.ClutchWinPct),
		fmt.Sprintf(intFmt, team.NonClutchWins),
		fmt.Sprintf(intFmt, team.NonClutchGames-team.NonClutchWins),
		fmtFloat(team.NonClutchWinPct),
	); err != nil {
		return err
	}

	if len(team.TopPerformers) == 0 {
		_, err := fmt.Fprintln(writer, "No scored clutch performers for this team-season.")
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "Player", "CPI", "Label"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, p := range team.TopPerformers {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncateName(p.PlayerName, getMaxTableNameWidth(cfg)),
			fmtFloat(p.CPI),
			labelFor(p.CPI, cfg.UseColors),
		})
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

// writeCSVResultsForTeams writes the ranked rows in CSV format.
func writeCSVResultsForTeams(w *csv.Writer, teams []schema.TeamPerformance, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"rank",
		"team_id",
		"team",
		"season",
		"clutch_games",
		"clutch_wins",
		"clutch_win_pct",
		"non_clutch_games",
		"non_clutch_wins",
		"non_clutch_win_pct",
		"win_pct_diff",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, t := range teams {
		rec := []string{
			strconv.Itoa(i + 1),
			t.TeamID,
			t.TeamName,
			strconv.Itoa(t.Season),
			fmt.Sprintf(intFmt, t.ClutchGames),
			fmt.Sprintf(intFmt, t.ClutchWins),
			fmtFloat(t.ClutchWinPct),
			fmt.Sprintf(intFmt, t.NonClutchGames),
			fmt.Sprintf(intFmt, t.NonClutchWins),
			fmtFloat(t.NonClutchWinPct),
			fmtFloat(t.ClutchWinPct - t.NonClutchWinPct),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONResultsForTeams writes the ranked rows in JSON format.
func writeJSONResultsForTeams(w io.Writer, teams []schema.TeamPerformance) error {
	type JSONTeamResult struct {
		Rank int `json:"rank"`
		schema.TeamPerformance
	}

	output := make([]JSONTeamResult, len(teams))
	for i, t := range teams {
		output[i] = JSONTeamResult{Rank: i + 1, TeamPerformance: t}
	}
	return writeJSON(w, output)
}
