// Package parquet provides data structures and functions for exporting
// processed clutch data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/clutchmetrics/clutch/schema"
)

// Run represents a single pipeline run with metadata.
// This struct maps to the clutch_runs database table.
type Run struct {
	// RunID is the unique identifier for this pipeline run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// PlayerRows is the number of player-season rows built in this run
	PlayerRows int32 `parquet:"player_rows,snappy"`

	// TeamRows is the number of team-season rows built in this run
	TeamRows int32 `parquet:"team_rows,snappy"`

	// DroppedRows is the number of raw rows dropped by integrity checks
	DroppedRows int32 `parquet:"dropped_rows,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// PlayerScore represents one computed CPI score recorded during a run.
// This struct maps to the clutch_player_scores database table.
type PlayerScore struct {
	// RunID references the parent pipeline run
	RunID int64 `parquet:"run_id,snappy"`

	// PlayerID is the raw player identifier
	PlayerID string `parquet:"player_id,snappy"`

	// PlayerName is the display name of the player
	PlayerName string `parquet:"player_name,snappy"`

	// Season is the season the score belongs to
	Season int32 `parquet:"season,snappy"`

	// ScoreTime is when this score was computed
	ScoreTime time.Time `parquet:"score_time,snappy"`

	// GPClutch is the number of clutch games backing the score
	GPClutch int32 `parquet:"gp_clutch,snappy"`

	// CPI is the composite clutch performance index
	CPI float64 `parquet:"cpi,snappy"`

	// Cohort indicates which scoring cohort the player fell into
	Cohort string `parquet:"cohort,snappy"`

	// Strategy indicates which normalization strategy produced the score
	Strategy string `parquet:"strategy,snappy"`
}

// PlayerRow is a flattened player-season row for dataset export.
type PlayerRow struct {
	PlayerID   string `parquet:"player_id,snappy"`
	PlayerName string `parquet:"player_name,snappy"`
	TeamName   string `parquet:"team_name,snappy"`
	Season     int32  `parquet:"season,snappy"`

	GPClutch     int32   `parquet:"gp_clutch,snappy"`
	PPGClutch    float64 `parquet:"ppg_clutch,snappy"`
	FGPctClutch  float64 `parquet:"fg_pct_clutch,snappy"`
	APGClutch    float64 `parquet:"apg_clutch,snappy"`
	TOPGClutch   float64 `parquet:"topg_clutch,snappy"`
	PlusMinus    float64 `parquet:"plus_minus_clutch,snappy"`
	AstToClutch  float64 `parquet:"ast_to_clutch,snappy"`
	GPNonClutch  int32   `parquet:"gp_non_clutch,snappy"`
	PPGNonClutch float64 `parquet:"ppg_non_clutch,snappy"`
	PointsDiff   float64 `parquet:"points_diff,snappy"`
	FGPctDiff    float64 `parquet:"fg_pct_diff,snappy"`

	// CPI is nullable: unscored players carry no index
	CPI *float64 `parquet:"cpi,optional,snappy"`
}

// TeamRow is a flattened team-season row for dataset export.
type TeamRow struct {
	TeamID   string `parquet:"team_id,snappy"`
	TeamName string `parquet:"team_name,snappy"`
	Season   int32  `parquet:"season,snappy"`

	ClutchGames     int32   `parquet:"clutch_games,snappy"`
	ClutchWins      int32   `parquet:"clutch_wins,snappy"`
	ClutchWinPct    float64 `parquet:"clutch_win_pct,snappy"`
	NonClutchGames  int32   `parquet:"non_clutch_games,snappy"`
	NonClutchWins   int32   `parquet:"non_clutch_wins,snappy"`
	NonClutchWinPct float64 `parquet:"non_clutch_win_pct,snappy"`
}

// PredictionRow is a flattened next-season projection row.
type PredictionRow struct {
	PlayerID     string  `parquet:"player_id,snappy"`
	PlayerName   string  `parquet:"player_name,snappy"`
	TargetSeason int32   `parquet:"target_season,snappy"`
	Blended      float64 `parquet:"cpi_blended,snappy"`
	Forest       float64 `parquet:"cpi_forest,snappy"`
	Boost        float64 `parquet:"cpi_boost,snappy"`
	Ridge        float64 `parquet:"cpi_ridge,snappy"`
	LowHistory   bool    `parquet:"low_history,snappy"`
}

// writeParquet writes rows to outputPath using struct schema inference.
func writeParquet[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}

	return nil
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WritePlayerScoresParquet writes a slice of PlayerScore structs to a Parquet file.
func WritePlayerScoresParquet(data []PlayerScore, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WritePlayersParquet writes a slice of PlayerRow structs to a Parquet file.
func WritePlayersParquet(data []PlayerRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteTeamsParquet writes a slice of TeamRow structs to a Parquet file.
func WriteTeamsParquet(data []TeamRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WritePredictionsParquet writes a slice of PredictionRow structs to a Parquet file.
func WritePredictionsParquet(data []PredictionRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// MockFetchRuns generates sample Run data for demonstration.
func MockFetchRuns() []Run {
	now := time.Now()
	startTime1 := now.Add(-2 * time.Hour)
	endTime1 := now.Add(-1*time.Hour - 58*time.Minute)
	durationMs1 := int32(endTime1.Sub(startTime1).Milliseconds())
	configParams1 := `{"season":2022,"limit":25,"workers":8}`

	startTime2 := now.Add(-24 * time.Hour)
	endTime2 := now.Add(-23*time.Hour - 59*time.Minute)
	durationMs2 := int32(endTime2.Sub(startTime2).Milliseconds())
	configParams2 := `{"season":0,"limit":50,"workers":4}`

	startTime3 := now.Add(-10 * time.Minute)
	// Note: endTime3, durationMs3, configParams3 are nil to demonstrate nullable fields

	return []Run{
		{
			RunID:         1,
			StartTime:     startTime1,
			EndTime:       &endTime1,
			RunDurationMs: &durationMs1,
			PlayerRows:    1450,
			TeamRows:      30,
			DroppedRows:   12,
			ConfigParams:  &configParams1,
		},
		{
			RunID:         2,
			StartTime:     startTime2,
			EndTime:       &endTime2,
			RunDurationMs: &durationMs2,
			PlayerRows:    7200,
			TeamRows:      150,
			DroppedRows:   64,
			ConfigParams:  &configParams2,
		},
		{
			RunID:         3,
			StartTime:     startTime3,
			EndTime:       nil, // Still running - nullable field
			RunDurationMs: nil, // Not yet calculated - nullable field
			PlayerRows:    0,
			TeamRows:      0,
			DroppedRows:   0,
			ConfigParams:  nil, // No config stored - nullable field
		},
	}
}

// MockFetchPlayerScores generates sample PlayerScore data for demonstration.
func MockFetchPlayerScores() []PlayerScore {
	now := time.Now()

	return []PlayerScore{
		{
			RunID:      1,
			PlayerID:   "201939",
			PlayerName: "Stephen Curry",
			Season:     2022,
			ScoreTime:  now.Add(-1 * time.Hour),
			GPClutch:   28,
			CPI:        1.42,
			Cohort:     string(schema.HighVolumeCohort),
			Strategy:   string(schema.ZScoreStrategy),
		},
		{
			RunID:      1,
			PlayerID:   "1629029",
			PlayerName: "Luka Doncic",
			Season:     2022,
			ScoreTime:  now.Add(-1 * time.Hour),
			GPClutch:   31,
			CPI:        1.18,
			Cohort:     string(schema.HighVolumeCohort),
			Strategy:   string(schema.ZScoreStrategy),
		},
		{
			RunID:      2,
			PlayerID:   "1631096",
			PlayerName: "Jaden Hardy",
			Season:     2022,
			ScoreTime:  now.Add(-23 * time.Hour),
			GPClutch:   3,
			CPI:        -0.87,
			Cohort:     string(schema.LowVolumeCohort),
			Strategy:   string(schema.MinMaxStrategy),
		},
	}
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:         record.RunID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.DurationMs,
			PlayerRows:    record.PlayerRows,
			TeamRows:      record.TeamRows,
			DroppedRows:   record.DroppedRows,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertPlayerScoreRecords converts schema.PlayerScoreRecord to PlayerScore for Parquet export.
func ConvertPlayerScoreRecords(records []schema.PlayerScoreRecord) []PlayerScore {
	result := make([]PlayerScore, len(records))
	for i, record := range records {
		result[i] = PlayerScore{
			RunID:      record.RunID,
			PlayerID:   record.PlayerID,
			PlayerName: record.PlayerName,
			Season:     record.Season,
			ScoreTime:  record.ScoreTime,
			GPClutch:   record.GPClutch,
			CPI:        record.CPI,
			Cohort:     record.Cohort,
			Strategy:   record.Strategy,
		}
	}
	return result
}

// ConvertPlayerPerformances converts processed player-season rows for Parquet export.
func ConvertPlayerPerformances(players []schema.PlayerPerformance) []PlayerRow {
	result := make([]PlayerRow, len(players))
	for i, p := range players {
		row := PlayerRow{
			PlayerID:     p.PlayerID,
			PlayerName:   p.PlayerName,
			TeamName:     p.TeamName,
			Season:       int32(p.Season),
			GPClutch:     int32(p.Clutch.GamesPlayed),
			PPGClutch:    p.Clutch.PointsPerGame,
			FGPctClutch:  p.Clutch.FGPct,
			APGClutch:    p.Clutch.AssistsPerGame,
			TOPGClutch:   p.Clutch.TurnoversPerGame,
			PlusMinus:    p.Clutch.PlusMinusPerGame,
			AstToClutch:  p.Clutch.AstToRatio,
			GPNonClutch:  int32(p.NonClutch.GamesPlayed),
			PPGNonClutch: p.NonClutch.PointsPerGame,
			PointsDiff:   p.PointsDiff,
			FGPctDiff:    p.FGPctDiff,
		}
		if p.CPI != nil {
			value := p.CPI.Value
			row.CPI = &value
		}
		result[i] = row
	}
	return result
}

// ConvertTeamPerformances converts processed team-season rows for Parquet export.
func ConvertTeamPerformances(teams []schema.TeamPerformance) []TeamRow {
	result := make([]TeamRow, len(teams))
	for i, t := range teams {
		result[i] = TeamRow{
			TeamID:          t.TeamID,
			TeamName:        t.TeamName,
			Season:          int32(t.Season),
			ClutchGames:     int32(t.ClutchGames),
			ClutchWins:      int32(t.ClutchWins),
			ClutchWinPct:    t.ClutchWinPct,
			NonClutchGames:  int32(t.NonClutchGames),
			NonClutchWins:   int32(t.NonClutchWins),
			NonClutchWinPct: t.NonClutchWinPct,
		}
	}
	return result
}

// ConvertPredictions converts projection results for Parquet export.
func ConvertPredictions(predictions []schema.PredictionResult) []PredictionRow {
	result := make([]PredictionRow, len(predictions))
	for i, p := range predictions {
		result[i] = PredictionRow{
			PlayerID:     p.PlayerID,
			PlayerName:   p.PlayerName,
			TargetSeason: int32(p.TargetSeason),
			Blended:      p.Blended,
			Forest:       p.Forest,
			Boost:        p.Boost,
			Ridge:        p.Ridge,
			LowHistory:   p.LowHistory,
		}
	}
	return result
}
