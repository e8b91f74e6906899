package outwriter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clutchmetrics/clutch/internal/contract"
	"github.com/clutchmetrics/clutch/schema"
)

func testConfig(t *testing.T, output schema.OutputMode) *contract.Config {
	t.Helper()
	return &contract.Config{
		Output:       output,
		OutputFile:   filepath.Join(t.TempDir(), "out.txt"),
		Precision:    2,
		Workers:      2,
		CacheBackend: schema.NoneBackend,
	}
}

func readOutput(t *testing.T, cfg *contract.Config) string {
	t.Helper()
	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	return string(data)
}

func scoredPlayer(name string, season int, cpi float64) schema.PlayerPerformance {
	return schema.PlayerPerformance{
		PlayerID:   strings.ToLower(strings.ReplaceAll(name, " ", "-")),
		PlayerName: name,
		TeamID:     "1610612744",
		TeamName:   "Warriors",
		Season:     season,
		Clutch: schema.RateLine{
			GamesPlayed:      12,
			MinutesPerGame:   4.1,
			PointsPerGame:    3.2,
			ReboundsPerGame:  0.8,
			AssistsPerGame:   1.1,
			TurnoversPerGame: 0.4,
			PlusMinusPerGame: 1.5,
			FGPct:            0.481,
			FG3Pct:           0.402,
			FTPct:            0.911,
			AstToRatio:       2.75,
		},
		NonClutch:  schema.RateLine{GamesPlayed: 70, PointsPerGame: 2.9},
		PointsDiff: 0.3,
		CPI: &schema.CPIScore{
			Value:    cpi,
			Cohort:   schema.HighVolumeCohort,
			Strategy: schema.ZScoreStrategy,
			Breakdown: map[schema.MetricKey]float64{
				schema.MetricPoints:    0.45,
				schema.MetricFGPct:     0.20,
				schema.MetricTurnovers: -0.10,
			},
		},
	}
}

func TestPrintPlayerResults(t *testing.T) {
	players := []schema.PlayerPerformance{
		scoredPlayer("Stephen Curry", 2023, 1.42),
		scoredPlayer("Klay Thompson", 2023, 0.61),
	}

	t.Run("text table ranks players", func(t *testing.T) {
		cfg := testConfig(t, schema.TextOut)
		err := PrintPlayerResults(players, cfg, 5*time.Millisecond)
		require.NoError(t, err)
		out := readOutput(t, cfg)
		assert.Contains(t, out, "Stephen Curry")
		assert.Contains(t, out, "1.42")
		assert.Contains(t, out, "Showing top 2 player-seasons")
		assert.Contains(t, out, "with 2 workers")
	})

	t.Run("explain adds score drivers", func(t *testing.T) {
		cfg := testConfig(t, schema.TextOut)
		cfg.Explain = true
		err := PrintPlayerResults(players, cfg, time.Millisecond)
		require.NoError(t, err)
		out := readOutput(t, cfg)
		assert.Contains(t, out, "ppg > fg_pct > topg")
	})

	t.Run("unscored player renders dashes", func(t *testing.T) {
		unscored := scoredPlayer("Bench Guy", 2023, 0)
		unscored.CPI = nil
		cfg := testConfig(t, schema.TextOut)
		err := PrintPlayerResults([]schema.PlayerPerformance{unscored}, cfg, time.Millisecond)
		require.NoError(t, err)
		assert.Contains(t, readOutput(t, cfg), "-")
	})

	t.Run("csv has header and rows", func(t *testing.T) {
		cfg := testConfig(t, schema.CSVOut)
		err := PrintPlayerResults(players, cfg, time.Millisecond)
		require.NoError(t, err)
		out := readOutput(t, cfg)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 3)
		assert.True(t, strings.HasPrefix(lines[0], "rank,player_id,player"))
		assert.Contains(t, lines[1], "Stephen Curry")
		assert.Contains(t, lines[1], string(schema.HighVolumeCohort))
	})

	t.Run("json decodes with rank", func(t *testing.T) {
		cfg := testConfig(t, schema.JSONOut)
		err := PrintPlayerResults(players, cfg, time.Millisecond)
		require.NoError(t, err)

		var decoded []map[string]any
		require.NoError(t, json.Unmarshal([]byte(readOutput(t, cfg)), &decoded))
		require.Len(t, decoded, 2)
		assert.Equal(t, float64(1), decoded[0]["rank"])
		assert.Equal(t, "Stephen Curry", decoded[0]["player_name"])
	})

	t.Run("parquet requires output file", func(t *testing.T) {
		cfg := testConfig(t, schema.ParquetOut)
		cfg.OutputFile = ""
		err := PrintPlayerResults(players, cfg, time.Millisecond)
		assert.ErrorContains(t, err, "--output-file is required")
	})
}

func TestPrintTeamResults(t *testing.T) {
	teams := []schema.TeamPerformance{
		{
			TeamID: "1610612744", TeamName: "Warriors", Season: 2023,
			ClutchGames: 30, ClutchWins: 21, ClutchWinPct: 0.700,
			NonClutchGames: 52, NonClutchWins: 26, NonClutchWinPct: 0.500,
		},
	}

	t.Run("text table", func(t *testing.T) {
		cfg := testConfig(t, schema.TextOut)
		err := PrintTeamResults(teams, cfg, time.Millisecond)
		require.NoError(t, err)
		out := readOutput(t, cfg)
		assert.Contains(t, out, "Warriors")
		assert.Contains(t, out, "0.70")
		assert.Contains(t, out, "Showing top 1 team-seasons")
	})

	t.Run("csv diff column", func(t *testing.T) {
		cfg := testConfig(t, schema.CSVOut)
		err := PrintTeamResults(teams, cfg, time.Millisecond)
		require.NoError(t, err)
		out := readOutput(t, cfg)
		assert.Contains(t, out, "win_pct_diff")
		assert.Contains(t, out, "0.20")
	})
}

func TestPrintTeamProfile(t *testing.T) {
	team := &schema.TeamPerformance{
		TeamID: "1610612744", TeamName: "Warriors", Season: 2023,
		ClutchGames: 30, ClutchWins: 21, ClutchWinPct: 0.700,
		NonClutchGames: 52, NonClutchWins: 26, NonClutchWinPct: 0.500,
		TopPerformers: []schema.TopPerformer{
			{PlayerID: "201939", PlayerName: "Stephen Curry", CPI: 1.42},
		},
	}

	cfg := testConfig(t, schema.TextOut)
	err := PrintTeamProfile(team, cfg, time.Millisecond)
	require.NoError(t, err)
	out := readOutput(t, cfg)
	assert.Contains(t, out, "Warriors (2023)")
	assert.Contains(t, out, "Clutch record: 21-9")
	assert.Contains(t, out, "Stephen Curry")

	t.Run("parquet unsupported", func(t *testing.T) {
		cfg := testConfig(t, schema.ParquetOut)
		err := PrintTeamProfile(team, cfg, time.Millisecond)
		assert.ErrorContains(t, err, "not supported")
	})
}

func TestPrintPlayerProfile(t *testing.T) {
	player := scoredPlayer("Stephen Curry", 2023, 1.42)
	history := []schema.PlayerPerformance{scoredPlayer("Stephen Curry", 2022, 1.10)}

	cfg := testConfig(t, schema.TextOut)
	err := PrintPlayerProfile(&player, history, cfg, time.Millisecond)
	require.NoError(t, err)
	out := readOutput(t, cfg)
	assert.Contains(t, out, "Stephen Curry - Warriors (2023)")
	assert.Contains(t, out, "CPI: 1.42")
	assert.Contains(t, out, "Non-clutch")
	assert.Contains(t, out, "Season history:")

	t.Run("small sample note", func(t *testing.T) {
		thin := scoredPlayer("Bench Guy", 2023, -0.5)
		thin.Clutch.GamesPlayed = 3
		thin.Clutch.InsufficientSample = true
		cfg := testConfig(t, schema.TextOut)
		err := PrintPlayerProfile(&thin, nil, cfg, time.Millisecond)
		require.NoError(t, err)
		assert.Contains(t, readOutput(t, cfg), "fewer than 5 clutch games")
	})
}

func TestPrintComparison(t *testing.T) {
	a := scoredPlayer("Stephen Curry", 2023, 1.42)
	b := scoredPlayer("Klay Thompson", 2023, 0.61)

	cfg := testConfig(t, schema.TextOut)
	err := PrintComparison(&a, &b, cfg, time.Millisecond)
	require.NoError(t, err)
	out := readOutput(t, cfg)
	assert.Contains(t, out, "Stephen Curry (2023)")
	assert.Contains(t, out, "Klay Thompson (2023)")
	assert.Contains(t, out, "Clutch TOPG")
	assert.Contains(t, out, "CPI")

	t.Run("csv rows", func(t *testing.T) {
		cfg := testConfig(t, schema.CSVOut)
		err := PrintComparison(&a, &b, cfg, time.Millisecond)
		require.NoError(t, err)
		out := readOutput(t, cfg)
		assert.Contains(t, out, "metric,Stephen Curry,Klay Thompson")
		assert.Contains(t, out, "CPI,1.42,0.61")
	})
}

func TestPrintSimulation(t *testing.T) {
	result := schema.SimulationResult{
		PlayerID:   "201939",
		PlayerName: "Stephen Curry",
		Season:     2023,
		UsageDelta: 10.0,
		Before:     schema.SimulationLine{PointsPerGame: 3.2, FGAPerGame: 2.5, TurnoversPerGame: 0.4, AstToRatio: 2.75},
		After:      schema.SimulationLine{PointsPerGame: 3.5, FGAPerGame: 2.75, TurnoversPerGame: 0.44, AstToRatio: 2.5},
	}

	cfg := testConfig(t, schema.TextOut)
	err := PrintSimulation(result, cfg, time.Millisecond)
	require.NoError(t, err)
	out := readOutput(t, cfg)
	assert.Contains(t, out, "Usage simulation for Stephen Curry (2023): +10.0%")
	assert.Contains(t, out, "FGA/G")
	assert.Contains(t, out, "diminishing-returns")

	t.Run("json roundtrip", func(t *testing.T) {
		cfg := testConfig(t, schema.JSONOut)
		err := PrintSimulation(result, cfg, time.Millisecond)
		require.NoError(t, err)
		var decoded schema.SimulationResult
		require.NoError(t, json.Unmarshal([]byte(readOutput(t, cfg)), &decoded))
		assert.Equal(t, result, decoded)
	})
}

func TestPrintPredictions(t *testing.T) {
	predictions := []schema.PredictionResult{
		{
			PlayerID: "201939", PlayerName: "Stephen Curry", TeamName: "Warriors",
			TargetSeason: 2024, Blended: 1.31, Forest: 1.28, Boost: 1.35, Ridge: 1.30,
		},
		{
			PlayerID: "1629027", PlayerName: "Trae Young", TeamName: "Hawks",
			TargetSeason: 2024, Blended: 0.88, Forest: 0.85, Boost: 0.92, Ridge: 0.86,
			LowHistory: true,
		},
	}
	report := &schema.ModelReport{
		TrainSamples: 180, TestSamples: 45,
		TrainR2: 0.74, TestR2: 0.52, MAE: 0.31, RMSE: 0.44,
	}

	cfg := testConfig(t, schema.TextOut)
	err := PrintPredictions(predictions, report, cfg, time.Millisecond)
	require.NoError(t, err)
	out := readOutput(t, cfg)
	assert.Contains(t, out, "Stephen Curry")
	assert.Contains(t, out, "low history")
	assert.Contains(t, out, "test R² 0.52 (45 samples)")
	assert.Contains(t, out, "Showing top 2 projected player-seasons")

	t.Run("csv low history flag", func(t *testing.T) {
		cfg := testConfig(t, schema.CSVOut)
		err := PrintPredictions(predictions, report, cfg, time.Millisecond)
		require.NoError(t, err)
		out := readOutput(t, cfg)
		assert.Contains(t, out, "cpi_blended")
		assert.Contains(t, out, "true")
	})
}

func TestPrintDataset(t *testing.T) {
	dataset := &schema.Dataset{
		Players: []schema.PlayerPerformance{scoredPlayer("Stephen Curry", 2023, 1.42)},
		Teams: []schema.TeamPerformance{
			{TeamID: "1610612744", TeamName: "Warriors", Season: 2023},
		},
		Report:  schema.IntegrityReport{DuplicateGames: 1, ZeroMinuteRows: 4},
		Seasons: []int{2022, 2023},
	}

	cfg := testConfig(t, schema.TextOut)
	err := PrintDataset(dataset, cfg, time.Millisecond)
	require.NoError(t, err)
	out := readOutput(t, cfg)
	assert.Contains(t, out, "1 player-seasons (1 scored)")
	assert.Contains(t, out, "Season range: 2022-2023")
	assert.Contains(t, out, "1 rows dropped")
	assert.Contains(t, out, "Zero-minute rows excluded from rates: 4")

	t.Run("parquet writes both tables", func(t *testing.T) {
		cfg := testConfig(t, schema.ParquetOut)
		cfg.OutputFile = filepath.Join(t.TempDir(), "dataset")
		err := PrintDataset(dataset, cfg, time.Millisecond)
		require.NoError(t, err)
		assert.FileExists(t, cfg.OutputFile+".players.parquet")
		assert.FileExists(t, cfg.OutputFile+".teams.parquet")
	})
}

func TestPrintMetricsDefinitions(t *testing.T) {
	cfg := testConfig(t, schema.TextOut)
	err := PrintMetricsDefinitions(cfg)
	require.NoError(t, err)
	out := readOutput(t, cfg)
	assert.Contains(t, out, "ppg_clutch")
	assert.Contains(t, out, "0.30")
	assert.Contains(t, out, "decided by 5 points or fewer")

	t.Run("custom weights override defaults", func(t *testing.T) {
		cfg := testConfig(t, schema.TextOut)
		cfg.MetricWeights = map[schema.MetricKey]float64{
			schema.MetricPoints:    0.60,
			schema.MetricFGPct:     0.10,
			schema.MetricAssists:   0.10,
			schema.MetricTurnovers: -0.10,
			schema.MetricPlusMinus: 0.10,
		}
		err := PrintMetricsDefinitions(cfg)
		require.NoError(t, err)
		assert.Contains(t, readOutput(t, cfg), "0.60")
	})
}

func TestFormatTopMetricBreakdown(t *testing.T) {
	t.Run("nil score", func(t *testing.T) {
		assert.Equal(t, "Not applicable", formatTopMetricBreakdown(nil))
	})

	t.Run("orders by absolute contribution", func(t *testing.T) {
		score := &schema.CPIScore{
			Breakdown: map[schema.MetricKey]float64{
				schema.MetricPoints:    0.10,
				schema.MetricTurnovers: -0.50,
				schema.MetricFGPct:     0.30,
				schema.MetricAssists:   0.05,
			},
		}
		assert.Equal(t, "topg > fg_pct > ppg", formatTopMetricBreakdown(score))
	})
}
