package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clutchmetrics/clutch/schema"
)

// clutchPlayer builds a player-season with the given clutch line.
func clutchPlayer(id string, gp int, ppg, fgPct, apg, topg, pm float64) schema.PlayerPerformance {
	return schema.PlayerPerformance{
		PlayerID: id,
		Season:   2021,
		Clutch: schema.RateLine{
			GamesPlayed:      gp,
			PointsPerGame:    ppg,
			FGPct:            fgPct,
			AssistsPerGame:   apg,
			TurnoversPerGame: topg,
			PlusMinusPerGame: pm,
		},
	}
}

func TestScoreCPIHighVolume(t *testing.T) {
	players := []schema.PlayerPerformance{
		clutchPlayer("star", 10, 25, 0.55, 6, 1, 8),
		clutchPlayer("solid", 10, 15, 0.45, 4, 2, 0),
		clutchPlayer("cold", 10, 5, 0.35, 2, 3, -8),
	}

	ScoreCPI(players, schema.GetDefaultWeights())

	for i := range players {
		require.NotNil(t, players[i].CPI, "player %s", players[i].PlayerID)
		assert.Equal(t, schema.HighVolumeCohort, players[i].CPI.Cohort)
		assert.Equal(t, schema.ZScoreStrategy, players[i].CPI.Strategy)
	}

	// Best on every metric must outrank the rest.
	assert.Greater(t, players[0].CPI.Value, players[1].CPI.Value)
	assert.Greater(t, players[1].CPI.Value, players[2].CPI.Value)

	// Exactly average on every metric scores 0.
	assert.InDelta(t, 0.0, players[1].CPI.Value, 1e-9)

	// Breakdown contributions sum to the score.
	var sum float64
	for _, v := range players[0].CPI.Breakdown {
		sum += v
	}
	assert.InDelta(t, players[0].CPI.Value, sum, 1e-9)
}

func TestScoreCPIZeroVariance(t *testing.T) {
	// Identical FG% across the cohort: that metric must contribute zero,
	// not blow up the z-score.
	players := []schema.PlayerPerformance{
		clutchPlayer("a", 8, 20, 0.50, 5, 2, 3),
		clutchPlayer("b", 8, 10, 0.50, 3, 2, -3),
	}

	ScoreCPI(players, schema.GetDefaultWeights())

	for i := range players {
		require.NotNil(t, players[i].CPI)
		assert.Zero(t, players[i].CPI.Breakdown[schema.MetricFGPct])
		assert.False(t, isNaN(players[i].CPI.Value))
	}
}

func TestScoreCPILowVolume(t *testing.T) {
	players := []schema.PlayerPerformance{
		clutchPlayer("hot-hand", 4, 20, 0.60, 4, 1, 6),
		clutchPlayer("one-game", 1, 20, 0.60, 4, 1, 6),
		clutchPlayer("struggler", 3, 4, 0.20, 1, 4, -6),
	}

	ScoreCPI(players, schema.GetDefaultWeights())

	for i := range players {
		require.NotNil(t, players[i].CPI)
		assert.Equal(t, schema.LowVolumeCohort, players[i].CPI.Cohort)
		assert.Equal(t, schema.MinMaxStrategy, players[i].CPI.Strategy)
		assert.GreaterOrEqual(t, players[i].CPI.Value, schema.LowVolumeBaselineFloor)
	}

	// Identical rates, more games played: more games must never score lower.
	assert.Greater(t, players[0].CPI.Value, players[1].CPI.Value)

	// Worst on every metric with fewer games stays below the leader.
	assert.Greater(t, players[0].CPI.Value, players[2].CPI.Value)
}

func TestScoreCPIMixedCohorts(t *testing.T) {
	players := []schema.PlayerPerformance{
		clutchPlayer("established", 12, 18, 0.48, 4, 2, 2),
		clutchPlayer("veteran", 7, 14, 0.44, 3, 2, 0),
		clutchPlayer("fringe", 2, 30, 0.70, 8, 0, 12),
		clutchPlayer("spectator", 0, 0, 0, 0, 0, 0),
	}

	ScoreCPI(players, schema.GetDefaultWeights())

	assert.Equal(t, schema.HighVolumeCohort, players[0].CPI.Cohort)
	assert.Equal(t, schema.HighVolumeCohort, players[1].CPI.Cohort)
	assert.Equal(t, schema.LowVolumeCohort, players[2].CPI.Cohort)
	assert.Nil(t, players[3].CPI, "zero clutch games means no score")
}

func TestScoreCPISingleLowVolumePlayer(t *testing.T) {
	// A cohort of one has min==max on every metric: all norms midpoint.
	players := []schema.PlayerPerformance{
		clutchPlayer("only", 2, 10, 0.40, 2, 1, 0),
	}

	ScoreCPI(players, schema.GetDefaultWeights())

	require.NotNil(t, players[0].CPI)
	// 0.5 midpoint on all five metrics with |weights| summing to 1.0,
	// scaled by 2/5.
	assert.InDelta(t, 0.5*(2.0/5.0), players[0].CPI.Value, 1e-9)
}

func TestScoreCPICustomWeights(t *testing.T) {
	players := []schema.PlayerPerformance{
		clutchPlayer("passer", 6, 10, 0.40, 8, 1, 0),
		clutchPlayer("scorer", 6, 25, 0.40, 1, 1, 0),
	}

	// Assists-only weighting flips the ranking.
	weights := map[schema.MetricKey]float64{schema.MetricAssists: 1.0}
	ScoreCPI(players, weights)

	assert.Greater(t, players[0].CPI.Value, players[1].CPI.Value)
}

func isNaN(v float64) bool { return v != v }
