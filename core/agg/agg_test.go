package agg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clutchmetrics/clutch/schema"
)

// testRawData builds an in-memory RawData with one clutch and one non-clutch
// game and two players.
func testRawData() *RawData {
	day := func(d int) time.Time {
		return time.Date(2021, 11, d, 0, 0, 0, 0, time.UTC)
	}

	return &RawData{
		Games: map[string]*schema.Game{
			"g1": {ID: "g1", Season: 2021, Date: day(1), HomeTeamID: "t1", VisitorTeamID: "t2",
				HomePoints: 100, VisitorPoints: 97, HomeWin: true, ScoreDiff: 3, IsClutch: true},
			"g2": {ID: "g2", Season: 2021, Date: day(3), HomeTeamID: "t2", VisitorTeamID: "t1",
				HomePoints: 110, VisitorPoints: 90, HomeWin: true, ScoreDiff: 20, IsClutch: false},
		},
		Details: []schema.PlayerGameRecord{
			{GameID: "g1", PlayerID: "p1", TeamID: "t1", PlayerName: "Alpha One", Minutes: 36,
				Points: 22, FGM: 8, FGA: 15, FG3M: 2, FG3A: 5, FTM: 4, FTA: 4,
				Rebounds: 6, Assists: 7, Turnovers: 2, PlusMinus: 5},
			{GameID: "g1", PlayerID: "p2", TeamID: "t2", PlayerName: "Beta Two", Minutes: 33,
				Points: 15, FGM: 6, FGA: 14, Rebounds: 4, Assists: 3, Turnovers: 0, PlusMinus: -5},
			{GameID: "g2", PlayerID: "p1", TeamID: "t1", PlayerName: "Alpha One", Minutes: 30,
				Points: 12, FGM: 5, FGA: 12, Rebounds: 5, Assists: 6, Turnovers: 1, PlusMinus: -20},
		},
		Teams:   map[string]string{"t1": "Springfield Hammers", "t2": "Shelbyville Sharks"},
		Players: map[string]string{"p1": "Alpha One", "p2": "Beta Two"},
	}
}

func TestAggregatePlayers(t *testing.T) {
	players := AggregatePlayers(testRawData())
	require.Len(t, players, 2)

	byID := make(map[string]schema.PlayerPerformance)
	for _, p := range players {
		byID[p.PlayerID] = p
	}

	t.Run("both partitions populated", func(t *testing.T) {
		p1 := byID["p1"]
		assert.Equal(t, 2021, p1.Season)
		assert.Equal(t, "Springfield Hammers", p1.TeamName)

		assert.Equal(t, 1, p1.Clutch.GamesPlayed)
		assert.InDelta(t, 22.0, p1.Clutch.PointsPerGame, 1e-9)
		assert.InDelta(t, 8.0/15.0, p1.Clutch.FGPct, 1e-9)
		assert.InDelta(t, 3.5, p1.Clutch.AstToRatio, 1e-9)
		assert.False(t, p1.Clutch.InsufficientSample)

		assert.Equal(t, 1, p1.NonClutch.GamesPlayed)
		assert.InDelta(t, 12.0, p1.NonClutch.PointsPerGame, 1e-9)

		assert.InDelta(t, 10.0, p1.PointsDiff, 1e-9)
		assert.InDelta(t, 8.0/15.0-5.0/12.0, p1.FGPctDiff, 1e-9)
	})

	t.Run("empty partition flagged not zeroed out", func(t *testing.T) {
		p2 := byID["p2"]
		assert.Equal(t, 1, p2.Clutch.GamesPlayed)
		assert.True(t, p2.NonClutch.InsufficientSample)
		assert.Zero(t, p2.NonClutch.PointsPerGame)

		// Turnover-free clutch game keeps a finite ratio via the floor.
		assert.InDelta(t, 3.0, p2.Clutch.AstToRatio, 1e-9)
	})

	t.Run("cpi left for the scorer", func(t *testing.T) {
		for _, p := range players {
			assert.Nil(t, p.CPI)
		}
	})
}

func TestAggregateTeams(t *testing.T) {
	teams := AggregateTeams(testRawData())
	require.Len(t, teams, 2)

	byID := make(map[string]schema.TeamPerformance)
	for _, tm := range teams {
		byID[tm.TeamID] = tm
	}

	t1 := byID["t1"]
	assert.Equal(t, 1, t1.ClutchGames)
	assert.Equal(t, 1, t1.ClutchWins)
	assert.InDelta(t, 1.0, t1.ClutchWinPct, 1e-9)
	assert.Equal(t, 1, t1.NonClutchGames)
	assert.Equal(t, 0, t1.NonClutchWins)
	assert.Zero(t, t1.NonClutchWinPct)

	t2 := byID["t2"]
	assert.Equal(t, 1, t2.ClutchGames)
	assert.Equal(t, 0, t2.ClutchWins)
	assert.Equal(t, 1, t2.NonClutchGames)
	assert.Equal(t, 1, t2.NonClutchWins)
}

func TestBuildRateLine(t *testing.T) {
	t.Run("zero games", func(t *testing.T) {
		line := BuildRateLine(schema.StatTotals{}, 0)
		assert.True(t, line.InsufficientSample)
		assert.Zero(t, line.PointsPerGame)
		assert.Zero(t, line.FGPct)
	})

	t.Run("zero attempts", func(t *testing.T) {
		line := BuildRateLine(schema.StatTotals{Points: 4, FTM: 4, FTA: 4}, 2)
		assert.Zero(t, line.FGPct, "no attempts must not divide by zero")
		assert.InDelta(t, 1.0, line.FTPct, 1e-9)
	})

	t.Run("rates over multiple games", func(t *testing.T) {
		totals := schema.StatTotals{Points: 30, FGM: 12, FGA: 24, Assists: 9, Turnovers: 3, PlusMinus: -6}
		line := BuildRateLine(totals, 3)
		assert.InDelta(t, 10.0, line.PointsPerGame, 1e-9)
		assert.InDelta(t, 0.5, line.FGPct, 1e-9)
		assert.InDelta(t, 3.0, line.AstToRatio, 1e-9)
		assert.InDelta(t, -2.0, line.PlusMinusPerGame, 1e-9)
	})
}

func TestAssistTurnoverRatio(t *testing.T) {
	assert.InDelta(t, 2.5, AssistTurnoverRatio(5, 2), 1e-9)
	assert.InDelta(t, 5.0, AssistTurnoverRatio(5, 0), 1e-9, "turnover floor of 1")
}

func TestSeasons(t *testing.T) {
	raw := testRawData()
	raw.Games["g3"] = &schema.Game{ID: "g3", Season: 2019}
	raw.Games["g4"] = &schema.Game{ID: "g4", Season: 2020}

	assert.Equal(t, []int{2019, 2020, 2021}, Seasons(raw))
}
