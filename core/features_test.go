package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clutchmetrics/clutch/schema"
)

// seasonRow builds a scored player-season for feature tests.
func seasonRow(id string, season, gpc, gpn int, ppg, fgPct float64, cpi float64) schema.PlayerPerformance {
	return schema.PlayerPerformance{
		PlayerID:   id,
		PlayerName: id,
		Season:     season,
		Clutch: schema.RateLine{
			GamesPlayed:   gpc,
			PointsPerGame: ppg,
			FGPct:         fgPct,
		},
		NonClutch: schema.RateLine{
			GamesPlayed:   gpn,
			PointsPerGame: ppg - 2,
		},
		PointsDiff: 2,
		CPI:        &schema.CPIScore{PlayerID: id, Season: season, Value: cpi},
	}
}

func TestBuildFeatures(t *testing.T) {
	players := []schema.PlayerPerformance{
		seasonRow("p1", 2019, 6, 30, 10, 0.40, 0.2),
		seasonRow("p1", 2020, 8, 40, 14, 0.50, 0.6),
		seasonRow("p1", 2021, 10, 50, 18, 0.48, 1.0),
		seasonRow("p2", 2021, 4, 20, 8, 0.35, -0.3),
	}

	vectors := BuildFeatures(players)
	require.Len(t, vectors, 4)

	byKey := make(map[string]map[int]schema.FeatureVector)
	for _, v := range vectors {
		if byKey[v.PlayerID] == nil {
			byKey[v.PlayerID] = make(map[int]schema.FeatureVector)
		}
		byKey[v.PlayerID][v.Season] = v
	}

	t.Run("base rates", func(t *testing.T) {
		v := byKey["p1"][2021]
		assert.InDelta(t, 10, v.Values[schema.FeatGPClutch], 1e-9)
		assert.InDelta(t, 18, v.Values[schema.FeatPPGClutch], 1e-9)
		assert.InDelta(t, 0.48, v.Values[schema.FeatFGPctClutch], 1e-9)
		assert.InDelta(t, 50, v.Values[schema.FeatGPNonClutch], 1e-9)
		assert.InDelta(t, 2, v.Values[schema.FeatPPGDiff], 1e-9)
	})

	t.Run("rolling means over last two seasons", func(t *testing.T) {
		v := byKey["p1"][2021]
		assert.InDelta(t, (1.0+0.6)/2, v.Values[schema.FeatCPIRolling], 1e-9)
		assert.InDelta(t, (18.0+14.0)/2, v.Values[schema.FeatPPGRolling], 1e-9)
		assert.InDelta(t, (0.48+0.50)/2, v.Values[schema.FeatFGPctRolling], 1e-9)
	})

	t.Run("first season falls back to itself", func(t *testing.T) {
		v := byKey["p1"][2019]
		assert.True(t, v.LowHistory)
		assert.InDelta(t, 0.2, v.Values[schema.FeatCPIRolling], 1e-9)
		assert.Zero(t, v.Values[schema.FeatExperience])
		assert.Zero(t, v.Values[schema.FeatPPGStability])
	})

	t.Run("engineered terms", func(t *testing.T) {
		v := byKey["p1"][2021]
		assert.False(t, v.LowHistory)
		assert.InDelta(t, 18*0.48, v.Values[schema.FeatPPGTimesFGPct], 1e-9)
		assert.InDelta(t, 10.0/60.0, v.Values[schema.FeatGamesConsistency], 1e-9)
		assert.InDelta(t, 180, v.Values[schema.FeatClutchVolume], 1e-9)
		assert.InDelta(t, 2, v.Values[schema.FeatExperience], 1e-9)

		// Population std of {10, 14, 18}.
		assert.InDelta(t, math.Sqrt(32.0/3.0), v.Values[schema.FeatPPGStability], 1e-9)
	})

	t.Run("single season player", func(t *testing.T) {
		v := byKey["p2"][2021]
		assert.True(t, v.LowHistory)
		assert.InDelta(t, -0.3, v.Values[schema.FeatCPIRolling], 1e-9)
	})

	t.Run("no NaN anywhere", func(t *testing.T) {
		for _, v := range vectors {
			for i, val := range v.Values {
				assert.False(t, math.IsNaN(val), "feature %s", schema.FeatureNames[i])
			}
		}
	})
}

func TestBuildFeaturesSkipsUnscored(t *testing.T) {
	players := []schema.PlayerPerformance{
		{PlayerID: "bench", Season: 2021}, // no CPI, zero clutch games
		seasonRow("p1", 2021, 6, 30, 10, 0.40, 0.2),
	}

	vectors := BuildFeatures(players)
	require.Len(t, vectors, 1)
	assert.Equal(t, "p1", vectors[0].PlayerID)
}
