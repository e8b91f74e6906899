package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clutchmetrics/clutch/internal/contract"
	"github.com/clutchmetrics/clutch/schema"
)

func TestAttachTopPerformers(t *testing.T) {
	players := []schema.PlayerPerformance{
		{PlayerID: "p1", PlayerName: "One", TeamID: "t1", Season: 2021,
			CPI: &schema.CPIScore{Value: 0.9}},
		{PlayerID: "p2", PlayerName: "Two", TeamID: "t1", Season: 2021,
			CPI: &schema.CPIScore{Value: 0.2}},
		{PlayerID: "p3", PlayerName: "Three", TeamID: "t1", Season: 2021,
			CPI: &schema.CPIScore{Value: 0.5}},
		{PlayerID: "p4", PlayerName: "Four", TeamID: "t1", Season: 2021,
			CPI: &schema.CPIScore{Value: -0.1}},
		{PlayerID: "p5", PlayerName: "Five", TeamID: "t1", Season: 2021}, // unscored
		{PlayerID: "p6", PlayerName: "Six", TeamID: "t2", Season: 2021,
			CPI: &schema.CPIScore{Value: 1.5}},
		{PlayerID: "p1", PlayerName: "One", TeamID: "t1", Season: 2020,
			CPI: &schema.CPIScore{Value: 0.4}},
	}
	teams := []schema.TeamPerformance{
		{TeamID: "t1", Season: 2021},
		{TeamID: "t2", Season: 2021},
		{TeamID: "t3", Season: 2021},
	}

	attachTopPerformers(players, teams)

	t.Run("capped and ordered by cpi", func(t *testing.T) {
		require.Len(t, teams[0].TopPerformers, 3)
		assert.Equal(t, "p1", teams[0].TopPerformers[0].PlayerID)
		assert.Equal(t, "p3", teams[0].TopPerformers[1].PlayerID)
		assert.Equal(t, "p2", teams[0].TopPerformers[2].PlayerID)
	})

	t.Run("season scoping", func(t *testing.T) {
		for _, tp := range teams[0].TopPerformers {
			assert.NotEqual(t, 0.4, tp.CPI, "2020 row must not leak into 2021")
		}
	})

	t.Run("other teams", func(t *testing.T) {
		require.Len(t, teams[1].TopPerformers, 1)
		assert.Equal(t, "p6", teams[1].TopPerformers[0].PlayerID)
		assert.Empty(t, teams[2].TopPerformers)
	})
}

func TestBuildFeatureVectorsMatchesSequential(t *testing.T) {
	players := []schema.PlayerPerformance{
		seasonRow("p1", 2019, 6, 30, 10, 0.40, 0.2),
		seasonRow("p1", 2020, 8, 40, 14, 0.50, 0.6),
		seasonRow("p2", 2020, 4, 20, 8, 0.35, -0.3),
		seasonRow("p3", 2021, 5, 25, 12, 0.45, 0.1),
	}

	cfg := &contract.Config{Workers: 3}
	parallel := buildFeatureVectors(cfg, players)
	sequential := BuildFeatures(players)

	assert.Equal(t, sequential, parallel)
}

// integrityConfig writes a data dir with the caching fixtures but a custom
// details file, for exercising the loader's drop tolerance.
func integrityConfig(t *testing.T, detailsCSV string) *contract.Config {
	t.Helper()
	dir := t.TempDir()

	fixtures := map[string]string{
		contract.GamesFile:   cachingGamesCSV,
		contract.DetailsFile: detailsCSV,
		contract.TeamsFile:   cachingTeamsCSV,
		contract.PlayersFile: cachingPlayersCSV,
	}
	for name, content := range fixtures {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	return &contract.Config{
		DataDir:       dir,
		MetricWeights: schema.GetDefaultWeights(),
	}
}

func TestBuildDatasetIntegrityTolerance(t *testing.T) {
	const detailsHeader = "GAME_ID,TEAM_ID,PLAYER_ID,PLAYER_NAME,MIN,FGM,FGA,FG3M,FG3A,FTM,FTA,REB,AST,TO,PF,PTS,PLUS_MINUS\n"

	t.Run("aborts when most rows are dropped", func(t *testing.T) {
		// One valid row against three referencing unknown players.
		cfg := integrityConfig(t, detailsHeader+
			"g1,t1,p1,Alpha One,36:30,8,15,2,5,4,4,6,7,2,3,22,5\n"+
			"g1,t1,px,Mystery One,30:00,5,12,1,3,1,2,5,6,1,2,12,-5\n"+
			"g1,t2,py,Mystery Two,30:00,5,12,1,3,1,2,5,6,1,2,12,-5\n"+
			"g2,t2,pz,Mystery Three,30:00,5,12,1,3,1,2,5,6,1,2,12,-5\n")

		_, err := buildDataset(cfg)
		require.Error(t, err)

		var integrityErr *contract.IntegrityError
		require.ErrorAs(t, err, &integrityErr)
		assert.Equal(t, 3, integrityErr.Report.MissingPlayerRefs)
		assert.Contains(t, err.Error(), "dropped 3 rows")
	})

	t.Run("continues below the tolerance", func(t *testing.T) {
		// One bad row out of three stays under MaxIntegrityDropFraction.
		cfg := integrityConfig(t, detailsHeader+
			"g1,t1,p1,Alpha One,36:30,8,15,2,5,4,4,6,7,2,3,22,5\n"+
			"g2,t1,p1,Alpha One,30:00,5,12,1,3,1,2,5,6,1,2,12,-20\n"+
			"g1,t1,px,Mystery One,30:00,5,12,1,3,1,2,5,6,1,2,12,-5\n")

		dataset, err := buildDataset(cfg)
		require.NoError(t, err)
		assert.Equal(t, 1, dataset.Report.MissingPlayerRefs)
		assert.NotEmpty(t, dataset.Players)
	})
}
