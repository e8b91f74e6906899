package agg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clutchmetrics/clutch/internal/contract"
)

const testGamesCSV = `GAME_ID,GAME_DATE_EST,SEASON,HOME_TEAM_ID,VISITOR_TEAM_ID,PTS_home,PTS_away,HOME_TEAM_WINS
g1,2021-11-01,2021,t1,t2,100,97,1
g2,2021-11-03,2021,t2,t1,110,90,1
g1,2021-11-01,2021,t1,t2,100,97,1
g3,2021-11-05,2021,t1,t2,102,104,0
g4,bad-date,2021,t1,t2,100,90,1
`

const testDetailsCSV = `GAME_ID,TEAM_ID,PLAYER_ID,PLAYER_NAME,MIN,FGM,FGA,FG3M,FG3A,FTM,FTA,REB,AST,TO,PF,PTS,PLUS_MINUS
g1,t1,p1,Alpha One,36:30,8,15,2,5,4,4,6,7,2,3,22,5
g1,t2,p2,Beta Two,33:00,6,14,1,4,2,2,4,3,4,2,15,-5
g2,t1,p1,Alpha One,30:00,5,12,1,3,1,2,5,6,1,2,12,-20
g2,t1,p1,Alpha One,30:00,5,12,1,3,1,2,5,6,1,2,12,-20
g1,t1,p9,Ghost Player,20:00,2,5,0,1,0,0,2,1,1,1,4,2
g9,t1,p1,Alpha One,25:00,4,9,1,2,0,0,3,2,0,1,9,3
g1,t2,p3,Gamma Three,0:00,0,0,0,0,0,0,0,0,0,0,0,0
g3,t2,p2,Beta Two,35:15,7,13,2,6,3,3,5,4,1,2,19,2
`

const testTeamsCSV = `TEAM_ID,CITY,NICKNAME
t1,Springfield,Hammers
t2,Shelbyville,Sharks
`

const testPlayersCSV = `PLAYER_ID,PLAYER_NAME
p1,Alpha One
p2,Beta Two
p3,Gamma Three
`

// writeFixtures writes the four-source fixture set into a temp data dir.
func writeFixtures(t *testing.T) *contract.Config {
	t.Helper()
	dir := t.TempDir()

	fixtures := map[string]string{
		contract.GamesFile:   testGamesCSV,
		contract.DetailsFile: testDetailsCSV,
		contract.TeamsFile:   testTeamsCSV,
		contract.PlayersFile: testPlayersCSV,
	}
	for name, content := range fixtures {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	return &contract.Config{DataDir: dir}
}

func TestLoad(t *testing.T) {
	cfg := writeFixtures(t)

	raw, err := Load(cfg)
	require.NoError(t, err)

	t.Run("games deduped and derived", func(t *testing.T) {
		assert.Len(t, raw.Games, 3)

		g1 := raw.Games["g1"]
		require.NotNil(t, g1)
		assert.Equal(t, 3, g1.ScoreDiff)
		assert.True(t, g1.IsClutch)
		assert.True(t, g1.HomeWin)

		g2 := raw.Games["g2"]
		require.NotNil(t, g2)
		assert.Equal(t, 20, g2.ScoreDiff)
		assert.False(t, g2.IsClutch)

		g3 := raw.Games["g3"]
		require.NotNil(t, g3)
		assert.Equal(t, 2, g3.ScoreDiff)
		assert.True(t, g3.IsClutch)
		assert.False(t, g3.HomeWin)
	})

	t.Run("integrity report", func(t *testing.T) {
		assert.Equal(t, 1, raw.Report.DuplicateGames)
		assert.Equal(t, 1, raw.Report.MalformedGameRows, "bad-date row")
		assert.Equal(t, 1, raw.Report.DuplicateRecords)
		assert.Equal(t, 1, raw.Report.MissingGameRefs, "g9 reference")
		assert.Equal(t, 1, raw.Report.MissingPlayerRefs, "p9 reference")
		assert.Equal(t, 1, raw.Report.ZeroMinuteRows)
		assert.Equal(t, 4, raw.Report.Dropped())
	})

	t.Run("surviving details are chronological", func(t *testing.T) {
		require.Len(t, raw.Details, 4)
		for i := 1; i < len(raw.Details); i++ {
			prev := raw.Games[raw.Details[i-1].GameID]
			cur := raw.Games[raw.Details[i].GameID]
			assert.False(t, cur.Date.Before(prev.Date))
		}
	})

	t.Run("name tables", func(t *testing.T) {
		assert.Equal(t, "Springfield Hammers", raw.Teams["t1"])
		assert.Equal(t, "Alpha One", raw.Players["p1"])
	})
}

func TestLoadMissingColumn(t *testing.T) {
	cfg := writeFixtures(t)

	// Overwrite games with a header missing SEASON.
	broken := "GAME_ID,GAME_DATE_EST,HOME_TEAM_ID,VISITOR_TEAM_ID,PTS_home,PTS_away,HOME_TEAM_WINS\n"
	require.NoError(t, os.WriteFile(cfg.SourcePath(contract.GamesFile), []byte(broken), 0o644))

	_, err := Load(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "SEASON")
}

func TestParseMinutes(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    float64
		expectError bool
	}{
		{"minutes and seconds", "36:30", 36.5, false},
		{"zero seconds", "12:00", 12.0, false},
		{"bare integer", "48", 48.0, false},
		{"bare decimal", "12.5", 12.5, false},
		{"hours form", "1:02:30", 62.5, false},
		{"empty is did-not-play", "", 0, false},
		{"DNP marker", "DNP", 0, false},
		{"negative minutes", "-5:00", 0, true},
		{"seconds out of range", "12:99", 0, true},
		{"garbage", "abc", 0, true},
		{"too many parts", "1:2:3:4", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMinutes(tt.input)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.InDelta(t, tt.expected, got, 1e-9)
			}
		})
	}
}
