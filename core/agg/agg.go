package agg

import (
	"sort"

	"github.com/clutchmetrics/clutch/schema"
)

// playerSeasonKey identifies one player-season accumulator.
type playerSeasonKey struct {
	playerID string
	season   int
}

// playerAccumulator collects partition totals for one player-season.
type playerAccumulator struct {
	playerID   string
	playerName string
	teamID     string // Last team seen, so trades resolve to the latest roster
	season     int

	clutchGames    int
	nonClutchGames int
	clutch         schema.StatTotals
	nonClutch      schema.StatTotals
}

// AggregatePlayers reduces the chronological detail records into one
// PlayerPerformance row per player-season. The CPI field is left nil; the
// scorer fills it in over the whole cohort.
func AggregatePlayers(raw *RawData) []schema.PlayerPerformance {
	accs := make(map[playerSeasonKey]*playerAccumulator)
	var order []playerSeasonKey

	for _, rec := range raw.Details {
		game := raw.Games[rec.GameID]

		key := playerSeasonKey{playerID: rec.PlayerID, season: game.Season}
		acc, ok := accs[key]
		if !ok {
			acc = &playerAccumulator{
				playerID:   rec.PlayerID,
				playerName: raw.Players[rec.PlayerID],
				season:     game.Season,
			}
			accs[key] = acc
			order = append(order, key)
		}

		acc.teamID = rec.TeamID
		if rec.PlayerName != "" {
			acc.playerName = rec.PlayerName
		}
		if game.IsClutch {
			acc.clutchGames++
			addTotals(&acc.clutch, rec)
		} else {
			acc.nonClutchGames++
			addTotals(&acc.nonClutch, rec)
		}
	}

	players := make([]schema.PlayerPerformance, 0, len(order))
	for _, key := range order {
		acc := accs[key]
		players = append(players, buildPerformance(acc, raw.Teams[acc.teamID]))
	}

	// Stable presentation order regardless of map iteration.
	sort.SliceStable(players, func(i, j int) bool {
		if players[i].Season != players[j].Season {
			return players[i].Season < players[j].Season
		}
		return players[i].PlayerID < players[j].PlayerID
	})

	return players
}

// addTotals adds one box score line to a partition total.
func addTotals(t *schema.StatTotals, rec schema.PlayerGameRecord) {
	t.Minutes += rec.Minutes
	t.Points += rec.Points
	t.FGM += rec.FGM
	t.FGA += rec.FGA
	t.FG3M += rec.FG3M
	t.FG3A += rec.FG3A
	t.FTM += rec.FTM
	t.FTA += rec.FTA
	t.Rebounds += rec.Rebounds
	t.Assists += rec.Assists
	t.Turnovers += rec.Turnovers
	t.PlusMinus += rec.PlusMinus
}

// buildPerformance converts an accumulator to the final player-season row.
func buildPerformance(acc *playerAccumulator, teamName string) schema.PlayerPerformance {
	clutch := BuildRateLine(acc.clutch, acc.clutchGames)
	nonClutch := BuildRateLine(acc.nonClutch, acc.nonClutchGames)

	return schema.PlayerPerformance{
		PlayerID:        acc.playerID,
		PlayerName:      acc.playerName,
		TeamID:          acc.teamID,
		TeamName:        teamName,
		Season:          acc.season,
		Clutch:          clutch,
		NonClutch:       nonClutch,
		ClutchTotals:    acc.clutch,
		NonClutchTotals: acc.nonClutch,
		PointsDiff:      clutch.PointsPerGame - nonClutch.PointsPerGame,
		FGPctDiff:       clutch.FGPct - nonClutch.FGPct,
		AstToRatioDiff:  clutch.AstToRatio - nonClutch.AstToRatio,
	}
}

// BuildRateLine derives per-game rates from partition totals. An empty
// partition yields zero rates with the insufficient-sample flag set, never
// a division by zero.
func BuildRateLine(t schema.StatTotals, games int) schema.RateLine {
	if games == 0 {
		return schema.RateLine{InsufficientSample: true}
	}

	gp := float64(games)
	return schema.RateLine{
		GamesPlayed:      games,
		MinutesPerGame:   t.Minutes / gp,
		PointsPerGame:    float64(t.Points) / gp,
		ReboundsPerGame:  float64(t.Rebounds) / gp,
		AssistsPerGame:   float64(t.Assists) / gp,
		TurnoversPerGame: float64(t.Turnovers) / gp,
		PlusMinusPerGame: float64(t.PlusMinus) / gp,
		FGPct:            shootingPct(t.FGM, t.FGA),
		FG3Pct:           shootingPct(t.FG3M, t.FG3A),
		FTPct:            shootingPct(t.FTM, t.FTA),
		AstToRatio:       AssistTurnoverRatio(t.Assists, t.Turnovers),
	}
}

// shootingPct computes made/attempted over partition totals. Zero attempts
// yield 0, not NaN.
func shootingPct(made, attempted int) float64 {
	if attempted == 0 {
		return 0
	}
	return float64(made) / float64(attempted)
}

// AssistTurnoverRatio computes AST/TO with a floor of 1 on turnovers, so a
// turnover-free partition stays finite.
func AssistTurnoverRatio(assists, turnovers int) float64 {
	if turnovers < 1 {
		turnovers = 1
	}
	return float64(assists) / float64(turnovers)
}

// teamSeasonKey identifies one team-season accumulator.
type teamSeasonKey struct {
	teamID string
	season int
}

// AggregateTeams expands each game into two team-game rows and reduces to
// clutch and non-clutch win/loss records per team-season. Top performers
// are attached by the caller once CPI scores exist.
func AggregateTeams(raw *RawData) []schema.TeamPerformance {
	type teamAcc struct {
		clutchGames, clutchWins       int
		nonClutchGames, nonClutchWins int
	}
	accs := make(map[teamSeasonKey]*teamAcc)

	record := func(teamID string, season int, clutch, win bool) {
		key := teamSeasonKey{teamID: teamID, season: season}
		acc, ok := accs[key]
		if !ok {
			acc = &teamAcc{}
			accs[key] = acc
		}
		if clutch {
			acc.clutchGames++
			if win {
				acc.clutchWins++
			}
		} else {
			acc.nonClutchGames++
			if win {
				acc.nonClutchWins++
			}
		}
	}

	for _, game := range raw.Games {
		record(game.HomeTeamID, game.Season, game.IsClutch, game.HomeWin)
		record(game.VisitorTeamID, game.Season, game.IsClutch, !game.HomeWin)
	}

	teams := make([]schema.TeamPerformance, 0, len(accs))
	for key, acc := range accs {
		teams = append(teams, schema.TeamPerformance{
			TeamID:          key.teamID,
			TeamName:        raw.Teams[key.teamID],
			Season:          key.season,
			ClutchGames:     acc.clutchGames,
			ClutchWins:      acc.clutchWins,
			ClutchWinPct:    winPct(acc.clutchWins, acc.clutchGames),
			NonClutchGames:  acc.nonClutchGames,
			NonClutchWins:   acc.nonClutchWins,
			NonClutchWinPct: winPct(acc.nonClutchWins, acc.nonClutchGames),
		})
	}

	sort.SliceStable(teams, func(i, j int) bool {
		if teams[i].Season != teams[j].Season {
			return teams[i].Season < teams[j].Season
		}
		return teams[i].TeamID < teams[j].TeamID
	})

	return teams
}

// winPct computes wins/games, 0 for an empty record.
func winPct(wins, games int) float64 {
	if games == 0 {
		return 0
	}
	return float64(wins) / float64(games)
}

// Seasons returns the distinct seasons present in the games table, ascending.
func Seasons(raw *RawData) []int {
	seen := make(map[int]struct{})
	for _, game := range raw.Games {
		seen[game.Season] = struct{}{}
	}
	seasons := make([]int, 0, len(seen))
	for s := range seen {
		seasons = append(seasons, s)
	}
	sort.Ints(seasons)
	return seasons
}
