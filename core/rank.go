package core

import (
	"sort"

	"github.com/clutchmetrics/clutch/schema"
)

// RankPlayers sorts scored player-seasons by CPI in descending order and
// returns the top 'limit' rows. Unscored rows sink to the bottom and are
// cut first. Ties break on player ID so output is stable.
func RankPlayers(players []schema.PlayerPerformance, limit int) []schema.PlayerPerformance {
	sort.SliceStable(players, func(i, j int) bool {
		a, b := players[i].CPI, players[j].CPI
		switch {
		case a == nil && b == nil:
			return players[i].PlayerID < players[j].PlayerID
		case a == nil:
			return false
		case b == nil:
			return true
		case a.Value != b.Value:
			return a.Value > b.Value
		default:
			return players[i].PlayerID < players[j].PlayerID
		}
	})
	if len(players) > limit {
		return players[:limit]
	}
	return players
}

// RankTeams sorts team-seasons by clutch win percentage in descending
// order, breaking ties on clutch games played, and returns the top rows.
func RankTeams(teams []schema.TeamPerformance, limit int) []schema.TeamPerformance {
	sort.SliceStable(teams, func(i, j int) bool {
		if teams[i].ClutchWinPct != teams[j].ClutchWinPct {
			return teams[i].ClutchWinPct > teams[j].ClutchWinPct
		}
		return teams[i].ClutchGames > teams[j].ClutchGames
	})
	if len(teams) > limit {
		return teams[:limit]
	}
	return teams
}

// FilterSeason keeps only player-seasons of the given season. Season 0
// means no filter.
func FilterSeason(players []schema.PlayerPerformance, season int) []schema.PlayerPerformance {
	if season == 0 {
		return players
	}
	out := make([]schema.PlayerPerformance, 0, len(players))
	for _, p := range players {
		if p.Season == season {
			out = append(out, p)
		}
	}
	return out
}

// FilterTeamSeason keeps only team-seasons of the given season. Season 0
// means no filter.
func FilterTeamSeason(teams []schema.TeamPerformance, season int) []schema.TeamPerformance {
	if season == 0 {
		return teams
	}
	out := make([]schema.TeamPerformance, 0, len(teams))
	for _, t := range teams {
		if t.Season == season {
			out = append(out, t)
		}
	}
	return out
}
