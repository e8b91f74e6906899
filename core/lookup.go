package core

import (
	"fmt"
	"strings"

	"github.com/clutchmetrics/clutch/internal/contract"
	"github.com/clutchmetrics/clutch/schema"
)

// resolveSeason picks the effective season for a query: the explicit one, or
// the latest in the dataset.
func resolveSeason(dataset *schema.Dataset, season int) int {
	if season != 0 {
		return season
	}
	return dataset.LatestSeason()
}

// FindPlayer resolves a player-season by ID or case-insensitive name within
// the given season (0 = latest). Unknown identifiers fail with ErrNotFound.
func FindPlayer(dataset *schema.Dataset, idOrName string, season int) (*schema.PlayerPerformance, error) {
	season = resolveSeason(dataset, season)

	needle := strings.ToLower(strings.TrimSpace(idOrName))
	for i := range dataset.Players {
		p := &dataset.Players[i]
		if p.Season != season {
			continue
		}
		if p.PlayerID == idOrName || strings.ToLower(p.PlayerName) == needle {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: player %q in season %d", contract.ErrNotFound, idOrName, season)
}

// PlayerHistory returns all seasons of one player, ascending by season.
func PlayerHistory(dataset *schema.Dataset, playerID string) []schema.PlayerPerformance {
	var history []schema.PlayerPerformance
	for _, p := range dataset.Players {
		if p.PlayerID == playerID {
			history = append(history, p)
		}
	}
	// Players slice is already season-ascending per player.
	return history
}

// FindTeam resolves a team-season by ID or case-insensitive name within the
// given season (0 = latest). Unknown identifiers fail with ErrNotFound.
func FindTeam(dataset *schema.Dataset, idOrName string, season int) (*schema.TeamPerformance, error) {
	season = resolveSeason(dataset, season)

	needle := strings.ToLower(strings.TrimSpace(idOrName))
	for i := range dataset.Teams {
		t := &dataset.Teams[i]
		if t.Season != season {
			continue
		}
		if t.TeamID == idOrName || strings.ToLower(t.TeamName) == needle {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: team %q in season %d", contract.ErrNotFound, idOrName, season)
}
