package core

import (
	"math"
	"sort"

	"github.com/clutchmetrics/clutch/schema"
)

// stabilityWindow is how many most recent seasons feed the PPG stability
// metric.
const stabilityWindow = 3

// BuildFeatures derives the model feature vector for every scored
// player-season. History-based features use each player's prior seasons in
// chronological order; players with fewer than two seasons get marked
// low_history and their rolling features fall back to the current season,
// never to NaN.
func BuildFeatures(players []schema.PlayerPerformance) []schema.FeatureVector {
	byPlayer, ids := groupSeasonsByPlayer(players)

	var vectors []schema.FeatureVector
	for _, id := range ids {
		vectors = append(vectors, playerVectors(byPlayer[id])...)
	}
	return vectors
}

// groupSeasonsByPlayer groups scored player-seasons per player, ascending by
// season, and returns the sorted player IDs so output order is stable
// across map iteration.
func groupSeasonsByPlayer(players []schema.PlayerPerformance) (map[string][]*schema.PlayerPerformance, []string) {
	byPlayer := make(map[string][]*schema.PlayerPerformance)
	for i := range players {
		if players[i].CPI == nil {
			continue // No clutch sample, nothing to model
		}
		byPlayer[players[i].PlayerID] = append(byPlayer[players[i].PlayerID], &players[i])
	}
	for _, seasons := range byPlayer {
		sort.SliceStable(seasons, func(i, j int) bool {
			return seasons[i].Season < seasons[j].Season
		})
	}

	ids := make([]string, 0, len(byPlayer))
	for id := range byPlayer {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return byPlayer, ids
}

// playerVectors computes the vector for every season of one player.
func playerVectors(seasons []*schema.PlayerPerformance) []schema.FeatureVector {
	vectors := make([]schema.FeatureVector, 0, len(seasons))
	for i, p := range seasons {
		vectors = append(vectors, buildVector(p, seasons[:i+1]))
	}
	return vectors
}

// buildVector computes the feature vector for the last entry of history,
// where history holds the player's seasons up to and including the current
// one, ascending.
func buildVector(p *schema.PlayerPerformance, history []*schema.PlayerPerformance) schema.FeatureVector {
	v := schema.FeatureVector{
		PlayerID:   p.PlayerID,
		PlayerName: p.PlayerName,
		TeamName:   p.TeamName,
		Season:     p.Season,
		LowHistory: len(history) < 2,
	}

	gpc := float64(p.Clutch.GamesPlayed)
	gpn := float64(p.NonClutch.GamesPlayed)

	// Base rates.
	v.Values[schema.FeatGPClutch] = gpc
	v.Values[schema.FeatPPGClutch] = p.Clutch.PointsPerGame
	v.Values[schema.FeatFGPctClutch] = p.Clutch.FGPct
	v.Values[schema.FeatFG3PctClutch] = p.Clutch.FG3Pct
	v.Values[schema.FeatAstToRatioClutch] = p.Clutch.AstToRatio
	v.Values[schema.FeatPlusMinusClutch] = p.Clutch.PlusMinusPerGame
	v.Values[schema.FeatPPGDiff] = p.PointsDiff
	v.Values[schema.FeatFGPctDiff] = p.FGPctDiff
	v.Values[schema.FeatGPNonClutch] = gpn
	v.Values[schema.FeatPPGNonClutch] = p.NonClutch.PointsPerGame
	v.Values[schema.FeatRPGClutch] = p.Clutch.ReboundsPerGame
	v.Values[schema.FeatAPGClutch] = p.Clutch.AssistsPerGame
	v.Values[schema.FeatTOPGClutch] = p.Clutch.TurnoversPerGame

	// Rolling means over the current and previous season.
	v.Values[schema.FeatCPIRolling] = rollingMean2(history, func(s *schema.PlayerPerformance) float64 {
		return s.CPI.Value
	})
	v.Values[schema.FeatPPGRolling] = rollingMean2(history, func(s *schema.PlayerPerformance) float64 {
		return s.Clutch.PointsPerGame
	})
	v.Values[schema.FeatFGPctRolling] = rollingMean2(history, func(s *schema.PlayerPerformance) float64 {
		return s.Clutch.FGPct
	})

	// Interaction and volume terms.
	v.Values[schema.FeatPPGTimesFGPct] = p.Clutch.PointsPerGame * p.Clutch.FGPct
	if gpc+gpn > 0 {
		v.Values[schema.FeatGamesConsistency] = gpc / (gpc + gpn)
	}
	v.Values[schema.FeatClutchVolume] = gpc * p.Clutch.PointsPerGame

	// Experience counts seasons since the first recorded one.
	v.Values[schema.FeatExperience] = float64(len(history) - 1)
	v.Values[schema.FeatPPGStability] = ppgStability(history)

	return v
}

// rollingMean2 averages a metric over the two most recent seasons in
// history, or returns the current value when only one season exists.
func rollingMean2(history []*schema.PlayerPerformance, metric func(*schema.PlayerPerformance) float64) float64 {
	n := len(history)
	if n == 1 {
		return metric(history[0])
	}
	return (metric(history[n-1]) + metric(history[n-2])) / 2
}

// ppgStability is the population standard deviation of clutch PPG over the
// most recent seasons, capped at stabilityWindow. Fewer than two seasons
// yield 0.
func ppgStability(history []*schema.PlayerPerformance) float64 {
	window := history
	if len(window) > stabilityWindow {
		window = window[len(window)-stabilityWindow:]
	}
	if len(window) < 2 {
		return 0
	}

	var sum float64
	for _, s := range window {
		sum += s.Clutch.PointsPerGame
	}
	mean := sum / float64(len(window))

	var sqSum float64
	for _, s := range window {
		d := s.Clutch.PointsPerGame - mean
		sqSum += d * d
	}
	return math.Sqrt(sqSum / float64(len(window)))
}
