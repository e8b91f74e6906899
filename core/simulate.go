package core

import (
	"github.com/clutchmetrics/clutch/schema"
)

// turnoverElasticity is how strongly turnover rate follows shot volume: a
// 10% usage increase raises turnovers per game by 5%.
const turnoverElasticity = 0.5

// SimulateUsageChange projects a player's clutch scoring line under a
// percentage change in shot volume. The extra attempts convert to points
// at the player's observed points-per-attempt and to turnovers at a rate
// elevated by the dampened elasticity; assists hold constant.
func SimulateUsageChange(p *schema.PlayerPerformance, usageDelta float64) schema.SimulationResult {
	gp := float64(p.Clutch.GamesPlayed)

	var fgaPerGame, pointsPerFGA, tovPerFGA float64
	if gp > 0 {
		fgaPerGame = float64(p.ClutchTotals.FGA) / gp
	}
	if p.ClutchTotals.FGA > 0 {
		pointsPerFGA = float64(p.ClutchTotals.Points) / float64(p.ClutchTotals.FGA)
		tovPerFGA = float64(p.ClutchTotals.Turnovers) / float64(p.ClutchTotals.FGA)
	}

	before := schema.SimulationLine{
		PointsPerGame:    p.Clutch.PointsPerGame,
		FGAPerGame:       fgaPerGame,
		TurnoversPerGame: p.Clutch.TurnoversPerGame,
		AstToRatio:       p.Clutch.AstToRatio,
	}

	delta := usageDelta / 100
	deltaFGA := fgaPerGame * delta

	// The added attempts come at a turnover rate above the player's
	// baseline: tovPerFGA scaled by the elasticity-dampened usage shift.
	simTovRate := tovPerFGA * (1 + delta*turnoverElasticity)
	afterTO := p.Clutch.TurnoversPerGame + deltaFGA*simTovRate

	after := schema.SimulationLine{
		PointsPerGame:    p.Clutch.PointsPerGame + deltaFGA*pointsPerFGA,
		FGAPerGame:       fgaPerGame + deltaFGA,
		TurnoversPerGame: afterTO,
		AstToRatio:       simulatedAstToRatio(p.Clutch.AssistsPerGame, afterTO),
	}

	return schema.SimulationResult{
		PlayerID:   p.PlayerID,
		PlayerName: p.PlayerName,
		Season:     p.Season,
		UsageDelta: usageDelta,
		Before:     before,
		After:      after,
	}
}

// simulatedAstToRatio recomputes AST/TO against the simulated turnover
// rate, dividing by 1 when the rate is not positive so the ratio stays
// finite.
func simulatedAstToRatio(assistsPerGame, turnoversPerGame float64) float64 {
	if turnoversPerGame <= 0 {
		turnoversPerGame = 1
	}
	return assistsPerGame / turnoversPerGame
}
