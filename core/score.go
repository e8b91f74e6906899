package core

import (
	"math"

	"github.com/clutchmetrics/clutch/schema"
)

// metricValue extracts one weighted CPI metric from a player's clutch line.
func metricValue(p *schema.PlayerPerformance, key schema.MetricKey) float64 {
	switch key {
	case schema.MetricPoints:
		return p.Clutch.PointsPerGame
	case schema.MetricFGPct:
		return p.Clutch.FGPct
	case schema.MetricAssists:
		return p.Clutch.AssistsPerGame
	case schema.MetricTurnovers:
		return p.Clutch.TurnoversPerGame
	case schema.MetricPlusMinus:
		return p.Clutch.PlusMinusPerGame
	default:
		return 0
	}
}

// cohortStats holds the per-metric distribution of one cohort.
type cohortStats struct {
	mean map[schema.MetricKey]float64
	std  map[schema.MetricKey]float64
	min  map[schema.MetricKey]float64
	max  map[schema.MetricKey]float64
}

// ScoreCPI computes the clutch index for every player-season in place.
// Cohorts and their distributions are computed over all player-seasons at
// once, so a score is always relative to the full population, not a single
// season. Player-seasons with zero clutch games get no score at all.
func ScoreCPI(players []schema.PlayerPerformance, weights map[schema.MetricKey]float64) {
	var high, low []*schema.PlayerPerformance
	for i := range players {
		gp := players[i].Clutch.GamesPlayed
		switch {
		case gp >= schema.HighVolumeThreshold:
			high = append(high, &players[i])
		case gp > 0:
			low = append(low, &players[i])
		}
	}

	scoreHighVolume(high, weights)
	scoreLowVolume(low, weights)
}

// scoreHighVolume scores the established cohort with per-metric z-scores.
// A metric with zero variance contributes nothing for anyone, rather than
// producing an infinite z-score.
func scoreHighVolume(cohort []*schema.PlayerPerformance, weights map[schema.MetricKey]float64) {
	if len(cohort) == 0 {
		return
	}
	stats := computeCohortStats(cohort)

	for _, p := range cohort {
		inputs := make(map[schema.MetricKey]float64, len(schema.AllMetricKeys))
		breakdown := make(map[schema.MetricKey]float64, len(schema.AllMetricKeys))
		var value float64

		for _, key := range schema.AllMetricKeys {
			v := metricValue(p, key)
			inputs[key] = v

			var z float64
			if stats.std[key] > 0 {
				z = (v - stats.mean[key]) / stats.std[key]
			}
			contribution := weights[key] * z
			breakdown[key] = contribution
			value += contribution
		}

		p.CPI = &schema.CPIScore{
			PlayerID:  p.PlayerID,
			Season:    p.Season,
			Value:     value,
			Cohort:    schema.HighVolumeCohort,
			Strategy:  schema.ZScoreStrategy,
			Inputs:    inputs,
			Breakdown: breakdown,
		}
	}
}

// scoreLowVolume scores the small-sample cohort with min-max normalization.
// Turnovers are inverted so fewer is better, every contribution uses the
// weight's magnitude, and the composite is scaled by the share of the
// cohort threshold the player actually reached. The scale factor keeps a
// two-game wonder from outranking a proven performer while still rewarding
// additional clutch appearances monotonically.
func scoreLowVolume(cohort []*schema.PlayerPerformance, weights map[schema.MetricKey]float64) {
	if len(cohort) == 0 {
		return
	}
	stats := computeCohortStats(cohort)

	for _, p := range cohort {
		inputs := make(map[schema.MetricKey]float64, len(schema.AllMetricKeys))
		breakdown := make(map[schema.MetricKey]float64, len(schema.AllMetricKeys))
		var composite float64

		scale := float64(p.Clutch.GamesPlayed) / float64(schema.HighVolumeThreshold)

		for _, key := range schema.AllMetricKeys {
			v := metricValue(p, key)
			inputs[key] = v

			norm := minMaxNorm(v, stats.min[key], stats.max[key])
			if key == schema.MetricTurnovers {
				norm = 1 - norm
			}
			contribution := math.Abs(weights[key]) * norm
			breakdown[key] = contribution * scale
			composite += contribution
		}

		value := composite * scale
		if value < schema.LowVolumeBaselineFloor {
			value = schema.LowVolumeBaselineFloor
		}

		p.CPI = &schema.CPIScore{
			PlayerID:  p.PlayerID,
			Season:    p.Season,
			Value:     value,
			Cohort:    schema.LowVolumeCohort,
			Strategy:  schema.MinMaxStrategy,
			Inputs:    inputs,
			Breakdown: breakdown,
		}
	}
}

// minMaxNorm maps v into [0,1] within [lo,hi]. A degenerate range maps to
// the 0.5 midpoint for everyone.
func minMaxNorm(v, lo, hi float64) float64 {
	if hi == lo {
		return 0.5
	}
	return (v - lo) / (hi - lo)
}

// computeCohortStats computes per-metric mean, population std, min and max
// over a cohort.
func computeCohortStats(cohort []*schema.PlayerPerformance) cohortStats {
	stats := cohortStats{
		mean: make(map[schema.MetricKey]float64),
		std:  make(map[schema.MetricKey]float64),
		min:  make(map[schema.MetricKey]float64),
		max:  make(map[schema.MetricKey]float64),
	}

	n := float64(len(cohort))
	for _, key := range schema.AllMetricKeys {
		var sum float64
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, p := range cohort {
			v := metricValue(p, key)
			sum += v
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		mean := sum / n

		var sqSum float64
		for _, p := range cohort {
			d := metricValue(p, key) - mean
			sqSum += d * d
		}

		stats.mean[key] = mean
		stats.std[key] = math.Sqrt(sqSum / n)
		stats.min[key] = lo
		stats.max[key] = hi
	}

	return stats
}
