package schema

// Custom string types for type safety.
type (
	// MetricKey identifies one of the weighted CPI metrics.
	MetricKey string

	// Cohort represents the volume cohort a player was scored under.
	Cohort string

	// NormalizationStrategy represents how a cohort's metrics were normalized.
	NormalizationStrategy string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string
)

// Clutch game definition and cohort boundary.
const (
	// ClutchMargin is the maximum final score differential of a clutch game.
	ClutchMargin = 5

	// HighVolumeThreshold is the minimum clutch games played for the
	// high-volume cohort. Players below it are scored with min-max
	// normalization and a GP-proportional scaling factor.
	HighVolumeThreshold = 5

	// LowVolumeBaselineFloor is the minimum composite score for low-volume
	// players, so small samples rank meaningfully instead of collapsing
	// toward zero from variance.
	LowVolumeBaselineFloor = -2.0
)

// The five weighted CPI metrics.
const (
	MetricPoints    MetricKey = "ppg_clutch"
	MetricFGPct     MetricKey = "fg_pct_clutch"
	MetricAssists   MetricKey = "apg_clutch"
	MetricTurnovers MetricKey = "topg_clutch"
	MetricPlusMinus MetricKey = "plus_minus_clutch"
)

// AllMetricKeys lists the CPI metrics in canonical order.
var AllMetricKeys = []MetricKey{
	MetricPoints,
	MetricFGPct,
	MetricAssists,
	MetricTurnovers,
	MetricPlusMinus,
}

// Both volume cohorts.
const (
	HighVolumeCohort Cohort = "high_volume"
	LowVolumeCohort  Cohort = "low_volume"
)

// Both normalization strategies. The strategy is selected once per player
// and carried on the score rather than re-derived at render time.
const (
	ZScoreStrategy NormalizationStrategy = "zscore"
	MinMaxStrategy NormalizationStrategy = "minmax"
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidCacheBackends lists all valid cache backends.
var ValidCacheBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// GetDefaultWeights returns the default CPI metric weights. Turnovers carry
// a negative weight as a penalty.
func GetDefaultWeights() map[MetricKey]float64 {
	return map[MetricKey]float64{
		MetricPoints:    0.30,
		MetricFGPct:     0.25,
		MetricAssists:   0.15,
		MetricTurnovers: -0.15,
		MetricPlusMinus: 0.15,
	}
}

// BlendWeights holds the fixed ensemble blend. The blend is a static design
// choice, not learned, and must be reproduced exactly for output fidelity.
type BlendWeights struct {
	Forest float64 `json:"forest"`
	Boost  float64 `json:"boost"`
	Ridge  float64 `json:"ridge"`
}

// DefaultBlendWeights is the canonical forest/boost/ridge blend.
var DefaultBlendWeights = BlendWeights{Forest: 0.50, Boost: 0.30, Ridge: 0.20}
