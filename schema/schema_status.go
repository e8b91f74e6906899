package schema

import "time"

// CacheStatus represents the status of the cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// AnalysisStatus represents the status of the run-tracking store.
type AnalysisStatus struct {
	Backend        string           `json:"backend"`
	Connected      bool             `json:"connected"`
	TotalRuns      int              `json:"total_runs"`
	LastRunID      int64            `json:"last_run_id"`
	LastRunTime    time.Time        `json:"last_run_time"`
	OldestRunTime  time.Time        `json:"oldest_run_time"`
	TotalRowsBuilt int              `json:"total_rows_built"`
	TableSizes     map[string]int64 `json:"table_sizes"`
}

// RunRecord represents a row from the clutch_runs table.
type RunRecord struct {
	RunID        int64
	StartTime    time.Time
	EndTime      *time.Time
	DurationMs   *int32
	PlayerRows   int32
	TeamRows     int32
	DroppedRows  int32
	ConfigParams *string
}

// PlayerScoreRecord represents a row from the clutch_player_scores table.
type PlayerScoreRecord struct {
	RunID      int64
	PlayerID   string
	PlayerName string
	Season     int32
	ScoreTime  time.Time
	GPClutch   int32
	CPI        float64
	Cohort     string
	Strategy   string
}
