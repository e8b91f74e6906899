// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/clutchmetrics/clutch/schema"
)

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetDatasetStore() CacheStore
	GetRunStore() RunStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// RunStore defines the interface for tracking pipeline runs and the scores
// they produced.
type RunStore interface {
	// BeginRun creates a new pipeline run and returns its unique ID
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, playerRows, teamRows, droppedRows int) error

	// RecordPlayerScore stores one computed CPI score for a run
	RecordPlayerScore(runID int64, rec schema.PlayerScoreRecord) error

	// GetStatus returns status information about the run store
	GetStatus() (schema.AnalysisStatus, error)

	// GetAllRuns retrieves every recorded run, oldest first
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllPlayerScores retrieves every recorded player score, grouped by run
	GetAllPlayerScores() ([]schema.PlayerScoreRecord, error)

	// Close closes the underlying connection
	Close() error
}
