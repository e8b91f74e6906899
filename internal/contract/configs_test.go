package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clutchmetrics/clutch/schema"
)

// writeDataDir creates a temp directory with the four raw sources present,
// so resolveDataDir passes.
func writeDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{GamesFile, DetailsFile, TeamsFile, PlayersFile} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("header\n"), 0o644))
	}
	return dir
}

// validInput returns a raw input that passes validation against dir.
func validInput(dir string) *ConfigRawInput {
	return &ConfigRawInput{
		DataDirStr:      dir,
		Limit:           DefaultResultLimit,
		Workers:         4,
		Precision:       2,
		Output:          "text",
		Emoji:           "yes",
		Color:           "yes",
		CacheBackend:    "none",
		MinTrainSamples: DefaultMinTrainSamples,
		UsageDelta:      DefaultUsageDelta,
	}
}

func TestProcessAndValidate(t *testing.T) {
	dir := writeDataDir(t)

	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{
			name:        "valid minimal config",
			mutate:      func(in *ConfigRawInput) {},
			expectError: false,
		},
		{
			name:        "invalid limit (zero)",
			mutate:      func(in *ConfigRawInput) { in.Limit = 0 },
			expectError: true,
		},
		{
			name:        "limit over maximum",
			mutate:      func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 },
			expectError: true,
		},
		{
			name:        "invalid workers",
			mutate:      func(in *ConfigRawInput) { in.Workers = -1 },
			expectError: true,
		},
		{
			name:        "invalid precision",
			mutate:      func(in *ConfigRawInput) { in.Precision = 5 },
			expectError: true,
		},
		{
			name:        "invalid output format",
			mutate:      func(in *ConfigRawInput) { in.Output = "xml" },
			expectError: true,
		},
		{
			name:        "uppercase output is normalized",
			mutate:      func(in *ConfigRawInput) { in.Output = "JSON" },
			expectError: false,
		},
		{
			name:        "invalid emoji flag",
			mutate:      func(in *ConfigRawInput) { in.Emoji = "maybe" },
			expectError: true,
		},
		{
			name:        "invalid cache backend",
			mutate:      func(in *ConfigRawInput) { in.CacheBackend = "redis" },
			expectError: true,
		},
		{
			name: "mysql backend without connection string",
			mutate: func(in *ConfigRawInput) {
				in.CacheBackend = "mysql"
			},
			expectError: true,
		},
		{
			name: "mysql backend with valid connection string",
			mutate: func(in *ConfigRawInput) {
				in.CacheBackend = "mysql"
				in.CacheDBConnect = "user:pass@tcp(localhost:3306)/clutch"
			},
			expectError: false,
		},
		{
			name: "postgresql backend with malformed connection string",
			mutate: func(in *ConfigRawInput) {
				in.CacheBackend = "postgresql"
				in.CacheDBConnect = "localhost:5432"
			},
			expectError: true,
		},
		{
			name: "postgresql backend with valid connection string",
			mutate: func(in *ConfigRawInput) {
				in.CacheBackend = "postgresql"
				in.CacheDBConnect = "host=localhost port=5432 dbname=clutch sslmode=disable"
			},
			expectError: false,
		},
		{
			name: "run backend shares sqlite file with cache",
			mutate: func(in *ConfigRawInput) {
				in.CacheBackend = "sqlite"
				in.CacheDBConnect = "/tmp/same.db"
				in.RunBackend = "sqlite"
				in.RunDBConnect = "/tmp/same.db"
			},
			expectError: true,
		},
		{
			name: "run backend with distinct sqlite file",
			mutate: func(in *ConfigRawInput) {
				in.CacheBackend = "sqlite"
				in.RunBackend = "sqlite"
				in.RunDBConnect = "/tmp/runs.db"
			},
			expectError: false,
		},
		{
			name:        "invalid min train samples",
			mutate:      func(in *ConfigRawInput) { in.MinTrainSamples = 0 },
			expectError: true,
		},
		{
			name:        "usage delta out of range",
			mutate:      func(in *ConfigRawInput) { in.UsageDelta = 250.0 },
			expectError: true,
		},
		{
			name:        "negative usage delta in range",
			mutate:      func(in *ConfigRawInput) { in.UsageDelta = -25.0 },
			expectError: false,
		},
		{
			name:        "missing data dir",
			mutate:      func(in *ConfigRawInput) { in.DataDirStr = "/nonexistent/path" },
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput(dir)
			tt.mutate(input)

			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessAndValidateWeights(t *testing.T) {
	dir := writeDataDir(t)

	t.Run("defaults when no overrides", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, validInput(dir)))
		assert.InDelta(t, 0.30, cfg.MetricWeights[schema.MetricPoints], 1e-9)
		assert.InDelta(t, -0.15, cfg.MetricWeights[schema.MetricTurnovers], 1e-9)
	})

	t.Run("override merges over defaults", func(t *testing.T) {
		input := validInput(dir)
		w := 0.40
		input.Weights.Points = &w

		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.InDelta(t, 0.40, cfg.MetricWeights[schema.MetricPoints], 1e-9)
		// Untouched keys keep defaults.
		assert.InDelta(t, 0.25, cfg.MetricWeights[schema.MetricFGPct], 1e-9)
	})

	t.Run("override out of range", func(t *testing.T) {
		input := validInput(dir)
		w := 1.5
		input.Weights.FGPct = &w

		cfg := &Config{}
		assert.Error(t, ProcessAndValidate(cfg, input))
	})

	t.Run("explicit zero disables a metric", func(t *testing.T) {
		input := validInput(dir)
		w := 0.0
		input.Weights.PlusMinus = &w

		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Zero(t, cfg.MetricWeights[schema.MetricPlusMinus])
	})
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{
		ResultLimit:   10,
		MetricWeights: schema.GetDefaultWeights(),
	}

	clone := cfg.Clone()
	clone.MetricWeights[schema.MetricPoints] = 0.99

	assert.InDelta(t, 0.30, cfg.MetricWeights[schema.MetricPoints], 1e-9, "clone must not share the weight map")
	assert.Equal(t, cfg.ResultLimit, clone.ResultLimit)
}

func TestSourcePath(t *testing.T) {
	cfg := &Config{DataDir: "/data/nba"}
	assert.Equal(t, filepath.Join("/data/nba", GamesFile), cfg.SourcePath(GamesFile))
}
