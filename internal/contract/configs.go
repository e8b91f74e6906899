package contract

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/clutchmetrics/clutch/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit     = 25
	MaxResultLimit         = 1000
	DefaultPrecision       = 2
	DefaultMinTrainSamples = 50
	DefaultUsageDelta      = 10.0
	MaxUsageDelta          = 100.0
)

// MaxIntegrityDropFraction is the share of detail rows the loader may drop
// for integrity reasons before the run aborts instead of continuing with a
// warning.
const MaxIntegrityDropFraction = 0.5

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// Raw file names expected inside the data directory.
const (
	GamesFile   = "games.csv"
	DetailsFile = "games_details.csv"
	TeamsFile   = "teams.csv"
	PlayersFile = "players.csv"
)

// Config holds the runtime configuration for the pipeline.
// This struct remains the "final, validated" config.
type Config struct {
	DataDir     string // Directory holding the four raw CSV sources
	Season      int    // Season scope for queries (0 = latest in dataset)
	ResultLimit int
	Workers     int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Detail      bool // Print per-row rate detail columns
	Explain     bool // Print per-row CPI breakdown

	// Predictor knobs.
	MinTrainSamples int // Minimum labeled examples required to train

	// Simulator knob.
	UsageDelta float64 // Percent change in clutch shot volume

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	RunBackend   schema.DatabaseBackend
	RunDBConnect string // Please use env var as this is plaintext

	// MetricWeights is the CPI weight table, defaults + config file overrides.
	MetricWeights map[schema.MetricKey]float64

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// WeightsRawInput holds custom CPI weight overrides from the YAML config
// file. Pointers distinguish "unset" from an explicit zero.
type WeightsRawInput struct {
	Points    *float64 `mapstructure:"ppg_clutch"`
	FGPct     *float64 `mapstructure:"fg_pct_clutch"`
	Assists   *float64 `mapstructure:"apg_clutch"`
	Turnovers *float64 `mapstructure:"topg_clutch"`
	PlusMinus *float64 `mapstructure:"plus_minus_clutch"`
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	DataDirStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Season          int    `mapstructure:"season"`
	Limit           int    `mapstructure:"limit"`
	Workers         int    `mapstructure:"workers"`
	Precision       int    `mapstructure:"precision"`
	Output          string `mapstructure:"output"`
	OutputFile      string `mapstructure:"output-file"`
	Detail          bool   `mapstructure:"detail"`
	CacheBackend    string `mapstructure:"cache-backend"`
	CacheDBConnect  string `mapstructure:"cache-db-connect"`
	RunBackend      string `mapstructure:"run-backend"`
	RunDBConnect    string `mapstructure:"run-db-connect"`
	Emoji           string `mapstructure:"emoji"`
	Color           string `mapstructure:"color"`
	MinTrainSamples int    `mapstructure:"min-train-samples"`

	// --- Fields from playersCmd.Flags() ---
	Explain bool `mapstructure:"explain"`

	// --- Fields from simulateCmd.Flags() ---
	UsageDelta float64 `mapstructure:"usage-delta"`

	// --- Custom weights from config file ---
	Weights WeightsRawInput `mapstructure:"weights"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.MetricWeights != nil {
		clone.MetricWeights = make(map[schema.MetricKey]float64, len(c.MetricWeights))
		maps.Copy(clone.MetricWeights, c.MetricWeights)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processCustomWeights(cfg, input); err != nil {
		return err
	}
	return resolveDataDir(cfg, input)
}

// ProcessDisplayConfig resolves display-facing settings only, for commands
// that load no data and need no data directory.
func ProcessDisplayConfig(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	return processCustomWeights(cfg, input)
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail
	cfg.Explain = input.Explain
	cfg.Season = input.Season

	// Parse emoji flag
	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 3 {
		return fmt.Errorf("precision must be between 1 and 3 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}

	// --- 4. Predictor and Simulator Validation ---
	if input.MinTrainSamples <= 0 {
		return fmt.Errorf("min-train-samples must be greater than 0 (received %d)", input.MinTrainSamples)
	}
	cfg.MinTrainSamples = input.MinTrainSamples

	if input.UsageDelta < -MaxUsageDelta || input.UsageDelta > MaxUsageDelta {
		return fmt.Errorf("usage-delta must be between -%.0f and %.0f percent (received %.1f)", MaxUsageDelta, MaxUsageDelta, input.UsageDelta)
	}
	cfg.UsageDelta = input.UsageDelta

	// --- 5. Backend Validation ---
	return validateBackendConfigs(cfg, input)
}

// validateBackendConfigs validates cache and run-tracking backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidCacheBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- Run Backend Validation ---
	cfg.RunBackend = schema.DatabaseBackend(strings.ToLower(input.RunBackend))
	if cfg.RunBackend != "" {
		if _, ok := schema.ValidCacheBackends[cfg.RunBackend]; !ok {
			return fmt.Errorf("invalid run backend '%s'. must be sqlite, mysql, postgresql, none", input.RunBackend)
		}
		cfg.RunDBConnect = input.RunDBConnect
		if err := ValidateDatabaseConnectionString(cfg.RunBackend, cfg.RunDBConnect); err != nil {
			return err
		}

		// Cache and run tracking must not share a SQLite file.
		if cfg.CacheBackend == schema.SQLiteBackend && cfg.RunBackend == schema.SQLiteBackend {
			cacheDBPath := cfg.CacheDBConnect
			if cacheDBPath == "" {
				cacheDBPath = GetCacheDBFilePath()
			}
			runDBPath := cfg.RunDBConnect
			if runDBPath == "" {
				runDBPath = GetRunDBFilePath()
			}
			if cacheDBPath == runDBPath {
				return fmt.Errorf("cache and run storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
			}
		}
	}

	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// processCustomWeights merges config-file weight overrides over the default
// CPI weight table.
func processCustomWeights(cfg *Config, input *ConfigRawInput) error {
	weights := schema.GetDefaultWeights()

	overrides := map[schema.MetricKey]*float64{
		schema.MetricPoints:    input.Weights.Points,
		schema.MetricFGPct:     input.Weights.FGPct,
		schema.MetricAssists:   input.Weights.Assists,
		schema.MetricTurnovers: input.Weights.Turnovers,
		schema.MetricPlusMinus: input.Weights.PlusMinus,
	}
	for key, v := range overrides {
		if v == nil {
			continue
		}
		if *v < -1.0 || *v > 1.0 {
			return fmt.Errorf("weight for %s must be between -1.0 and 1.0 (received %.2f)", key, *v)
		}
		weights[key] = *v
	}

	cfg.MetricWeights = weights
	return nil
}

// resolveDataDir validates the data directory and checks the raw sources exist.
func resolveDataDir(cfg *Config, input *ConfigRawInput) error {
	dir := input.DataDirStr
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("invalid data directory %q: %w", dir, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("data directory %q does not exist: %w", abs, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data path %q is not a directory", abs)
	}

	for _, name := range []string{GamesFile, DetailsFile, TeamsFile, PlayersFile} {
		if _, err := os.Stat(filepath.Join(abs, name)); err != nil {
			return fmt.Errorf("raw source %s not found in %q: %w", name, abs, err)
		}
	}

	cfg.DataDir = abs
	return nil
}

// SourcePath returns the absolute path of a raw source file.
func (c *Config) SourcePath(name string) string {
	return filepath.Join(c.DataDir, name)
}
