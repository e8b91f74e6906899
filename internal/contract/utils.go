package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Tier label constants for CPI scores.
const (
	EliteValue   = "Elite"   // Top-tier clutch performer
	StrongValue  = "Strong"  // Above-average clutch performer
	AverageValue = "Average" // Near the cohort mean
	BenchValue   = "Bench"   // Below-average clutch performer
)

// Color variables for console output.
var (
	EliteColor   = color.New(color.FgGreen, color.Bold) // eliteColor marks the strongest signal.
	StrongColor  = color.New(color.FgCyan, color.Bold)  // strongColor marks an above-average signal.
	AverageColor = color.New(color.FgYellow)            // averageColor marks a neutral signal, not bold.
	BenchColor   = color.New(color.FgRed)               // benchColor marks a below-average signal.
)

// GetPlainLabel returns a plain text tier label for a CPI score. This is the
// core logic used for CSV, JSON, and table printing. CPI is a weighted sum
// of z-scores in the high-volume cohort, so the cut points are in score
// units rather than percentiles.
func GetPlainLabel(cpi float64) string {
	switch {
	case cpi >= 0.5:
		return EliteValue
	case cpi >= 0.1:
		return StrongValue
	case cpi >= -0.1:
		return AverageValue
	default:
		return BenchValue
	}
}

// GetColorLabel returns a colored tier label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the
// appropriate color.
func GetColorLabel(cpi float64) string {
	text := GetPlainLabel(cpi)

	switch text {
	case EliteValue:
		return EliteColor.Sprint(text)
	case StrongValue:
		return StrongColor.Sprint(text)
	case AverageValue:
		return AverageColor.Sprint(text)
	default: // "Bench"
		return BenchColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout when no path is set.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".clutch_cache.db"
	}
	return filepath.Join(homeDir, ".clutch_cache.db")
}

// GetRunDBFilePath returns the path to the SQLite DB file for run tracking.
func GetRunDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".clutch_runs.db"
	}
	return filepath.Join(homeDir, ".clutch_runs.db")
}

// TruncateName shortens a display name to maxWidth runes, keeping the start.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
