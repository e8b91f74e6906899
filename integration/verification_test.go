//go:build integration

// Package integration contains integration tests for clutch.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
// Or use: make test-integration
package integration

import (
	"encoding/csv"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestClutchPlayersVerification runs the players command over the fixture
// dataset and verifies the CSV output against hand-computed values.
//
// Fixture clutch games (margin of 5 or fewer): g1 (3), g3 (2), g4 (1).
// Alpha One plays all three, scoring 22, 23, and 18 points.
// Beta Two plays all three, scoring 15, 19, and 19 points.
func TestClutchPlayersVerification(t *testing.T) {
	dataDir := writeFixtureData(t)
	outFile := filepath.Join(t.TempDir(), "players.csv")

	rows := runClutchCSV(t, outFile,
		"players", "--output", "csv", "--output-file", outFile,
		"--cache-backend", "none", dataDir)
	require.Len(t, rows, 3, "expected header plus two player rows")

	header := rows[0]
	byName := indexRowsByColumn(t, header, rows[1:], "player")
	require.Contains(t, byName, "Alpha One")
	require.Contains(t, byName, "Beta Two")

	alpha := byName["Alpha One"]
	assert.Equal(t, "3", columnValue(t, header, alpha, "gp_clutch"))
	assert.Equal(t, "21.00", columnValue(t, header, alpha, "ppg_clutch"))
	assert.Equal(t, "2", columnValue(t, header, alpha, "gp_non_clutch"))
	assert.Equal(t, "14.00", columnValue(t, header, alpha, "ppg_non_clutch"))
	assert.Equal(t, "low_volume", columnValue(t, header, alpha, "cohort"))

	beta := byName["Beta Two"]
	assert.Equal(t, "3", columnValue(t, header, beta, "gp_clutch"))
	assert.Equal(t, "17.67", columnValue(t, header, beta, "ppg_clutch"))
	assert.Equal(t, "low_volume", columnValue(t, header, beta, "cohort"))
}

// TestClutchTeamsVerification checks the team win/loss split on the fixture.
//
// Springfield Hammers (t1): clutch 1-2 (won g1, lost g3 and g4),
// other games 1-1 (lost g2, won g5).
func TestClutchTeamsVerification(t *testing.T) {
	dataDir := writeFixtureData(t)
	outFile := filepath.Join(t.TempDir(), "teams.csv")

	rows := runClutchCSV(t, outFile,
		"teams", "--output", "csv", "--output-file", outFile,
		"--cache-backend", "none", dataDir)
	require.Len(t, rows, 3, "expected header plus two team rows")

	header := rows[0]
	byName := indexRowsByColumn(t, header, rows[1:], "team")
	require.Contains(t, byName, "Springfield Hammers")
	require.Contains(t, byName, "Shelbyville Sharks")

	hammers := byName["Springfield Hammers"]
	assert.Equal(t, "3", columnValue(t, header, hammers, "clutch_games"))
	assert.Equal(t, "1", columnValue(t, header, hammers, "clutch_wins"))
	assert.Equal(t, "2", columnValue(t, header, hammers, "non_clutch_games"))
	assert.Equal(t, "1", columnValue(t, header, hammers, "non_clutch_wins"))

	sharks := byName["Shelbyville Sharks"]
	assert.Equal(t, "3", columnValue(t, header, sharks, "clutch_games"))
	assert.Equal(t, "2", columnValue(t, header, sharks, "clutch_wins"))
}

// TestClutchPlayerExplainFlag exercises the documented player invocation
// with --explain and checks the component breakdown is printed.
func TestClutchPlayerExplainFlag(t *testing.T) {
	dataDir := writeFixtureData(t)

	clutchPath := getClutchBinary()
	cmd := exec.Command(clutchPath,
		"player", "Alpha One", "--explain", "--cache-backend", "none", dataDir)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "command output: %s", string(output))

	assert.Contains(t, string(output), "Alpha One")
	assert.Contains(t, string(output), "Score drivers:")
}

// runClutchCSV runs the built binary and parses the CSV it wrote.
func runClutchCSV(t *testing.T, outFile string, args ...string) [][]string {
	t.Helper()

	clutchPath := getClutchBinary()
	cmd := exec.Command(clutchPath, args...)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "command output: %s", string(output))

	f, err := os.Open(outFile)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

// indexRowsByColumn maps each row by the value of the named column.
func indexRowsByColumn(t *testing.T, header []string, rows [][]string, column string) map[string][]string {
	t.Helper()
	byName := make(map[string][]string, len(rows))
	for _, row := range rows {
		byName[columnValue(t, header, row, column)] = row
	}
	return byName
}

// columnValue returns the row value under the named header column.
func columnValue(t *testing.T, header, row []string, column string) string {
	t.Helper()
	for i, name := range header {
		if name == column {
			require.Less(t, i, len(row))
			return row[i]
		}
	}
	t.Fatalf("column %q not found in header %v", column, header)
	return ""
}
