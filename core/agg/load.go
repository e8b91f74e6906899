// Package agg has loading and aggregation logic for raw game data.
package agg

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/clutchmetrics/clutch/internal/contract"
	"github.com/clutchmetrics/clutch/schema"
)

// RawData holds the four loaded sources plus the integrity report for the
// load. Details are sorted chronologically so downstream partitions keep
// game order.
type RawData struct {
	Games   map[string]*schema.Game   // Keyed by game ID
	Details []schema.PlayerGameRecord // Chronological, integrity-checked
	Teams   map[string]string         // Team ID -> display name
	Players map[string]string         // Player ID -> display name
	Report  schema.IntegrityReport
}

// Load reads the four raw CSV sources from cfg.DataDir. Duplicate rows,
// rows referencing missing games or players, and malformed rows are dropped
// and counted in the report rather than silently included.
func Load(cfg *contract.Config) (*RawData, error) {
	raw := &RawData{}

	teams, err := loadNameTable(cfg.SourcePath(contract.TeamsFile), "TEAM_ID", teamNameFromRow)
	if err != nil {
		return nil, fmt.Errorf("load teams: %w", err)
	}
	raw.Teams = teams

	players, err := loadNameTable(cfg.SourcePath(contract.PlayersFile), "PLAYER_ID", playerNameFromRow)
	if err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}
	raw.Players = players

	if err := loadGames(cfg.SourcePath(contract.GamesFile), raw); err != nil {
		return nil, fmt.Errorf("load games: %w", err)
	}

	if err := loadDetails(cfg.SourcePath(contract.DetailsFile), raw); err != nil {
		return nil, fmt.Errorf("load game details: %w", err)
	}

	// Sort once so every per-player partition downstream is chronological.
	sort.SliceStable(raw.Details, func(i, j int) bool {
		gi, gj := raw.Games[raw.Details[i].GameID], raw.Games[raw.Details[j].GameID]
		return gi.Date.Before(gj.Date)
	})

	return raw, nil
}

// rowReader walks a CSV file row by row, exposing columns by header name.
type rowReader struct {
	reader *csv.Reader
	index  map[string]int
	row    []string
}

// newRowReader opens a CSV reader over r and indexes its header row.
func newRowReader(r io.Reader, required ...string) (*rowReader, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Row width validated per column lookup

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, name := range required {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}

	return &rowReader{reader: reader, index: index}, nil
}

// next advances to the next row. It returns false at EOF and an error only
// for unreadable input, not for malformed rows.
func (rr *rowReader) next() (bool, error) {
	row, err := rr.reader.Read()
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		// Treat structurally broken rows as malformed, not fatal.
		if _, ok := err.(*csv.ParseError); ok {
			rr.row = nil
			return true, nil
		}
		return false, err
	}
	rr.row = row
	return true, nil
}

// get returns the named column of the current row, or false when the row is
// malformed or too short.
func (rr *rowReader) get(name string) (string, bool) {
	i, ok := rr.index[name]
	if !ok || rr.row == nil || i >= len(rr.row) {
		return "", false
	}
	return strings.TrimSpace(rr.row[i]), true
}

// loadNameTable reads an ID -> name lookup table from a CSV file.
func loadNameTable(path, idCol string, nameFromRow func(*rowReader) string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	rr, err := newRowReader(f, idCol)
	if err != nil {
		return nil, err
	}

	table := make(map[string]string)
	for {
		more, err := rr.next()
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
		id, ok := rr.get(idCol)
		if !ok || id == "" {
			continue
		}
		if _, exists := table[id]; exists {
			continue // First occurrence wins
		}
		table[id] = nameFromRow(rr)
	}
	return table, nil
}

// teamNameFromRow builds "City Nickname" from a teams row.
func teamNameFromRow(rr *rowReader) string {
	city, _ := rr.get("CITY")
	nickname, _ := rr.get("NICKNAME")
	name := strings.TrimSpace(city + " " + nickname)
	if name == "" {
		name = "Unknown"
	}
	return name
}

// playerNameFromRow reads the display name from a players row.
func playerNameFromRow(rr *rowReader) string {
	name, _ := rr.get("PLAYER_NAME")
	if name == "" {
		name = "Unknown"
	}
	return name
}

// gameDateFormats are the date layouts seen in the games table.
var gameDateFormats = []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339}

// loadGames reads the games table, deduping on game ID and deriving the
// score differential and clutch flag per row.
func loadGames(path string, raw *RawData) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	rr, err := newRowReader(f,
		"GAME_ID", "GAME_DATE_EST", "SEASON",
		"HOME_TEAM_ID", "VISITOR_TEAM_ID",
		"PTS_home", "PTS_away", "HOME_TEAM_WINS")
	if err != nil {
		return err
	}

	raw.Games = make(map[string]*schema.Game)
	for {
		more, err := rr.next()
		if err != nil {
			return err
		}
		if !more {
			break
		}

		game, ok := parseGameRow(rr)
		if !ok {
			raw.Report.MalformedGameRows++
			continue
		}
		if _, exists := raw.Games[game.ID]; exists {
			raw.Report.DuplicateGames++
			continue
		}
		raw.Games[game.ID] = game
	}
	return nil
}

// parseGameRow parses the current row into a Game, deriving ScoreDiff and
// IsClutch from the final score.
func parseGameRow(rr *rowReader) (*schema.Game, bool) {
	id, ok := rr.get("GAME_ID")
	if !ok || id == "" {
		return nil, false
	}

	season, ok := intColumn(rr, "SEASON")
	if !ok {
		return nil, false
	}
	homePts, ok := intColumn(rr, "PTS_home")
	if !ok {
		return nil, false
	}
	awayPts, ok := intColumn(rr, "PTS_away")
	if !ok {
		return nil, false
	}
	homeWins, ok := intColumn(rr, "HOME_TEAM_WINS")
	if !ok {
		return nil, false
	}

	homeTeam, ok := rr.get("HOME_TEAM_ID")
	if !ok || homeTeam == "" {
		return nil, false
	}
	visitorTeam, ok := rr.get("VISITOR_TEAM_ID")
	if !ok || visitorTeam == "" {
		return nil, false
	}

	dateStr, _ := rr.get("GAME_DATE_EST")
	date, ok := parseGameDate(dateStr)
	if !ok {
		return nil, false
	}

	diff := homePts - awayPts
	if diff < 0 {
		diff = -diff
	}

	return &schema.Game{
		ID:            id,
		Season:        season,
		Date:          date,
		HomeTeamID:    homeTeam,
		VisitorTeamID: visitorTeam,
		HomePoints:    homePts,
		VisitorPoints: awayPts,
		HomeWin:       homeWins == 1,
		ScoreDiff:     diff,
		IsClutch:      diff <= schema.ClutchMargin,
	}, true
}

// parseGameDate tries the known date layouts in order.
func parseGameDate(s string) (time.Time, bool) {
	for _, layout := range gameDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// detailKey dedupes details on the (game, player) natural key.
type detailKey struct {
	gameID   string
	playerID string
}

// loadDetails reads the game details table, enforcing referential integrity
// against the games and players tables and dropping zero-minute rows.
func loadDetails(path string, raw *RawData) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	rr, err := newRowReader(f, "GAME_ID", "TEAM_ID", "PLAYER_ID", "MIN", "PTS")
	if err != nil {
		return err
	}

	seen := make(map[detailKey]struct{})
	for {
		more, err := rr.next()
		if err != nil {
			return err
		}
		if !more {
			break
		}

		rec, status := parseDetailRow(rr)
		switch status {
		case detailMalformed:
			raw.Report.MalformedDetailRows++
			continue
		case detailZeroMinutes:
			raw.Report.ZeroMinuteRows++
			continue
		}

		if _, ok := raw.Games[rec.GameID]; !ok {
			raw.Report.MissingGameRefs++
			continue
		}
		if _, ok := raw.Players[rec.PlayerID]; !ok {
			raw.Report.MissingPlayerRefs++
			continue
		}

		key := detailKey{gameID: rec.GameID, playerID: rec.PlayerID}
		if _, dup := seen[key]; dup {
			raw.Report.DuplicateRecords++
			continue
		}
		seen[key] = struct{}{}

		raw.Details = append(raw.Details, rec)
	}
	return nil
}

// detailStatus classifies a parsed details row.
type detailStatus int

const (
	detailOK detailStatus = iota
	detailMalformed
	detailZeroMinutes
)

// parseDetailRow parses the current row into a PlayerGameRecord.
func parseDetailRow(rr *rowReader) (schema.PlayerGameRecord, detailStatus) {
	gameID, ok := rr.get("GAME_ID")
	if !ok || gameID == "" {
		return schema.PlayerGameRecord{}, detailMalformed
	}
	playerID, ok := rr.get("PLAYER_ID")
	if !ok || playerID == "" {
		return schema.PlayerGameRecord{}, detailMalformed
	}
	teamID, ok := rr.get("TEAM_ID")
	if !ok || teamID == "" {
		return schema.PlayerGameRecord{}, detailMalformed
	}

	minStr, _ := rr.get("MIN")
	minutes, err := ParseMinutes(minStr)
	if err != nil {
		return schema.PlayerGameRecord{}, detailMalformed
	}
	if minutes == 0 {
		return schema.PlayerGameRecord{}, detailZeroMinutes
	}

	name, _ := rr.get("PLAYER_NAME")

	rec := schema.PlayerGameRecord{
		GameID:     gameID,
		PlayerID:   playerID,
		TeamID:     teamID,
		PlayerName: name,
		Minutes:    minutes,
	}

	// Counting stats default to 0 when the column is empty.
	stats := []struct {
		col string
		dst *int
	}{
		{"PTS", &rec.Points},
		{"FGM", &rec.FGM},
		{"FGA", &rec.FGA},
		{"FG3M", &rec.FG3M},
		{"FG3A", &rec.FG3A},
		{"FTM", &rec.FTM},
		{"FTA", &rec.FTA},
		{"REB", &rec.Rebounds},
		{"AST", &rec.Assists},
		{"TO", &rec.Turnovers},
		{"PLUS_MINUS", &rec.PlusMinus},
	}
	for _, s := range stats {
		v, ok := statColumn(rr, s.col)
		if !ok {
			return schema.PlayerGameRecord{}, detailMalformed
		}
		*s.dst = v
	}

	return rec, detailOK
}

// ParseMinutes converts a minutes string to decimal minutes. Accepted forms
// are "MM:SS", "HH:MM:SS", a bare number, and empty or DNP markers (0).
// Negative components are rejected.
func ParseMinutes(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "DNP") {
		return 0, nil
	}

	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		v, err := strconv.ParseFloat(parts[0], 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid minutes value %q", s)
		}
		return v, nil
	case 2:
		mm, err1 := strconv.Atoi(parts[0])
		ss, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil || mm < 0 || ss < 0 || ss >= 60 {
			return 0, fmt.Errorf("invalid minutes value %q", s)
		}
		return float64(mm) + float64(ss)/60.0, nil
	case 3:
		hh, err1 := strconv.Atoi(parts[0])
		mm, err2 := strconv.Atoi(parts[1])
		ss, err3 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || err3 != nil || hh < 0 || mm < 0 || mm >= 60 || ss < 0 || ss >= 60 {
			return 0, fmt.Errorf("invalid minutes value %q", s)
		}
		return float64(hh)*60.0 + float64(mm) + float64(ss)/60.0, nil
	default:
		return 0, fmt.Errorf("invalid minutes value %q", s)
	}
}

// intColumn parses an integer column that may carry a decimal suffix
// (e.g. "102.0" from a float-typed export).
func intColumn(rr *rowReader, name string) (int, bool) {
	s, ok := rr.get(name)
	if !ok || s == "" {
		return 0, false
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f), true
	}
	return 0, false
}

// statColumn parses a counting-stat column, treating empty as 0. Unlike
// intColumn, an absent value is a legitimate zero here.
func statColumn(rr *rowReader, name string) (int, bool) {
	s, ok := rr.get(name)
	if !ok {
		return 0, false
	}
	if s == "" {
		return 0, true
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f), true
	}
	return 0, false
}
