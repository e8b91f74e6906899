// Package schema has configs, models and constants for all parts of clutch.
package schema

import "time"

// Game represents a single game from the raw games table.
// ScoreDiff and IsClutch are derived at load time and never mutated afterwards.
type Game struct {
	ID            string    // Natural game identifier from the games table
	Season        int       // Season tag (e.g. 2021 for the 2021-22 season)
	Date          time.Time // Game date
	HomeTeamID    string    // Home team identifier
	VisitorTeamID string    // Visitor team identifier
	HomePoints    int       // Final home score
	VisitorPoints int       // Final visitor score
	HomeWin       bool      // True if the home team won
	ScoreDiff     int       // Absolute final score differential
	IsClutch      bool      // True when ScoreDiff <= ClutchMargin
}

// PlayerGameRecord is one player's box score line for one game played.
// Records for players who logged zero minutes are dropped at load time.
type PlayerGameRecord struct {
	GameID     string  // Foreign key into the games table
	PlayerID   string  // Foreign key into the players table
	TeamID     string  // Team the player suited up for in this game
	PlayerName string  // Display name as recorded in the details table
	Minutes    float64 // Decimal minutes played (parsed from "MM:SS")
	Points     int
	FGM        int // Field goals made
	FGA        int // Field goals attempted
	FG3M       int // Three-pointers made
	FG3A       int // Three-pointers attempted
	FTM        int // Free throws made
	FTA        int // Free throws attempted
	Rebounds   int
	Assists    int
	Turnovers  int
	PlusMinus  int
}

// RateLine holds per-game rates for one partition (clutch or non-clutch)
// of a player's season. Shooting percentages are computed from partition
// totals, not averaged per game, to avoid low-attempt bias.
type RateLine struct {
	GamesPlayed        int     `json:"games_played"`
	MinutesPerGame     float64 `json:"minutes_per_game"`
	PointsPerGame      float64 `json:"points_per_game"`
	ReboundsPerGame    float64 `json:"rebounds_per_game"`
	AssistsPerGame     float64 `json:"assists_per_game"`
	TurnoversPerGame   float64 `json:"turnovers_per_game"`
	PlusMinusPerGame   float64 `json:"plus_minus_per_game"`
	FGPct              float64 `json:"fg_pct"`
	FG3Pct             float64 `json:"fg3_pct"`
	FTPct              float64 `json:"ft_pct"`
	AstToRatio         float64 `json:"ast_to_ratio"`
	InsufficientSample bool    `json:"insufficient_sample"` // True when GamesPlayed == 0; rates are 0, not real zeros
}

// StatTotals holds raw partition totals behind a RateLine. The simulator and
// the shooting percentages need totals rather than rates.
type StatTotals struct {
	Minutes   float64 `json:"minutes"`
	Points    int     `json:"points"`
	FGM       int     `json:"fgm"`
	FGA       int     `json:"fga"`
	FG3M      int     `json:"fg3m"`
	FG3A      int     `json:"fg3a"`
	FTM       int     `json:"ftm"`
	FTA       int     `json:"fta"`
	Rebounds  int     `json:"rebounds"`
	Assists   int     `json:"assists"`
	Turnovers int     `json:"turnovers"`
	PlusMinus int     `json:"plus_minus"`
}

// PlayerPerformance is one row of the processed player table: a player-season
// with clutch and non-clutch rate lines, differentials and the CPI score.
// This is the artifact consumed by the presentation layer.
type PlayerPerformance struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	TeamID     string `json:"team_id"`
	TeamName   string `json:"team_name"`
	Season     int    `json:"season"`

	Clutch          RateLine   `json:"clutch"`
	NonClutch       RateLine   `json:"non_clutch"`
	ClutchTotals    StatTotals `json:"clutch_totals"`
	NonClutchTotals StatTotals `json:"non_clutch_totals"`

	// Differentials: clutch rate minus non-clutch rate.
	PointsDiff     float64 `json:"points_diff"`
	FGPctDiff      float64 `json:"fg_pct_diff"`
	AstToRatioDiff float64 `json:"ast_to_ratio_diff"`

	CPI *CPIScore `json:"cpi,omitempty"` // Nil when the player has zero clutch games
}

// CPIScore is the composite clutch index for one player-season, along with
// the cohort and normalization strategy it was computed under and the raw
// metric inputs, so that every score is explainable after the fact.
type CPIScore struct {
	PlayerID  string                `json:"player_id"`
	Season    int                   `json:"season"`
	Value     float64               `json:"value"`
	Cohort    Cohort                `json:"cohort"`
	Strategy  NormalizationStrategy `json:"strategy"`
	Inputs    map[MetricKey]float64 `json:"inputs"`    // Raw metric values fed into normalization
	Breakdown map[MetricKey]float64 `json:"breakdown"` // Weighted contribution of each metric
}

// TopPerformer is a (player, CPI) pair on a team profile.
type TopPerformer struct {
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	CPI        float64 `json:"cpi"`
}

// TeamPerformance is one row of the processed team table: a team-season with
// clutch and non-clutch win/loss records.
type TeamPerformance struct {
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`
	Season   int    `json:"season"`

	ClutchGames     int     `json:"clutch_games"`
	ClutchWins      int     `json:"clutch_wins"`
	ClutchWinPct    float64 `json:"clutch_win_pct"`
	NonClutchGames  int     `json:"non_clutch_games"`
	NonClutchWins   int     `json:"non_clutch_wins"`
	NonClutchWinPct float64 `json:"non_clutch_win_pct"`

	TopPerformers []TopPerformer `json:"top_performers,omitempty"`
}

// FeatureVector is the ordered feature set for one player-season, used as
// model input. Values are indexed by the FeatureNames order.
type FeatureVector struct {
	PlayerID   string               `json:"player_id"`
	PlayerName string               `json:"player_name"`
	TeamName   string               `json:"team_name"`
	Season     int                  `json:"season"`
	Values     [NumFeatures]float64 `json:"values"`
	LowHistory bool                 `json:"low_history"` // True when fewer than 2 seasons backed the rolling stats
}

// PredictionResult is the projected next-season CPI for one player, with the
// three component model outputs retained for explainability.
type PredictionResult struct {
	PlayerID     string  `json:"player_id"`
	PlayerName   string  `json:"player_name"`
	TeamName     string  `json:"team_name"`
	TargetSeason int     `json:"target_season"`
	Blended      float64 `json:"blended"`
	Forest       float64 `json:"forest"`
	Boost        float64 `json:"boost"`
	Ridge        float64 `json:"ridge"`
	LowHistory   bool    `json:"low_history"`
}

// ModelReport summarizes training quality on the held-out split.
type ModelReport struct {
	TrainSamples int     `json:"train_samples"`
	TestSamples  int     `json:"test_samples"`
	TrainR2      float64 `json:"train_r2"`
	TestR2       float64 `json:"test_r2"`
	MAE          float64 `json:"mae"`
	RMSE         float64 `json:"rmse"`
}

// SimulationLine is one side (before or after) of a usage-change simulation.
type SimulationLine struct {
	PointsPerGame    float64 `json:"points_per_game"`
	FGAPerGame       float64 `json:"fga_per_game"`
	TurnoversPerGame float64 `json:"turnovers_per_game"`
	AstToRatio       float64 `json:"ast_to_ratio"`
}

// SimulationResult holds the before/after rate lines of a usage-change
// simulation for a single player.
type SimulationResult struct {
	PlayerID   string         `json:"player_id"`
	PlayerName string         `json:"player_name"`
	Season     int            `json:"season"`
	UsageDelta float64        `json:"usage_delta_pct"`
	Before     SimulationLine `json:"before"`
	After      SimulationLine `json:"after"`
}

// IntegrityReport counts rows the loader dropped and why. Dropped rows are
// counted and logged, never silently included.
type IntegrityReport struct {
	DuplicateGames      int `json:"duplicate_games"`
	DuplicateRecords    int `json:"duplicate_records"`
	MissingGameRefs     int `json:"missing_game_refs"`
	MissingPlayerRefs   int `json:"missing_player_refs"`
	MalformedGameRows   int `json:"malformed_game_rows"`
	MalformedDetailRows int `json:"malformed_detail_rows"`
	ZeroMinuteRows      int `json:"zero_minute_rows"`
}

// Dropped returns the total number of rows excluded for integrity reasons.
// Zero-minute rows are not integrity drops; the player simply did not play.
func (r IntegrityReport) Dropped() int {
	return r.DuplicateGames + r.DuplicateRecords + r.MissingGameRefs +
		r.MissingPlayerRefs + r.MalformedGameRows + r.MalformedDetailRows
}

// Dataset is the full processed output of the pipeline: the two tables the
// presentation layer consumes plus the integrity report for the run.
type Dataset struct {
	Players []PlayerPerformance `json:"players"`
	Teams   []TeamPerformance   `json:"teams"`
	Report  IntegrityReport     `json:"report"`
	Seasons []int               `json:"seasons"` // Distinct seasons present, ascending
}

// LatestSeason returns the most recent season in the dataset, or 0 if empty.
func (d *Dataset) LatestSeason() int {
	if len(d.Seasons) == 0 {
		return 0
	}
	return d.Seasons[len(d.Seasons)-1]
}
