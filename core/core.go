package core

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/clutchmetrics/clutch/internal/contract"
	"github.com/clutchmetrics/clutch/internal/outwriter"
	"github.com/clutchmetrics/clutch/schema"
)

// ExecutorFunc defines the function signature for executing pipeline commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config) error

// GetDatasetResults runs the full pipeline and returns the processed dataset.
// This is the API entry point used by headless consumers.
func GetDatasetResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.Dataset, time.Duration, error) {
	start := time.Now()
	dataset, err := runAnalysisCore(ctx, cfg, mgr)
	if err != nil {
		return nil, 0, err
	}
	return dataset, time.Since(start), nil
}

// GetPlayerResults runs the pipeline and returns the ranked player-seasons
// for the resolved season.
func GetPlayerResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.PlayerPerformance, time.Duration, error) {
	start := time.Now()
	dataset, err := runAnalysisCore(ctx, cfg, mgr)
	if err != nil {
		return nil, 0, err
	}

	players := FilterSeason(dataset.Players, resolveSeason(dataset, cfg.Season))
	ranked := RankPlayers(players, cfg.ResultLimit)
	return ranked, time.Since(start), nil
}

// GetPlayerProfileResults runs the pipeline and returns one player's season
// row plus the player's full season history.
func GetPlayerProfileResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, idOrName string) (*schema.PlayerPerformance, []schema.PlayerPerformance, time.Duration, error) {
	start := time.Now()
	dataset, err := runAnalysisCore(ctx, cfg, mgr)
	if err != nil {
		return nil, nil, 0, err
	}

	player, err := FindPlayer(dataset, idOrName, cfg.Season)
	if err != nil {
		return nil, nil, 0, err
	}
	history := PlayerHistory(dataset, player.PlayerID)
	return player, history, time.Since(start), nil
}

// GetTeamProfileResults runs the pipeline and returns one team's clutch
// record with top performers attached.
func GetTeamProfileResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, idOrName string) (*schema.TeamPerformance, time.Duration, error) {
	start := time.Now()
	dataset, err := runAnalysisCore(ctx, cfg, mgr)
	if err != nil {
		return nil, 0, err
	}

	team, err := FindTeam(dataset, idOrName, cfg.Season)
	if err != nil {
		return nil, 0, err
	}
	return team, time.Since(start), nil
}

// GetTeamResults runs the pipeline and returns team-seasons ranked by clutch
// win percentage.
func GetTeamResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.TeamPerformance, time.Duration, error) {
	start := time.Now()
	dataset, err := runAnalysisCore(ctx, cfg, mgr)
	if err != nil {
		return nil, 0, err
	}

	teams := FilterTeamSeason(dataset.Teams, resolveSeason(dataset, cfg.Season))
	ranked := RankTeams(teams, cfg.ResultLimit)
	return ranked, time.Since(start), nil
}

// GetCompareResults runs the pipeline and returns two players' season rows.
func GetCompareResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, first, second string) (*schema.PlayerPerformance, *schema.PlayerPerformance, time.Duration, error) {
	start := time.Now()
	dataset, err := runAnalysisCore(ctx, cfg, mgr)
	if err != nil {
		return nil, nil, 0, err
	}

	a, err := FindPlayer(dataset, first, cfg.Season)
	if err != nil {
		return nil, nil, 0, err
	}
	b, err := FindPlayer(dataset, second, cfg.Season)
	if err != nil {
		return nil, nil, 0, err
	}
	return a, b, time.Since(start), nil
}

// GetSimulationResults runs the pipeline and projects a player's clutch line
// under the configured usage change.
func GetSimulationResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, idOrName string) (schema.SimulationResult, time.Duration, error) {
	start := time.Now()
	dataset, err := runAnalysisCore(ctx, cfg, mgr)
	if err != nil {
		return schema.SimulationResult{}, 0, err
	}

	player, err := FindPlayer(dataset, idOrName, cfg.Season)
	if err != nil {
		return schema.SimulationResult{}, 0, err
	}
	if player.Clutch.GamesPlayed == 0 {
		return schema.SimulationResult{}, 0, fmt.Errorf("%w: player %q has no clutch games in season %d",
			contract.ErrInsufficientData, idOrName, player.Season)
	}

	result := SimulateUsageChange(player, cfg.UsageDelta)
	return result, time.Since(start), nil
}

// GetPredictionResults runs the pipeline, trains the ensemble, and projects
// next-season CPI, either for one player or for the top of the ranked board.
func GetPredictionResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, idOrName string) ([]schema.PredictionResult, *schema.ModelReport, time.Duration, error) {
	start := time.Now()
	dataset, err := runAnalysisCore(ctx, cfg, mgr)
	if err != nil {
		return nil, nil, 0, err
	}

	ensemble, report, vectors, err := trainPredictor(cfg, dataset.Players)
	if err != nil {
		return nil, nil, 0, err
	}

	season := resolveSeason(dataset, cfg.Season)
	predictions := predictNextSeason(ensemble, vectors, season)

	if idOrName != "" {
		player, err := FindPlayer(dataset, idOrName, season)
		if err != nil {
			return nil, nil, 0, err
		}
		var single []schema.PredictionResult
		for _, p := range predictions {
			if p.PlayerID == player.PlayerID {
				single = append(single, p)
				break
			}
		}
		if len(single) == 0 {
			return nil, nil, 0, fmt.Errorf("%w: no prediction for player %q in season %d",
				contract.ErrInsufficientData, idOrName, season)
		}
		predictions = single
	} else {
		sort.SliceStable(predictions, func(i, j int) bool {
			return predictions[i].Blended > predictions[j].Blended
		})
		if len(predictions) > cfg.ResultLimit {
			predictions = predictions[:cfg.ResultLimit]
		}
	}

	return predictions, report, time.Since(start), nil
}

// ExecuteClutchProcess runs the full pipeline and writes both processed
// tables. It serves as the main entry point for the 'process' command.
func ExecuteClutchProcess(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	dataset, duration, err := GetDatasetResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintDataset(dataset, cfg, duration)
}

// ExecuteClutchPlayers ranks player-seasons by CPI and prints the top rows.
// It serves as the main entry point for the 'players' command.
func ExecuteClutchPlayers(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	ranked, duration, err := GetPlayerResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintPlayerResults(ranked, cfg, duration)
}

// ExecuteClutchPlayer prints one player's profile: the season row plus the
// player's full season history.
func ExecuteClutchPlayer(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, idOrName string) error {
	player, history, duration, err := GetPlayerProfileResults(ctx, cfg, mgr, idOrName)
	if err != nil {
		return err
	}
	return outwriter.PrintPlayerProfile(player, history, cfg, duration)
}

// ExecuteClutchTeam prints one team's clutch record and top performers.
func ExecuteClutchTeam(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, idOrName string) error {
	team, duration, err := GetTeamProfileResults(ctx, cfg, mgr, idOrName)
	if err != nil {
		return err
	}
	return outwriter.PrintTeamProfile(team, cfg, duration)
}

// ExecuteClutchTeams ranks team-seasons by clutch win percentage.
func ExecuteClutchTeams(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	ranked, duration, err := GetTeamResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintTeamResults(ranked, cfg, duration)
}

// ExecuteClutchCompare prints two players' season rows side by side.
func ExecuteClutchCompare(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, first, second string) error {
	a, b, duration, err := GetCompareResults(ctx, cfg, mgr, first, second)
	if err != nil {
		return err
	}
	return outwriter.PrintComparison(a, b, cfg, duration)
}

// ExecuteClutchSimulate projects a player's clutch line under the
// configured usage change.
func ExecuteClutchSimulate(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, idOrName string) error {
	result, duration, err := GetSimulationResults(ctx, cfg, mgr, idOrName)
	if err != nil {
		return err
	}
	return outwriter.PrintSimulation(result, cfg, duration)
}

// ExecuteClutchPredict trains the ensemble and projects next-season CPI,
// either for one player or for the top of the ranked board.
func ExecuteClutchPredict(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, idOrName string) error {
	predictions, report, duration, err := GetPredictionResults(ctx, cfg, mgr, idOrName)
	if err != nil {
		return err
	}
	return outwriter.PrintPredictions(predictions, report, cfg, duration)
}

// ExecuteClutchMetrics displays the formal definitions of the scoring
// formulas. This is a static display that loads no data.
func ExecuteClutchMetrics(_ context.Context, cfg *contract.Config) error {
	return outwriter.PrintMetricsDefinitions(cfg)
}
