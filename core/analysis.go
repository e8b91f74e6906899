// Package core orchestrates the clutch pipeline: loading, aggregation,
// scoring, ranking, simulation and prediction.
package core

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/clutchmetrics/clutch/core/agg"
	"github.com/clutchmetrics/clutch/internal/contract"
	"github.com/clutchmetrics/clutch/schema"
)

// topPerformerCount is how many top clutch players appear on a team profile.
const topPerformerCount = 3

// runAnalysisCore loads the raw sources and produces the processed dataset,
// consulting the cache and recording run tracking when configured.
func runAnalysisCore(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.Dataset, error) {
	if !shouldSuppressHeader(ctx) {
		contract.LogAnalysisHeader(cfg)
	}

	// --- 0. Begin Run Tracking (if configured) ---
	var runID int64
	runStore := mgr.GetRunStore()
	if runStore != nil {
		startTime := time.Now()
		configParams := map[string]any{
			"data_dir":     cfg.DataDir,
			"season":       cfg.Season,
			"workers":      cfg.Workers,
			"result_limit": cfg.ResultLimit,
		}
		var err error
		runID, err = runStore.BeginRun(startTime, configParams)
		if err != nil {
			contract.LogWarn("Run tracking initialization failed", err)
		} else if runID > 0 {
			ctx = withRunID(ctx, runID)
		}
	}

	// --- 1. Build Phase (with caching) ---
	dataset, err := cachedBuildDataset(cfg, mgr)
	if err != nil {
		return nil, err
	}

	// --- 2. End Run Tracking ---
	if runStore != nil && runID > 0 {
		recordRunScores(ctx, runStore, dataset)
		endTime := time.Now()
		if err := runStore.EndRun(runID, endTime, len(dataset.Players), len(dataset.Teams), dataset.Report.Dropped()); err != nil {
			contract.LogWarn("Failed to finalize run tracking", err)
		}
	}

	return dataset, nil
}

// recordRunScores persists every scored player-season of this run.
func recordRunScores(ctx context.Context, runStore contract.RunStore, dataset *schema.Dataset) {
	runID, ok := getRunID(ctx)
	if !ok || runID <= 0 {
		return
	}

	now := time.Now()
	for i := range dataset.Players {
		p := &dataset.Players[i]
		if p.CPI == nil {
			continue
		}
		rec := schema.PlayerScoreRecord{
			PlayerID:   p.PlayerID,
			PlayerName: p.PlayerName,
			Season:     int32(p.Season),
			ScoreTime:  now,
			GPClutch:   int32(p.Clutch.GamesPlayed),
			CPI:        p.CPI.Value,
			Cohort:     string(p.CPI.Cohort),
			Strategy:   string(p.CPI.Strategy),
		}
		if err := runStore.RecordPlayerScore(runID, rec); err != nil {
			contract.LogWarn(fmt.Sprintf("Run tracking failed for player %s", p.PlayerID), err)
			return // One failure means the store is unhealthy; stop spamming
		}
	}
}

// buildDataset runs the uncached pipeline: load, aggregate, score, attach.
func buildDataset(cfg *contract.Config) (*schema.Dataset, error) {
	raw, err := agg.Load(cfg)
	if err != nil {
		return nil, err
	}
	if dropped := raw.Report.Dropped(); dropped > 0 {
		if float64(dropped) > contract.MaxIntegrityDropFraction*float64(dropped+len(raw.Details)) {
			return nil, &contract.IntegrityError{Report: raw.Report}
		}
		contract.LogWarn("Integrity check dropped rows",
			fmt.Errorf("%d rows excluded (%d duplicate games, %d duplicate records, %d missing game refs, %d missing player refs, %d malformed)",
				dropped, raw.Report.DuplicateGames, raw.Report.DuplicateRecords,
				raw.Report.MissingGameRefs, raw.Report.MissingPlayerRefs,
				raw.Report.MalformedGameRows+raw.Report.MalformedDetailRows))
	}

	players := agg.AggregatePlayers(raw)
	ScoreCPI(players, cfg.MetricWeights)

	teams := agg.AggregateTeams(raw)
	attachTopPerformers(players, teams)

	return &schema.Dataset{
		Players: players,
		Teams:   teams,
		Report:  raw.Report,
		Seasons: agg.Seasons(raw),
	}, nil
}

// attachTopPerformers puts each team-season's best clutch players (by CPI)
// onto the team row.
func attachTopPerformers(players []schema.PlayerPerformance, teams []schema.TeamPerformance) {
	type key struct {
		teamID string
		season int
	}
	best := make(map[key][]schema.TopPerformer)
	for i := range players {
		p := &players[i]
		if p.CPI == nil {
			continue
		}
		k := key{teamID: p.TeamID, season: p.Season}
		best[k] = append(best[k], schema.TopPerformer{
			PlayerID:   p.PlayerID,
			PlayerName: p.PlayerName,
			CPI:        p.CPI.Value,
		})
	}

	for i := range teams {
		k := key{teamID: teams[i].TeamID, season: teams[i].Season}
		performers := best[k]
		sort.SliceStable(performers, func(a, b int) bool {
			if performers[a].CPI != performers[b].CPI {
				return performers[a].CPI > performers[b].CPI
			}
			return performers[a].PlayerID < performers[b].PlayerID
		})
		if len(performers) > topPerformerCount {
			performers = performers[:topPerformerCount]
		}
		teams[i].TopPerformers = performers
	}
}

// buildFeatureVectors computes feature vectors for all scored player-seasons
// using a worker pool over players. Per-player season ordering stays intact
// because each worker owns a whole player.
func buildFeatureVectors(cfg *contract.Config, players []schema.PlayerPerformance) []schema.FeatureVector {
	byPlayer, ids := groupSeasonsByPlayer(players)

	idCh := make(chan string, len(ids))
	resultCh := make(chan []schema.FeatureVector, len(ids))
	var wg sync.WaitGroup

	for range cfg.Workers {
		wg.Go(func() {
			for id := range idCh {
				resultCh <- playerVectors(byPlayer[id])
			}
		})
	}

	for _, id := range ids {
		idCh <- id
	}
	close(idCh)

	wg.Wait()
	close(resultCh)

	vectors := make([]schema.FeatureVector, 0, len(players))
	for vs := range resultCh {
		vectors = append(vectors, vs...)
	}

	// Worker completion order is arbitrary; restore the canonical order.
	sort.SliceStable(vectors, func(i, j int) bool {
		if vectors[i].PlayerID != vectors[j].PlayerID {
			return vectors[i].PlayerID < vectors[j].PlayerID
		}
		return vectors[i].Season < vectors[j].Season
	})
	return vectors
}
