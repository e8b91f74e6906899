package core

import (
	"github.com/clutchmetrics/clutch/core/model"
	"github.com/clutchmetrics/clutch/internal/contract"
	"github.com/clutchmetrics/clutch/schema"
)

// buildTrainingSet pairs each feature vector with the same player's CPI in
// the following season. Only high-volume feature seasons contribute, so the
// model never learns from small-sample inputs; the next-season label is
// taken as scored.
func buildTrainingSet(vectors []schema.FeatureVector, players []schema.PlayerPerformance) model.TrainingSet {
	type key struct {
		playerID string
		season   int
	}
	targets := make(map[key]float64)
	for i := range players {
		p := &players[i]
		if p.CPI == nil {
			continue
		}
		targets[key{playerID: p.PlayerID, season: p.Season}] = p.CPI.Value
	}

	var set model.TrainingSet
	for _, v := range vectors {
		if v.Values[schema.FeatGPClutch] < schema.HighVolumeThreshold {
			continue
		}
		label, ok := targets[key{playerID: v.PlayerID, season: v.Season + 1}]
		if !ok {
			continue
		}
		set.X = append(set.X, v.Values[:])
		set.Y = append(set.Y, label)
	}
	return set
}

// trainPredictor builds features over the whole dataset and trains the
// ensemble. It fails with ErrInsufficientData when too few labeled pairs
// survive trimming.
func trainPredictor(cfg *contract.Config, players []schema.PlayerPerformance) (*model.Ensemble, *schema.ModelReport, []schema.FeatureVector, error) {
	vectors := buildFeatureVectors(cfg, players)
	set := buildTrainingSet(vectors, players)

	ensemble, report, err := model.Train(set, cfg.MinTrainSamples, model.DefaultSeed)
	if err != nil {
		return nil, nil, nil, err
	}
	return ensemble, report, vectors, nil
}

// predictNextSeason projects next-season CPI for every player with a vector
// in the given season.
func predictNextSeason(ensemble *model.Ensemble, vectors []schema.FeatureVector, season int) []schema.PredictionResult {
	var results []schema.PredictionResult
	for _, v := range vectors {
		if v.Season != season {
			continue
		}
		c := ensemble.Predict(v.Values[:])
		results = append(results, schema.PredictionResult{
			PlayerID:     v.PlayerID,
			PlayerName:   v.PlayerName,
			TeamName:     v.TeamName,
			TargetSeason: season + 1,
			Blended:      c.Blended,
			Forest:       c.Forest,
			Boost:        c.Boost,
			Ridge:        c.Ridge,
			LowHistory:   v.LowHistory,
		})
	}
	return results
}
