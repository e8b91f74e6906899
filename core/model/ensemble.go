package model

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/clutchmetrics/clutch/internal/contract"
	"github.com/clutchmetrics/clutch/schema"
)

// DefaultSeed drives all pseudo-randomness in training. Identical inputs
// under the same seed produce bit-identical models.
const DefaultSeed int64 = 42

// iqrFactor is the whisker multiplier for label outlier trimming.
const iqrFactor = 1.5

// testFraction is the held-out share of the labeled data.
const testFraction = 0.25

// TrainingSet is a labeled sample: one feature row per label.
type TrainingSet struct {
	X [][]float64
	Y []float64
}

// Len returns the number of labeled examples.
func (s TrainingSet) Len() int { return len(s.Y) }

// Components holds the per-model outputs for one prediction.
type Components struct {
	Blended float64
	Forest  float64
	Boost   float64
	Ridge   float64
}

// Ensemble blends the three fitted regressors with fixed weights. A fitted
// ensemble is immutable; retraining produces a new instance.
type Ensemble struct {
	forest *Forest
	boost  *Boosting
	ridge  *Ridge
	blend  schema.BlendWeights
}

// Train fits the ensemble on the labeled set. Labels outside 1.5×IQR of
// the label distribution are trimmed first; if fewer than minSamples
// examples remain, training fails with ErrInsufficientData and no model is
// produced. The returned report covers a held-out 25% split.
func Train(set TrainingSet, minSamples int, seed int64) (*Ensemble, *schema.ModelReport, error) {
	set = trimLabelOutliers(set)
	if set.Len() < minSamples {
		return nil, nil, fmt.Errorf("%w: %d labeled examples after trimming, need %d",
			contract.ErrInsufficientData, set.Len(), minSamples)
	}

	rng := rand.New(rand.NewSource(seed))
	train, test := splitSet(set, rng)

	ensemble := &Ensemble{
		forest: fitForest(train.X, train.Y, rng),
		boost:  fitBoosting(train.X, train.Y, rng),
		ridge:  fitRidge(train.X, train.Y),
		blend:  schema.DefaultBlendWeights,
	}

	report := &schema.ModelReport{
		TrainSamples: train.Len(),
		TestSamples:  test.Len(),
		TrainR2:      ensemble.rSquared(train),
	}
	if test.Len() > 0 {
		report.TestR2 = ensemble.rSquared(test)
		report.MAE, report.RMSE = ensemble.absoluteErrors(test)
	}

	return ensemble, report, nil
}

// Predict evaluates all three models and the fixed blend for one sample.
func (e *Ensemble) Predict(x []float64) Components {
	c := Components{
		Forest: e.forest.Predict(x),
		Boost:  e.boost.Predict(x),
		Ridge:  e.ridge.Predict(x),
	}
	c.Blended = e.blend.Forest*c.Forest + e.blend.Boost*c.Boost + e.blend.Ridge*c.Ridge
	return c
}

// trimLabelOutliers drops examples whose label falls outside the 1.5×IQR
// whiskers of the label distribution.
func trimLabelOutliers(set TrainingSet) TrainingSet {
	if set.Len() < 4 {
		return set
	}

	sorted := append([]float64(nil), set.Y...)
	sort.Float64s(sorted)
	q1 := quantile(sorted, 0.25)
	q3 := quantile(sorted, 0.75)
	iqr := q3 - q1
	lo := q1 - iqrFactor*iqr
	hi := q3 + iqrFactor*iqr

	var out TrainingSet
	for i, y := range set.Y {
		if y < lo || y > hi {
			continue
		}
		out.X = append(out.X, set.X[i])
		out.Y = append(out.Y, y)
	}
	return out
}

// quantile interpolates linearly over a sorted slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// splitSet shuffles the examples and holds out the test fraction.
func splitSet(set TrainingSet, rng *rand.Rand) (TrainingSet, TrainingSet) {
	n := set.Len()
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	rng.Shuffle(n, func(a, b int) {
		idx[a], idx[b] = idx[b], idx[a]
	})

	testN := int(float64(n) * testFraction)
	trainN := n - testN

	var train, test TrainingSet
	for i, j := range idx {
		if i < trainN {
			train.X = append(train.X, set.X[j])
			train.Y = append(train.Y, set.Y[j])
		} else {
			test.X = append(test.X, set.X[j])
			test.Y = append(test.Y, set.Y[j])
		}
	}
	return train, test
}

// rSquared computes the coefficient of determination of blended predictions
// over a set. A zero-variance label set scores 0.
func (e *Ensemble) rSquared(set TrainingSet) float64 {
	n := set.Len()
	if n == 0 {
		return 0
	}

	var mean float64
	for _, y := range set.Y {
		mean += y
	}
	mean /= float64(n)

	var ssRes, ssTot float64
	for i, y := range set.Y {
		pred := e.Predict(set.X[i]).Blended
		ssRes += (y - pred) * (y - pred)
		ssTot += (y - mean) * (y - mean)
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}

// absoluteErrors computes MAE and RMSE of blended predictions over a set.
func (e *Ensemble) absoluteErrors(set TrainingSet) (mae, rmse float64) {
	n := set.Len()
	if n == 0 {
		return 0, 0
	}

	var absSum, sqSum float64
	for i, y := range set.Y {
		d := e.Predict(set.X[i]).Blended - y
		absSum += math.Abs(d)
		sqSum += d * d
	}
	return absSum / float64(n), math.Sqrt(sqSum / float64(n))
}
