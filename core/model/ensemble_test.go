package model

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clutchmetrics/clutch/internal/contract"
	"github.com/clutchmetrics/clutch/schema"
)

// syntheticSet builds a deterministic labeled set where the target is a
// simple function of the first two features plus small noise.
func syntheticSet(n int) TrainingSet {
	rng := rand.New(rand.NewSource(7))
	var set TrainingSet
	for i := 0; i < n; i++ {
		x := []float64{
			rng.Float64() * 10,
			rng.Float64() * 4,
			rng.Float64(), // irrelevant feature
		}
		y := 0.5*x[0] - 0.8*x[1] + rng.NormFloat64()*0.05
		set.X = append(set.X, x)
		set.Y = append(set.Y, y)
	}
	return set
}

func TestTrainInsufficientData(t *testing.T) {
	set := syntheticSet(20)

	ensemble, report, err := Train(set, 50, DefaultSeed)
	assert.Nil(t, ensemble)
	assert.Nil(t, report)
	require.Error(t, err)
	assert.True(t, errors.Is(err, contract.ErrInsufficientData))
}

func TestTrainAndPredict(t *testing.T) {
	set := syntheticSet(120)

	ensemble, report, err := Train(set, 50, DefaultSeed)
	require.NoError(t, err)
	require.NotNil(t, ensemble)
	require.NotNil(t, report)

	t.Run("split sizes", func(t *testing.T) {
		assert.Equal(t, report.TrainSamples+report.TestSamples, set.Len())
		assert.Equal(t, 30, report.TestSamples)
	})

	t.Run("model learns the signal", func(t *testing.T) {
		assert.Greater(t, report.TrainR2, 0.5)
		assert.Greater(t, report.TestR2, 0.0)
		assert.Greater(t, report.RMSE, 0.0)
		assert.GreaterOrEqual(t, report.RMSE, report.MAE)
	})

	t.Run("blend is the exact fixed combination", func(t *testing.T) {
		c := ensemble.Predict(set.X[0])
		want := schema.DefaultBlendWeights.Forest*c.Forest +
			schema.DefaultBlendWeights.Boost*c.Boost +
			schema.DefaultBlendWeights.Ridge*c.Ridge
		assert.InDelta(t, want, c.Blended, 1e-12)
	})

	t.Run("higher driver means higher prediction", func(t *testing.T) {
		lo := ensemble.Predict([]float64{1, 2, 0.5}).Blended
		hi := ensemble.Predict([]float64{9, 2, 0.5}).Blended
		assert.Greater(t, hi, lo)
	})
}

func TestTrainDeterminism(t *testing.T) {
	set := syntheticSet(100)

	e1, r1, err1 := Train(set, 50, DefaultSeed)
	require.NoError(t, err1)
	e2, r2, err2 := Train(set, 50, DefaultSeed)
	require.NoError(t, err2)

	assert.Equal(t, r1, r2)
	for _, x := range set.X[:10] {
		assert.Equal(t, e1.Predict(x), e2.Predict(x))
	}
}

func TestTrimLabelOutliers(t *testing.T) {
	var set TrainingSet
	for i := 0; i < 20; i++ {
		set.X = append(set.X, []float64{float64(i)})
		set.Y = append(set.Y, float64(i%5)) // labels in [0,4]
	}
	set.X = append(set.X, []float64{99})
	set.Y = append(set.Y, 100) // far outside the whiskers

	trimmed := trimLabelOutliers(set)
	assert.Equal(t, 20, trimmed.Len())
	for _, y := range trimmed.Y {
		assert.LessOrEqual(t, y, 4.0)
	}
}

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}
	assert.InDelta(t, 1.0, quantile(sorted, 0), 1e-9)
	assert.InDelta(t, 3.0, quantile(sorted, 0.5), 1e-9)
	assert.InDelta(t, 5.0, quantile(sorted, 1), 1e-9)
	assert.InDelta(t, 2.0, quantile(sorted, 0.25), 1e-9)
	assert.InDelta(t, 1.0, quantile([]float64{1}, 0.75), 1e-9)
}

func TestRidgeBehavior(t *testing.T) {
	// Perfectly linear target; ridge shrinks but must stay monotone and
	// pass through the mean point.
	var x [][]float64
	var y []float64
	for i := 0; i < 100; i++ {
		x = append(x, []float64{float64(i), 1}) // second feature constant
		y = append(y, 3+2*float64(i))
	}

	r := fitRidge(x, y)

	meanPred := r.Predict([]float64{49.5, 1})
	assert.InDelta(t, 102.0, meanPred, 1e-6, "prediction at the feature mean is the label mean")

	assert.Greater(t, r.Predict([]float64{80, 1}), r.Predict([]float64{20, 1}))
	assert.Zero(t, r.coef[1], "constant feature carries no weight")
}

func TestForestConstantLabels(t *testing.T) {
	var x [][]float64
	var y []float64
	for i := 0; i < 30; i++ {
		x = append(x, []float64{float64(i), float64(i % 3)})
		y = append(y, 2.5)
	}

	rng := rand.New(rand.NewSource(DefaultSeed))
	f := fitForest(x, y, rng)
	assert.InDelta(t, 2.5, f.Predict([]float64{100, 1}), 1e-9)

	b := fitBoosting(x, y, rng)
	assert.InDelta(t, 2.5, b.Predict([]float64{100, 1}), 1e-9)
}
