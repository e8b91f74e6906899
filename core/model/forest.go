package model

import (
	"math"
	"math/rand"
)

// Forest hyperparameters.
const (
	forestTrees    = 200
	forestDepth    = 8
	forestMinSplit = 10
	forestMinLeaf  = 5
)

// Forest is a bagged ensemble of regression trees. Immutable once fitted.
type Forest struct {
	trees []*regressionTree
}

// fitForest trains the forest on bootstrap resamples with sqrt(features)
// sampled per split.
func fitForest(x [][]float64, y []float64, rng *rand.Rand) *Forest {
	numFeatures := len(x[0])
	params := treeParams{
		maxDepth:    forestDepth,
		minSplit:    forestMinSplit,
		minLeaf:     forestMinLeaf,
		maxFeatures: int(math.Ceil(math.Sqrt(float64(numFeatures)))),
	}

	trees := make([]*regressionTree, forestTrees)
	n := len(y)
	for t := 0; t < forestTrees; t++ {
		// Bootstrap sample with replacement.
		bx := make([][]float64, n)
		by := make([]float64, n)
		for i := 0; i < n; i++ {
			j := rng.Intn(n)
			bx[i] = x[j]
			by[i] = y[j]
		}
		trees[t] = fitTree(bx, by, params, rng)
	}

	return &Forest{trees: trees}
}

// Predict averages the tree predictions for one sample.
func (f *Forest) Predict(x []float64) float64 {
	var sum float64
	for _, t := range f.trees {
		sum += t.predict(x)
	}
	return sum / float64(len(f.trees))
}
