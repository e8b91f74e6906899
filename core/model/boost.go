package model

import "math/rand"

// Boosting hyperparameters.
const (
	boostRounds    = 150
	boostDepth     = 6
	boostRate      = 0.05
	boostSubsample = 0.8
	boostMinSplit  = 10
	boostMinLeaf   = 5
)

// Boosting is a gradient-boosted ensemble of shallow regression trees over
// a squared-error loss. Immutable once fitted.
type Boosting struct {
	base  float64
	trees []*regressionTree
}

// fitBoosting trains the boosted ensemble. Each round fits a tree to the
// current residuals on a random subsample of the rows.
func fitBoosting(x [][]float64, y []float64, rng *rand.Rand) *Boosting {
	n := len(y)
	params := treeParams{
		maxDepth: boostDepth,
		minSplit: boostMinSplit,
		minLeaf:  boostMinLeaf,
	}

	var base float64
	for _, v := range y {
		base += v
	}
	base /= float64(n)

	pred := make([]float64, n)
	for i := range pred {
		pred[i] = base
	}

	sampleSize := int(float64(n) * boostSubsample)
	if sampleSize < 1 {
		sampleSize = n
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}

	trees := make([]*regressionTree, 0, boostRounds)
	for round := 0; round < boostRounds; round++ {
		rng.Shuffle(n, func(a, b int) {
			order[a], order[b] = order[b], order[a]
		})

		sx := make([][]float64, sampleSize)
		sr := make([]float64, sampleSize)
		for i := 0; i < sampleSize; i++ {
			j := order[i]
			sx[i] = x[j]
			sr[i] = y[j] - pred[j]
		}

		tree := fitTree(sx, sr, params, nil)
		trees = append(trees, tree)

		// Update predictions on all rows, not only the subsample.
		for i := 0; i < n; i++ {
			pred[i] += boostRate * tree.predict(x[i])
		}
	}

	return &Boosting{base: base, trees: trees}
}

// Predict evaluates the boosted ensemble for one sample.
func (b *Boosting) Predict(x []float64) float64 {
	out := b.base
	for _, t := range b.trees {
		out += boostRate * t.predict(x)
	}
	return out
}
