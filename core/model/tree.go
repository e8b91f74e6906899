// Package model implements the regressors behind next-season projections:
// a bagged forest, boosted shallow trees, ridge regression, and the fixed
// blend that combines them. Everything is deterministic under a fixed seed.
package model

import (
	"math/rand"
	"sort"
)

// treeParams controls CART growth.
type treeParams struct {
	maxDepth    int
	minSplit    int // Minimum samples in a node to consider splitting
	minLeaf     int // Minimum samples each child must keep
	maxFeatures int // Features sampled per split; 0 means all
}

// treeNode is one node of a regression tree. Leaves carry the mean label.
type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	value     float64
	leaf      bool
}

// regressionTree is a CART regressor over a fixed feature width.
type regressionTree struct {
	root *treeNode
}

// fitTree grows a regression tree on the given rows. The rng drives feature
// subsampling only; pass nil maxFeatures behavior via params.
func fitTree(x [][]float64, y []float64, params treeParams, rng *rand.Rand) *regressionTree {
	idx := make([]int, len(y))
	for i := range idx {
		idx[i] = i
	}
	return &regressionTree{root: growNode(x, y, idx, 0, params, rng)}
}

// growNode recursively builds the subtree over the sample indices idx.
func growNode(x [][]float64, y []float64, idx []int, depth int, params treeParams, rng *rand.Rand) *treeNode {
	value := meanOf(y, idx)

	if depth >= params.maxDepth || len(idx) < params.minSplit || isConstant(y, idx) {
		return &treeNode{leaf: true, value: value}
	}

	feature, threshold, ok := bestSplit(x, y, idx, params, rng)
	if !ok {
		return &treeNode{leaf: true, value: value}
	}

	var leftIdx, rightIdx []int
	for _, i := range idx {
		if x[i][feature] <= threshold {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}
	if len(leftIdx) < params.minLeaf || len(rightIdx) < params.minLeaf {
		return &treeNode{leaf: true, value: value}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      growNode(x, y, leftIdx, depth+1, params, rng),
		right:     growNode(x, y, rightIdx, depth+1, params, rng),
		value:     value,
	}
}

// bestSplit scans candidate features for the split minimizing the summed
// child variance. Candidate thresholds are midpoints between consecutive
// distinct values.
func bestSplit(x [][]float64, y []float64, idx []int, params treeParams, rng *rand.Rand) (int, float64, bool) {
	numFeatures := len(x[idx[0]])
	features := candidateFeatures(numFeatures, params.maxFeatures, rng)

	bestScore := 0.0
	bestFeature, bestThreshold := -1, 0.0
	parentSSE := sseOf(y, idx)

	sorted := make([]int, len(idx))
	for _, f := range features {
		copy(sorted, idx)
		sort.SliceStable(sorted, func(a, b int) bool {
			return x[sorted[a]][f] < x[sorted[b]][f]
		})

		// Running sums let each threshold be evaluated in O(1).
		var leftSum, leftSq float64
		var totalSum, totalSq float64
		for _, i := range sorted {
			totalSum += y[i]
			totalSq += y[i] * y[i]
		}

		n := len(sorted)
		for pos := 0; pos < n-1; pos++ {
			i := sorted[pos]
			leftSum += y[i]
			leftSq += y[i] * y[i]

			// Only split between distinct feature values.
			if x[i][f] == x[sorted[pos+1]][f] {
				continue
			}
			leftN := pos + 1
			rightN := n - leftN
			if leftN < params.minLeaf || rightN < params.minLeaf {
				continue
			}

			leftSSE := leftSq - leftSum*leftSum/float64(leftN)
			rightSum := totalSum - leftSum
			rightSSE := (totalSq - leftSq) - rightSum*rightSum/float64(rightN)

			gain := parentSSE - leftSSE - rightSSE
			if gain > bestScore {
				bestScore = gain
				bestFeature = f
				bestThreshold = (x[i][f] + x[sorted[pos+1]][f]) / 2
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

// candidateFeatures returns the feature indices considered for a split.
// With maxFeatures set, a random subset of that size is drawn.
func candidateFeatures(numFeatures, maxFeatures int, rng *rand.Rand) []int {
	all := make([]int, numFeatures)
	for i := range all {
		all[i] = i
	}
	if maxFeatures <= 0 || maxFeatures >= numFeatures || rng == nil {
		return all
	}
	rng.Shuffle(numFeatures, func(a, b int) {
		all[a], all[b] = all[b], all[a]
	})
	subset := all[:maxFeatures]
	sort.Ints(subset)
	return subset
}

// predict walks the tree for one sample.
func (t *regressionTree) predict(x []float64) float64 {
	node := t.root
	for !node.leaf {
		if x[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.value
}

// meanOf averages y over the given indices.
func meanOf(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	var sum float64
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

// sseOf computes the sum of squared errors around the mean over idx.
func sseOf(y []float64, idx []int) float64 {
	mean := meanOf(y, idx)
	var sse float64
	for _, i := range idx {
		d := y[i] - mean
		sse += d * d
	}
	return sse
}

// isConstant reports whether all labels over idx are identical.
func isConstant(y []float64, idx []int) bool {
	for _, i := range idx[1:] {
		if y[i] != y[idx[0]] {
			return false
		}
	}
	return true
}
