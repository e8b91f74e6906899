package model

import "math"

// ridgeAlpha is the L2 regularization strength.
const ridgeAlpha = 10.0

// Ridge is a closed-form ridge regression fitted on standardized features.
// Immutable once fitted.
type Ridge struct {
	coef     []float64
	mean     []float64 // Per-feature training mean
	std      []float64 // Per-feature training std; 1 where degenerate
	yMean    float64
	features int
}

// fitRidge solves (XᵀX + αI)β = Xᵀy over standardized, centered data.
func fitRidge(x [][]float64, y []float64) *Ridge {
	n := len(y)
	p := len(x[0])

	r := &Ridge{
		mean:     make([]float64, p),
		std:      make([]float64, p),
		features: p,
	}

	// Standardization parameters.
	for j := 0; j < p; j++ {
		var sum float64
		for i := 0; i < n; i++ {
			sum += x[i][j]
		}
		r.mean[j] = sum / float64(n)

		var sq float64
		for i := 0; i < n; i++ {
			d := x[i][j] - r.mean[j]
			sq += d * d
		}
		r.std[j] = math.Sqrt(sq / float64(n))
		if r.std[j] == 0 {
			r.std[j] = 1 // Constant feature contributes nothing
		}
	}
	for _, v := range y {
		r.yMean += v
	}
	r.yMean /= float64(n)

	// Standardized design matrix.
	z := make([][]float64, n)
	for i := 0; i < n; i++ {
		z[i] = make([]float64, p)
		for j := 0; j < p; j++ {
			z[i][j] = (x[i][j] - r.mean[j]) / r.std[j]
		}
	}

	// Normal equations with the ridge penalty.
	a := make([][]float64, p)
	b := make([]float64, p)
	for j := 0; j < p; j++ {
		a[j] = make([]float64, p)
		for k := 0; k <= j; k++ {
			var dot float64
			for i := 0; i < n; i++ {
				dot += z[i][j] * z[i][k]
			}
			a[j][k] = dot
			a[k][j] = dot
		}
		a[j][j] += ridgeAlpha

		var dot float64
		for i := 0; i < n; i++ {
			dot += z[i][j] * (y[i] - r.yMean)
		}
		b[j] = dot
	}

	r.coef = solveLinearSystem(a, b)
	return r
}

// Predict evaluates the fitted regression for one sample.
func (r *Ridge) Predict(x []float64) float64 {
	out := r.yMean
	for j := 0; j < r.features; j++ {
		out += r.coef[j] * ((x[j] - r.mean[j]) / r.std[j])
	}
	return out
}

// solveLinearSystem solves a·x = b by Gaussian elimination with partial
// pivoting. The ridge penalty keeps the system well conditioned, so a
// singular pivot degrades to a zero coefficient instead of failing.
func solveLinearSystem(a [][]float64, b []float64) []float64 {
	p := len(b)

	for col := 0; col < p; col++ {
		// Partial pivot.
		pivot := col
		for row := col + 1; row < p; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		if a[col][col] == 0 {
			continue
		}

		for row := col + 1; row < p; row++ {
			factor := a[row][col] / a[col][col]
			for k := col; k < p; k++ {
				a[row][k] -= factor * a[col][k]
			}
			b[row] -= factor * b[col]
		}
	}

	x := make([]float64, p)
	for col := p - 1; col >= 0; col-- {
		if a[col][col] == 0 {
			x[col] = 0
			continue
		}
		sum := b[col]
		for k := col + 1; k < p; k++ {
			sum -= a[col][k] * x[k]
		}
		x[col] = sum / a[col][col]
	}
	return x
}
