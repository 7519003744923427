package forecast

import (
	"fmt"
	"math"
)

// Model is a fitted polynomial of the form c0 + c1*x + ... + cd*x^d.
// It is returned inside the forecast result so callers can re-apply or
// discard it; the engine keeps no fitted state between calls.
type Model struct {
	Coefficients []float64 `json:"coefficients"`
}

// Predict evaluates the polynomial at x.
func (m Model) Predict(x float64) float64 {
	y := 0.0
	pow := 1.0
	for _, c := range m.Coefficients {
		y += c * pow
		pow *= x
	}
	return y
}

// fitPolynomial solves the ordinary least squares problem for a
// polynomial of the given degree via the normal equations. The systems
// here are at most 3x3, so Gaussian elimination with partial pivoting is
// exact enough.
func fitPolynomial(xs, ys []float64, degree int) (Model, error) {
	if len(xs) != len(ys) {
		return Model{}, fmt.Errorf("mismatched feature and target lengths: %d vs %d", len(xs), len(ys))
	}
	n := degree + 1
	if len(xs) < n {
		return Model{}, fmt.Errorf("need at least %d points for degree %d, got %d", n, degree, len(xs))
	}

	// Normal equations: A b = v with A = X'X, v = X'y.
	a := make([][]float64, n)
	v := make([]float64, n)
	for i := range a {
		a[i] = make([]float64, n)
	}
	for k, x := range xs {
		pows := make([]float64, 2*degree+1)
		pows[0] = 1
		for p := 1; p <= 2*degree; p++ {
			pows[p] = pows[p-1] * x
		}
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				a[i][j] += pows[i+j]
			}
			v[i] += pows[i] * ys[k]
		}
	}

	coeffs, err := solveLinearSystem(a, v)
	if err != nil {
		return Model{}, err
	}
	return Model{Coefficients: coeffs}, nil
}

func solveLinearSystem(a [][]float64, v []float64) ([]float64, error) {
	n := len(v)
	for col := 0; col < n; col++ {
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return nil, fmt.Errorf("singular design matrix")
		}
		a[col], a[pivot] = a[pivot], a[col]
		v[col], v[pivot] = v[pivot], v[col]

		for row := col + 1; row < n; row++ {
			factor := a[row][col] / a[col][col]
			for k := col; k < n; k++ {
				a[row][k] -= factor * a[col][k]
			}
			v[row] -= factor * v[col]
		}
	}

	coeffs := make([]float64, n)
	for row := n - 1; row >= 0; row-- {
		sum := v[row]
		for k := row + 1; k < n; k++ {
			sum -= a[row][k] * coeffs[k]
		}
		coeffs[row] = sum / a[row][row]
	}
	return coeffs, nil
}

// meanAbsoluteError computes the in-sample MAE between observed and
// fitted values.
func meanAbsoluteError(observed, fitted []float64) float64 {
	if len(observed) == 0 {
		return 0
	}
	var sum float64
	for i := range observed {
		sum += math.Abs(observed[i] - fitted[i])
	}
	return sum / float64(len(observed))
}

// rSquared computes the in-sample coefficient of determination. A
// zero-variance target yields 1 for a perfect fit and 0 otherwise.
func rSquared(observed, fitted []float64) float64 {
	if len(observed) == 0 {
		return 0
	}

	var mean float64
	for _, y := range observed {
		mean += y
	}
	mean /= float64(len(observed))

	var ssRes, ssTot float64
	for i, y := range observed {
		ssRes += (y - fitted[i]) * (y - fitted[i])
		ssTot += (y - mean) * (y - mean)
	}

	if ssTot == 0 {
		if ssRes < 1e-12 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}
