package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitPolynomial(t *testing.T) {
	t.Run("recovers a linear relation", func(t *testing.T) {
		xs := []float64{0, 1, 2, 3, 4}
		ys := []float64{1, 3, 5, 7, 9} // y = 1 + 2x

		model, err := fitPolynomial(xs, ys, 1)
		require.NoError(t, err)
		require.Len(t, model.Coefficients, 2)

		assert.InDelta(t, 1.0, model.Coefficients[0], 1e-9)
		assert.InDelta(t, 2.0, model.Coefficients[1], 1e-9)
		assert.InDelta(t, 11.0, model.Predict(5), 1e-9)
	})

	t.Run("recovers a quadratic relation", func(t *testing.T) {
		xs := []float64{0, 1, 2, 3, 4, 5}
		ys := make([]float64, len(xs))
		for i, x := range xs {
			ys[i] = 2 + 3*x + 0.5*x*x
		}

		model, err := fitPolynomial(xs, ys, 2)
		require.NoError(t, err)
		require.Len(t, model.Coefficients, 3)

		assert.InDelta(t, 2.0, model.Coefficients[0], 1e-6)
		assert.InDelta(t, 3.0, model.Coefficients[1], 1e-6)
		assert.InDelta(t, 0.5, model.Coefficients[2], 1e-6)
	})

	t.Run("constant series fits a flat line", func(t *testing.T) {
		xs := []float64{0, 1, 2, 3}
		ys := []float64{4, 4, 4, 4}

		model, err := fitPolynomial(xs, ys, 1)
		require.NoError(t, err)
		assert.InDelta(t, 4.0, model.Coefficients[0], 1e-9)
		assert.InDelta(t, 0.0, model.Coefficients[1], 1e-9)
	})

	t.Run("too few points", func(t *testing.T) {
		_, err := fitPolynomial([]float64{0, 1}, []float64{1, 2}, 2)
		assert.Error(t, err)
	})

	t.Run("mismatched lengths", func(t *testing.T) {
		_, err := fitPolynomial([]float64{0, 1, 2}, []float64{1, 2}, 1)
		assert.Error(t, err)
	})

	t.Run("singular design matrix", func(t *testing.T) {
		// All observations at the same x cannot determine a slope.
		_, err := fitPolynomial([]float64{2, 2, 2}, []float64{1, 2, 3}, 1)
		assert.Error(t, err)
	})
}

func TestRSquared(t *testing.T) {
	tests := []struct {
		name     string
		observed []float64
		fitted   []float64
		want     float64
	}{
		{"perfect fit", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"mean-only fit", []float64{1, 2, 3}, []float64{2, 2, 2}, 0},
		{"constant target, perfect fit", []float64{5, 5, 5}, []float64{5, 5, 5}, 1},
		{"constant target, biased fit", []float64{5, 5, 5}, []float64{6, 6, 6}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, rSquared(tt.observed, tt.fitted), 1e-9)
		})
	}
}

func TestMeanAbsoluteError(t *testing.T) {
	assert.Equal(t, 0.0, meanAbsoluteError(nil, nil))
	assert.InDelta(t, 1.0, meanAbsoluteError([]float64{1, 2, 3}, []float64{2, 1, 4}), 1e-9)
}
