package model

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNotFitted is returned when Predict is called before Fit.
	ErrNotFitted = errors.New("model: not fitted")
	// ErrEmptyInput is returned when Fit receives no rows or no columns.
	ErrEmptyInput = errors.New("model: empty input")
)

// Regressor is the uniform predict(features) -> durations contract.
type Regressor interface {
	// Name identifies the algorithm in logs and run records.
	Name() string
	Fit(X mat.Matrix, y []float64) error
	Predict(X mat.Matrix) ([]float64, error)
}

func checkFitInput(X mat.Matrix, y []float64) (int, int, error) {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return r, c, ErrEmptyInput
	}
	if len(y) != r {
		return r, c, fmt.Errorf("model: X has %d rows but y has %d", r, len(y))
	}
	return r, c, nil
}

func checkPredictInput(X mat.Matrix, want int) (int, error) {
	r, c := X.Dims()
	if c != want {
		return r, fmt.Errorf("model: expected %d features, got %d", want, c)
	}
	return r, nil
}

// rows copies X into row-major slices.
func rows(X mat.Matrix) [][]float64 {
	r, c := X.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = make([]float64, c)
		mat.Row(out[i], i, X)
	}
	return out
}
