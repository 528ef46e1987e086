package model

import (
	"errors"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// LinearRegressionName is the display name of the OLS model.
const LinearRegressionName = "LinearRegression"

// LinearRegression is an ordinary least squares model with an intercept and
// no regularisation. The system is solved on centred data with an SVD, so
// rank deficient designs (a constant column, duplicated features) yield the
// minimum-norm solution instead of failing.
type LinearRegression struct {
	Coef      []float64
	Intercept float64
	NFeatures int
	Fitted    bool
}

// NewLinearRegression returns an unfitted OLS model.
func NewLinearRegression() *LinearRegression { return &LinearRegression{} }

// Name returns LinearRegressionName.
func (m *LinearRegression) Name() string { return LinearRegressionName }

// Fit estimates the coefficients on X (n x p) and y (n).
func (m *LinearRegression) Fit(X mat.Matrix, y []float64) error {
	r, c, err := checkFitInput(X, y)
	if err != nil {
		return err
	}

	means := make([]float64, c)
	col := make([]float64, r)
	for j := range means {
		mat.Col(col, j, X)
		means[j] = stat.Mean(col, nil)
	}
	yMean := stat.Mean(y, nil)

	centred := mat.NewDense(r, c, nil)
	centred.Apply(func(_, j int, v float64) float64 { return v - means[j] }, X)
	yc := make([]float64, r)
	for i, v := range y {
		yc[i] = v - yMean
	}

	var svd mat.SVD
	if ok := svd.Factorize(centred, mat.SVDThin); !ok {
		return errors.New("linear: svd factorization failed")
	}
	coef := make([]float64, c)
	rcond := 2.220446049250313e-16 * float64(max(r, c))
	if rank := svd.Rank(rcond); rank > 0 {
		var beta mat.VecDense
		svd.SolveVecTo(&beta, mat.NewVecDense(r, yc), rank)
		for j := range coef {
			coef[j] = beta.AtVec(j)
		}
	}

	m.Coef = coef
	m.Intercept = yMean - floats.Dot(means, coef)
	m.NFeatures = c
	m.Fitted = true
	return nil
}

// Predict returns Intercept + X·Coef for every row.
func (m *LinearRegression) Predict(X mat.Matrix) ([]float64, error) {
	if !m.Fitted {
		return nil, ErrNotFitted
	}
	r, err := checkPredictInput(X, m.NFeatures)
	if err != nil {
		return nil, err
	}
	out := make([]float64, r)
	row := make([]float64, m.NFeatures)
	for i := range out {
		mat.Row(row, i, X)
		out[i] = m.Intercept + floats.Dot(row, m.Coef)
	}
	return out, nil
}
