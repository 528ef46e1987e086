package model

import (
	"math"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/kilianp07/tripduration/core/factory"
)

func linearData(n int) (*mat.Dense, []float64) {
	X := mat.NewDense(n, 2, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		a := float64(i)
		b := float64((i * 7) % 11)
		X.Set(i, 0, a)
		X.Set(i, 1, b)
		y[i] = 3 + 2*a - 0.5*b
	}
	return X, y
}

func TestLinearRegression_ExactFit(t *testing.T) {
	X, y := linearData(40)
	m := NewLinearRegression()
	require.NoError(t, m.Fit(X, y))
	assert.InDelta(t, 3, m.Intercept, 1e-9)
	assert.InDelta(t, 2, m.Coef[0], 1e-9)
	assert.InDelta(t, -0.5, m.Coef[1], 1e-9)

	pred, err := m.Predict(X)
	require.NoError(t, err)
	assert.Less(t, RMSE(y, pred), 1e-9)
}

func TestLinearRegression_ConstantColumn(t *testing.T) {
	// PU_Borough_Code is constant when no zone file is available.
	X := mat.NewDense(5, 2, []float64{
		1, 0,
		2, 0,
		3, 0,
		4, 0,
		5, 0,
	})
	y := []float64{2, 4, 6, 8, 10}
	m := NewLinearRegression()
	require.NoError(t, m.Fit(X, y))
	assert.InDelta(t, 2, m.Coef[0], 1e-9)
	assert.InDelta(t, 0, m.Coef[1], 1e-12)
	assert.InDelta(t, 0, m.Intercept, 1e-9)
}

func TestLinearRegression_Errors(t *testing.T) {
	m := NewLinearRegression()
	_, err := m.Predict(mat.NewDense(1, 1, nil))
	assert.ErrorIs(t, err, ErrNotFitted)
	assert.Error(t, m.Fit(mat.NewDense(2, 1, nil), []float64{1}))

	X, y := linearData(10)
	require.NoError(t, m.Fit(X, y))
	_, err = m.Predict(mat.NewDense(1, 3, nil))
	assert.Error(t, err)
}

func noisyData(n int, seed int64) (*mat.Dense, []float64) {
	rnd := rand.New(rand.NewSource(seed))
	X := mat.NewDense(n, 3, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		hour := float64(rnd.Intn(24))
		dist := rnd.Float64() * 10
		pax := float64(1 + rnd.Intn(4))
		X.Set(i, 0, pax)
		X.Set(i, 1, dist)
		X.Set(i, 2, hour)
		y[i] = 4*dist + math.Sin(hour) + rnd.NormFloat64()
	}
	return X, y
}

func TestRandomForest_DepthBound(t *testing.T) {
	X, y := noisyData(300, 1)
	rf := NewRandomForest()
	require.NoError(t, rf.Fit(X, y))
	require.Len(t, rf.Trees, 10)
	for i, tree := range rf.Trees {
		assert.LessOrEqual(t, tree.Depth(), 5, "tree %d", i)
		assert.Greater(t, tree.Depth(), 0, "tree %d never split", i)
	}
}

func TestRandomForest_Deterministic(t *testing.T) {
	X, y := noisyData(200, 2)
	a := NewRandomForest(WithRandomState(42))
	b := NewRandomForest(WithRandomState(42))
	require.NoError(t, a.Fit(X, y))
	require.NoError(t, b.Fit(X, y))
	pa, err := a.Predict(X)
	require.NoError(t, err)
	pb, err := b.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, pa, pb)
}

func TestRandomForest_LearnsStep(t *testing.T) {
	X := mat.NewDense(20, 1, nil)
	y := make([]float64, 20)
	for i := 0; i < 20; i++ {
		X.Set(i, 0, float64(i))
		if i >= 10 {
			y[i] = 30
		} else {
			y[i] = 10
		}
	}
	rf := NewRandomForest(WithBootstrap(false), WithNEstimators(3))
	require.NoError(t, rf.Fit(X, y))
	pred, err := rf.Predict(mat.NewDense(2, 1, []float64{2, 17}))
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 30}, pred)
	assert.Equal(t, 9.5, rf.Trees[0].Nodes[0].Threshold)
}

func TestRandomForest_ConstantTargetDoesNotSplit(t *testing.T) {
	X, _ := noisyData(50, 3)
	y := make([]float64, 50)
	for i := range y {
		y[i] = 10
	}
	rf := NewRandomForest()
	require.NoError(t, rf.Fit(X, y))
	for _, tree := range rf.Trees {
		assert.Len(t, tree.Nodes, 1)
	}
}

func TestRegistry_BuildsCandidates(t *testing.T) {
	lr, err := New(factory.ModuleConfig{Type: "linear_regression"})
	require.NoError(t, err)
	assert.Equal(t, LinearRegressionName, lr.Name())

	r, err := New(factory.ModuleConfig{Type: "random_forest", Conf: map[string]any{"n_estimators": 3, "max_depth": "2", "random_state": 7}})
	require.NoError(t, err)
	rf, ok := r.(*RandomForest)
	require.True(t, ok)
	assert.Equal(t, 3, rf.NEstimators)
	assert.Equal(t, 2, rf.MaxDepth)
	assert.Equal(t, int64(7), rf.RandomState)

	_, err = New(factory.ModuleConfig{Type: "xgboost"})
	assert.Error(t, err)
}

func TestTrained_SaveLoadRoundTrip(t *testing.T) {
	X, y := noisyData(100, 4)
	rf := NewRandomForest()
	require.NoError(t, rf.Fit(X, y))
	want, err := rf.Predict(X)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "model.gob")
	features := []string{"passenger_count", "trip_distance", "pickup_hour"}
	require.NoError(t, (&Trained{Features: features, Regressor: rf}).Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, features, loaded.Features)
	assert.Equal(t, RandomForestName, loaded.Regressor.Name())
	got, err := loaded.Regressor.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(X, y))
	require.NoError(t, (&Trained{Features: features, Regressor: lr}).Save(path))
	loaded, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, LinearRegressionName, loaded.Regressor.Name(), "save must overwrite the previous model")
}

func TestRMSE(t *testing.T) {
	assert.Equal(t, 0.0, RMSE([]float64{1, 2}, []float64{1, 2}))
	assert.InDelta(t, math.Sqrt(2.5), RMSE([]float64{0, 0}, []float64{1, 2}), 1e-12)
	assert.True(t, math.IsNaN(RMSE(nil, nil)))
}
