package inference

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/kilianp07/tripduration/core/metrics"
	"github.com/kilianp07/tripduration/core/model"
	"github.com/kilianp07/tripduration/test/util"
)

var modelFeatures = []string{"trip_distance", "pickup_hour"}

type predictionSink struct {
	metrics.NopSink
	events []metrics.PredictionEvent
}

func (s *predictionSink) RecordPrediction(ev metrics.PredictionEvent) error {
	s.events = append(s.events, ev)
	return nil
}

// saveLinear fits duration = 2 + 3*distance + 0.5*hour and saves it.
func saveLinear(t *testing.T, path string) {
	t.Helper()
	X := mat.NewDense(6, 2, []float64{1, 0, 2, 5, 3, 8, 4, 12, 5, 18, 6, 23})
	y := make([]float64, 6)
	for i := range y {
		y[i] = 2 + 3*X.At(i, 0) + 0.5*X.At(i, 1)
	}
	lr := model.NewLinearRegression()
	require.NoError(t, lr.Fit(X, y))
	require.NoError(t, (&model.Trained{Features: modelFeatures, Regressor: lr}).Save(path))
}

func newPredictor(dir string, at time.Time) *Predictor {
	return &Predictor{
		ModelPath:    filepath.Join(dir, "model.gob"),
		FeaturedPath: filepath.Join(dir, "featured_data.csv"),
		OutputDir:    filepath.Join(dir, "predictions"),
		Now:          func() time.Time { return at },
	}
}

func readPredictions(t *testing.T, path string) []float64 {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Equal(t, "prediction", lines[0])
	out := make([]float64, 0, len(lines)-1)
	for _, l := range lines[1:] {
		v, err := strconv.ParseFloat(l, 64)
		require.NoError(t, err)
		out = append(out, v)
	}
	return out
}

func TestPredictor_RowOrderAndTargetDropped(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2024, 6, 1, 9, 30, 15, 0, time.UTC)
	p := newPredictor(dir, at)
	sink := &predictionSink{}
	p.Sink = sink
	saveLinear(t, p.ModelPath)
	// column order differs from the model and includes the target
	util.WriteCSV(t, p.FeaturedPath,
		[]string{"pickup_hour", "passenger_count", "trip_distance", "trip_duration"},
		[][]string{{"10", "1", "1", "99"}, {"0", "2", "4", "99"}, {"20", "1", "2.5", "99"}})

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, filepath.Join(p.OutputDir, "20240601_093015_predictions.csv"), res.Path)
	assert.Equal(t, model.LinearRegressionName, res.Model)

	want := []float64{2 + 3 + 5, 2 + 12, 2 + 7.5 + 10}
	require.Len(t, res.Predictions, 3)
	for i := range want {
		assert.InDelta(t, want[i], res.Predictions[i], 1e-9)
	}
	written := readPredictions(t, res.Path)
	require.Len(t, written, 3)
	for i := range want {
		assert.InDelta(t, want[i], written[i], 1e-9)
	}

	require.Len(t, sink.events, 1)
	assert.Equal(t, 3, sink.events[0].Rows)
	assert.Equal(t, res.Path, sink.events[0].Output)
}

func TestPredictor_TargetAbsent(t *testing.T) {
	dir := t.TempDir()
	p := newPredictor(dir, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	saveLinear(t, p.ModelPath)
	util.WriteCSV(t, p.FeaturedPath, modelFeatures, [][]string{{"1", "2"}, {"2", "3"}})

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Len(t, res.Predictions, 2)
}

func TestPredictor_MissingFeature(t *testing.T) {
	dir := t.TempDir()
	p := newPredictor(dir, time.Now())
	saveLinear(t, p.ModelPath)
	util.WriteCSV(t, p.FeaturedPath, []string{"trip_distance", "trip_duration"}, [][]string{{"1", "2"}})

	_, err := p.Run(context.Background())
	assert.ErrorIs(t, err, ErrFeatureMismatch)
	_, statErr := os.Stat(p.OutputDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPredictor_MissingInputs(t *testing.T) {
	dir := t.TempDir()
	p := newPredictor(dir, time.Now())

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Nil(t, res)

	saveLinear(t, p.ModelPath)
	res, err = p.Run(context.Background())
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.NoDirExists(t, p.OutputDir)
}

func TestPredictor_DistinctRunsKeepEarlierFiles(t *testing.T) {
	dir := t.TempDir()
	p := newPredictor(dir, time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	saveLinear(t, p.ModelPath)
	util.WriteCSV(t, p.FeaturedPath, modelFeatures, [][]string{{"1", "2"}})

	first, err := p.Run(context.Background())
	require.NoError(t, err)
	p.Now = func() time.Time { return time.Date(2024, 6, 1, 9, 0, 1, 0, time.UTC) }
	second, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first.Path, second.Path)
	assert.FileExists(t, first.Path)
	assert.FileExists(t, second.Path)
}

func TestAlign(t *testing.T) {
	cols, err := Align([]string{"b", "a", "c"}, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, cols)

	cols, err = Align([]string{"b", "a"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, cols)

	_, err = Align([]string{"a"}, []string{"a", "z"})
	assert.ErrorIs(t, err, ErrFeatureMismatch)
}
