// Package inference applies the persisted model to the featured dataset and
// writes timestamped prediction files.
package inference

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kilianp07/tripduration/core/features"
	"github.com/kilianp07/tripduration/core/logger"
	"github.com/kilianp07/tripduration/core/metrics"
	"github.com/kilianp07/tripduration/core/model"
	"github.com/kilianp07/tripduration/internal/dataset"
	"github.com/kilianp07/tripduration/pkg/export"
)

var (
	// ErrFeatureMismatch is returned when the featured file lacks a column
	// the model was fitted on.
	ErrFeatureMismatch = errors.New("inference: feature columns do not match the model")
	// ErrEmptyDataset is returned when the featured file has no rows.
	ErrEmptyDataset = errors.New("inference: empty dataset")
)

// Result describes one prediction file.
type Result struct {
	Path        string
	Model       string
	Predictions []float64
}

// Predictor runs batch inference from files on disk.
type Predictor struct {
	ModelPath    string
	FeaturedPath string
	OutputDir    string
	Log          logger.Logger
	Sink         metrics.Sink
	Now          func() time.Time
}

// Run predicts a duration for every featured row, in row order. A missing
// model or featured file is logged and reported as (nil, nil).
func (p *Predictor) Run(ctx context.Context) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := logger.OrNop(p.Log)
	now := p.Now
	if now == nil {
		now = time.Now
	}
	start := now()

	if !dataset.Exists(p.ModelPath) {
		log.Errorf("model not found at %s; train first", p.ModelPath)
		return nil, nil
	}
	if !dataset.Exists(p.FeaturedPath) {
		log.Errorf("featured data not found at %s; run feature engineering first", p.FeaturedPath)
		return nil, nil
	}

	trained, err := model.Load(p.ModelPath)
	if err != nil {
		return nil, err
	}
	df, err := dataset.ReadCSV(p.FeaturedPath)
	if err != nil {
		return nil, err
	}
	if df.Nrow() == 0 {
		return nil, ErrEmptyDataset
	}
	if dataset.Has(df, features.ColTripDuration) {
		log.Debugf("dropping %s before prediction", features.ColTripDuration)
	}
	cols, err := Align(dataset.Without(df, features.ColTripDuration), trained.Features)
	if err != nil {
		return nil, err
	}
	X, err := dataset.Matrix(df, cols)
	if err != nil {
		return nil, err
	}
	preds, err := trained.Regressor.Predict(X)
	if err != nil {
		return nil, fmt.Errorf("predict with %s: %w", trained.Regressor.Name(), err)
	}

	finished := now()
	path, err := p.write(finished, preds)
	if err != nil {
		return nil, err
	}
	log.Infof("predictions saved to %s", path)
	log.Infow("batch prediction complete", map[string]any{
		"rows":  len(preds),
		"model": trained.Regressor.Name(),
		"path":  path,
	})

	ev := metrics.PredictionEvent{
		Rows:     len(preds),
		Model:    trained.Regressor.Name(),
		Output:   path,
		Duration: finished.Sub(start),
		Time:     finished,
	}
	if err := metrics.OrNop(p.Sink).RecordPrediction(ev); err != nil {
		log.Warnf("record prediction metrics: %v", err)
	}
	return &Result{Path: path, Model: trained.Regressor.Name(), Predictions: preds}, nil
}

func (p *Predictor) write(at time.Time, preds []float64) (string, error) {
	if err := os.MkdirAll(p.OutputDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(p.OutputDir, export.PredictionsFilename(at))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := export.WritePredictions(f, preds); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, f.Close()
}

// Align returns the model's feature columns after checking each one is
// available. Extra columns are ignored. A model saved without feature names
// uses the available columns as they are.
func Align(available, modelFeatures []string) ([]string, error) {
	if len(modelFeatures) == 0 {
		return available, nil
	}
	have := make(map[string]bool, len(available))
	for _, c := range available {
		have[c] = true
	}
	var missing []string
	for _, c := range modelFeatures {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %v", ErrFeatureMismatch, missing)
	}
	return modelFeatures, nil
}
