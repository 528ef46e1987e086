package training

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/kilianp07/tripduration/core/features"
	"github.com/kilianp07/tripduration/core/logger"
	"github.com/kilianp07/tripduration/core/metrics"
	"github.com/kilianp07/tripduration/core/model"
	"github.com/kilianp07/tripduration/core/runlog"
	"github.com/kilianp07/tripduration/internal/dataset"
)

var (
	// ErrMissingTarget is returned when the featured file has no trip_duration column.
	ErrMissingTarget = errors.New("training: missing target column " + features.ColTripDuration)
	// ErrEmptyDataset is returned when there are too few rows or no feature columns.
	ErrEmptyDataset = errors.New("training: empty dataset")
)

// Result is the outcome of one training run.
type Result struct {
	Run   runlog.Run
	Model *model.Trained
}

// Trainer compares the candidate regressors on one featured file.
type Trainer struct {
	FeaturedPath string
	ModelPath    string
	Config       Config
	Log          logger.Logger
	Runs         runlog.Store
	Sink         metrics.Sink
	Now          func() time.Time
	NewID        func() string
}

type candidate struct {
	reg  model.Regressor
	rmse float64
}

// Run trains, scores and persists the winning model. A missing featured
// file is logged and reported as (nil, nil).
func (t *Trainer) Run(ctx context.Context) (*Result, error) {
	log := logger.OrNop(t.Log)
	now := t.Now
	if now == nil {
		now = time.Now
	}
	newID := t.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	cfg := t.Config
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	start := now()

	if !dataset.Exists(t.FeaturedPath) {
		log.Errorf("featured data not found at %s; run feature engineering first", t.FeaturedPath)
		return nil, nil
	}
	df, err := dataset.ReadCSV(t.FeaturedPath)
	if err != nil {
		return nil, err
	}
	if !dataset.Has(df, features.ColTripDuration) {
		return nil, ErrMissingTarget
	}
	cols := dataset.Without(df, features.ColTripDuration)
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: no feature columns", ErrEmptyDataset)
	}
	n := df.Nrow()
	trainIdx, testIdx, err := Split(n, cfg.TestSize, cfg.Seed)
	if err != nil {
		return nil, err
	}
	X, err := dataset.Matrix(df, cols)
	if err != nil {
		return nil, err
	}
	y, err := dataset.Target(df, features.ColTripDuration)
	if err != nil {
		return nil, err
	}
	Xtr, ytr := selectRows(X, y, trainIdx)
	Xte, yte := selectRows(X, y, testIdx)
	log.Infof("training on %d rows, testing on %d rows with %d features", len(trainIdx), len(testIdx), len(cols))

	var cands []candidate
	for _, mc := range cfg.Candidates() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		reg, err := model.New(mc)
		if err != nil {
			return nil, err
		}
		if err := reg.Fit(Xtr, ytr); err != nil {
			return nil, fmt.Errorf("fit %s: %w", reg.Name(), err)
		}
		pred, err := reg.Predict(Xte)
		if err != nil {
			return nil, fmt.Errorf("score %s: %w", reg.Name(), err)
		}
		c := candidate{reg: reg, rmse: model.RMSE(yte, pred)}
		log.Infof("%s RMSE: %.4f", reg.Name(), c.rmse)
		cands = append(cands, c)
	}

	best := cands[Select(rmses(cands))]
	trained := &model.Trained{Features: cols, Regressor: best.reg}
	if err := trained.Save(t.ModelPath); err != nil {
		return nil, fmt.Errorf("save model: %w", err)
	}
	log.Infof("best model: %s, saved to %s", best.reg.Name(), t.ModelPath)

	run := runlog.Run{
		ID:        newID(),
		Timestamp: now(),
		Rows:      n,
		TrainRows: len(trainIdx),
		TestRows:  len(testIdx),
		Features:  cols,
		Seed:      cfg.Seed,
		Winner:    best.reg.Name(),
		ModelPath: t.ModelPath,
	}
	ev := metrics.TrainingEvent{
		RunID:     run.ID,
		Rows:      n,
		TrainRows: run.TrainRows,
		TestRows:  run.TestRows,
		Winner:    run.Winner,
		Duration:  now().Sub(start),
		Time:      run.Timestamp,
	}
	for _, c := range cands {
		run.Scores = append(run.Scores, runlog.Score{Model: c.reg.Name(), RMSE: c.rmse})
		ev.Scores = append(ev.Scores, metrics.ModelScore{Model: c.reg.Name(), RMSE: c.rmse})
	}
	if t.Runs != nil {
		if err := t.Runs.Append(ctx, run); err != nil {
			log.Warnf("append run log: %v", err)
		}
	}
	if err := metrics.OrNop(t.Sink).RecordTraining(ev); err != nil {
		log.Warnf("record training metrics: %v", err)
	}
	return &Result{Run: run, Model: trained}, nil
}

// Select returns the index of the lowest RMSE. A later candidate replaces
// the current best only when strictly better, so ties keep the earlier one.
func Select(rmse []float64) int {
	best := 0
	for i := 1; i < len(rmse); i++ {
		if rmse[i] < rmse[best] {
			best = i
		}
	}
	return best
}

func rmses(cands []candidate) []float64 {
	out := make([]float64, len(cands))
	for i, c := range cands {
		out[i] = c.rmse
	}
	return out
}

func selectRows(X *mat.Dense, y []float64, idx []int) (*mat.Dense, []float64) {
	_, c := X.Dims()
	sub := mat.NewDense(len(idx), c, nil)
	out := make([]float64, len(idx))
	for k, i := range idx {
		sub.SetRow(k, X.RawRowView(i))
		out[k] = y[i]
	}
	return sub, out
}
