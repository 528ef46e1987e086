package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/kilianp07/tripduration/config"
	"github.com/kilianp07/tripduration/core/features"
	"github.com/kilianp07/tripduration/core/inference"
	coremetrics "github.com/kilianp07/tripduration/core/metrics"
	coremon "github.com/kilianp07/tripduration/core/monitoring"
	"github.com/kilianp07/tripduration/core/runlog"
	"github.com/kilianp07/tripduration/core/training"
	"github.com/kilianp07/tripduration/infra/logger"
	_ "github.com/kilianp07/tripduration/infra/metrics" // registers prometheus and influx sinks
	"github.com/kilianp07/tripduration/infra/monitoring"
)

// Service wires the pipeline stages to the configured paths, run log and
// metrics sinks.
type Service struct {
	Paths    config.PathsConfig
	cfg      *config.Config
	sink     coremetrics.Sink
	runs     runlog.Store
	mon      coremon.Monitor
	log      logger.Logger
	now      func() time.Time
	stageLog func(component string) logger.Logger
}

// Option customises a Service.
type Option func(*Service)

// WithClock replaces time.Now for run records and prediction file names.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// WithLogger routes every stage to l instead of per-component zerolog loggers.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		s.log = l
		s.stageLog = func(string) logger.Logger { return l }
	}
}

// WithMonitor replaces the monitor built from the configuration.
func WithMonitor(m coremon.Monitor) Option { return func(s *Service) { s.mon = m } }

// New creates a Service from the configuration. root overrides
// cfg.Paths.Root when set.
func New(cfg *config.Config, root string, opts ...Option) (*Service, error) {
	if err := logger.Configure(cfg.Logging.Level, cfg.Logging.Format == "console"); err != nil {
		return nil, err
	}
	paths, err := cfg.Paths.Resolve(root)
	if err != nil {
		return nil, fmt.Errorf("resolve paths: %w", err)
	}
	s := &Service{
		Paths:    paths,
		cfg:      cfg,
		log:      logger.New("service"),
		now:      time.Now,
		stageLog: logger.New,
	}
	for _, o := range opts {
		o(s)
	}
	if s.mon == nil {
		if s.mon, err = monitoring.NewSentryMonitor(cfg.Monitoring); err != nil {
			return nil, fmt.Errorf("monitoring: %w", err)
		}
	}

	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	rl := cfg.RunLog
	rl.Path = config.Under(paths.Root, rl.Path)
	runs, err := runlog.Open(rl)
	if err != nil {
		if c, ok := sink.(io.Closer); ok {
			_ = c.Close()
		}
		return nil, fmt.Errorf("run log: %w", err)
	}
	s.sink = sink
	s.runs = runs
	return s, nil
}

// Features runs the feature builder. A nil summary means the stage found
// nothing to do and logged why.
func (s *Service) Features(ctx context.Context) (*features.Summary, error) {
	job := features.Job{
		TripsPath:  s.Paths.Cleaned,
		ZonesPath:  s.Paths.Zones,
		OutputPath: s.Paths.Featured,
		Encoding:   s.cfg.Features.Encoding(),
		Log:        s.stageLog("features"),
		Sink:       s.sink,
		Now:        s.now,
	}
	sum, err := job.Run(ctx)
	return sum, s.report("features", err)
}

// Train runs the trainer and records the run.
func (s *Service) Train(ctx context.Context) (*training.Result, error) {
	t := &training.Trainer{
		FeaturedPath: s.Paths.Featured,
		ModelPath:    s.Paths.Model,
		Config:       s.cfg.Training,
		Log:          s.stageLog("trainer"),
		Runs:         s.runs,
		Sink:         s.sink,
		Now:          s.now,
	}
	res, err := t.Run(ctx)
	return res, s.report("train", err)
}

// Predict runs the batch predictor.
func (s *Service) Predict(ctx context.Context) (*inference.Result, error) {
	p := &inference.Predictor{
		ModelPath:    s.Paths.Model,
		FeaturedPath: s.Paths.Featured,
		OutputDir:    s.Paths.Predictions,
		Log:          s.stageLog("predictor"),
		Sink:         s.sink,
		Now:          s.now,
	}
	res, err := p.Run(ctx)
	return res, s.report("predict", err)
}

// report forwards a stage failure to the monitor and returns it unchanged.
// Cancellation is not a failure.
func (s *Service) report(stage string, err error) error {
	if err != nil && !errors.Is(err, context.Canceled) {
		s.mon.CaptureException(err, map[string]string{"stage": stage})
	}
	return err
}

// All runs features, training and prediction in order. It stops after a
// stage that had nothing to do, so later stages never read stale files.
func (s *Service) All(ctx context.Context) error {
	sum, err := s.Features(ctx)
	if err != nil {
		return fmt.Errorf("features: %w", err)
	}
	if sum == nil {
		s.log.Warnf("feature stage produced no output; stopping")
		return nil
	}
	res, err := s.Train(ctx)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}
	if res == nil {
		s.log.Warnf("training stage produced no model; stopping")
		return nil
	}
	if _, err := s.Predict(ctx); err != nil {
		return fmt.Errorf("predict: %w", err)
	}
	return nil
}

// Runs returns the training history matching q, oldest first.
func (s *Service) Runs(ctx context.Context, q runlog.Query) ([]runlog.Run, error) {
	return s.runs.Query(ctx, q)
}

// Close flushes buffered metrics and releases the run log and sinks.
func (s *Service) Close() error {
	var errs []error
	if f, ok := s.sink.(coremetrics.Flusher); ok {
		errs = append(errs, f.Flush())
	}
	if c, ok := s.sink.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	errs = append(errs, s.runs.Close())
	s.mon.Flush(2 * time.Second)
	return errors.Join(errs...)
}
