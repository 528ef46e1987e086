package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/tripduration/core/metrics"
)

// PromSink keeps stage metrics on a private Prometheus registry. Batch jobs
// exit before any scrape, so Flush writes the registry to a textfile that
// node_exporter's textfile collector picks up.
type PromSink struct {
	reg      *prometheus.Registry
	textfile string

	rows        *prometheus.GaugeVec
	rmse        *prometheus.GaugeVec
	winner      *prometheus.GaugeVec
	runs        prometheus.Counter
	predicted   prometheus.Gauge
	duration    *prometheus.GaugeVec
	lastSuccess *prometheus.GaugeVec
}

// NewPromSink registers the pipeline metrics on a new registry. An empty
// textfile keeps the metrics in memory only.
func NewPromSink(textfile string) (*PromSink, error) {
	s := &PromSink{
		reg:      prometheus.NewRegistry(),
		textfile: textfile,
		rows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tripduration_feature_rows",
			Help: "Row counts of the last feature build by kind",
		}, []string{"kind"}),
		rmse: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tripduration_model_rmse_minutes",
			Help: "Test RMSE of each candidate in the last training run",
		}, []string{"model"}),
		winner: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tripduration_model_selected",
			Help: "1 for the model selected by the last training run",
		}, []string{"model"}),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tripduration_training_runs_total",
			Help: "Number of training runs recorded by this process",
		}),
		predicted: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tripduration_predictions_rows",
			Help: "Rows scored by the last batch prediction",
		}),
		duration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tripduration_stage_duration_seconds",
			Help: "Wall time of the last run of each stage",
		}, []string{"stage"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tripduration_stage_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run of each stage",
		}, []string{"stage"}),
	}
	for _, c := range []prometheus.Collector{s.rows, s.rmse, s.winner, s.runs, s.predicted, s.duration, s.lastSuccess} {
		if err := s.reg.Register(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Registry exposes the underlying registry.
func (s *PromSink) Registry() *prometheus.Registry { return s.reg }

// RecordFeatures sets the row gauges of the feature build.
func (s *PromSink) RecordFeatures(ev coremetrics.FeatureEvent) error {
	s.rows.WithLabelValues("in").Set(float64(ev.RowsIn))
	s.rows.WithLabelValues("out").Set(float64(ev.RowsOut))
	s.rows.WithLabelValues("unparsed").Set(float64(ev.Unparsed))
	s.rows.WithLabelValues("unmatched").Set(float64(ev.Unmatched))
	s.stage("features", ev.Duration.Seconds(), ev.Time.Unix())
	return nil
}

// RecordTraining sets the candidate scores and the selected model.
func (s *PromSink) RecordTraining(ev coremetrics.TrainingEvent) error {
	s.winner.Reset()
	for _, sc := range ev.Scores {
		s.rmse.WithLabelValues(sc.Model).Set(sc.RMSE)
		v := 0.0
		if sc.Model == ev.Winner {
			v = 1
		}
		s.winner.WithLabelValues(sc.Model).Set(v)
	}
	s.runs.Inc()
	s.stage("train", ev.Duration.Seconds(), ev.Time.Unix())
	return nil
}

// RecordPrediction sets the scored row count.
func (s *PromSink) RecordPrediction(ev coremetrics.PredictionEvent) error {
	s.predicted.Set(float64(ev.Rows))
	s.stage("predict", ev.Duration.Seconds(), ev.Time.Unix())
	return nil
}

func (s *PromSink) stage(name string, seconds float64, unix int64) {
	s.duration.WithLabelValues(name).Set(seconds)
	s.lastSuccess.WithLabelValues(name).Set(float64(unix))
}

// Flush writes the registry to the textfile, if one is configured.
func (s *PromSink) Flush() error {
	if s.textfile == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.textfile), 0o755); err != nil {
		return err
	}
	if err := prometheus.WriteToTextfile(s.textfile, s.reg); err != nil {
		return fmt.Errorf("write prometheus textfile: %w", err)
	}
	return nil
}
