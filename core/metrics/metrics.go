package metrics

import "time"

// FeatureEvent summarises one feature build.
type FeatureEvent struct {
	RowsIn      int
	RowsOut     int
	Unparsed    int
	Unmatched   int
	ZonesJoined bool
	Duration    time.Duration
	Time        time.Time
}

// ModelScore is the test RMSE of one candidate.
type ModelScore struct {
	Model string
	RMSE  float64
}

// TrainingEvent summarises one training run.
type TrainingEvent struct {
	RunID     string
	Rows      int
	TrainRows int
	TestRows  int
	Scores    []ModelScore
	Winner    string
	Duration  time.Duration
	Time      time.Time
}

// PredictionEvent summarises one batch inference.
type PredictionEvent struct {
	Rows     int
	Model    string
	Output   string
	Duration time.Duration
	Time     time.Time
}

// Sink records stage events for observability purposes.
type Sink interface {
	RecordFeatures(ev FeatureEvent) error
	RecordTraining(ev TrainingEvent) error
	RecordPrediction(ev PredictionEvent) error
}

// Flusher is implemented by sinks that buffer until the job ends.
type Flusher interface {
	Flush() error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordFeatures(FeatureEvent) error      { return nil }
func (NopSink) RecordTraining(TrainingEvent) error     { return nil }
func (NopSink) RecordPrediction(PredictionEvent) error { return nil }

// OrNop returns s, or a NopSink when s is nil.
func OrNop(s Sink) Sink {
	if s == nil {
		return NopSink{}
	}
	return s
}
