// Package runlog keeps the history of training runs.
//
// Every trainer invocation appends one Run. Two stores are available: a JSONL
// file rotated by size and age, and a SQLite table. The runs command reads
// the history back through Query.
package runlog

import (
	"context"
	"slices"
	"time"
)

// Score is the test RMSE of one candidate model.
type Score struct {
	Model string  `json:"model"`
	RMSE  float64 `json:"rmse"`
}

// Run captures one training run and its outcome.
type Run struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Rows      int       `json:"rows"`
	TrainRows int       `json:"train_rows"`
	TestRows  int       `json:"test_rows"`
	Features  []string  `json:"features"`
	Seed      int64     `json:"seed"`
	Scores    []Score   `json:"scores"`
	Winner    string    `json:"winner"`
	ModelPath string    `json:"model_path"`
}

// Score returns the RMSE recorded for model.
func (r Run) Score(model string) (float64, bool) {
	for _, s := range r.Scores {
		if s.Model == model {
			return s.RMSE, true
		}
	}
	return 0, false
}

// Query filters runs. Zero values match everything. Limit keeps the most
// recent runs.
type Query struct {
	Start  time.Time
	End    time.Time
	Winner string
	Limit  int
}

func (q Query) match(r Run) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	return q.Winner == "" || r.Winner == q.Winner
}

// finish orders runs oldest first and applies the limit.
func (q Query) finish(runs []Run) []Run {
	slices.SortStableFunc(runs, func(a, b Run) int { return a.Timestamp.Compare(b.Timestamp) })
	if q.Limit > 0 && len(runs) > q.Limit {
		runs = runs[len(runs)-q.Limit:]
	}
	return runs
}

// Store persists Runs and supports querying.
type Store interface {
	Append(ctx context.Context, run Run) error
	Query(ctx context.Context, q Query) ([]Run, error)
	Close() error
}

// NopStore discards runs.
type NopStore struct{}

func (NopStore) Append(context.Context, Run) error           { return nil }
func (NopStore) Query(context.Context, Query) ([]Run, error) { return nil, nil }
func (NopStore) Close() error                                { return nil }
