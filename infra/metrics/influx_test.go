package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/tripduration/core/metrics"
)

type lineServer struct {
	mu     sync.Mutex
	bodies []string
}

func (l *lineServer) handler(w http.ResponseWriter, r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	l.mu.Lock()
	l.bodies = append(l.bodies, strings.TrimSpace(string(data)))
	l.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func TestInfluxSink_RecordTraining(t *testing.T) {
	ls := &lineServer{}
	srv := httptest.NewServer(http.HandlerFunc(ls.handler))
	defer srv.Close()

	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer func() { _ = sink.Close() }()
	now := time.Now()
	ev := coremetrics.TrainingEvent{
		RunID:     "run-1",
		TrainRows: 80,
		TestRows:  20,
		Scores:    []coremetrics.ModelScore{{Model: "LinearRegression", RMSE: 5.12345}, {Model: "RandomForest", RMSE: 4.5}},
		Winner:    "RandomForest",
		Time:      now,
	}
	if err := sink.RecordTraining(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}
	if len(ls.bodies) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(ls.bodies))
	}
	p := write.NewPointWithMeasurement("model_score").
		AddTag("run_id", "run-1").
		AddTag("model", "LinearRegression").
		AddTag("component", "trainer").
		AddField("rmse", 5.123).
		AddField("selected", false).
		AddField("train_rows", 80).
		AddField("test_rows", 20).
		SetTime(now)
	expected := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	if ls.bodies[0] != expected {
		t.Errorf("unexpected body: %s", ls.bodies[0])
	}
	if !strings.Contains(ls.bodies[1], "selected=true") {
		t.Errorf("winner not flagged: %s", ls.bodies[1])
	}
}

func TestInfluxSink_RecordFeaturesAndPrediction(t *testing.T) {
	ls := &lineServer{}
	srv := httptest.NewServer(http.HandlerFunc(ls.handler))
	defer srv.Close()

	sink := NewInfluxSink(srv.URL+"/api/v2/write", "token", "org", "bucket")
	defer func() { _ = sink.Close() }()
	now := time.Now()
	if err := sink.RecordFeatures(coremetrics.FeatureEvent{RowsIn: 10, RowsOut: 8, ZonesJoined: true, Time: now}); err != nil {
		t.Fatalf("record features: %v", err)
	}
	if err := sink.RecordPrediction(coremetrics.PredictionEvent{Rows: 8, Model: "LinearRegression", Output: "p.csv", Time: now}); err != nil {
		t.Fatalf("record prediction: %v", err)
	}
	if len(ls.bodies) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(ls.bodies))
	}
	if !strings.HasPrefix(ls.bodies[0], "feature_build,") || !strings.Contains(ls.bodies[0], "rows_out=8i") {
		t.Errorf("unexpected feature point: %s", ls.bodies[0])
	}
	if !strings.HasPrefix(ls.bodies[1], "batch_prediction,") || !strings.Contains(ls.bodies[1], "model=LinearRegression") {
		t.Errorf("unexpected prediction point: %s", ls.bodies[1])
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL+"/api/v2/write", "tok", "org", "bucket")
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	if !called {
		t.Fatalf("health endpoint not called")
	}
}
