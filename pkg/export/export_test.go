package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/tripduration/core/runlog"
)

func sampleRuns() []runlog.Run {
	base := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	return []runlog.Run{
		{ID: "a", Timestamp: base, Rows: 10, Winner: "LinearRegression",
			Scores: []runlog.Score{{Model: "LinearRegression", RMSE: 4}, {Model: "RandomForest", RMSE: 5}}},
		{ID: "b", Timestamp: base.Add(time.Hour), Rows: 12, Winner: "RandomForest",
			Scores: []runlog.Score{{Model: "LinearRegression", RMSE: 4.5}, {Model: "RandomForest", RMSE: 3.25}}},
	}
}

func TestPredictionsFilename(t *testing.T) {
	ts := time.Date(2024, 6, 1, 9, 3, 7, 0, time.UTC)
	assert.Equal(t, "20240601_090307_predictions.csv", PredictionsFilename(ts))
}

func TestWritePredictions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePredictions(&buf, []float64{12.5, 3, 40.125}))
	assert.Equal(t, "prediction\n12.5\n3\n40.125\n", buf.String())
}

func TestWriteRunsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRunsJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteRunsJSON(&buf, sampleRuns()))
	var out []runlog.Run
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Len(t, out, 2)
}

func TestWriteRunsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRunsCSV(&buf, sampleRuns()))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "b,2024-06-01T10:30:00Z,12,RandomForest,3.25,true", lines[4])
}

func TestRMSEChartHTML(t *testing.T) {
	html, err := RMSEChartHTML(sampleRuns())
	require.NoError(t, err)
	assert.Contains(t, html, "Test RMSE per training run")
	assert.Contains(t, html, "RandomForest")
	assert.Contains(t, html, "2024-06-01 10:30")
}
