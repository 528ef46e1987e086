package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/kilianp07/tripduration/core/runlog"
)

// PredictionColumn is the header of the prediction files.
const PredictionColumn = "prediction"

// PredictionsFilename names a prediction file after the local time it was
// produced, e.g. 20240601_093000_predictions.csv.
func PredictionsFilename(t time.Time) string {
	return t.Format("20060102_150405") + "_predictions.csv"
}

// WritePredictions writes one prediction per row under a single header.
func WritePredictions(w io.Writer, preds []float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{PredictionColumn}); err != nil {
		return err
	}
	for _, p := range preds {
		if err := cw.Write([]string{strconv.FormatFloat(p, 'f', -1, 64)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRunsJSON writes the run history to w as a JSON array.
func WriteRunsJSON(w io.Writer, runs []runlog.Run) error {
	if runs == nil {
		runs = []runlog.Run{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(runs)
}

// WriteRunsCSV writes one row per run and candidate score.
func WriteRunsCSV(w io.Writer, runs []runlog.Run) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"run_id", "timestamp", "rows", "model", "rmse", "winner"}); err != nil {
		return err
	}
	for _, r := range runs {
		for _, s := range r.Scores {
			rec := []string{
				r.ID,
				r.Timestamp.Format(time.RFC3339),
				strconv.Itoa(r.Rows),
				s.Model,
				strconv.FormatFloat(s.RMSE, 'f', -1, 64),
				strconv.FormatBool(s.Model == r.Winner),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
