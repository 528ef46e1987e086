package features

import (
	"context"
	"errors"
	"time"

	"github.com/kilianp07/tripduration/core/logger"
	"github.com/kilianp07/tripduration/core/metrics"
	"github.com/kilianp07/tripduration/internal/dataset"
)

// Job runs the feature builder over files on disk.
type Job struct {
	TripsPath  string
	ZonesPath  string
	OutputPath string
	Encoding   Encoding
	Log        logger.Logger
	Sink       metrics.Sink
	Now        func() time.Time
}

// Run reads the cleaned trips, builds the featured dataset and writes it to
// OutputPath. A missing trips file or a missing pickup column is logged and
// reported as (nil, nil) without writing anything; a missing zone file only
// degrades PU_Borough_Code to 0. Other failures are returned.
func (j Job) Run(ctx context.Context) (*Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := logger.OrNop(j.Log)
	now := j.Now
	if now == nil {
		now = time.Now
	}
	start := now()

	if !dataset.Exists(j.TripsPath) {
		log.Errorf("cleaned data not found at %s; run preprocessing first", j.TripsPath)
		return nil, nil
	}
	log.Infof("loading cleaned data from %s", j.TripsPath)
	trips, err := dataset.ReadCSV(j.TripsPath)
	if err != nil {
		return nil, err
	}

	var zones ZoneLookup
	if j.ZonesPath != "" && dataset.Exists(j.ZonesPath) {
		if zones, err = LoadZones(j.ZonesPath); err != nil {
			return nil, err
		}
	} else {
		log.Warnf("zone file not found at %s; skipping zone features", j.ZonesPath)
	}

	out, sum, err := NewBuilder(j.Encoding).Build(trips, zones)
	var colErr *ColumnError
	if errors.As(err, &colErr) {
		log.Errorf("no pickup_datetime column found; available columns: %v", colErr.Available)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	log.Infof("using columns %q and %q", sum.PickupColumn, sum.DropoffColumn)

	log.Infof("saving features to %s", j.OutputPath)
	if err := dataset.WriteCSV(j.OutputPath, out); err != nil {
		return nil, err
	}
	log.Infow("feature engineering complete", map[string]any{
		"rows_in":      sum.RowsIn,
		"rows_out":     sum.RowsOut,
		"dropped":      sum.Dropped(),
		"unparsed":     sum.Unparsed,
		"zones_joined": sum.ZonesJoined,
		"unmatched":    sum.Unmatched,
	})

	ev := metrics.FeatureEvent{
		RowsIn:      sum.RowsIn,
		RowsOut:     sum.RowsOut,
		Unparsed:    sum.Unparsed,
		Unmatched:   sum.Unmatched,
		ZonesJoined: sum.ZonesJoined,
		Duration:    now().Sub(start),
		Time:        now(),
	}
	if err := metrics.OrNop(j.Sink).RecordFeatures(ev); err != nil {
		log.Warnf("record feature metrics: %v", err)
	}
	return &sum, nil
}
