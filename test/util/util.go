// Package util provides helpers shared by the pipeline tests.
//
// WriteTrips renders cleaned trip records in the layout the feature builder
// reads, with a configurable datetime column prefix (tpep_, lpep_ or none).
//
// WriteZones writes a TLC style zone lookup file.
//
// SyntheticTrips generates deterministic trips whose duration grows with the
// distance, so trained models have a signal to learn.
package util

import (
	"encoding/csv"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"
)

// TimeLayout is the timestamp format used in generated files.
const TimeLayout = "2006-01-02 15:04:05"

// Trip is one cleaned trip record.
type Trip struct {
	Pickup     time.Time
	Minutes    float64
	Passengers int
	Distance   float64
	Location   int
}

// Zone is one row of the zone lookup.
type Zone struct {
	ID      int
	Borough string
	Name    string
}

// DefaultZones is a small lookup covering every canonical borough.
var DefaultZones = []Zone{
	{ID: 1, Borough: "EWR", Name: "Newark Airport"},
	{ID: 3, Borough: "Bronx", Name: "Allerton/Pelham Gardens"},
	{ID: 4, Borough: "Manhattan", Name: "Alphabet City"},
	{ID: 7, Borough: "Queens", Name: "Astoria"},
	{ID: 11, Borough: "Brooklyn", Name: "Bath Beach"},
	{ID: 23, Borough: "Staten Island", Name: "Bloomfield/Emerson Hill"},
	{ID: 264, Borough: "Unknown", Name: "NV"},
}

// WriteTrips writes trips to path. prefix is prepended to the
// pickup_datetime and dropoff_datetime column names.
func WriteTrips(tb testing.TB, path, prefix string, trips []Trip) {
	tb.Helper()
	rows := make([][]string, 0, len(trips))
	for _, tr := range trips {
		dropoff := tr.Pickup.Add(time.Duration(math.Round(tr.Minutes*60)) * time.Second)
		rows = append(rows, []string{
			strconv.Itoa(tr.Passengers),
			strconv.FormatFloat(tr.Distance, 'f', 2, 64),
			tr.Pickup.Format(TimeLayout),
			dropoff.Format(TimeLayout),
			strconv.Itoa(tr.Location),
		})
	}
	header := []string{"passenger_count", "trip_distance", prefix + "pickup_datetime", prefix + "dropoff_datetime", "PULocationID"}
	WriteCSV(tb, path, header, rows)
}

// WriteZones writes a zone lookup to path.
func WriteZones(tb testing.TB, path string, zones []Zone) {
	tb.Helper()
	rows := make([][]string, 0, len(zones))
	for _, z := range zones {
		rows = append(rows, []string{strconv.Itoa(z.ID), z.Borough, z.Name, "Yellow Zone"})
	}
	WriteCSV(tb, path, []string{"LocationID", "Borough", "Zone", "service_zone"}, rows)
}

// WriteCSV writes a header and rows to path, creating parent directories.
func WriteCSV(tb testing.TB, path string, header []string, rows [][]string) {
	tb.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tb.Fatalf("mkdir: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		tb.Fatalf("create %s: %v", path, err)
	}
	defer func() { _ = f.Close() }()
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		tb.Fatalf("write header: %v", err)
	}
	if err := w.WriteAll(rows); err != nil {
		tb.Fatalf("write rows: %v", err)
	}
}

// SyntheticTrips returns n trips starting on Monday 2024-01-01. Durations
// stay inside the outlier bounds and every location is in DefaultZones.
func SyntheticTrips(n int, seed int64) []Trip {
	rnd := rand.New(rand.NewSource(seed))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	trips := make([]Trip, n)
	for i := range trips {
		dist := 0.5 + rnd.Float64()*12
		hour := rnd.Intn(24)
		rush := 0.0
		if hour >= 7 && hour <= 9 || hour >= 16 && hour <= 19 {
			rush = 6
		}
		minutes := 3 + 3.2*dist + rush + rnd.NormFloat64()
		if minutes < 2 {
			minutes = 2
		}
		trips[i] = Trip{
			Pickup:     base.Add(time.Duration(rnd.Intn(14)*24+hour)*time.Hour + time.Duration(rnd.Intn(60))*time.Minute),
			Minutes:    float64(int(minutes*60)) / 60,
			Passengers: 1 + rnd.Intn(4),
			Distance:   float64(int(dist*100)) / 100,
			Location:   DefaultZones[rnd.Intn(len(DefaultZones))].ID,
		}
	}
	return trips
}

// MustExist fails the test when path does not exist.
func MustExist(tb testing.TB, path string) {
	tb.Helper()
	if _, err := os.Stat(path); err != nil {
		tb.Fatalf("expected file %s: %v", path, err)
	}
}
