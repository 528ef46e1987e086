package features

import (
	"errors"
	"fmt"
	"strings"
)

// Canonical column names of the featured dataset.
const (
	ColPassengerCount = "passenger_count"
	ColTripDistance   = "trip_distance"
	ColPickupHour     = "pickup_hour"
	ColDayOfWeek      = "day_of_week"
	ColBoroughCode    = "PU_Borough_Code"
	ColTripDuration   = "trip_duration"

	ColPickupLocation = "PULocationID"
	ColLocationID     = "LocationID"
	ColBorough        = "Borough"

	pickupMarker = "pickup_datetime"
)

// Candidates is the ordered feature list written by the builder. Only the
// columns present in the working frame are kept.
var Candidates = []string{
	ColPassengerCount,
	ColTripDistance,
	ColPickupHour,
	ColDayOfWeek,
	ColBoroughCode,
	ColTripDuration,
}

// ErrNoPickupColumn is returned when no column name contains "pickup_datetime".
var ErrNoPickupColumn = errors.New("features: no pickup_datetime column")

// ColumnError carries the available columns alongside ErrNoPickupColumn.
type ColumnError struct {
	Available []string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("%v; available columns: %v", ErrNoPickupColumn, e.Available)
}

func (e *ColumnError) Unwrap() error { return ErrNoPickupColumn }

// DetectColumns finds the first column containing "pickup_datetime" and
// derives the matching dropoff column by replacing "pickup" with "dropoff".
// It handles tpep_/lpep_ prefixes as well as the bare name.
func DetectColumns(names []string) (pickup, dropoff string, err error) {
	for _, n := range names {
		if strings.Contains(n, pickupMarker) {
			return n, strings.ReplaceAll(n, "pickup", "dropoff"), nil
		}
	}
	return "", "", &ColumnError{Available: append([]string(nil), names...)}
}
