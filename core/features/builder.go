package features

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/kilianp07/tripduration/internal/dataset"
)

// Trips shorter than MinTripMinutes or longer than MaxTripMinutes are
// outliers. Both bounds are exclusive.
const (
	MinTripMinutes = 1.0
	MaxTripMinutes = 180.0
)

// InRange reports whether a duration in minutes survives the outlier filter.
// NaN never does.
func InRange(minutes float64) bool {
	return minutes > MinTripMinutes && minutes < MaxTripMinutes
}

// Summary describes one feature build.
type Summary struct {
	RowsIn        int
	RowsOut       int
	Unparsed      int
	PickupColumn  string
	DropoffColumn string
	ZonesJoined   bool
	Unmatched     int
}

// Dropped is the number of input rows removed by the filter.
func (s Summary) Dropped() int { return s.RowsIn - s.RowsOut }

// Builder turns cleaned trip records into featured records.
type Builder struct {
	Encoding Encoding
}

// NewBuilder returns a Builder using the given borough encoding.
func NewBuilder(enc Encoding) *Builder {
	return &Builder{Encoding: enc}
}

// Build derives pickup_hour, day_of_week and trip_duration, drops outliers,
// joins the zone lookup and keeps the candidate columns that exist. A nil
// zones skips the join and sets PU_Borough_Code to 0 on every row.
func (b *Builder) Build(trips dataframe.DataFrame, zones ZoneLookup) (dataframe.DataFrame, Summary, error) {
	sum := Summary{RowsIn: trips.Nrow(), ZonesJoined: zones != nil}
	pickupCol, dropoffCol, err := DetectColumns(trips.Names())
	if err != nil {
		return dataframe.DataFrame{}, sum, err
	}
	sum.PickupColumn, sum.DropoffColumn = pickupCol, dropoffCol
	if !dataset.Has(trips, dropoffCol) {
		return dataframe.DataFrame{}, sum, fmt.Errorf("%w: %s", dataset.ErrMissingColumn, dropoffCol)
	}

	pickups := trips.Col(pickupCol).Records()
	dropoffs := trips.Col(dropoffCol).Records()
	n := len(pickups)
	keep := make([]int, 0, n)
	hours := make([]int, 0, n)
	days := make([]int, 0, n)
	durations := make([]float64, 0, n)
	for i := range pickups {
		pu, okPU := ParseTimestamp(pickups[i])
		do, okDO := ParseTimestamp(dropoffs[i])
		if !okPU || !okDO {
			sum.Unparsed++
			continue
		}
		minutes := do.Sub(pu).Minutes()
		if !InRange(minutes) {
			continue
		}
		keep = append(keep, i)
		hours = append(hours, pu.Hour())
		days = append(days, DayOfWeek(pu))
		durations = append(durations, minutes)
	}
	sum.RowsOut = len(keep)

	codes := make([]int, len(keep))
	if zones != nil {
		if !dataset.Has(trips, ColPickupLocation) {
			return dataframe.DataFrame{}, sum, fmt.Errorf("%w: %s", dataset.ErrMissingColumn, ColPickupLocation)
		}
		locations := trips.Col(ColPickupLocation).Float()
		boroughs := make([]string, len(keep))
		for k, i := range keep {
			boroughs[k] = zones.Borough(locations[i])
		}
		table := NewBoroughCodes(b.Encoding, boroughs)
		for k, name := range boroughs {
			codes[k] = table.Code(name)
			if codes[k] == MissingBoroughCode {
				sum.Unmatched++
			}
		}
	}

	derived := map[string]series.Series{
		ColPickupHour:   series.New(hours, series.Int, ColPickupHour),
		ColDayOfWeek:    series.New(days, series.Int, ColDayOfWeek),
		ColBoroughCode:  series.New(codes, series.Int, ColBoroughCode),
		ColTripDuration: series.New(durations, series.Float, ColTripDuration),
	}
	var cols []series.Series
	for _, name := range Candidates {
		if s, ok := derived[name]; ok {
			cols = append(cols, s)
			continue
		}
		if dataset.Has(trips, name) {
			cols = append(cols, trips.Col(name).Subset(keep))
		}
	}
	out := dataframe.New(cols...)
	if out.Err != nil {
		return out, sum, fmt.Errorf("features: assemble output: %w", out.Err)
	}
	return out, sum, nil
}
