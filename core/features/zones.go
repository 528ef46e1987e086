package features

import (
	"fmt"
	"math"

	"github.com/kilianp07/tripduration/internal/dataset"
)

// ZoneLookup maps a TLC LocationID to its borough. Zones whose borough is
// missing in the lookup file are not stored, so they behave like unmatched
// rows of a left join.
type ZoneLookup map[int]string

// LoadZones reads the zone lookup CSV (LocationID, Borough). When an ID
// appears twice the first row wins.
func LoadZones(path string) (ZoneLookup, error) {
	df, err := dataset.ReadCSV(path)
	if err != nil {
		return nil, err
	}
	ids, err := dataset.Floats(df, ColLocationID)
	if err != nil {
		return nil, fmt.Errorf("zone lookup: %w", err)
	}
	if !dataset.Has(df, ColBorough) {
		return nil, fmt.Errorf("zone lookup: %w: %s", dataset.ErrMissingColumn, ColBorough)
	}
	boroughs := df.Col(ColBorough)
	zones := make(ZoneLookup, len(ids))
	for i, id := range ids {
		if math.IsNaN(id) || boroughs.Elem(i).IsNA() {
			continue
		}
		if _, dup := zones[int(id)]; dup {
			continue
		}
		zones[int(id)] = boroughs.Elem(i).String()
	}
	return zones, nil
}

// Borough returns the borough of a pickup location, or "" when the location
// is missing or unknown.
func (z ZoneLookup) Borough(location float64) string {
	if math.IsNaN(location) {
		return ""
	}
	return z[int(location)]
}
