package features

import (
	"fmt"
	"slices"
	"sort"
)

// Encoding selects how borough names are turned into PU_Borough_Code values.
type Encoding string

const (
	// EncodingCanonical uses a fixed borough table so codes stay stable
	// across runs and datasets.
	EncodingCanonical Encoding = "canonical"
	// EncodingObserved numbers the sorted set of boroughs present in the
	// data, which shifts codes whenever that set changes.
	EncodingObserved Encoding = "observed"
)

// MissingBoroughCode is assigned to rows whose zone has no borough.
const MissingBoroughCode = -1

// NoZonesBoroughCode is written for every row when no zone lookup exists.
const NoZonesBoroughCode = 0

// CanonicalBoroughs lists the TLC zone lookup boroughs in code order.
var CanonicalBoroughs = []string{
	"Bronx",
	"Brooklyn",
	"EWR",
	"Manhattan",
	"Queens",
	"Staten Island",
	"Unknown",
}

// ParseEncoding validates an encoding name; empty selects canonical.
func ParseEncoding(s string) (Encoding, error) {
	switch Encoding(s) {
	case "", EncodingCanonical:
		return EncodingCanonical, nil
	case EncodingObserved:
		return EncodingObserved, nil
	}
	return "", fmt.Errorf("features: unknown borough encoding %q", s)
}

// BoroughCodes maps each borough to its code. An empty name means no borough
// and maps to MissingBoroughCode.
type BoroughCodes map[string]int

// NewBoroughCodes builds the code table for the boroughs seen in a run.
// Canonical mode places names outside the fixed table after it, in sorted
// order, so the table only grows at the end.
func NewBoroughCodes(enc Encoding, observed []string) BoroughCodes {
	var seen []string
	for _, b := range observed {
		if b != "" && !slices.Contains(seen, b) {
			seen = append(seen, b)
		}
	}
	sort.Strings(seen)

	codes := BoroughCodes{}
	if enc == EncodingObserved {
		for i, b := range seen {
			codes[b] = i
		}
		return codes
	}
	for i, b := range CanonicalBoroughs {
		codes[b] = i
	}
	next := len(CanonicalBoroughs)
	for _, b := range seen {
		if _, ok := codes[b]; !ok {
			codes[b] = next
			next++
		}
	}
	return codes
}

// Code returns the code of a borough name.
func (c BoroughCodes) Code(borough string) int {
	if borough == "" {
		return MissingBoroughCode
	}
	if code, ok := c[borough]; ok {
		return code
	}
	return MissingBoroughCode
}
