package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/paulmach/orb"
)

var (
	// ErrInvalidGranularity is returned for any view other than State or County.
	ErrInvalidGranularity = errors.New("invalid granularity")
	// ErrInvalidHazard is returned for any hazard other than Earthquake or Flood.
	ErrInvalidHazard = errors.New("invalid hazard")
	// ErrDataUnavailable signals that region geometry could not be retrieved.
	ErrDataUnavailable = errors.New("region data unavailable")
)

// Granularity is the geographic resolution of a region.
type Granularity string

const (
	State  Granularity = "State"
	County Granularity = "County"
)

// Granularities lists every supported granularity.
var Granularities = []Granularity{State, County}

// ParseGranularity converts user input to a Granularity. Matching is case-insensitive.
func ParseGranularity(s string) (Granularity, error) {
	for _, g := range Granularities {
		if strings.EqualFold(strings.TrimSpace(s), string(g)) {
			return g, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidGranularity, s)
}

// Valid reports whether g is a supported granularity.
func (g Granularity) Valid() bool {
	return g == State || g == County
}

// Hazard is the type of natural hazard a score describes.
type Hazard string

const (
	Earthquake Hazard = "Earthquake"
	Flood      Hazard = "Flood"
)

// Hazards lists every supported hazard.
var Hazards = []Hazard{Earthquake, Flood}

// ParseHazard converts user input to a Hazard. Matching is case-insensitive.
func ParseHazard(s string) (Hazard, error) {
	for _, h := range Hazards {
		if strings.EqualFold(strings.TrimSpace(s), string(h)) {
			return h, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidHazard, s)
}

// Valid reports whether h is a supported hazard.
func (h Hazard) Valid() bool {
	return h == Earthquake || h == Flood
}

// Region is a named boundary polygon at a given granularity.
type Region struct {
	Name        string
	GEOID       string
	StateCode   string // USPS code, e.g. "TX"
	Granularity Granularity
	Geometry    orb.MultiPolygon
}

// RegionNames returns the names of regions in order, duplicates included.
func RegionNames(regions []Region) []string {
	names := make([]string, len(regions))
	for i := range regions {
		names[i] = regions[i].Name
	}
	return names
}
