// Package dashboard generates the KPI boxes and yearly trend series shown
// beside the risk map. The numbers are seeded random data and are unrelated to
// the map scores.
package dashboard

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

// FirstYear and LastYear bound the trend series, inclusive.
const (
	FirstYear = 2000
	LastYear  = 2023
)

// ErrInvalidYear is returned for a year outside [FirstYear, LastYear].
var ErrInvalidYear = errors.New("invalid year")

// Count ranges for generated yearly event counts, as [min, max).
var (
	earthquakeRange = [2]int{50, 500}
	floodRange      = [2]int{100, 1000}
)

// TrendPoint is one year of generated event counts.
type TrendPoint struct {
	Year       int `json:"year"`
	Earthquake int `json:"earthquake"`
	Flood      int `json:"flood"`
}

// Total is the combined event count for the year.
func (p TrendPoint) Total() int {
	return p.Earthquake + p.Flood
}

// KPI is a single headline number.
type KPI struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// Generator produces reproducible dashboard data from a seed.
type Generator struct {
	Seed uint64
}

// Trend returns the yearly series from FirstYear up to and including year.
// A zero year selects LastYear.
func (g Generator) Trend(year int) ([]TrendPoint, error) {
	year, err := resolveYear(year)
	if err != nil {
		return nil, err
	}
	series := g.series()
	return series[:year-FirstYear+1], nil
}

// KPIs summarizes the selected year: event counts per hazard, the total, and
// the percentage change of the total against the previous year.
func (g Generator) KPIs(year int) ([]KPI, error) {
	series, err := g.Trend(year)
	if err != nil {
		return nil, err
	}

	cur := series[len(series)-1]
	change := 0.0
	if len(series) > 1 {
		prev := series[len(series)-2]
		change = percentChange(prev.Total(), cur.Total())
	}

	return []KPI{
		{Key: "earthquake_events", Label: fmt.Sprintf("Earthquakes (%d)", cur.Year), Value: float64(cur.Earthquake)},
		{Key: "flood_events", Label: fmt.Sprintf("Floods (%d)", cur.Year), Value: float64(cur.Flood)},
		{Key: "total_events", Label: fmt.Sprintf("Total Events (%d)", cur.Year), Value: float64(cur.Total())},
		{Key: "total_change", Label: "Change vs Prior Year", Value: change, Unit: "%"},
	}, nil
}

// series draws every earthquake count, then every flood count, from a
// generator local to the call.
func (g Generator) series() []TrendPoint {
	rng := rand.New(rand.NewPCG(g.Seed, g.Seed)) //nolint:gosec // illustrative data

	n := LastYear - FirstYear + 1
	points := make([]TrendPoint, n)
	for i := range points {
		points[i].Year = FirstYear + i
		points[i].Earthquake = draw(rng, earthquakeRange)
	}
	for i := range points {
		points[i].Flood = draw(rng, floodRange)
	}
	return points
}

func draw(rng *rand.Rand, r [2]int) int {
	return r[0] + rng.IntN(r[1]-r[0])
}

func resolveYear(year int) (int, error) {
	if year == 0 {
		return LastYear, nil
	}
	if year < FirstYear || year > LastYear {
		return 0, fmt.Errorf("%w: %d not in %d-%d", ErrInvalidYear, year, FirstYear, LastYear)
	}
	return year, nil
}

// percentChange rounds to one decimal place.
func percentChange(prev, cur int) float64 {
	if prev == 0 {
		return 0
	}
	pct := float64(cur-prev) / float64(prev) * 100
	return math.Round(pct*10) / 10
}
