package domain

import "math/rand/v2"

const (
	// MinScore and MaxScore bound every generated risk score.
	MinScore = 1
	MaxScore = 10
	// NoScore is attached to regions missing from the score table.
	NoScore = 0

	// DefaultSeed reproduces the scores of the original dashboard runs.
	DefaultSeed uint64 = 42
)

// Scores holds one risk score per hazard for a single region name.
type Scores struct {
	Earthquake int `json:"earthquake"`
	Flood      int `json:"flood"`
}

// For returns the score for the given hazard.
func (s Scores) For(h Hazard) int {
	if h == Flood {
		return s.Flood
	}
	return s.Earthquake
}

// ScoreTable maps region names to their scores.
type ScoreTable map[string]Scores

// Lookup returns the score for name and hazard, and whether the name was found.
// Unknown names score NoScore.
func (t ScoreTable) Lookup(name string, h Hazard) (int, bool) {
	s, ok := t[name]
	if !ok {
		return NoScore, false
	}
	return s.For(h), true
}

// ScoreProvider produces a score table for a list of region names.
type ScoreProvider interface {
	Scores(names []string) ScoreTable
}

// SeededScores generates reproducible random scores. Each call to Scores uses
// its own generator seeded from Seed, so calls never share random state.
type SeededScores struct {
	Seed uint64
}

// Scores draws an earthquake score for every name, then a flood score for
// every name. When a name repeats, the scores drawn at its first position win.
func (s SeededScores) Scores(names []string) ScoreTable {
	rng := rand.New(rand.NewPCG(s.Seed, s.Seed)) //nolint:gosec // scores are illustrative, not security sensitive

	quake := drawScores(rng, len(names))
	flood := drawScores(rng, len(names))

	table := make(ScoreTable, len(names))
	for i, name := range names {
		if _, seen := table[name]; seen {
			continue
		}
		table[name] = Scores{Earthquake: quake[i], Flood: flood[i]}
	}
	return table
}

func drawScores(rng *rand.Rand, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = MinScore + rng.IntN(MaxScore-MinScore+1)
	}
	return out
}

// StaticScores serves a fixed table, regardless of the names requested.
type StaticScores ScoreTable

func (s StaticScores) Scores(_ []string) ScoreTable {
	return ScoreTable(s)
}
