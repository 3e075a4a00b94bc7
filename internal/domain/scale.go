package domain

import "fmt"

// Thresholds are the bucket edges of the risk color scale.
var Thresholds = []int{0, 1, 3, 5, 7, 10}

// bucketColors run from lowest to highest risk: green to red.
var bucketColors = []string{"#1a9641", "#a6d96a", "#ffffbf", "#fdae61", "#d7191c"}

var bucketLabels = []string{"no data", "low", "moderate", "elevated", "high"}

// Bucket is a half-open score range [Min, Max) drawn with a single fill color.
// The last bucket also includes Max.
type Bucket struct {
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Color string `json:"color"`
	Label string `json:"label"`
}

// Contains reports whether score falls in the bucket. last marks the final
// bucket, whose upper edge is inclusive.
func (b Bucket) Contains(score int, last bool) bool {
	if last {
		return score >= b.Min && score <= b.Max
	}
	return score >= b.Min && score < b.Max
}

// Buckets returns the color scale built from Thresholds.
func Buckets() []Bucket {
	out := make([]Bucket, len(Thresholds)-1)
	for i := range out {
		out[i] = Bucket{
			Min:   Thresholds[i],
			Max:   Thresholds[i+1],
			Color: bucketColors[i],
			Label: bucketLabels[i],
		}
	}
	return out
}

// BucketIndex returns the index of the bucket containing score. Scores below
// the scale clamp to the first bucket and scores above it to the last.
func BucketIndex(score int) int {
	last := len(Thresholds) - 2
	if score >= Thresholds[last+1] {
		return last
	}
	for i := last; i >= 0; i-- {
		if score >= Thresholds[i] {
			return i
		}
	}
	return 0
}

// FillColor maps a score to its bucket color.
func FillColor(score int) string {
	return bucketColors[BucketIndex(score)]
}

// Tooltip formats the hover text for a region.
func Tooltip(name string, score int) string {
	return fmt.Sprintf("%s: %d", name, score)
}
