package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuckets_PartitionScale(t *testing.T) {
	buckets := Buckets()
	require.Len(t, buckets, 5)

	// Adjacent buckets share an edge and never overlap.
	for i := 1; i < len(buckets); i++ {
		assert.Equal(t, buckets[i-1].Max, buckets[i].Min)
	}
	assert.Equal(t, 0, buckets[0].Min)
	assert.Equal(t, 10, buckets[len(buckets)-1].Max)

	for score := 0; score <= 10; score++ {
		var hits []int
		for i, b := range buckets {
			if b.Contains(score, i == len(buckets)-1) {
				hits = append(hits, i)
			}
		}
		require.Len(t, hits, 1, "score %d", score)
		assert.Equal(t, hits[0], BucketIndex(score), "score %d", score)
	}
}

func TestBucketIndex(t *testing.T) {
	tests := []struct {
		score int
		want  int
	}{
		{-3, 0},
		{0, 0},
		{1, 1},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
		{6, 3},
		{7, 4},
		{10, 4},
		{11, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BucketIndex(tt.score), "score %d", tt.score)
	}
}

func TestFillColor_Monotonic(t *testing.T) {
	rank := map[string]int{}
	for i, b := range Buckets() {
		rank[b.Color] = i
	}

	for lo := 0; lo <= 10; lo++ {
		for hi := lo + 1; hi <= 10; hi++ {
			assert.LessOrEqual(t, rank[FillColor(lo)], rank[FillColor(hi)],
				"score %d drew a hotter color than %d", lo, hi)
		}
	}
}

func TestFillColor_LowGreenHighRed(t *testing.T) {
	assert.Equal(t, "#1a9641", FillColor(0))
	assert.Equal(t, "#a6d96a", FillColor(1))
	assert.Equal(t, "#ffffbf", FillColor(4))
	assert.Equal(t, "#fdae61", FillColor(6))
	assert.Equal(t, "#d7191c", FillColor(10))
}

func TestTooltip(t *testing.T) {
	assert.Equal(t, "Texas: 7", Tooltip("Texas", 7))
	assert.Equal(t, "Dist. of Columbia: 0", Tooltip("Dist. of Columbia", 0))
}
