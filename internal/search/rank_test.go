package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankByDistanceThenStart(t *testing.T) {
	matches := []Match{
		{Start: 5, Diffs: 1},
		{Start: 1, Diffs: 0},
		{Start: 3, Diffs: 0},
	}
	Rank(matches, false)
	assert.Equal(t, 1, matches[0].Start)
	assert.Equal(t, 1, matches[0].HitRank)
	assert.Equal(t, 3, matches[1].Start)
	assert.Equal(t, 2, matches[1].HitRank)
	assert.Equal(t, 5, matches[2].Start)
	assert.Equal(t, 3, matches[2].HitRank)
}

func TestRankInOrderIgnoresDistance(t *testing.T) {
	matches := []Match{
		{Start: 5, Diffs: 0},
		{Start: 1, Diffs: 2},
	}
	Rank(matches, true)
	assert.Equal(t, 1, matches[0].Start)
	assert.Equal(t, 5, matches[1].Start)
}

func TestReorderPatternsBestHitFirst(t *testing.T) {
	byPattern := [][]Match{
		{{Diffs: 2, Start: 1}},
		{{Diffs: 0, Start: 5}},
		{},
	}
	order := ReorderPatterns(byPattern)
	assert.Equal(t, []int{1, 0, 2}, order)
}

func TestReorderPatternsTieBreakByStart(t *testing.T) {
	byPattern := [][]Match{
		{{Diffs: 0, Start: 5}},
		{{Diffs: 0, Start: 1}},
	}
	order := ReorderPatterns(byPattern)
	assert.Equal(t, []int{1, 0}, order)
}
