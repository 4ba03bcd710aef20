package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMyersSearchExactMatch(t *testing.T) {
	hits := MyersSearch([]byte("AAGTACGTAA"), []byte("ACGT"), 1, false, AlphabetDNA)
	require.NotEmpty(t, hits)
	found0 := false
	for _, h := range hits {
		if h.Dist == 0 {
			found0 = true
		}
	}
	assert.True(t, found0)
}

func TestMyersSearchOneSubstitution(t *testing.T) {
	// "AAGT" vs pattern "ACGT": one substitution (A->C at position 1).
	hits := MyersSearch([]byte("AAGT"), []byte("ACGT"), 1, false, AlphabetDNA)
	require.NotEmpty(t, hits)
	best := hits[0].Dist
	for _, h := range hits {
		if h.Dist < best {
			best = h.Dist
		}
	}
	assert.Equal(t, 1, best)

	var end4 *EndPos
	for i := range hits {
		if hits[i].End == 4 {
			end4 = &hits[i]
		}
	}
	require.NotNil(t, end4)
	assert.Equal(t, 1, end4.Dist)
}

func TestMyersSearchNoHitsBeyondMaxD(t *testing.T) {
	hits := MyersSearch([]byte("TTTTTTTT"), []byte("ACGT"), 0, false, AlphabetDNA)
	for _, h := range hits {
		assert.LessOrEqual(t, h.Dist, 0)
	}
}

func TestMyersSearchAmbiguityPattern(t *testing.T) {
	// pattern "ACNT" (N matches anything) against exact "ACGT" at D=0.
	hits := MyersSearch([]byte("ACGT"), []byte("ACNT"), 0, true, AlphabetDNA)
	require.NotEmpty(t, hits)
	assert.Equal(t, 0, hits[len(hits)-1].Dist)
}

func TestMyersSearchLongPatternFallsBackToBlock(t *testing.T) {
	pattern := make([]byte, 100)
	for i := range pattern {
		pattern[i] = "ACGT"[i%4]
	}
	target := append(append([]byte{}, pattern...), []byte("TTTT")...)
	hits := MyersSearch(target, pattern, 0, false, AlphabetDNA)
	require.NotEmpty(t, hits)
	assert.Equal(t, len(pattern), hits[len(hits)-1].End)
	assert.Equal(t, 0, hits[len(hits)-1].Dist)
}

func TestBlockMyersAgreesWithSingleWordAcrossBoundary(t *testing.T) {
	// A pattern one byte longer than wordSize forces the two-block path.
	// Two substitutions straddle the block seam (last byte of block 0,
	// only byte of block 1); a correct carry must report their combined
	// cost (2), not each block's independently summed score.
	pattern := make([]byte, wordSize+1)
	for i := range pattern {
		pattern[i] = "ACGT"[i%4]
	}
	target := append([]byte{}, pattern...)
	target[wordSize-1] = mismatchByte(target[wordSize-1])
	target[wordSize+1-1] = mismatchByte(target[wordSize+1-1])

	blockHits := blockMyers(target, pattern, 2, false, AlphabetDNA)
	require.NotEmpty(t, blockHits)

	var directBest *EndPos
	for i := range blockHits {
		if blockHits[i].End == len(pattern) {
			directBest = &blockHits[i]
		}
	}
	require.NotNil(t, directBest)
	assert.Equal(t, 2, directBest.Dist)
}

func mismatchByte(b byte) byte {
	if b == 'A' {
		return 'C'
	}
	return 'A'
}

func TestFindMatchesEndToEnd(t *testing.T) {
	// spec.md §8 scenario 3: find -D 1 ACGT over ">s\nAAGT\n" sets
	// match_range = 1:4, match_diffs = 1.
	cfg := Config{MaxDiffs: 1, GapPenalty: DefaultGapPenalty}
	matches := FindMatches([]byte("AAGT"), []byte("ACGT"), 0, cfg)
	require.NotEmpty(t, matches)
	Rank(matches, false)
	best := matches[0]
	assert.Equal(t, 1, best.Diffs)
	assert.Equal(t, 1, best.Start)
	assert.Equal(t, 4, best.End)
}

func TestFindMatchesZeroDiffsExact(t *testing.T) {
	cfg := Config{MaxDiffs: 0, GapPenalty: DefaultGapPenalty}
	matches := FindMatches([]byte("AAGT"), []byte("ACGT"), 0, cfg)
	assert.Empty(t, matches)
}
