package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, out <-chan Result, done <-chan struct{}) []Result {
	t.Helper()
	var results []Result
	for {
		select {
		case r, ok := <-out:
			if !ok {
				return results
			}
			results = append(results, r)
		case <-done:
			return results
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for engine results")
		}
	}
}

func TestEngineSingleWorkerPreservesOrder(t *testing.T) {
	e := NewEngine([][]byte{[]byte("ACGT")}, Config{MaxDiffs: 0, GapPenalty: DefaultGapPenalty}, 1)
	in := make(chan Job, 3)
	out := make(chan Result, 3)
	in <- Job{SeqNum: 0, Seq: []byte("ACGTACGT")}
	in <- Job{SeqNum: 1, Seq: []byte("TTTTTTTT")}
	in <- Job{SeqNum: 2, Seq: []byte("ACGT")}
	close(in)

	err := e.Run(context.Background(), in, out)
	require.NoError(t, err)

	results := collect(t, out, nil)
	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, i, r.SeqNum)
	}
}

func TestEngineMultiWorkerPreservesOrder(t *testing.T) {
	e := NewEngine([][]byte{[]byte("ACGT")}, Config{MaxDiffs: 0, GapPenalty: DefaultGapPenalty}, 4)
	in := make(chan Job, 50)
	out := make(chan Result, 50)
	for i := 0; i < 50; i++ {
		in <- Job{SeqNum: i, Seq: []byte("ACGTACGTACGT")}
	}
	close(in)

	err := e.Run(context.Background(), in, out)
	require.NoError(t, err)

	results := collect(t, out, nil)
	require.Len(t, results, 50)
	for i, r := range results {
		assert.Equal(t, i, r.SeqNum)
	}
}

func TestEngineSearchOneRanksAcrossPatterns(t *testing.T) {
	e := NewEngine([][]byte{[]byte("TTTT"), []byte("ACGT")}, Config{MaxDiffs: 0, GapPenalty: DefaultGapPenalty}, 1)
	matches := e.searchOne([]byte("ACGTACGT"))
	require.NotEmpty(t, matches)
	assert.Equal(t, 1, matches[0].PatternIdx, "pattern with the better hit should be reordered first")
}
