package sortuniq

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqtoolkit/st/internal/record"
	"github.com/seqtoolkit/st/internal/vars"
)

func rec(id string, n int) *record.Record {
	return &record.Record{ID: []byte(id), Seq: []byte("ACGT"), SeqNum: int64(n)}
}

func intKey(n int) vars.Value {
	return vars.NewInt(int64(n))
}

func drainStream(t *testing.T, s *RecordStream) []string {
	t.Helper()
	var ids []string
	for {
		r, _, err := s.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		ids = append(ids, string(r.ID))
	}
	return ids
}

func TestSorterInMemoryNoSpill(t *testing.T) {
	s := NewSorter(false, 0, t.TempDir(), 0)
	require.NoError(t, s.Add(Key{intKey(3)}, rec("c", 3)))
	require.NoError(t, s.Add(Key{intKey(1)}, rec("a", 1)))
	require.NoError(t, s.Add(Key{intKey(2)}, rec("b", 2)))
	assert.False(t, s.Spilled())

	stream, err := s.Finish()
	require.NoError(t, err)
	defer stream.Close()
	assert.Equal(t, []string{"a", "b", "c"}, drainStream(t, stream))
}

func TestSorterReverse(t *testing.T) {
	s := NewSorter(true, 0, t.TempDir(), 0)
	require.NoError(t, s.Add(Key{intKey(1)}, rec("a", 1)))
	require.NoError(t, s.Add(Key{intKey(3)}, rec("c", 3)))
	require.NoError(t, s.Add(Key{intKey(2)}, rec("b", 2)))

	stream, err := s.Finish()
	require.NoError(t, err)
	defer stream.Close()
	assert.Equal(t, []string{"c", "b", "a"}, drainStream(t, stream))
}

func TestSorterSpillsAndMergesAcrossFiles(t *testing.T) {
	// A tiny max-mem forces a spill after nearly every Add.
	s := NewSorter(false, 1, t.TempDir(), 0)
	for i := 20; i >= 1; i-- {
		require.NoError(t, s.Add(Key{intKey(i)}, rec(string(rune('a'+i)), i)))
	}
	assert.True(t, s.Spilled())

	stream, err := s.Finish()
	require.NoError(t, err)
	defer stream.Close()

	var keys []int
	for {
		_, k, err := stream.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		keys = append(keys, int(k[0].Int))
	}
	require.Len(t, keys, 20)
	for i := 1; i < len(keys); i++ {
		assert.LessOrEqual(t, keys[i-1], keys[i])
	}
}

func TestSorterTempFileLimitExceeded(t *testing.T) {
	s := NewSorter(false, 1, t.TempDir(), 1)
	require.NoError(t, s.Add(Key{intKey(1)}, rec("a", 1)))
	require.NoError(t, s.Add(Key{intKey(2)}, rec("b", 2))) // forces first flush
	err := s.Add(Key{intKey(3)}, rec("c", 3))               // forces second flush, over the limit
	assert.Error(t, err)
}
