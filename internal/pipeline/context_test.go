package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqtoolkit/st/internal/meta"
	"github.com/seqtoolkit/st/internal/record"
	"github.com/seqtoolkit/st/internal/search"
	"github.com/seqtoolkit/st/internal/sequtil"
	"github.com/seqtoolkit/st/internal/vars"
)

func TestEvalContextSeqNumAndSeqIdx(t *testing.T) {
	ctx := NewEvalContext(record.DefaultAttrFormat, "fasta", sequtil.SeqTypeDNA, nil)
	r1 := &record.Record{ID: []byte("r1")}
	r2 := &record.Record{ID: []byte("r2")}

	ctx.Reset(r1, true)
	assert.Equal(t, int64(1), ctx.SeqNum(false))
	assert.Equal(t, int64(1), ctx.SeqIdx(false))

	ctx.Reset(r2, false)
	assert.Equal(t, int64(2), ctx.SeqNum(false))
	assert.Equal(t, int64(2), ctx.SeqIdx(false))

	// A new file resets the per-file counter but not the global one.
	ctx.Reset(r2, true)
	assert.Equal(t, int64(3), ctx.SeqNum(false))
	assert.Equal(t, int64(1), ctx.SeqIdx(false))
}

func TestEvalContextMatchLocals(t *testing.T) {
	ctx := NewEvalContext(record.DefaultAttrFormat, "fasta", sequtil.SeqTypeDNA, nil)
	rec := &record.Record{ID: []byte("r1"), Seq: []byte("AAGTCC")}
	ctx.Reset(rec, true)

	m := &search.Match{PatternIdx: 0, Start: 2, End: 5, Diffs: 1, Subst: 1}
	ctx.SetMatch(m, []byte("AGTC"), []string{"p0"})

	v, ok := ctx.Local(vars.HMatch, "")
	require.True(t, ok)
	assert.Equal(t, "AGTC", v.String())

	v, _ = ctx.Local(vars.HMatchRange, "")
	assert.Equal(t, "2:5", v.String())

	v, _ = ctx.Local(vars.HMatchDiffs, "")
	assert.Equal(t, int64(1), v.Int)

	v, _ = ctx.Local(vars.HPatternName, "")
	assert.Equal(t, "p0", v.String())

	v, _ = ctx.Local(vars.HMatchDiffRate, "")
	assert.InDelta(t, 0.25, v.Num(), 1e-9)

	v, _ = ctx.Local(vars.HMatchNegStart, "")
	assert.Equal(t, int64(len(rec.Seq)-m.End), v.Int)
}

func TestEvalContextLocalWithoutMatchIsUndefined(t *testing.T) {
	ctx := NewEvalContext(record.DefaultAttrFormat, "fasta", sequtil.SeqTypeDNA, nil)
	rec := &record.Record{ID: []byte("r1"), Seq: []byte("ACGT")}
	ctx.Reset(rec, true)

	v, ok := ctx.Local(vars.HMatchStart, "")
	assert.False(t, ok)
	assert.True(t, v.IsUndefined())
}

func TestEvalContextDedupLocals(t *testing.T) {
	ctx := NewEvalContext(record.DefaultAttrFormat, "fasta", sequtil.SeqTypeDNA, nil)
	rec := &record.Record{ID: []byte("r1"), Seq: []byte("ACGT")}
	ctx.Reset(rec, true)
	ctx.SetDedup("ACGT", 3, []string{"r1", "r2", "r3"})

	v, _ := ctx.Local(vars.HNDuplicates, "")
	assert.Equal(t, int64(3), v.Int)

	v, _ = ctx.Local(vars.HDuplicatesList, "")
	assert.Equal(t, "r1,r2,r3", v.String())

	v, _ = ctx.Local(vars.HKey, "")
	assert.Equal(t, "ACGT", v.String())
}

func TestEvalContextOptMetaByNameAndIndex(t *testing.T) {
	j, err := meta.NewIndexed(strings.NewReader("id,population\nr1,EUR\n"), meta.Config{Delim: ',', HasHeader: true})
	require.NoError(t, err)

	ctx := NewEvalContext(record.DefaultAttrFormat, "fasta", sequtil.SeqTypeDNA, j)
	rec := &record.Record{ID: []byte("r1")}
	ctx.Reset(rec, true)

	assert.True(t, ctx.HasMeta())

	v, ok := ctx.OptMeta("population")
	require.True(t, ok)
	assert.Equal(t, "EUR", v.String())

	v, ok = ctx.OptMeta("1")
	require.True(t, ok)
	assert.Equal(t, "r1", v.String())

	_, ok = ctx.OptMeta("nope")
	assert.False(t, ok)

	_, _, err = ctx.Meta("nope")
	assert.Error(t, err)
}
