package vars

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqtoolkit/st/internal/record"
	"github.com/seqtoolkit/st/internal/sequtil"
)

var errMetaColMissing = errors.New("metadata column missing")

// fakeContext is a minimal in-test implementation of Context.
type fakeContext struct {
	rec        *record.Record
	af         record.AttrFormat
	path       string
	defaultExt string
	seqNum     int64
	seqIdx     int64
	metaCols   map[string]Value
	local      map[HandleKind]Value
}

func newFakeContext(rec *record.Record) *fakeContext {
	return &fakeContext{
		rec:      rec,
		af:       record.DefaultAttrFormat,
		path:     "/tmp/reads.fasta",
		metaCols: map[string]Value{},
		local:    map[HandleKind]Value{},
	}
}

func (f *fakeContext) Rec() *record.Record             { return f.rec }
func (f *fakeContext) AttrFormat() record.AttrFormat    { return f.af }
func (f *fakeContext) Path() string                     { return f.path }
func (f *fakeContext) DefaultExt() string               { return f.defaultExt }
func (f *fakeContext) SeqType() sequtil.SeqType          { return sequtil.SeqTypeDNA }
func (f *fakeContext) SeqNum(reset bool) int64           { return f.seqNum }
func (f *fakeContext) SeqIdx(reset bool) int64           { return f.seqIdx }
func (f *fakeContext) HasMeta() bool                     { return len(f.metaCols) > 0 }
func (f *fakeContext) Meta(col string) (Value, bool, error) {
	v, ok := f.metaCols[col]
	if !ok {
		return Undefined, false, errMetaColMissing
	}
	return v, true, nil
}
func (f *fakeContext) OptMeta(col string) (Value, bool) {
	v, ok := f.metaCols[col]
	return v, ok
}
func (f *fakeContext) Local(kind HandleKind, arg string) (Value, bool) {
	v, ok := f.local[kind]
	return v, ok
}

func TestResolveUnknownVariable(t *testing.T) {
	_, err := Resolve("not_a_var", nil)
	require.Error(t, err)
}

func TestResolveArityChecks(t *testing.T) {
	_, err := Resolve("attr", nil)
	require.Error(t, err)
	_, err = Resolve("bin", []string{"gc_percent"})
	require.Error(t, err)
	h, err := Resolve("bin", []string{"gc_percent", "10"})
	require.NoError(t, err)
	assert.Equal(t, HBin, h.Kind)
}

func TestGetBasicRecordVariables(t *testing.T) {
	rec := &record.Record{ID: []byte("r1"), Desc: []byte("d"), Seq: []byte("ACGTacgt")}
	ctx := newFakeContext(rec)

	idH, _ := Resolve("id", nil)
	assert.Equal(t, "r1", Get(idH, ctx).String())

	seqlenH, _ := Resolve("seqlen", nil)
	assert.Equal(t, int64(8), Get(seqlenH, ctx).Int)

	upperH, _ := Resolve("upper_seq", nil)
	assert.Equal(t, "ACGTACGT", Get(upperH, ctx).String())
}

func TestGetGCPercent(t *testing.T) {
	rec := &record.Record{ID: []byte("r1"), Seq: []byte("ACGT")}
	ctx := newFakeContext(rec)
	h, _ := Resolve("gc_percent", nil)
	assert.InDelta(t, 50.0, Get(h, ctx).Num(), 1e-9)
}

func TestGetAttrPresentAndMissing(t *testing.T) {
	rec := &record.Record{ID: []byte("r1"), Desc: []byte("desc len=10 gc=55")}
	ctx := newFakeContext(rec)

	h, _ := Resolve("attr", []string{"len"})
	assert.Equal(t, "10", Get(h, ctx).String())

	h2, _ := Resolve("attr", []string{"nope"})
	assert.True(t, Get(h2, ctx).IsUndefined())

	h3, _ := Resolve("has_attr", []string{"len"})
	assert.Equal(t, int64(1), Get(h3, ctx).Int)
}

func TestGetAttrDelRemovesAndReturnsOldValue(t *testing.T) {
	rec := &record.Record{ID: []byte("r1"), Desc: []byte("desc len=10 gc=55")}
	ctx := newFakeContext(rec)

	h, _ := Resolve("attr_del", []string{"len"})
	assert.Equal(t, "10", Get(h, ctx).String())
	assert.Equal(t, "desc gc=55", string(rec.Desc))

	h2, _ := Resolve("opt_attr_del", []string{"len"})
	assert.True(t, Get(h2, ctx).IsUndefined())
}

func TestGetMetaPresentAndMissing(t *testing.T) {
	rec := &record.Record{ID: []byte("r1"), Seq: []byte("ACGT")}
	ctx := newFakeContext(rec)
	ctx.metaCols["population"] = NewText([]byte("EUR"))

	h, _ := Resolve("opt_meta", []string{"population"})
	assert.Equal(t, "EUR", Get(h, ctx).String())

	h2, _ := Resolve("opt_meta", []string{"missing"})
	assert.True(t, Get(h2, ctx).IsUndefined())
}

func TestGetLocalMatchSlot(t *testing.T) {
	rec := &record.Record{ID: []byte("r1"), Seq: []byte("ACGT")}
	ctx := newFakeContext(rec)
	ctx.local[HMatchDiffs] = NewInt(1)

	h, _ := Resolve("match_diffs", nil)
	assert.Equal(t, int64(1), Get(h, ctx).Int)
}

func TestGetSeqHashMinStrandAgnostic(t *testing.T) {
	rec := &record.Record{ID: []byte("r1"), Seq: []byte("ACGTACGT")}
	ctx := newFakeContext(rec)
	ctx2 := newFakeContext(&record.Record{ID: []byte("r2"), Seq: sequtil.RevComp(rec.Seq, sequtil.SeqTypeDNA)})

	h, _ := Resolve("seqhash_min", nil)
	assert.Equal(t, Get(h, ctx).Int, Get(h, ctx2).Int)
}
