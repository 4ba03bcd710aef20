package pipeline

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqtoolkit/st/internal/record"
	"github.com/seqtoolkit/st/internal/seqio"
	"github.com/seqtoolkit/st/internal/sequtil"
)

// sliceReader replays a fixed slice of records, then io.EOF.
type sliceReader struct {
	recs []*record.Record
	i    int
}

func (f *sliceReader) Next() (*record.Record, error) {
	if f.i >= len(f.recs) {
		return nil, io.EOF
	}
	r := f.recs[f.i]
	f.i++
	return r, nil
}

var errBoom = errors.New("boom")

// skipEvenCmd skips every record whose ID ends in an even digit, diverts
// "divert-me", and fails recoverably on "bad" — exercising every Action
// plus the recoverable-error path in one command.
type skipEvenCmd struct{}

func (skipEvenCmd) Process(ctx *EvalContext, rec *record.Record) (Action, error) {
	id := string(rec.ID)
	switch id {
	case "bad":
		return ActionSkip, &RecoverableError{Err: errBoom}
	case "divert-me":
		return ActionDivert, nil
	}
	if len(id) > 0 && (id[len(id)-1]-'0')%2 == 0 {
		return ActionSkip, nil
	}
	return ActionKeep, nil
}

func TestDriverCountsAndOutput(t *testing.T) {
	recs := []*record.Record{
		{ID: []byte("r1"), Seq: []byte("ACGT")},
		{ID: []byte("r2"), Seq: []byte("ACGT")},
		{ID: []byte("divert-me"), Seq: []byte("ACGT")},
		{ID: []byte("bad"), Seq: []byte("ACGT")},
		{ID: []byte("r3"), Seq: []byte("ACGT")},
	}
	reader := &sliceReader{recs: recs}

	var out, diverted bytes.Buffer
	w := seqio.NewWriter(&out, record.FormatFASTA, 0, 0, seqio.DelimFields{})
	dw := seqio.NewWriter(&diverted, record.FormatFASTA, 0, 0, seqio.DelimFields{})

	ctx := NewEvalContext(record.DefaultAttrFormat, "fasta", sequtil.SeqTypeDNA, nil)
	report := NewReport()

	var reported []error
	d := &Driver{
		Reader:  reader,
		Writer:  w,
		Divert:  dw,
		Ctx:     ctx,
		Cmd:     skipEvenCmd{},
		Report:  report,
		OnError: func(err error) { reported = append(reported, err) },
	}

	require.NoError(t, d.Run())

	assert.Equal(t, int64(5), report.Processed)
	assert.Equal(t, int64(2), report.Kept) // r1, r3
	assert.Equal(t, int64(1), report.Skipped)
	assert.Equal(t, int64(1), report.Diverted)
	assert.Equal(t, int64(1), report.Errors)
	require.Len(t, reported, 1)

	assert.Contains(t, out.String(), ">r1")
	assert.Contains(t, out.String(), ">r3")
	assert.NotContains(t, out.String(), ">r2")
	assert.Contains(t, diverted.String(), ">divert-me")
}

// failingCmd always returns a non-recoverable error, which must abort the
// run immediately and leave later records unprocessed.
type failingCmd struct{}

func (failingCmd) Process(ctx *EvalContext, rec *record.Record) (Action, error) {
	return ActionSkip, errBoom
}

func TestDriverAbortsOnFatalError(t *testing.T) {
	recs := []*record.Record{
		{ID: []byte("r1"), Seq: []byte("ACGT")},
		{ID: []byte("r2"), Seq: []byte("ACGT")},
	}
	reader := &sliceReader{recs: recs}
	var out bytes.Buffer
	w := seqio.NewWriter(&out, record.FormatFASTA, 0, 0, seqio.DelimFields{})
	ctx := NewEvalContext(record.DefaultAttrFormat, "fasta", sequtil.SeqTypeDNA, nil)

	d := &Driver{Reader: reader, Writer: w, Ctx: ctx, Cmd: failingCmd{}, Report: NewReport()}
	err := d.Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 1, reader.i) // aborted after the first record
}
