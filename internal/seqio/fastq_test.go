package seqio

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqtoolkit/st/internal/record"
)

func TestFASTQReaderBasic(t *testing.T) {
	input := "@r1 description\nACGTACGT\n+\nIIIIIIII\n"
	r := NewFASTQReader(strings.NewReader(input), "in.fq")
	rec, err := r.Next()
	require.NoError(t, err)

	assert.Equal(t, "r1", string(rec.ID))
	assert.Equal(t, "description", string(rec.Desc))
	assert.Equal(t, "ACGTACGT", string(rec.Seq))
	assert.Equal(t, "IIIIIIII", string(rec.Qual))

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestFASTQReaderLengthMismatch(t *testing.T) {
	input := "@r1\nACGT\n+\nII\n"
	r := NewFASTQReader(strings.NewReader(input), "in.fq")
	_, err := r.Next()
	require.Error(t, err)
}

func TestFASTQRoundTrip(t *testing.T) {
	// spec.md §8 end-to-end scenario 1.
	input := "@r1\nACGT\n+\n!!!!\n"
	r := NewFASTQReader(strings.NewReader(input), "-")
	rec, err := r.Next()
	require.NoError(t, err)

	var buf bytes.Buffer
	w := NewWriter(&buf, record.FormatFASTA, 0, '\t', DefaultDelimFields)
	require.NoError(t, w.WriteRecord(rec))
	assert.Equal(t, ">r1\nACGT\n", buf.String())
}

func TestFASTQMultipleRecords(t *testing.T) {
	input := "@a\nAAAA\n+\n!!!!\n@b\nCCCC\n+\n####\n"
	r := NewFASTQReader(strings.NewReader(input), "-")

	rec1, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "a", string(rec1.ID))

	rec2, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "b", string(rec2.ID))

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}
