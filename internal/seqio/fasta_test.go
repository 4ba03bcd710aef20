package seqio

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFASTAReaderSingleLine(t *testing.T) {
	input := ">r1 a description\nACGTACGT\n"
	r := NewFASTAReader(strings.NewReader(input), "in.fa")
	rec, err := r.Next()
	require.NoError(t, err)

	assert.Equal(t, "r1", string(rec.ID))
	assert.Equal(t, "a description", string(rec.Desc))
	assert.Equal(t, "ACGTACGT", string(rec.Seq))
	assert.Equal(t, 8, rec.LineWrap)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestFASTAReaderWrappedLines(t *testing.T) {
	input := ">r1\nACGT\nACGT\nAC\n"
	r := NewFASTAReader(strings.NewReader(input), "in.fa")
	rec, err := r.Next()
	require.NoError(t, err)

	assert.Equal(t, "ACGTACGTAC", string(rec.Seq))
	assert.Equal(t, 4, rec.LineWrap)
}

func TestFASTAReaderMultipleRecords(t *testing.T) {
	input := ">a\nAAAA\n>b\nCCCC\nCCCC\n>c\nGGGG\n"
	r := NewFASTAReader(strings.NewReader(input), "-")

	rec1, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "a", string(rec1.ID))
	assert.Equal(t, "AAAA", string(rec1.Seq))

	rec2, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "b", string(rec2.ID))
	assert.Equal(t, "CCCCCCCC", string(rec2.Seq))

	rec3, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "c", string(rec3.ID))
	assert.Equal(t, "GGGG", string(rec3.Seq))

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestFASTAReaderNoTrailingNewline(t *testing.T) {
	input := ">a\nAAAA"
	r := NewFASTAReader(strings.NewReader(input), "-")
	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "AAAA", string(rec.Seq))
}

func TestFASTAReaderEmptyRecord(t *testing.T) {
	input := ">a\n>b\nAAAA\n"
	r := NewFASTAReader(strings.NewReader(input), "-")
	rec1, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "a", string(rec1.ID))
	assert.Nil(t, rec1.Seq)

	rec2, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "b", string(rec2.ID))
}

func TestFASTAReaderInvalidHeader(t *testing.T) {
	input := "not-a-header\nACGT\n"
	r := NewFASTAReader(strings.NewReader(input), "-")
	_, err := r.Next()
	require.Error(t, err)
}

func TestJoinSegments(t *testing.T) {
	assert.Nil(t, joinSegments(nil))
	assert.Equal(t, []byte("ACGT"), joinSegments([][]byte{[]byte("ACGT")}))
	assert.Equal(t, []byte("ACGTAC"), joinSegments([][]byte{[]byte("ACGT"), []byte("AC")}))
}
