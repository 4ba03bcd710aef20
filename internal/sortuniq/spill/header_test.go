package spill

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileHeaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	h := FileHeader{NumBatches: 3}
	require.NoError(t, h.Write(&buf))
	got, err := ReadFileHeader(&buf)
	require.NoError(t, err)
	assert.Equal(t, h, *got)
}

func TestReadFileHeaderRejectsBadMagic(t *testing.T) {
	buf := bytes.NewBufferString("XXXX\x00\x00\x00\x00")
	_, err := ReadFileHeader(buf)
	assert.Error(t, err)
}

func TestBatchHeaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	h := BatchHeader{KeySize: 12, RecordSize: 340}
	require.NoError(t, h.Write(&buf))
	got, err := ReadBatchHeader(&buf)
	require.NoError(t, err)
	assert.Equal(t, h, *got)
}
