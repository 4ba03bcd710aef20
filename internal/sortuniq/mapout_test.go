package sortuniq

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqtoolkit/st/internal/record"
	"github.com/seqtoolkit/st/internal/vars"
)

func sampleResult() Result {
	return Result{
		Rec:            &record.Record{ID: []byte("r1")},
		Key:            Key{vars.NewText([]byte("ACG"))},
		DuplicateCount: 3,
		DuplicateIDs:   []string{"r1", "r2", "r3"},
	}
}

func TestParseMapFormatKnownValues(t *testing.T) {
	for _, s := range []string{"long", "long-star", "wide", "wide-comma", "wide-key"} {
		_, err := ParseMapFormat(s)
		assert.NoError(t, err)
	}
	_, err := ParseMapFormat("bogus")
	assert.Error(t, err)
}

func TestMapWriterLong(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewMapWriter(&buf, MapLong).Write(sampleResult()))
	assert.Equal(t, "r1\tr1\nr2\tr1\nr3\tr1\n", buf.String())
}

func TestMapWriterLongStar(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewMapWriter(&buf, MapLongStar).Write(sampleResult()))
	assert.Equal(t, "r1\t*\nr2\tr1\nr3\tr1\n", buf.String())
}

func TestMapWriterWide(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewMapWriter(&buf, MapWide).Write(sampleResult()))
	assert.Equal(t, "r1\tr2\tr3\n", buf.String())
}

func TestMapWriterWideComma(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewMapWriter(&buf, MapWideComma).Write(sampleResult()))
	assert.Equal(t, "r1\tr1,r2,r3\n", buf.String())
}

func TestMapWriterWideKey(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewMapWriter(&buf, MapWideKey).Write(sampleResult()))
	assert.Equal(t, "ACG\tr1\tr2\tr3\n", buf.String())
}
