package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitHeader(t *testing.T) {
	id, desc := SplitHeader([]byte("r1 some description"))
	assert.Equal(t, "r1", string(id))
	assert.Equal(t, "some description", string(desc))
}

func TestSplitHeaderNoDescription(t *testing.T) {
	id, desc := SplitHeader([]byte("r1"))
	assert.Equal(t, "r1", string(id))
	assert.Nil(t, desc)
}

func TestHeaderRoundTrip(t *testing.T) {
	r := &Record{ID: []byte("r1"), Desc: []byte("desc here")}
	assert.Equal(t, "r1 desc here", string(r.Header()))
}

func TestHeaderNoDescription(t *testing.T) {
	r := &Record{ID: []byte("r1")}
	assert.Equal(t, "r1", string(r.Header()))
}

func TestOwnCopiesBytes(t *testing.T) {
	buf := []byte("ACGT")
	r := &Record{ID: []byte("r1"), Seq: buf}
	owned := r.Own()
	buf[0] = 'N'
	assert.Equal(t, "ACGT", string(owned.Seq))
	assert.Equal(t, "NCGT", string(r.Seq))
}

func TestHasQual(t *testing.T) {
	r := &Record{Qual: []byte("!!!!")}
	assert.True(t, r.HasQual())
	r2 := &Record{}
	assert.False(t, r2.HasQual())
}
