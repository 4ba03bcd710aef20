package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAttrsBasic(t *testing.T) {
	seg := []byte("description length=10 gc=55.2")
	attrs := ParseAttrs(seg, DefaultAttrFormat)
	require.Len(t, attrs, 2)
	assert.Equal(t, "length", attrs[0].Key)
	assert.Equal(t, "10", attrs[0].Value)
	assert.Equal(t, "gc", attrs[1].Key)
	assert.Equal(t, "55.2", attrs[1].Value)
}

func TestGetReturnsFirstOccurrence(t *testing.T) {
	seg := []byte("x=1 x=2")
	v, err := Get(seg, DefaultAttrFormat, "x")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestGetMissing(t *testing.T) {
	_, err := Get([]byte("a=1"), DefaultAttrFormat, "b")
	assert.ErrorIs(t, err, ErrAttrNotFound)
}

func TestSetReplacesRightmost(t *testing.T) {
	seg := []byte("desc len=5 len=10")
	out := Set(seg, DefaultAttrFormat, "len", "99")
	v, err := Get(out, DefaultAttrFormat, "len")
	require.NoError(t, err)
	assert.Equal(t, "5", v, "lookups return the first occurrence")
	assert.Equal(t, "desc len=5 len=99", string(out))
}

func TestSetAppendsWhenAbsent(t *testing.T) {
	out := Set([]byte("desc"), DefaultAttrFormat, "len", "5")
	assert.Equal(t, "desc len=5", string(out))
}

func TestSetIdempotent(t *testing.T) {
	// spec.md §8: "Attribute idempotence: setting an attribute twice with
	// the same value leaves the header byte-identical to setting it once."
	once := Set([]byte("desc"), DefaultAttrFormat, "len", "5")
	twice := Set(once, DefaultAttrFormat, "len", "5")
	assert.Equal(t, string(once), string(twice))
}

func TestAppendAlwaysAppendsDuplicates(t *testing.T) {
	out := Append([]byte("desc"), DefaultAttrFormat, "x", "1")
	out = Append(out, DefaultAttrFormat, "x", "2")
	assert.Equal(t, "desc x=1 x=2", string(out))
	v, err := Get(out, DefaultAttrFormat, "x")
	require.NoError(t, err)
	assert.Equal(t, "1", v, "lookups return the first occurrence")
}

func TestDeletePreservesSurroundingSeparators(t *testing.T) {
	out := Delete([]byte("desc a=1 b=2 c=3"), DefaultAttrFormat, "b")
	assert.Equal(t, "desc a=1 c=3", string(out))
}

func TestDeleteMissingIsNoop(t *testing.T) {
	out := Delete([]byte("desc a=1"), DefaultAttrFormat, "z")
	assert.Equal(t, "desc a=1", string(out))
}

func TestAttrFormatInDescription(t *testing.T) {
	assert.True(t, DefaultAttrFormat.InDescription())
	assert.False(t, AttrFormat{Prefix: "/", Sep: "="}.InDescription())
}

func TestParseAttrsWithCustomFormat(t *testing.T) {
	f := AttrFormat{Prefix: "/", Sep: ":"}
	seg := []byte("id/len:10/gc:55")
	attrs := ParseAttrs(seg, f)
	require.Len(t, attrs, 2)
	assert.Equal(t, "len", attrs[0].Key)
	assert.Equal(t, "10", attrs[0].Value)
}
