package meta

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynchronizedInOrder(t *testing.T) {
	data := "r1\tEUR\tpop1\nr2\tASN\tpop2\nr3\tAFR\tpop3\n"
	j, err := NewSynchronized(strings.NewReader(data), Config{Delim: '\t'})
	require.NoError(t, err)

	row, ok, err := j.Lookup("r1")
	require.NoError(t, err)
	require.True(t, ok)
	v, _ := row.Get(2)
	assert.Equal(t, "EUR", v)
	assert.Equal(t, "synchronized", j.Mode())

	row, ok, err = j.Lookup("r2")
	require.NoError(t, err)
	require.True(t, ok)
	v, _ = row.Get(2)
	assert.Equal(t, "ASN", v)
}

func TestSynchronizedFallsBackOnMismatch(t *testing.T) {
	// metadata row order diverges from lookup order at the second call.
	data := "r1\tEUR\nrX\tASN\nr2\tAFR\n"
	j, err := NewSynchronized(strings.NewReader(data), Config{Delim: '\t'})
	require.NoError(t, err)

	_, ok, err := j.Lookup("r1")
	require.NoError(t, err)
	require.True(t, ok)

	row, ok, err := j.Lookup("r2")
	require.NoError(t, err)
	require.True(t, ok)
	v, _ := row.Get(2)
	assert.Equal(t, "AFR", v)
	assert.Equal(t, "indexed", j.Mode())
}

func TestSynchronizedMissingID(t *testing.T) {
	data := "r1\tEUR\n"
	j, err := NewSynchronized(strings.NewReader(data), Config{Delim: '\t'})
	require.NoError(t, err)

	_, ok, err := j.Lookup("r1")
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = j.Lookup("nonexistent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIndexedMode(t *testing.T) {
	data := "id\tpop\nr1\tEUR\nr2\tASN\n"
	j, err := NewIndexed(strings.NewReader(data), Config{Delim: '\t', HasHeader: true})
	require.NoError(t, err)
	assert.Equal(t, "indexed", j.Mode())

	row, ok, err := j.Lookup("r2")
	require.NoError(t, err)
	require.True(t, ok)
	v, _ := row.Get(2)
	assert.Equal(t, "ASN", v)
}

func TestIndexedDuplicateIDsError(t *testing.T) {
	data := "r1\tEUR\nr1\tASN\n"
	_, err := NewIndexed(strings.NewReader(data), Config{Delim: '\t'})
	require.Error(t, err)
}

func TestIndexedDuplicateIDsAllowedWithFlag(t *testing.T) {
	data := "r1\tEUR\nr1\tASN\n"
	j, err := NewIndexed(strings.NewReader(data), Config{Delim: '\t', DupIDs: true})
	require.NoError(t, err)
	row, ok, err := j.Lookup("r1")
	require.NoError(t, err)
	require.True(t, ok)
	v, _ := row.Get(2)
	// last write wins in this simple map index.
	assert.Equal(t, "ASN", v)
}

func TestHeaderNameColumn(t *testing.T) {
	data := "sample_id\tpopulation\nr1\tEUR\n"
	j, err := NewIndexed(strings.NewReader(data), Config{Delim: '\t', HasHeader: true, HeaderIDCol: "sample_id"})
	require.NoError(t, err)
	_, ok, err := j.Lookup("r1")
	require.NoError(t, err)
	assert.True(t, ok)
}
