package ioutil

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackgroundReaderReadsAllData(t *testing.T) {
	payload := strings.Repeat("ACGTACGTAC\n", 10000)
	br := NewBackgroundReader(strings.NewReader(payload), 4096, 2)
	defer br.Close()

	got, err := io.ReadAll(br)
	require.NoError(t, err)
	assert.Equal(t, payload, string(got))
}

func TestBackgroundWriterWritesAllData(t *testing.T) {
	var buf bytes.Buffer
	bw := NewBackgroundWriter(&buf, 2)

	for i := 0; i < 100; i++ {
		_, err := bw.Write([]byte("ACGT\n"))
		require.NoError(t, err)
	}
	require.NoError(t, bw.Close())

	assert.Equal(t, strings.Repeat("ACGT\n", 100), buf.String())
}
