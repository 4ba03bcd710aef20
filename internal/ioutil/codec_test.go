package ioutil

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecFromExtension(t *testing.T) {
	assert.Equal(t, CodecGzip, CodecFromExtension("reads.fasta.gz"))
	assert.Equal(t, CodecBzip2, CodecFromExtension("reads.fq.bz2"))
	assert.Equal(t, CodecLZ4, CodecFromExtension("reads.fq.lz4"))
	assert.Equal(t, CodecZstd, CodecFromExtension("reads.fq.zst"))
	assert.Equal(t, CodecNone, CodecFromExtension("reads.fasta"))
}

func TestStripExtension(t *testing.T) {
	assert.Equal(t, "reads.fasta", StripExtension("reads.fasta.gz", CodecGzip))
	assert.Equal(t, "reads.fq", StripExtension("reads.fq.zst", CodecZstd))
}

func roundTrip(t *testing.T, codec Codec, payload []byte) {
	t.Helper()
	dir := t.TempDir()
	ext := map[Codec]string{CodecGzip: ".gz", CodecBzip2: ".bz2", CodecLZ4: ".lz4", CodecZstd: ".zst"}[codec]
	path := filepath.Join(dir, "out"+ext)

	wc, err := Create(path, CreateOptions{Codec: codec})
	require.NoError(t, err)
	_, err = wc.Write(payload)
	require.NoError(t, err)
	require.NoError(t, wc.Close())

	rc, err := Open(path, OpenOptions{})
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(payload, got), "decode(encode(X)) must equal X byte-for-byte")
}

func TestCompressionTransparencyGzip(t *testing.T) {
	roundTrip(t, CodecGzip, []byte(">r1\nACGTACGT\n"))
}

func TestCompressionTransparencyBzip2(t *testing.T) {
	roundTrip(t, CodecBzip2, []byte(">r1\nACGTACGT\n"))
}

func TestCompressionTransparencyLZ4(t *testing.T) {
	roundTrip(t, CodecLZ4, []byte(">r1\nACGTACGT\n"))
}

func TestCompressionTransparencyZstd(t *testing.T) {
	roundTrip(t, CodecZstd, []byte(">r1\nACGTACGT\n"))
}

func TestCompressionTransparencyLargePayload(t *testing.T) {
	// spec.md §8: "for all four codecs and all record sizes including >
	// 1 MiB."
	payload := bytes.Repeat([]byte("ACGTACGTAC\n"), 200000) // > 1 MiB
	for _, codec := range []Codec{CodecGzip, CodecBzip2, CodecLZ4, CodecZstd} {
		roundTrip(t, codec, payload)
	}
}

func TestMultiMemberGzipDecodesAsOneStream(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "multi.fasta.gz")

	f, err := os.Create(path)
	require.NoError(t, err)
	for _, part := range [][]byte{[]byte(">a\nAAAA\n"), []byte(">b\nCCCC\n")} {
		wc, err := Create(path, CreateOptions{Codec: CodecGzip, Append: true})
		require.NoError(t, err)
		_, err = wc.Write(part)
		require.NoError(t, err)
		require.NoError(t, wc.Close())
	}
	require.NoError(t, f.Close())

	rc, err := Open(path, OpenOptions{})
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, ">a\nAAAA\n>b\nCCCC\n", string(got))
}

func TestMultiMemberBzip2DecodesAsOneStream(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "multi.fasta.bz2")

	for _, part := range [][]byte{[]byte(">a\nAAAA\n"), []byte(">b\nCCCC\n")} {
		wc, err := Create(path, CreateOptions{Codec: CodecBzip2, Append: true})
		require.NoError(t, err)
		_, err = wc.Write(part)
		require.NoError(t, err)
		require.NoError(t, wc.Close())
	}

	rc, err := Open(path, OpenOptions{})
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, ">a\nAAAA\n>b\nCCCC\n", string(got))
}

func TestSniffCodecFromMagic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "noext")

	wc, err := Create(path, CreateOptions{Codec: CodecZstd})
	require.NoError(t, err)
	_, err = wc.Write([]byte(">r\nACGT\n"))
	require.NoError(t, err)
	require.NoError(t, wc.Close())

	rc, err := Open(path, OpenOptions{})
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, ">r\nACGT\n", string(got))
}
