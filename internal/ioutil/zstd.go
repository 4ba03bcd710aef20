package ioutil

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// zstdReadCloser adapts *zstd.Decoder (whose Close takes no error-check
// contract of its own) to io.ReadCloser. zstd.Decoder already decodes
// concatenated frames transparently.
type zstdReadCloser struct {
	d *zstd.Decoder
}

func newZstdReader(r io.Reader) (io.ReadCloser, error) {
	d, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return &zstdReadCloser{d: d}, nil
}

func (z *zstdReadCloser) Read(p []byte) (int, error) { return z.d.Read(p) }
func (z *zstdReadCloser) Close() error                { z.d.Close(); return nil }

// zstdWriter adapts *zstd.Encoder to FlushCloser. Directly the teacher's
// dependency (internal/compress/compress.go uses zstd.NewWriter for
// per-block FASTQ compression); here it backs general-purpose stream
// compression instead.
type zstdWriter struct {
	e *zstd.Encoder
}

func newZstdWriter(w io.Writer) (FlushCloser, error) {
	e, err := zstd.NewWriter(w)
	if err != nil {
		return nil, err
	}
	return &zstdWriter{e: e}, nil
}

func (z *zstdWriter) Write(p []byte) (int, error) { return z.e.Write(p) }
func (z *zstdWriter) Flush() error                { return z.e.Flush() }
func (z *zstdWriter) Close() error                { return z.e.Close() }
