package ioutil

import (
	"io"

	pgzip "github.com/klauspost/pgzip"
)

// newGzipReader returns a gzip reader. pgzip.Reader, like the stdlib
// compress/gzip it mirrors, has multistream decoding enabled by default,
// satisfying spec.md §8's "decoding a gzip stream produced by
// concatenating K independently-compressed streams yields the
// concatenation of the K plaintexts."
func newGzipReader(r io.Reader) (io.ReadCloser, error) {
	return pgzip.NewReader(r)
}

// gzipWriter adapts pgzip.Writer to FlushCloser. pgzip buffers internally
// across goroutines; Flush blocks until all outstanding blocks have been
// written, and Close additionally emits the gzip footer — the two must
// both run on every exit path (spec.md §4.1, §9 "Append mode &
// multi-member compressed files").
type gzipWriter struct {
	w *pgzip.Writer
}

func newGzipWriter(w io.Writer) (FlushCloser, error) {
	gw := pgzip.NewWriter(w)
	return &gzipWriter{w: gw}, nil
}

func (g *gzipWriter) Write(p []byte) (int, error) { return g.w.Write(p) }
func (g *gzipWriter) Flush() error                { return g.w.Flush() }
func (g *gzipWriter) Close() error                { return g.w.Close() }
