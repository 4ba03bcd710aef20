package ioutil

import (
	"io"

	"github.com/pierrec/lz4/v4"
)

// lz4ReadCloser adapts *lz4.Reader to io.ReadCloser; lz4.Reader has no
// Close of its own, so this is a no-op close around the underlying
// stream's own lifecycle (matching the teacher's pattern of layering a
// no-op Close where the inner codec doesn't own the file handle).
type lz4ReadCloser struct {
	r *lz4.Reader
}

func newLZ4Reader(r io.Reader) (io.ReadCloser, error) {
	return &lz4ReadCloser{r: lz4.NewReader(r)}, nil
}

func (l *lz4ReadCloser) Read(p []byte) (int, error) { return l.r.Read(p) }
func (l *lz4ReadCloser) Close() error                { return nil }

type lz4Writer struct {
	w *lz4.Writer
}

func newLZ4Writer(w io.Writer) (FlushCloser, error) {
	return &lz4Writer{w: lz4.NewWriter(w)}, nil
}

func (l *lz4Writer) Write(p []byte) (int, error) { return l.w.Write(p) }
func (l *lz4Writer) Flush() error                { return l.w.Flush() }
func (l *lz4Writer) Close() error                { return l.w.Close() }
