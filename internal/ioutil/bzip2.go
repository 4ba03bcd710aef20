package ioutil

import (
	"bufio"
	"compress/bzip2"
	"io"

	dbzip2 "github.com/dsnet/compress/bzip2"
)

// multiBzip2Reader loops over concatenated bzip2 members. The standard
// library's bzip2.Reader (unlike gzip.Reader) stops at the first member's
// end and does not auto-resume, so spec.md §8's multi-member transparency
// requirement needs an explicit loop here.
type multiBzip2Reader struct {
	br  *bufio.Reader
	cur io.Reader
}

func newBzip2Reader(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	return &multiBzip2Reader{br: br, cur: bzip2.NewReader(br)}, nil
}

func (m *multiBzip2Reader) Read(p []byte) (int, error) {
	for {
		n, err := m.cur.Read(p)
		if n > 0 {
			return n, nil
		}
		if err == io.EOF {
			if _, peekErr := m.br.Peek(1); peekErr != nil {
				return 0, io.EOF
			}
			m.cur = bzip2.NewReader(m.br)
			continue
		}
		return n, err
	}
}

func (m *multiBzip2Reader) Close() error { return nil }

// bzip2Writer wraps dsnet/compress/bzip2's encoder (the standard library
// has no bzip2 writer at all, see SPEC_FULL.md's DOMAIN STACK table).
type bzip2Writer struct {
	w *dbzip2.Writer
}

func newBzip2Writer(w io.Writer) (FlushCloser, error) {
	bw, err := dbzip2.NewWriter(w, nil)
	if err != nil {
		return nil, err
	}
	return &bzip2Writer{w: bw}, nil
}

func (b *bzip2Writer) Write(p []byte) (int, error) { return b.w.Write(p) }
func (b *bzip2Writer) Flush() error                { return nil }
func (b *bzip2Writer) Close() error                { return b.w.Close() }
