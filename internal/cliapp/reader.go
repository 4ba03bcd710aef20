package cliapp

import (
	"fmt"
	"io"

	"github.com/seqtoolkit/st/internal/ioutil"
	"github.com/seqtoolkit/st/internal/record"
	"github.com/seqtoolkit/st/internal/seqio"
)

// FormatSpec is the fully-resolved input format for one invocation:
// which seqio reader constructor to use, and (for delimited text) the
// field mapping and delimiter byte.
type FormatSpec struct {
	Format ioutil.SeqFormat
	Fields seqio.DelimFields
}

// newReaderFor builds the seqio.Reader for one already-opened,
// already-decompressed stream, tagging every record it yields with path
// (spec.md §3's Path/SeqNum bookkeeping).
func newReaderFor(r io.Reader, path string, spec FormatSpec) seqio.Reader {
	switch spec.Format {
	case ioutil.SeqFormatFASTA:
		return seqio.NewFASTAReader(r, path)
	case ioutil.SeqFormatFASTQ:
		return seqio.NewFASTQReader(r, path)
	default:
		fields := spec.Fields
		if fields == (seqio.DelimFields{}) {
			fields = seqio.DefaultDelimFields
		}
		return seqio.NewDelimReader(r, path, spec.Format.Delimiter(), fields)
	}
}

// multiReader chains several seqio.Readers so a Driver sees one
// continuous stream across multiple input files, in the order given —
// spec.md §6: "<tool> <subcommand> [options] [files...]."
type multiReader struct {
	paths   []string
	spec    FormatSpec
	closers []io.Closer
	idx     int
	cur     seqio.Reader
}

// OpenInputs opens every path in paths (or stdin alone if paths is
// empty), resolving each path's own format independently only when spec
// doesn't pin one globally — here spec is shared across all files, which
// is what every pack CLI in the corpus assumes for a single invocation.
func OpenInputs(paths []string, spec FormatSpec) (seqio.Reader, func() error, error) {
	if len(paths) == 0 {
		paths = []string{"-"}
	}
	mr := &multiReader{paths: paths, spec: spec}
	if err := mr.advance(); err != nil {
		return nil, mr.Close, err
	}
	return mr, mr.Close, nil
}

func (m *multiReader) advance() error {
	for {
		if m.idx >= len(m.paths) {
			m.cur = nil
			return nil
		}
		path := m.paths[m.idx]
		m.idx++
		rc, err := ioutil.Open(path, ioutil.OpenOptions{})
		if err != nil {
			return fmt.Errorf("opening %q: %w", path, err)
		}
		m.closers = append(m.closers, rc)
		m.cur = newReaderFor(rc, displayPath(path), m.spec)
		return nil
	}
}

func displayPath(path string) string {
	if path == "" {
		return "-"
	}
	return path
}

func (m *multiReader) Next() (*record.Record, error) {
	for {
		if m.cur == nil {
			return nil, io.EOF
		}
		rec, err := m.cur.Next()
		if err == io.EOF {
			if err := m.advance(); err != nil {
				return nil, err
			}
			continue
		}
		return rec, err
	}
}

func (m *multiReader) Close() error {
	var firstErr error
	for _, c := range m.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
