package cliapp

import (
	"github.com/seqtoolkit/st/internal/ioutil"
	"github.com/seqtoolkit/st/internal/record"
	"github.com/seqtoolkit/st/internal/seqio"
)

// seqFormatToRecordFormat maps the C1 extension-sniffed format to the
// C2 record.Format the writer needs; delimited text is delimited text
// regardless of comma/tab, the distinction only matters for the reader's
// column split and the writer's join byte.
func seqFormatToRecordFormat(f ioutil.SeqFormat) record.Format {
	switch f {
	case ioutil.SeqFormatFASTA:
		return record.FormatFASTA
	case ioutil.SeqFormatFASTQ:
		return record.FormatFASTQ
	default:
		return record.FormatDelim
	}
}

// OutputSpec bundles everything OpenOutput needs to build a seqio.Writer
// on top of a C1 WriteCloser.
type OutputSpec struct {
	Path   string
	Append bool
	Format ioutil.SeqFormat
	Fields seqio.DelimFields
	Wrap   int
}

// OpenOutput creates the underlying file (or stdout) via C1, wraps it in
// a seqio.Writer for spec.Format, and returns both so the caller can
// Close the WriteCloser (which finalizes any compression codec) once the
// Driver finishes.
func OpenOutput(spec OutputSpec) (*ioutil.WriteCloser, *seqio.Writer, error) {
	wc, err := ioutil.Create(spec.Path, ioutil.CreateOptions{Append: spec.Append})
	if err != nil {
		return nil, nil, err
	}
	fields := spec.Fields
	if fields == (seqio.DelimFields{}) {
		fields = seqio.DefaultDelimFields
	}
	w := seqio.NewWriter(wc, seqFormatToRecordFormat(spec.Format), spec.Wrap, spec.Format.Delimiter(), fields)
	return wc, w, nil
}
