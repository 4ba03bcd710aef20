package seqio

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/seqtoolkit/st/internal/record"
)

// DelimFields maps delimited-text columns (1-based) to record fields.
// Zero means "not present". spec.md §3: "For delimited text, fields are
// mapped to id/desc/seq/qual by a configurable field list."
type DelimFields struct {
	ID, Desc, Seq, Qual int
}

// DefaultDelimFields assumes id, seq, qual in columns 1, 2, 3 with no
// description column — the common two/three-column layout.
var DefaultDelimFields = DelimFields{ID: 1, Seq: 2, Qual: 3}

// DelimReader reads delimited text records. spec.md §6: "no quoting
// applied or recognized — the user is responsible for delimiter-free
// fields," so this is a plain byte split, not encoding/csv (whose quote
// handling would silently misparse quote characters the spec defines as
// ordinary data bytes; see DESIGN.md).
type DelimReader struct {
	reader *bufio.Reader
	delim  byte
	fields DelimFields
	path   string
	seqNum int64
}

// NewDelimReader creates a delimited-text reader over r.
func NewDelimReader(r io.Reader, path string, delim byte, fields DelimFields) *DelimReader {
	return &DelimReader{
		reader: bufio.NewReaderSize(r, 1<<20),
		delim:  delim,
		fields: fields,
		path:   path,
	}
}

// Next reads and returns the next delimited-text row as a Record, or
// io.EOF.
func (p *DelimReader) Next() (*record.Record, error) {
	line, err := p.readLine()
	if err != nil {
		return nil, err
	}

	cols := bytes.Split(line, []byte{p.delim})
	get := func(col int) []byte {
		if col <= 0 || col > len(cols) {
			return nil
		}
		return append([]byte(nil), cols[col-1]...)
	}

	id := get(p.fields.ID)
	if id == nil {
		return nil, fmt.Errorf("invalid delimited record: missing id column %d (record %d, file %s)", p.fields.ID, p.seqNum+1, p.path)
	}
	desc := get(p.fields.Desc)
	seq := get(p.fields.Seq)
	qual := get(p.fields.Qual)
	if qual != nil && seq != nil && len(qual) != len(seq) {
		return nil, fmt.Errorf("invalid delimited record: sequence and quality lengths differ (record %d, file %s)", p.seqNum+1, p.path)
	}

	p.seqNum++
	return &record.Record{
		ID:         id,
		Desc:       desc,
		Seq:        seq,
		Qual:       qual,
		Format:     record.FormatDelim,
		Path:       p.path,
		FileSeqNum: p.seqNum,
	}, nil
}

func (p *DelimReader) readLine() ([]byte, error) {
	var line []byte
	for {
		segment, isPrefix, err := p.reader.ReadLine()
		if err != nil {
			if len(line) > 0 {
				break
			}
			return nil, err
		}
		line = append(line, segment...)
		if !isPrefix {
			break
		}
	}
	line = bytes.TrimSuffix(line, []byte{'\r'})
	return line, nil
}
