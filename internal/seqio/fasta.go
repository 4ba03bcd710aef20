package seqio

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/seqtoolkit/st/internal/record"
)

// FASTAReader reads FASTA records, joining wrapped sequence lines. Every
// line is copied out of the read buffer: a single-line record's sequence
// is that line's own copy, and a wrapped (multi-line) record is joined
// into one new buffer. No returned slice aliases the read buffer.
type FASTAReader struct {
	reader     *bufio.Reader
	path       string
	seqNum     int64
	pending    []byte // header line carried over from the previous call
	hasPending bool
	eof        bool
}

// NewFASTAReader creates a FASTA reader over r.
func NewFASTAReader(r io.Reader, path string) *FASTAReader {
	return &FASTAReader{
		reader: bufio.NewReaderSize(r, 1<<20),
		path:   path,
	}
}

// Next reads and returns the next FASTA record, or io.EOF.
func (p *FASTAReader) Next() (*record.Record, error) {
	if p.eof && !p.hasPending {
		return nil, io.EOF
	}

	var header []byte
	if p.hasPending {
		header = p.pending
		p.hasPending = false
	} else {
		line, err := p.readLine()
		if err != nil {
			if err == io.EOF {
				return nil, io.EOF
			}
			return nil, err
		}
		header = line
	}

	if len(header) == 0 || header[0] != '>' {
		return nil, fmt.Errorf("invalid FASTA: header line must start with > (record %d, file %s)", p.seqNum+1, p.path)
	}
	id, desc := record.SplitHeader(append([]byte(nil), header[1:]...))

	var segments [][]byte
	lineWrap := 0
	for {
		line, err := p.readLine()
		if err == io.EOF {
			p.eof = true
			break
		}
		if err != nil {
			return nil, err
		}
		if len(line) > 0 && line[0] == '>' {
			p.pending = append([]byte(nil), line...)
			p.hasPending = true
			break
		}
		if lineWrap == 0 && len(segments) == 0 {
			lineWrap = len(line)
		}
		segments = append(segments, line)
	}

	seq := joinSegments(segments)

	p.seqNum++
	return &record.Record{
		ID:         id,
		Desc:       desc,
		Seq:        seq,
		Format:     record.FormatFASTA,
		LineWrap:   lineWrap,
		Path:       p.path,
		FileSeqNum: p.seqNum,
	}, nil
}

// joinSegments concatenates sequence lines. A single segment is returned
// as is (it is already readLine's own copy); more than one segment is
// joined into a new buffer.
func joinSegments(segments [][]byte) []byte {
	switch len(segments) {
	case 0:
		return nil
	case 1:
		return segments[0]
	default:
		total := 0
		for _, s := range segments {
			total += len(s)
		}
		out := make([]byte, 0, total)
		for _, s := range segments {
			out = append(out, s...)
		}
		return out
	}
}

// readLine reads one line, stripping the trailing newline/CR, and
// returns an owned copy (FASTA records may need to retain several lines
// at once before joining, unlike FASTQ's single-shot readLine reuse).
func (p *FASTAReader) readLine() ([]byte, error) {
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
