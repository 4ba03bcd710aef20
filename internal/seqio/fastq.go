// Package seqio holds the record readers and writers (C2):
// FASTA, FASTQ, delimited-text, and 454 QUAL-sidecar, generalizing
// vertti-fastqpacker/internal/parser/parser.go's Parser/Next/NextBatch/
// readLine shape across the four formats spec.md §3/§4.1 describes.
package seqio

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/seqtoolkit/st/internal/record"
)

// FASTQReader reads 4-line FASTQ records. spec.md §6: "FASTQ (4-line
// records, single-line sequence and quality only)" — no line wrapping.
type FASTQReader struct {
	reader *bufio.Reader
	line   []byte
	path   string
	seqNum int64
}

// NewFASTQReader creates a FASTQ reader over r, reporting path in each
// produced Record.
func NewFASTQReader(r io.Reader, path string) *FASTQReader {
	return &FASTQReader{
		reader: bufio.NewReaderSize(r, 1<<20),
		line:   make([]byte, 0, 512),
		path:   path,
	}
}

// Next reads and returns the next FASTQ record, or io.EOF.
func (p *FASTQReader) Next() (*record.Record, error) {
	line, err := p.readLine()
	if err != nil {
		return nil, err
	}
	if len(line) == 0 || line[0] != '@' {
		return nil, fmt.Errorf("invalid FASTQ: header line must start with @ (record %d, file %s)", p.seqNum+1, p.path)
	}
	id, desc := record.SplitHeader(append([]byte(nil), line[1:]...))

	seqLine, err := p.readLine()
	if err != nil {
		return nil, fmt.Errorf("invalid FASTQ: truncated record (record %d, file %s): %w", p.seqNum+1, p.path, err)
	}
	seq := append([]byte(nil), seqLine...)

	plusLine, err := p.readLine()
	if err != nil {
		return nil, fmt.Errorf("invalid FASTQ: truncated record (record %d, file %s): %w", p.seqNum+1, p.path, err)
	}
	if len(plusLine) == 0 || plusLine[0] != '+' {
		return nil, fmt.Errorf("invalid FASTQ: separator line must start with + (record %d, file %s)", p.seqNum+1, p.path)
	}

	qualLine, err := p.readLine()
	if err != nil {
		return nil, fmt.Errorf("invalid FASTQ: truncated record (record %d, file %s): %w", p.seqNum+1, p.path, err)
	}
	qual := append([]byte(nil), qualLine...)

	if len(seq) != len(qual) {
		return nil, fmt.Errorf("invalid FASTQ: sequence and quality lengths differ (record %d, file %s)", p.seqNum+1, p.path)
	}

	p.seqNum++
	return &record.Record{
		ID:         id,
		Desc:       desc,
		Seq:        seq,
		Qual:       qual,
		Format:     record.FormatFASTQ,
		Path:       p.path,
		FileSeqNum: p.seqNum,
	}, nil
}

// readLine reads one line, stripping the trailing newline and any CR,
// reusing an internal buffer the way parser.go's readLine does.
func (p *FASTQReader) readLine() ([]byte, error) {
	p.line = p.line[:0]
	for {
		segment, isPrefix, err := p.reader.ReadLine()
		if err != nil {
			return nil, err
		}
		p.line = append(p.line, segment...)
		if !isPrefix {
			break
		}
	}
	p.line = bytes.TrimSuffix(p.line, []byte{'\r'})
	return p.line, nil
}
