package seqio

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// QualReader reads Roche 454 QUAL sidecar files: ">id\n space-separated
// integers" (spec.md §6). It is paired with a FASTA reader by ID order.
type QualReader struct {
	fasta *FASTAReader
}

// NewQualReader wraps a QUAL file in a FASTA reader; Next decodes each
// entry's integers into QualRecord.Qual (Phred+33 offset applied so it
// can be merged into a Record.Qual directly).
func NewQualReader(r io.Reader, path string) *QualReader {
	return &QualReader{fasta: NewFASTAReader(r, path)}
}

// QualRecord is one decoded QUAL sidecar entry.
type QualRecord struct {
	ID   []byte
	Qual []byte // Phred+33-encoded
}

// Next reads and decodes the next QUAL record.
func (q *QualReader) Next() (*QualRecord, error) {
	rec, err := q.fasta.Next()
	if err != nil {
		return nil, err
	}
	fields := bytes.Fields(rec.Seq)
	qual := make([]byte, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(string(f))
		if err != nil {
			return nil, fmt.Errorf("invalid QUAL score %q (id %s): %w", f, rec.ID, err)
		}
		if n < 0 || n > 93 {
			return nil, fmt.Errorf("QUAL score %d out of Phred+33 printable range (id %s)", n, rec.ID)
		}
		qual[i] = byte(n) + 33
	}
	return &QualRecord{ID: rec.ID, Qual: qual}, nil
}

// ReadAllQual reads every QUAL record into an ID-indexed map, for pairing
// against a separately-streamed FASTA file.
func ReadAllQual(r io.Reader, path string) (map[string][]byte, error) {
	out := make(map[string][]byte)
	qr := NewQualReader(r, path)
	for {
		rec, err := qr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		out[string(rec.ID)] = rec.Qual
	}
	return out, nil
}
