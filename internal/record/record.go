// Package record defines the in-memory representation of a single
// sequence record as it flows through the pipeline (C9) between the
// reader and writer halves of the byte I/O layer (C1/C2).
package record

// Format identifies which file format a record was read from (or should
// be written as).
type Format uint8

const (
	FormatFASTA Format = iota
	FormatFASTQ
	FormatDelim
)

func (f Format) String() string {
	switch f {
	case FormatFASTA:
		return "fasta"
	case FormatFASTQ:
		return "fastq"
	case FormatDelim:
		return "delim"
	default:
		return "unknown"
	}
}

// Record is one biological sequence with its identifier, optional
// description, and optional quality string. The seqio readers fill
// ID/Desc/Seq/Qual with freshly allocated copies, so their records do not
// alias a read buffer. Callers that retain a Record across more than one
// pull from the reader (sort, unique) still call Own first, which makes
// a deep copy (spec.md §9, "zero-copy record borrows vs. owned records").
type Record struct {
	ID   []byte
	Desc []byte
	Seq  []byte
	Qual []byte

	Format   Format
	LineWrap int // FASTA wrap width hint carried through from the source, 0 if unwrapped

	// Path is the input file this record was read from (or "-" for
	// stdin); SeqNum/FileSeqNum are 1-based global and per-file counters.
	Path       string
	SeqNum     int64
	FileSeqNum int64
}

// Own returns a copy of rec whose byte slices do not alias the reader's
// internal buffer.
func (r *Record) Own() *Record {
	out := &Record{
		Format:     r.Format,
		LineWrap:   r.LineWrap,
		Path:       r.Path,
		SeqNum:     r.SeqNum,
		FileSeqNum: r.FileSeqNum,
	}
	if r.ID != nil {
		out.ID = append([]byte(nil), r.ID...)
	}
	if r.Desc != nil {
		out.Desc = append([]byte(nil), r.Desc...)
	}
	if r.Seq != nil {
		out.Seq = append([]byte(nil), r.Seq...)
	}
	if r.Qual != nil {
		out.Qual = append([]byte(nil), r.Qual...)
	}
	return out
}

// HasQual reports whether this record carries quality scores.
func (r *Record) HasQual() bool {
	return r.Qual != nil
}

// Header reconstructs the full header line (ID plus, if present, a single
// space and the description) the way it would appear in a FASTA/FASTQ
// file.
func (r *Record) Header() []byte {
	if len(r.Desc) == 0 {
		return r.ID
	}
	out := make([]byte, 0, len(r.ID)+1+len(r.Desc))
	out = append(out, r.ID...)
	out = append(out, ' ')
	out = append(out, r.Desc...)
	return out
}

// SplitHeader splits a raw header line (without the leading '>' or '@')
// into ID and description at the first space, per spec.md §3: "Identifier
// is the bytes of the header before the first space; description is the
// bytes after the first space; neither field has escaping."
func SplitHeader(header []byte) (id, desc []byte) {
	for i, b := range header {
		if b == ' ' {
			return header[:i], header[i+1:]
		}
	}
	return header, nil
}
