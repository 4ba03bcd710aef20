package seqio

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/seqtoolkit/st/internal/record"
)

// Writer writes records back out in one of the three supported formats,
// symmetric to the reader family.
type Writer struct {
	w      io.Writer
	format record.Format
	wrap   int // FASTA wrap width; 0 means unwrapped
	delim  byte
	fields DelimFields
}

// NewWriter creates a writer for format. wrap only applies to FASTA.
func NewWriter(w io.Writer, format record.Format, wrap int, delim byte, fields DelimFields) *Writer {
	return &Writer{w: w, format: format, wrap: wrap, delim: delim, fields: fields}
}

// WriteRecord writes one record in the writer's configured format.
func (wr *Writer) WriteRecord(rec *record.Record) error {
	switch wr.format {
	case record.FormatFASTA:
		return wr.writeFASTA(rec)
	case record.FormatFASTQ:
		return wr.writeFASTQ(rec)
	case record.FormatDelim:
		return wr.writeDelim(rec)
	default:
		return fmt.Errorf("unknown output format %v", wr.format)
	}
}

func (wr *Writer) writeFASTA(rec *record.Record) error {
	if _, err := wr.w.Write([]byte{'>'}); err != nil {
		return err
	}
	if err := writeHeader(wr.w, rec); err != nil {
		return err
	}
	if _, err := wr.w.Write([]byte{'\n'}); err != nil {
		return err
	}

	wrap := wr.wrap
	if wrap <= 0 {
		wrap = rec.LineWrap
	}
	if wrap <= 0 || wrap >= len(rec.Seq) {
		if _, err := wr.w.Write(rec.Seq); err != nil {
			return err
		}
		_, err := wr.w.Write([]byte{'\n'})
		return err
	}
	for i := 0; i < len(rec.Seq); i += wrap {
		end := i + wrap
		if end > len(rec.Seq) {
			end = len(rec.Seq)
		}
		if _, err := wr.w.Write(rec.Seq[i:end]); err != nil {
			return err
		}
		if _, err := wr.w.Write([]byte{'\n'}); err != nil {
			return err
		}
	}
	return nil
}

func (wr *Writer) writeFASTQ(rec *record.Record) error {
	if _, err := wr.w.Write([]byte{'@'}); err != nil {
		return err
	}
	if err := writeHeader(wr.w, rec); err != nil {
		return err
	}
	if _, err := wr.w.Write([]byte("\n")); err != nil {
		return err
	}
	if _, err := wr.w.Write(rec.Seq); err != nil {
		return err
	}
	if _, err := wr.w.Write([]byte("\n+\n")); err != nil {
		return err
	}
	qual := rec.Qual
	if qual == nil {
		qual = bytes.Repeat([]byte{'I'}, len(rec.Seq))
	}
	if _, err := wr.w.Write(qual); err != nil {
		return err
	}
	_, err := wr.w.Write([]byte{'\n'})
	return err
}

func (wr *Writer) writeDelim(rec *record.Record) error {
	maxCol := wr.fields.ID
	for _, c := range []int{wr.fields.Desc, wr.fields.Seq, wr.fields.Qual} {
		if c > maxCol {
			maxCol = c
		}
	}
	cols := make([][]byte, maxCol)
	if wr.fields.ID > 0 {
		cols[wr.fields.ID-1] = rec.ID
	}
	if wr.fields.Desc > 0 {
		cols[wr.fields.Desc-1] = rec.Desc
	}
	if wr.fields.Seq > 0 {
		cols[wr.fields.Seq-1] = rec.Seq
	}
	if wr.fields.Qual > 0 {
		cols[wr.fields.Qual-1] = rec.Qual
	}
	for i, c := range cols {
		if i > 0 {
			if _, err := wr.w.Write([]byte{wr.delim}); err != nil {
				return err
			}
		}
		if _, err := wr.w.Write(c); err != nil {
			return err
		}
	}
	_, err := wr.w.Write([]byte{'\n'})
	return err
}

func writeHeader(w io.Writer, rec *record.Record) error {
	if _, err := w.Write(rec.ID); err != nil {
		return err
	}
	if len(rec.Desc) > 0 {
		if _, err := w.Write([]byte{' '}); err != nil {
			return err
		}
		if _, err := w.Write(rec.Desc); err != nil {
			return err
		}
	}
	return nil
}

// WriteQualRecord writes one 454 QUAL sidecar entry: ">id\n
// space-separated integers" decoded from Phred+33 bytes.
func WriteQualRecord(w io.Writer, id, qual []byte) error {
	if _, err := w.Write([]byte{'>'}); err != nil {
		return err
	}
	if _, err := w.Write(id); err != nil {
		return err
	}
	if _, err := w.Write([]byte{'\n'}); err != nil {
		return err
	}
	for i, q := range qual {
		if i > 0 {
			if _, err := w.Write([]byte{' '}); err != nil {
				return err
			}
		}
		if _, err := w.Write([]byte(strconv.Itoa(int(q) - 33))); err != nil {
			return err
		}
	}
	_, err := w.Write([]byte{'\n'})
	return err
}
