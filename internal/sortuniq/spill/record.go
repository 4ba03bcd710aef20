package spill

import (
	"encoding/binary"
	"fmt"

	"github.com/seqtoolkit/st/internal/record"
)

// EncodeRecord serializes rec into the record_bytes half of a spill
// entry. The encoding is positional and fixed-order, not a generic
// container format: spill files are read back by the same process that
// wrote them, so there is no forward-compatibility concern.
func EncodeRecord(rec *record.Record) []byte {
	size := 1 + 4 + 8 + 8 + // format, linewrap, seqnum, fileseqnum
		4 + len(rec.Path) +
		4 + len(rec.ID) +
		4 + len(rec.Desc) +
		4 + len(rec.Seq) +
		1 + 4 + len(rec.Qual) // hasQual flag + length + bytes
	buf := make([]byte, size)
	i := 0
	buf[i] = byte(rec.Format)
	i++
	binary.LittleEndian.PutUint32(buf[i:], uint32(rec.LineWrap))
	i += 4
	binary.LittleEndian.PutUint64(buf[i:], uint64(rec.SeqNum))
	i += 8
	binary.LittleEndian.PutUint64(buf[i:], uint64(rec.FileSeqNum))
	i += 8
	i = putBytes(buf, i, []byte(rec.Path))
	i = putBytes(buf, i, rec.ID)
	i = putBytes(buf, i, rec.Desc)
	i = putBytes(buf, i, rec.Seq)
	if rec.Qual != nil {
		buf[i] = 1
	} else {
		buf[i] = 0
	}
	i++
	i = putBytes(buf, i, rec.Qual)
	return buf[:i]
}

func putBytes(buf []byte, i int, b []byte) int {
	binary.LittleEndian.PutUint32(buf[i:], uint32(len(b)))
	i += 4
	copy(buf[i:], b)
	return i + len(b)
}

// DecodeRecord reverses EncodeRecord, allocating owned byte slices (the
// record no longer borrows from any reader buffer once it's round-
// tripped through a spill file).
func DecodeRecord(buf []byte) (*record.Record, error) {
	rec := &record.Record{}
	i := 0
	if len(buf) < 1+4+8+8 {
		return nil, fmt.Errorf("spill: truncated record header")
	}
	rec.Format = record.Format(buf[i])
	i++
	rec.LineWrap = int(binary.LittleEndian.Uint32(buf[i:]))
	i += 4
	rec.SeqNum = int64(binary.LittleEndian.Uint64(buf[i:]))
	i += 8
	rec.FileSeqNum = int64(binary.LittleEndian.Uint64(buf[i:]))
	i += 8

	var path []byte
	var err error
	path, i, err = getBytes(buf, i)
	if err != nil {
		return nil, err
	}
	rec.Path = string(path)
	if rec.ID, i, err = getBytes(buf, i); err != nil {
		return nil, err
	}
	if rec.Desc, i, err = getBytes(buf, i); err != nil {
		return nil, err
	}
	if rec.Seq, i, err = getBytes(buf, i); err != nil {
		return nil, err
	}
	if i >= len(buf) {
		return nil, fmt.Errorf("spill: truncated record, missing qual flag")
	}
	hasQual := buf[i] == 1
	i++
	var qual []byte
	if qual, i, err = getBytes(buf, i); err != nil {
		return nil, err
	}
	if hasQual {
		rec.Qual = qual
	}
	if len(rec.Desc) == 0 {
		rec.Desc = nil
	}
	return rec, nil
}

func getBytes(buf []byte, i int) ([]byte, int, error) {
	if i+4 > len(buf) {
		return nil, 0, fmt.Errorf("spill: truncated length prefix")
	}
	n := int(binary.LittleEndian.Uint32(buf[i:]))
	i += 4
	if i+n > len(buf) {
		return nil, 0, fmt.Errorf("spill: truncated field of length %d", n)
	}
	out := append([]byte(nil), buf[i:i+n]...)
	return out, i + n, nil
}
