// Package spill implements the on-disk batch framing used when the
// sort/unique accumulator (C8) exceeds its memory budget, adapting
// `internal/format/container.go`'s FQZ file/block header shape into a
// single-purpose spill-file format: a magic-prefixed file header
// followed by one batch of (key_bytes, record_bytes) pairs per spill,
// each pair preceded by its two lengths (spec.md §3, "Sort/unique record
// batch").
package spill

import (
	"encoding/binary"
	"errors"
	"io"
)

// Magic identifies a spill file. Spill files are process-local and
// deleted on exit, so there is only ever one version, unlike the FQZ
// container this framing is adapted from.
var Magic = [4]byte{'S', 'T', 'S', 'P'}

// FileHeader is written once at the start of every spill file.
type FileHeader struct {
	NumBatches uint32
}

// Write serializes the file header.
func (h *FileHeader) Write(w io.Writer) error {
	if _, err := w.Write(Magic[:]); err != nil {
		return err
	}
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, h.NumBatches)
	_, err := w.Write(buf)
	return err
}

// ReadFileHeader reads and validates a file header.
func ReadFileHeader(r io.Reader) (*FileHeader, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, err
	}
	if magic != Magic {
		return nil, errors.New("spill: invalid magic bytes: not a spill file")
	}
	buf := make([]byte, 4)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return &FileHeader{NumBatches: binary.LittleEndian.Uint32(buf)}, nil
}

// BatchHeader precedes every (key_bytes, record_bytes) entry within a
// batch.
type BatchHeader struct {
	KeySize    uint32
	RecordSize uint32
}

// Write serializes the entry header.
func (b *BatchHeader) Write(w io.Writer) error {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf[0:4], b.KeySize)
	binary.LittleEndian.PutUint32(buf[4:8], b.RecordSize)
	_, err := w.Write(buf)
	return err
}

// ReadBatchHeader reads one entry header, returning io.EOF when the
// caller has consumed every entry the writer produced (a batch carries no
// entry count or trailing sentinel; the end of the file ends it).
func ReadBatchHeader(r io.Reader) (*BatchHeader, error) {
	buf := make([]byte, 8)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return &BatchHeader{
		KeySize:    binary.LittleEndian.Uint32(buf[0:4]),
		RecordSize: binary.LittleEndian.Uint32(buf[4:8]),
	}, nil
}
