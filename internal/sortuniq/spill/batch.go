package spill

import (
	"bufio"
	"io"
)

// Entry is one (key_bytes, record_bytes) pair as it appears in a spill
// batch.
type Entry struct {
	Key    []byte
	Record []byte
}

// WriteBatch writes a single batch of already-sorted entries to w,
// preceded by the file header. Each spill file the sorter produces
// holds exactly one batch; the NumBatches field stays at 1 so the
// on-disk shape has room to grow without a format bump if a future
// caller wants multi-batch files.
func WriteBatch(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	h := FileHeader{NumBatches: 1}
	if err := h.Write(bw); err != nil {
		return err
	}
	for _, e := range entries {
		eh := BatchHeader{KeySize: uint32(len(e.Key)), RecordSize: uint32(len(e.Record))}
		if err := eh.Write(bw); err != nil {
			return err
		}
		if _, err := bw.Write(e.Key); err != nil {
			return err
		}
		if _, err := bw.Write(e.Record); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// BatchReader streams entries back out of a spill file in the order
// WriteBatch wrote them (i.e. sorted order), one at a time, so the
// k-way merge never has to hold a whole batch in memory.
type BatchReader struct {
	r *bufio.Reader
}

// OpenBatchReader reads the file header from r and returns a reader
// positioned at the first entry.
func OpenBatchReader(r io.Reader) (*BatchReader, error) {
	br := bufio.NewReader(r)
	if _, err := ReadFileHeader(br); err != nil {
		return nil, err
	}
	return &BatchReader{r: br}, nil
}

// Next returns the next entry, or io.EOF once the underlying stream is
// exhausted.
func (b *BatchReader) Next() (Entry, error) {
	eh, err := ReadBatchHeader(b.r)
	if err != nil {
		return Entry{}, err
	}
	key := make([]byte, eh.KeySize)
	if _, err := io.ReadFull(b.r, key); err != nil {
		return Entry{}, err
	}
	rec := make([]byte, eh.RecordSize)
	if _, err := io.ReadFull(b.r, rec); err != nil {
		return Entry{}, err
	}
	return Entry{Key: key, Record: rec}, nil
}
