package sortuniq

import (
	"container/heap"
	"io"

	"github.com/seqtoolkit/st/internal/record"
	"github.com/seqtoolkit/st/internal/sortuniq/spill"
)

// keyStream yields (key, record_bytes) pairs in sorted order, one at a
// time — the unit the k-way merge heap pulls from, whether the source
// is the in-memory residual or a spill file.
type keyStream interface {
	next() (Key, []byte, error) // io.EOF when exhausted
}

// memStream adapts the already-sorted in-memory residual vector.
type memStream struct {
	entries []entry
	i       int
}

func newMemStream(entries []entry, _ bool) *memStream {
	return &memStream{entries: entries}
}

func (m *memStream) next() (Key, []byte, error) {
	if m.i >= len(m.entries) {
		return nil, nil, io.EOF
	}
	e := m.entries[m.i]
	m.i++
	return e.key, spill.EncodeRecord(e.rec), nil
}

// fileStream adapts a spill file's BatchReader, decoding each entry's
// key bytes back into a typed Key for comparison.
type fileStream struct {
	br *spill.BatchReader
}

func newFileStream(r io.Reader) (*fileStream, error) {
	br, err := spill.OpenBatchReader(r)
	if err != nil {
		return nil, err
	}
	return &fileStream{br: br}, nil
}

func (f *fileStream) next() (Key, []byte, error) {
	e, err := f.br.Next()
	if err != nil {
		return nil, nil, err
	}
	k, err := DecodeKey(e.Key)
	if err != nil {
		return nil, nil, err
	}
	return k, e.Record, nil
}

// heapItem is one stream's current head, tracked by the min-heap so
// the merge always emits the globally smallest key next — "heap stores
// one head element per batch" (spec.md §4.8).
type heapItem struct {
	key      Key
	recBytes []byte
	stream   int
}

type mergeHeap struct {
	items   []heapItem
	reverse bool
}

func (h *mergeHeap) Len() int { return len(h.items) }
func (h *mergeHeap) Less(i, j int) bool {
	c := Compare(h.items[i].key, h.items[j].key)
	if h.reverse {
		return c > 0
	}
	return c < 0
}
func (h *mergeHeap) Swap(i, j int)      { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *mergeHeap) Push(x interface{}) { h.items = append(h.items, x.(heapItem)) }
func (h *mergeHeap) Pop() interface{} {
	n := len(h.items)
	it := h.items[n-1]
	h.items = h.items[:n-1]
	return it
}

// RecordStream is the merged, fully sorted output of a Sorter.
type RecordStream struct {
	streams []keyStream
	heap    *mergeHeap
	closers []func() error
}

func newRecordStream(streams []keyStream, reverse bool, closers []func() error) *RecordStream {
	h := &mergeHeap{reverse: reverse}
	for i, s := range streams {
		if k, rb, err := s.next(); err == nil {
			heap.Push(h, heapItem{key: k, recBytes: rb, stream: i})
		}
	}
	return &RecordStream{streams: streams, heap: h, closers: closers}
}

// Next returns the next record in merged order, or io.EOF.
func (m *RecordStream) Next() (*record.Record, Key, error) {
	if m.heap.Len() == 0 {
		return nil, nil, io.EOF
	}
	top := heap.Pop(m.heap).(heapItem)
	if k, rb, err := m.streams[top.stream].next(); err == nil {
		heap.Push(m.heap, heapItem{key: k, recBytes: rb, stream: top.stream})
	}
	rec, err := spill.DecodeRecord(top.recBytes)
	if err != nil {
		return nil, nil, err
	}
	return rec, top.key, nil
}

// Close removes every spill file backing this stream. Safe to call
// multiple times.
func (m *RecordStream) Close() error {
	var first error
	for _, c := range m.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	m.closers = nil
	return first
}
