package sortuniq

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/seqtoolkit/st/internal/record"
	"github.com/seqtoolkit/st/internal/sortuniq/spill"
)

// perEntryOverhead is the constant added to each accumulated entry's
// estimated size, per spec.md §4.8's "sum(len(key)+len(record_bytes))
// + per-entry overhead" — a conservative allowance for the Go slice
// headers and map/slice bookkeeping around each entry.
const perEntryOverhead = 64

// entry is one accumulated (key, record) pair, kept in memory as typed
// values until a flush forces serialization.
type entry struct {
	key Key
	rec *record.Record
}

func (e entry) size() int64 {
	n := int64(perEntryOverhead)
	for _, v := range e.key {
		n += int64(len(v.Text)) + 16
	}
	n += int64(len(e.rec.ID) + len(e.rec.Desc) + len(e.rec.Seq) + len(e.rec.Qual))
	return n
}

// Sorter accumulates records, spilling to temporary batch files once
// --max-mem is exceeded, per spec.md §4.8.
type Sorter struct {
	reverse       bool
	maxMem        int64
	tempDir       string
	tempFileLimit int

	entries    []entry
	curSize    int64
	spillPaths []string
}

// NewSorter creates a Sorter. maxMem <= 0 means unbounded (never
// spills). tempFileLimit <= 0 means unbounded.
func NewSorter(reverse bool, maxMem int64, tempDir string, tempFileLimit int) *Sorter {
	return &Sorter{reverse: reverse, maxMem: maxMem, tempDir: tempDir, tempFileLimit: tempFileLimit}
}

// Add appends one record under the given key, flushing to a spill file
// first if the new entry would push the accumulator over budget.
func (s *Sorter) Add(key Key, rec *record.Record) error {
	e := entry{key: key, rec: rec}
	sz := e.size()
	if s.maxMem > 0 && s.curSize+sz > s.maxMem && len(s.entries) > 0 {
		if err := s.flush(); err != nil {
			return err
		}
	}
	s.entries = append(s.entries, e)
	s.curSize += sz
	return nil
}

func (s *Sorter) less(a, b Key) bool {
	c := Compare(a, b)
	if s.reverse {
		return c > 0
	}
	return c < 0
}

func (s *Sorter) sortEntries() {
	sort.SliceStable(s.entries, func(i, j int) bool {
		return s.less(s.entries[i].key, s.entries[j].key)
	})
}

// flush sorts the in-memory vector and writes it out as a new spill
// batch, then clears the accumulator.
func (s *Sorter) flush() error {
	if len(s.entries) == 0 {
		return nil
	}
	if s.tempFileLimit > 0 && len(s.spillPaths) >= s.tempFileLimit {
		return fmt.Errorf("sortuniq: exceeded --temp-file-limit (%d) spill files; increase --max-mem to spill less often", s.tempFileLimit)
	}
	s.sortEntries()

	f, err := os.CreateTemp(s.tempDir, "st-sort-*.tmp")
	if err != nil {
		return fmt.Errorf("sortuniq: creating spill file: %w", err)
	}
	defer f.Close()

	out := make([]spill.Entry, len(s.entries))
	for i, e := range s.entries {
		out[i] = spill.Entry{Key: EncodeKey(e.key), Record: spill.EncodeRecord(e.rec)}
	}
	if err := spill.WriteBatch(f, out); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("sortuniq: writing spill batch: %w", err)
	}
	s.spillPaths = append(s.spillPaths, f.Name())
	s.entries = s.entries[:0]
	s.curSize = 0
	return nil
}

// Spilled reports whether any spill file was written.
func (s *Sorter) Spilled() bool {
	return len(s.spillPaths) > 0
}

// Finish returns a RecordStream yielding every accumulated record in
// sorted order, merging the in-memory residual with every spill file.
// Callers must call Close on the result (or exhaust it via Close being
// deferred) to clean up spill files.
func (s *Sorter) Finish() (*RecordStream, error) {
	s.sortEntries()
	streams := []keyStream{newMemStream(s.entries, s.reverse)}
	var closers []func() error
	for _, path := range s.spillPaths {
		p := path
		f, err := os.Open(p)
		if err != nil {
			return nil, fmt.Errorf("sortuniq: reopening spill file: %w", err)
		}
		fs, err := newFileStream(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("sortuniq: reading spill file: %w", err)
		}
		streams = append(streams, fs)
		closers = append(closers, func() error {
			f.Close()
			return os.Remove(p)
		})
	}
	return newRecordStream(streams, s.reverse, closers), nil
}

// TempFilePath builds the st-sort-<pid>-<seq>.tmp name (spec.md §7).
// flush does not use it: spill files are created by os.CreateTemp with
// the pattern st-sort-*.tmp, which puts a random part where <pid>-<seq>
// would be. Nothing else calls TempFilePath.
func TempFilePath(dir string, pid, seq int) string {
	return filepath.Join(dir, fmt.Sprintf("st-sort-%d-%d.tmp", pid, seq))
}
