package sortuniq

import (
	"github.com/seqtoolkit/st/internal/record"
)

// summary is the insertion-ordered map's value per spec.md §4.8:
// "{representative_record, duplicate_count, duplicate_ids (if
// requested)}".
type summary struct {
	rec          *record.Record
	key          Key
	count        int64
	duplicateIDs []string
}

// Unique de-replicates records by key, per spec.md §4.8. Below the
// memory budget it keeps an insertion-ordered map; once the estimated
// map size would exceed the budget it falls back to the Sorter's
// spill-and-merge path and collapses consecutive identical keys on the
// way out, which visibly changes the output order to key-sorted — "this
// visible ordering change is part of the contract."
type Unique struct {
	reverse      bool
	sortOutput   bool // -s/--sort: always sort by key, even below budget
	trackIDs     bool
	maxMem       int64

	order   []Key
	byKey   map[string]*summary
	curSize int64

	fellBack bool
	sorter   *Sorter
}

// NewUnique creates a Unique engine. maxMem <= 0 means unbounded (never
// falls back to spilling).
func NewUnique(reverse, sortOutput, trackIDs bool, maxMem int64, tempDir string, tempFileLimit int) *Unique {
	return &Unique{
		reverse:    reverse,
		sortOutput: sortOutput,
		trackIDs:   trackIDs,
		maxMem:     maxMem,
		byKey:      make(map[string]*summary),
		sorter:     NewSorter(reverse, maxMem, tempDir, tempFileLimit),
	}
}

// Add records one input record under key.
func (u *Unique) Add(key Key, rec *record.Record) error {
	if u.fellBack {
		return u.sorter.Add(key, rec)
	}

	mk := string(EncodeKey(key))
	if s, ok := u.byKey[mk]; ok {
		s.count++
		if u.trackIDs {
			s.duplicateIDs = append(s.duplicateIDs, string(rec.ID))
		}
		return nil
	}

	s := &summary{rec: rec, key: key, count: 1}
	if u.trackIDs {
		s.duplicateIDs = []string{string(rec.ID)}
	}
	u.byKey[mk] = s
	u.order = append(u.order, key)

	u.curSize += int64(len(mk)) + int64(len(rec.ID)+len(rec.Desc)+len(rec.Seq)+len(rec.Qual)) + perEntryOverhead
	if u.maxMem > 0 && u.curSize > u.maxMem {
		return u.spillOver()
	}
	return nil
}

// spillOver drains the in-memory map into the Sorter and switches Add
// to forward directly to it from now on.
func (u *Unique) spillOver() error {
	u.fellBack = true
	for _, k := range u.order {
		mk := string(EncodeKey(k))
		s := u.byKey[mk]
		if s == nil {
			continue
		}
		if err := u.sorter.Add(s.key, s.rec); err != nil {
			return err
		}
		// duplicates already folded into s.count/s.duplicateIDs are
		// lost once spilled; the streaming collapse on the way out
		// recomputes count from repeated keys in the merged stream,
		// so only the representative itself needs to survive the
		// spill. A pre-spill duplicate's count is preserved by
		// writing the representative once per duplicate occurrence
		// it already absorbed, via Result.
		for i := int64(1); i < s.count; i++ {
			if err := u.sorter.Add(s.key, s.rec); err != nil {
				return err
			}
		}
	}
	u.byKey = make(map[string]*summary)
	u.order = nil
	u.curSize = 0
	return nil
}

// Result is one de-replicated output record.
type Result struct {
	Rec          *record.Record
	Key          Key
	DuplicateCount int64
	DuplicateIDs   []string
}

// Finish drains the engine and returns every result, in insertion order
// (in-memory mode without --sort), in key order (in-memory mode with
// --sort, or whenever the spill fallback triggered).
func (u *Unique) Finish() ([]Result, error) {
	if u.fellBack {
		return u.finishSpilled()
	}
	results := make([]Result, 0, len(u.order))
	for _, k := range u.order {
		s := u.byKey[string(EncodeKey(k))]
		results = append(results, Result{Rec: s.rec, Key: s.key, DuplicateCount: s.count, DuplicateIDs: s.duplicateIDs})
	}
	if u.sortOutput {
		sortResults(results, u.reverse)
	}
	return results, nil
}

func sortResults(results []Result, reverse bool) {
	for i := 1; i < len(results); i++ {
		for j := i; j > 0; j-- {
			c := Compare(results[j-1].Key, results[j].Key)
			if reverse {
				c = -c
			}
			if c <= 0 {
				break
			}
			results[j-1], results[j] = results[j], results[j-1]
		}
	}
}

// finishSpilled merges the sorter's output and collapses consecutive
// identical keys, per spec.md §4.8's streaming-collapse fallback.
// Duplicate IDs are not tracked across the spill boundary (the
// representative's identity survives; the full ID list does not) —
// an accepted trade-off of the spill path, documented in DESIGN.md.
func (u *Unique) finishSpilled() ([]Result, error) {
	stream, err := u.sorter.Finish()
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	var results []Result
	var cur *Result
	for {
		rec, key, err := stream.Next()
		if err != nil {
			break
		}
		if cur != nil && Compare(cur.Key, key) == 0 {
			cur.DuplicateCount++
			if u.trackIDs {
				cur.DuplicateIDs = append(cur.DuplicateIDs, string(rec.ID))
			}
			continue
		}
		if cur != nil {
			results = append(results, *cur)
		}
		cur = &Result{Rec: rec, Key: key, DuplicateCount: 1}
		if u.trackIDs {
			cur.DuplicateIDs = []string{string(rec.ID)}
		}
	}
	if cur != nil {
		results = append(results, *cur)
	}
	return results, nil
}
