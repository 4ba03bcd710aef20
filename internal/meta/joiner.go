// Package meta implements the metadata joiner (C5): associating
// delimited-text rows to records by ID, either by streaming in lockstep
// with the record reader (synchronized mode) or via a fully-loaded hash
// index (indexed mode).
package meta

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// warmupWindow is the number of leading records the synchronized mode
// checks for ID agreement before trusting the stream stays in lockstep,
// per spec.md §4.4.
const warmupWindow = 10000

// Row is one metadata row: its columns, in file order.
type Row struct {
	Cols []string
}

// Get returns column col (1-based) or "", false if out of range.
func (r Row) Get(col int) (string, bool) {
	if col < 1 || col > len(r.Cols) {
		return "", false
	}
	return r.Cols[col-1], true
}

// Joiner looks up metadata rows by record ID, transparently choosing
// between synchronized and indexed mode per spec.md §4.4.
type Joiner struct {
	idCol  int
	delim  byte
	header []string // column names in file order, if the file has a header
	dupIDs bool     // caller declared duplicate IDs are possible up front

	// synchronized-mode state
	sync     bool
	reader   *bufio.Reader
	warmed   int
	fellBack bool

	// indexed-mode state
	index map[string]Row
}

// Config configures a Joiner.
type Config struct {
	IDCol     int  // 1-based; 0 means column 1; HeaderIDCol overrides it when set with HasHeader
	HeaderIDCol string
	HasHeader bool
	Delim     byte
	DupIDs    bool // --dup-ids: skip synchronized mode, go straight to indexed
}

// NewSynchronized creates a Joiner that starts in synchronized mode,
// reading metadata rows one at a time from r as records are pulled.
// If cfg.DupIDs is set, the rest of r is indexed immediately and the
// Joiner works in indexed mode, as one from NewIndexed does.
func NewSynchronized(r io.Reader, cfg Config) (*Joiner, error) {
	j := &Joiner{
		idCol:  cfg.IDCol,
		delim:  cfg.Delim,
		dupIDs: cfg.DupIDs,
		sync:   true,
		reader: bufio.NewReaderSize(r, 1<<20),
		index:  make(map[string]Row),
	}
	if j.idCol == 0 {
		j.idCol = 1
	}
	if cfg.HasHeader {
		row, err := j.readRow()
		if err != nil {
			return nil, fmt.Errorf("reading metadata header: %w", err)
		}
		if row != nil {
			j.header = row.Cols
			if cfg.HeaderIDCol != "" {
				j.idCol = j.headerIndex(cfg.HeaderIDCol)
			}
		}
	}
	if cfg.DupIDs {
		// Duplicate IDs can never be trusted to stay in lockstep order
		// (two records could share an ID but the metadata rows for them
		// needn't), so go straight to the indexed fallback.
		j.fellBack = true
		if err := j.buildIndexFromRemainder(); err != nil {
			return nil, err
		}
	}
	return j, nil
}

// NewIndexed creates a Joiner in indexed mode, reading every row of r
// into an in-memory map up front.
func NewIndexed(r io.Reader, cfg Config) (*Joiner, error) {
	j := &Joiner{
		idCol:    cfg.IDCol,
		delim:    cfg.Delim,
		dupIDs:   cfg.DupIDs,
		sync:     false,
		fellBack: true,
		index:    make(map[string]Row),
	}
	if j.idCol == 0 {
		j.idCol = 1
	}
	reader := bufio.NewReaderSize(r, 1<<20)
	if cfg.HasHeader {
		row, err := readRowFrom(reader, j.delim)
		if err != nil {
			return nil, fmt.Errorf("reading metadata header: %w", err)
		}
		if row != nil {
			j.header = row.Cols
			if cfg.HeaderIDCol != "" {
				j.idCol = j.headerIndex(cfg.HeaderIDCol)
			}
		}
	}
	j.reader = reader
	if err := j.buildIndexFromRemainder(); err != nil {
		return nil, err
	}
	return j, nil
}

// Mode reports the joiner's current operating mode, for --verbose
// diagnostics.
func (j *Joiner) Mode() string {
	if !j.sync || j.fellBack {
		return "indexed"
	}
	return "synchronized"
}

// WarmedUp reports whether the synchronized stream has survived the
// warm-up window (spec.md §4.4's default 10,000 leading records) without
// a mismatch.
func (j *Joiner) WarmedUp() bool {
	return j.warmed >= warmupWindow
}

// ColumnIndex resolves a header column name to its 1-based index, for
// callers (the pipeline's meta()/opt_meta() variables) that accept either
// a numeric column or a header name. ok is false if the metadata file
// carries no header or name isn't one of its columns.
func (j *Joiner) ColumnIndex(name string) (int, bool) {
	for i, h := range j.header {
		if h == name {
			return i + 1, true
		}
	}
	return 0, false
}

func (j *Joiner) headerIndex(name string) int {
	for i, h := range j.header {
		if h == name {
			return i + 1
		}
	}
	return j.idCol
}

// Lookup returns the metadata row for record ID id, per spec.md §4.4.
// In synchronized mode it pulls exactly one metadata row per call
// unless the stream has already fallen back to indexed mode.
func (j *Joiner) Lookup(id string) (Row, bool, error) {
	if !j.sync || j.fellBack {
		row, ok := j.index[id]
		return row, ok, nil
	}

	row, err := j.readRow()
	if err == io.EOF {
		return Row{}, false, nil
	}
	if err != nil {
		return Row{}, false, err
	}
	if row == nil {
		return Row{}, false, nil
	}

	gotID, _ := row.Get(j.idCol)
	if gotID == id {
		j.warmed++
		return *row, true, nil
	}

	// Mismatch: during warm-up this is immediately fatal to the
	// lockstep assumption; index this row and everything still left on
	// the stream, then retry the lookup against the index.
	j.fellBack = true
	j.index[gotID] = *row
	if err := j.buildIndexFromRemainder(); err != nil {
		return Row{}, false, err
	}
	r, ok := j.index[id]
	return r, ok, nil
}

func (j *Joiner) buildIndexFromRemainder() error {
	for {
		row, err := j.readRow()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if row == nil {
			continue
		}
		id, _ := row.Get(j.idCol)
		if _, dup := j.index[id]; dup && !j.dupIDs {
			return fmt.Errorf("duplicate metadata ID %q (pass --dup-ids if this is expected)", id)
		}
		j.index[id] = *row
	}
}

func (j *Joiner) readRow() (*Row, error) {
	return readRowFrom(j.reader, j.delim)
}

func readRowFrom(r *bufio.Reader, delim byte) (*Row, error) {
	var line []byte
	for {
		segment, isPrefix, err := r.ReadLine()
		if err != nil {
			if len(line) > 0 {
				break
			}
			return nil, err
		}
		line = append(line, segment...)
		if !isPrefix {
			break
		}
	}
	line = bytes.TrimSuffix(line, []byte{'\r'})
	if len(line) == 0 {
		return nil, nil
	}
	parts := bytes.Split(line, []byte{delim})
	cols := make([]string, len(parts))
	for i, p := range parts {
		cols[i] = string(p)
	}
	return &Row{Cols: cols}, nil
}
