package sortuniq

import (
	"fmt"
	"io"
	"strings"
)

// MapFormat selects one of the --map-out layouts of spec.md §4.8.
type MapFormat int

const (
	// MapLong: one line per duplicate ID, "id<TAB>representative_id".
	MapLong MapFormat = iota
	// MapLongStar: like MapLong, but the representative's own line
	// uses "*" instead of repeating its ID.
	MapLongStar
	// MapWide: one line per group, "representative_id<TAB>dup1<TAB>dup2...".
	MapWide
	// MapWideComma: "representative_id<TAB>representative_id,dup1,dup2,...".
	MapWideComma
	// MapWideKey: "key<TAB>dup1<TAB>dup2...", the unique key instead of
	// the representative's ID in the first column.
	MapWideKey
)

// ParseMapFormat maps a --map-out flag value to a MapFormat.
func ParseMapFormat(s string) (MapFormat, error) {
	switch s {
	case "long":
		return MapLong, nil
	case "long-star":
		return MapLongStar, nil
	case "wide":
		return MapWide, nil
	case "wide-comma":
		return MapWideComma, nil
	case "wide-key":
		return MapWideKey, nil
	default:
		return 0, fmt.Errorf("unknown --map-out format %q (want long, long-star, wide, wide-comma, or wide-key)", s)
	}
}

// MapWriter emits the --map-out side channel mapping duplicate IDs to
// their retained representative, one Write call per Unique Result.
type MapWriter struct {
	w      io.Writer
	format MapFormat
}

// NewMapWriter wraps w.
func NewMapWriter(w io.Writer, format MapFormat) *MapWriter {
	return &MapWriter{w: w, format: format}
}

// Write emits r's duplicate mapping. ids is the representative's ID
// followed by every duplicate ID that folded into it, in the order
// they were seen; ids[0] is always the representative.
func (m *MapWriter) Write(r Result) error {
	// r.DuplicateIDs already carries the representative's own ID
	// first (Unique.Add seeds it there on first insertion), followed
	// by every duplicate that folded into it.
	ids := r.DuplicateIDs
	if len(ids) == 0 {
		ids = []string{string(r.Rec.ID)}
	}

	switch m.format {
	case MapLong, MapLongStar:
		for i, id := range ids {
			ref := ids[0]
			if m.format == MapLongStar && i == 0 {
				ref = "*"
			}
			if _, err := fmt.Fprintf(m.w, "%s\t%s\n", id, ref); err != nil {
				return err
			}
		}
	case MapWide:
		if _, err := fmt.Fprintf(m.w, "%s\n", strings.Join(ids, "\t")); err != nil {
			return err
		}
	case MapWideComma:
		if _, err := fmt.Fprintf(m.w, "%s\t%s\n", ids[0], strings.Join(ids, ",")); err != nil {
			return err
		}
	case MapWideKey:
		keyFields := make([]string, len(r.Key))
		for i, v := range r.Key {
			keyFields[i] = v.String()
		}
		if _, err := fmt.Fprintf(m.w, "%s\t%s\n", strings.Join(keyFields, ","), strings.Join(ids, "\t")); err != nil {
			return err
		}
	}
	return nil
}
