package record

import (
	"bytes"
	"fmt"
)

// AttrFormat describes how key=value attributes are embedded in a header,
// per spec.md §4.3: "<prefix>key<sep>value". The default is prefix=" ",
// sep="=".
type AttrFormat struct {
	Prefix string
	Sep    string
}

// DefaultAttrFormat is the format used when none is configured.
var DefaultAttrFormat = AttrFormat{Prefix: " ", Sep: "="}

// InDescription reports whether attributes under this format live in the
// description (prefix starts with a space) or are appended to the ID; a
// prefix starting with a tab counts as an ID-side prefix.
func (f AttrFormat) InDescription() bool {
	return len(f.Prefix) > 0 && f.Prefix[0] == ' '
}

// Attr is one parsed (key, value) pair together with the byte range in
// the scanned header segment it occupied, so it can be replaced or deleted
// in place.
type Attr struct {
	Key   string
	Value string
	Start int // offset of the match (including prefix) in the scanned segment
	End   int // offset just past the value
}

// ErrAttrNotFound is returned by Get when a required attribute is absent.
var ErrAttrNotFound = fmt.Errorf("attribute not found")

// ParseAttrs scans segment (a header, or the description/id portion of
// one, according to AttrFormat.InDescription) left to right for
// non-overlapping <prefix>key<sep>value matches. Per spec.md §4.3 this is
// O(len(segment)).
func ParseAttrs(segment []byte, f AttrFormat) []Attr {
	var attrs []Attr
	prefix := []byte(f.Prefix)
	sep := []byte(f.Sep)
	if len(prefix) == 0 || len(sep) == 0 {
		return attrs
	}

	i := 0
	for i < len(segment) {
		idx := bytes.Index(segment[i:], prefix)
		if idx < 0 {
			break
		}
		start := i + idx
		rest := start + len(prefix)

		sepIdx := bytes.Index(segment[rest:], sep)
		if sepIdx < 0 {
			i = rest
			continue
		}
		keyEnd := rest + sepIdx
		key := segment[rest:keyEnd]
		if len(key) == 0 || bytes.ContainsAny(key, " \t") {
			// not a well-formed key=value token; resume scanning after prefix
			i = rest
			continue
		}

		valStart := keyEnd + len(sep)
		valEnd := len(segment)
		for j := valStart; j < len(segment); j++ {
			if segment[j] == ' ' || segment[j] == '\t' {
				valEnd = j
				break
			}
		}
		// A value also ends wherever the next attribute's prefix begins,
		// so that non-whitespace prefixes (e.g. "/") still delimit values.
		if f.Prefix != " " && f.Prefix != "\t" {
			if nextIdx := bytes.Index(segment[valStart:valEnd], prefix); nextIdx >= 0 {
				valEnd = valStart + nextIdx
			}
		}

		attrs = append(attrs, Attr{
			Key:   string(key),
			Value: string(segment[valStart:valEnd]),
			Start: start,
			End:   valEnd,
		})
		i = valEnd
	}
	return attrs
}

// Get returns the first occurrence of key, or ErrAttrNotFound.
// spec.md §3: "keys are unique after -a/--attr operations (but may
// duplicate under the fast-append mode -A, with the explicit warning that
// lookups return the first occurrence)."
func Get(segment []byte, f AttrFormat, key string) (string, error) {
	for _, a := range ParseAttrs(segment, f) {
		if a.Key == key {
			return a.Value, nil
		}
	}
	return "", ErrAttrNotFound
}

// Has reports whether key is present at all.
func Has(segment []byte, f AttrFormat, key string) bool {
	_, err := Get(segment, f, key)
	return err == nil
}

// Set replaces the rightmost existing attribute with key, or appends one
// using the configured format if none exists (the "-a k=v" semantics).
func Set(segment []byte, f AttrFormat, key, value string) []byte {
	attrs := ParseAttrs(segment, f)
	var last *Attr
	for i := range attrs {
		if attrs[i].Key == key {
			last = &attrs[i]
		}
	}
	if last == nil {
		return Append(segment, f, key, value)
	}
	return replaceRange(segment, last.Start, last.End, f, key, value)
}

// Append always appends a new attribute using the configured format,
// never checking for an existing key (the "-A k=v" fast-append semantics;
// callers are warned duplicate keys then resolve to the first occurrence
// on lookup).
func Append(segment []byte, f AttrFormat, key, value string) []byte {
	out := make([]byte, 0, len(segment)+len(f.Prefix)+len(key)+len(f.Sep)+len(value))
	out = append(out, segment...)
	out = append(out, f.Prefix...)
	out = append(out, key...)
	out = append(out, f.Sep...)
	out = append(out, value...)
	return out
}

// Delete removes the first matched occurrence of key in place, preserving
// surrounding separators (spec.md §4.3). Returns the segment unchanged if
// key is absent.
func Delete(segment []byte, f AttrFormat, key string) []byte {
	attrs := ParseAttrs(segment, f)
	for _, a := range attrs {
		if a.Key == key {
			out := make([]byte, 0, len(segment)-(a.End-a.Start))
			out = append(out, segment[:a.Start]...)
			out = append(out, segment[a.End:]...)
			return out
		}
	}
	return segment
}

func replaceRange(segment []byte, start, end int, f AttrFormat, key, value string) []byte {
	tail := append([]byte(nil), segment[end:]...)
	out := make([]byte, 0, start+len(f.Prefix)+len(key)+len(f.Sep)+len(value)+len(tail))
	out = append(out, segment[:start]...)
	out = append(out, f.Prefix...)
	out = append(out, key...)
	out = append(out, f.Sep...)
	out = append(out, value...)
	out = append(out, tail...)
	return out
}
