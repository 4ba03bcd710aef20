package search

import "bytes"

// EndPos is one approximate-match end position with its edit distance,
// the output of the end-position pass (spec.md §4.7 phase 1).
type EndPos struct {
	End  int // 0-based, exclusive (byte offset just past the match)
	Dist int
}

// ExactSearch finds every occurrence of pattern in target, case-sensitive,
// per spec.md §4.7's algorithm-selection rule: "if D == 0 and no
// ambiguities: Two-Way exact search." Go's stdlib substring search
// (bytes.Index) already implements a Two-Way-family algorithm, so this
// is a thin repeated-Index loop rather than a hand-rolled variant.
func ExactSearch(target, pattern []byte) []EndPos {
	if len(pattern) == 0 || len(pattern) > len(target) {
		return nil
	}
	var hits []EndPos
	start := 0
	for start <= len(target)-len(pattern) {
		idx := bytes.Index(target[start:], pattern)
		if idx < 0 {
			break
		}
		abs := start + idx
		hits = append(hits, EndPos{End: abs + len(pattern), Dist: 0})
		start = abs + 1
	}
	return hits
}
