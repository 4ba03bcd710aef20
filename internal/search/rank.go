package search

import "sort"

// Rank sorts matches in place per spec.md §4.7 phase 4: "primary key =
// edit distance ascending; secondary key = start position ascending;
// --in-order overrides to order by start ascending only." HitRank is
// then assigned 1-based in the resulting order.
func Rank(matches []Match, inOrder bool) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if inOrder {
			return a.Start < b.Start
		}
		if a.Diffs != b.Diffs {
			return a.Diffs < b.Diffs
		}
		return a.Start < b.Start
	})
	for i := range matches {
		matches[i].HitRank = i + 1
	}
}

// ReorderPatterns implements spec.md §4.7 phase 6: "best hit per
// pattern is computed, then patterns are reordered so that the pattern
// with the best overall hit (lowest distance, then lowest start) is
// rank 1." byPattern is indexed by pattern index (rank-1'd matches for
// that pattern, best hit first per Rank's ordering); it returns the
// permutation of pattern indices in display order.
func ReorderPatterns(byPattern [][]Match) []int {
	order := make([]int, len(byPattern))
	for i := range order {
		order[i] = i
	}
	best := func(idx int) (int, int, bool) {
		ms := byPattern[idx]
		if len(ms) == 0 {
			return 0, 0, false
		}
		return ms[0].Diffs, ms[0].Start, true
	}
	sort.SliceStable(order, func(i, j int) bool {
		di, si, oki := best(order[i])
		dj, sj, okj := best(order[j])
		if oki != okj {
			return oki // patterns with a hit sort before ones without
		}
		if !oki {
			return false
		}
		if di != dj {
			return di < dj
		}
		return si < sj
	})
	return order
}
