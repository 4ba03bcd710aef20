package search

// Match is one search hit, the C7 output record described in
// spec.md §3: "for each pattern and each hit,
// {pattern_index, hit_rank, start, end, diffs, ins, del, subst,
// regex_groups[], aligned_pattern, aligned_match}." Start/End are
// 1-based inclusive relative to the sequence.
type Match struct {
	PatternIdx int
	HitRank    int
	Start, End int
	Diffs      int
	Ins, Del, Subst int
	RegexGroups     []string
	AlignedPattern  []byte
	AlignedMatch    []byte
}

// GapPenalty returns subst + g*(ins+del), the tie-break score of
// spec.md §4.7 phase 2.
func (m Match) GapPenalty(g int) int {
	return m.Subst + g*(m.Ins+m.Del)
}

// Config bundles the search options of spec.md §4.7's Inputs list that
// matter once the algorithm is running.
type Config struct {
	MaxDiffs     int  // D, absolute
	GapPenalty   int  // g, default 2
	Ambiguity    bool
	Alphabet     Alphabet
	InOrder      bool // --in-order: rank by start ascending only
	MaxShiftStart int // anchoring; <0 means unset
	MaxShiftEnd   int // anchoring; <0 means unset
	AnchorStart   bool
	AnchorEnd     bool
}

// DefaultGapPenalty is g's default per spec.md §4.7.
const DefaultGapPenalty = 2

// FindMatches runs the full single-pattern pipeline of spec.md §4.7
// phases 1-3 (end-position scan, start refinement, dedup) and returns
// the resulting Match set, unranked and unanchored.
func FindMatches(target, pattern []byte, patternIdx int, cfg Config) []Match {
	if len(pattern) == 0 {
		return nil
	}
	maxD := cfg.MaxDiffs

	var ends []EndPos
	if maxD == 0 && !cfg.Ambiguity {
		ends = ExactSearch(target, pattern)
	} else {
		ends = MyersSearch(target, pattern, maxD, cfg.Ambiguity, cfg.Alphabet)
	}

	seen := make(map[[2]int]bool)
	var matches []Match
	for _, ep := range ends {
		start, ins, del, subst := refineStart(target, pattern, ep, cfg)
		key := [2]int{start, ep.End}
		if seen[key] {
			continue
		}
		seen[key] = true
		matches = append(matches, Match{
			PatternIdx: patternIdx,
			Start:      start + 1, // 1-based inclusive
			End:        ep.End,
			Diffs:      ep.Dist,
			Ins:        ins,
			Del:        del,
			Subst:      subst,
		})
	}
	return matches
}

// refineStart performs the semi-global backtrace of spec.md §4.7 phase
// 2: given a hit's end position and distance, find the minimal-distance
// start position, breaking ties among equally-good starts by gap
// penalty. It runs a bounded DP over a window just large enough to
// contain any alignment achieving ep.Dist.
func refineStart(target, pattern []byte, ep EndPos, cfg Config) (start, ins, del, subst int) {
	m := len(pattern)
	maxD := ep.Dist
	if maxD == 0 {
		maxD = cfg.MaxDiffs
	}
	lo := ep.End - m - maxD
	if lo < 0 {
		lo = 0
	}
	window := target[lo:ep.End]

	bestStart, bestIns, bestDel, bestSubst := -1, 0, 0, 0
	bestPenalty := -1
	for s := 0; s < len(window); s++ {
		sub := window[s:]
		if len(sub) < m-maxD {
			continue
		}
		dist, ins2, del2, subst2 := alignDistance(sub, pattern, maxD, cfg)
		if dist < 0 || dist != ep.Dist {
			continue
		}
		penalty := subst2 + cfg.GapPenalty*(ins2+del2)
		if bestPenalty < 0 || penalty < bestPenalty ||
			(penalty == bestPenalty && lo+s > bestStart) {
			bestPenalty = penalty
			bestStart = lo + s
			bestIns, bestDel, bestSubst = ins2, del2, subst2
		}
	}
	if bestStart < 0 {
		// Unreachable once the end-pass distance is correct: every end
		// position it reports should reconcile with some start in this
		// window. Recompute the breakdown directly so Ins/Del/Subst
		// never go out reporting 0/0/0 against a nonzero Diffs.
		bestStart = ep.End - m
		if bestStart < 0 {
			bestStart = 0
		}
		sub := target[bestStart:ep.End]
		_, bestIns, bestDel, bestSubst = alignDistance(sub, pattern, len(sub)+m, cfg)
	}
	return bestStart, bestIns, bestDel, bestSubst
}

// alignDistance computes the classic full (not banded) edit-distance DP
// between sub and pattern, capped at maxD+1 (returns -1 if it exceeds
// maxD), also recovering an ins/del/subst breakdown from the traceback.
// This is only ever invoked on short, bounded windows from refineStart,
// so its O(n*m) cost is immaterial.
func alignDistance(sub, pattern []byte, maxD int, cfg Config) (dist, ins, del, subst int) {
	n, m := len(sub), len(pattern)
	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
		dp[i][0] = i
	}
	for j := 0; j <= m; j++ {
		dp[0][j] = j
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			match := sub[i-1] == pattern[j-1]
			if cfg.Ambiguity {
				match = Matches(pattern[j-1], sub[i-1], cfg.Alphabet)
			}
			subCost := dp[i-1][j-1]
			if !match {
				subCost++
			}
			delCost := dp[i-1][j] + 1
			insCost := dp[i][j-1] + 1
			best := subCost
			if delCost < best {
				best = delCost
			}
			if insCost < best {
				best = insCost
			}
			dp[i][j] = best
		}
	}
	if dp[n][m] > maxD {
		return -1, 0, 0, 0
	}
	ins, del, subst = traceback(dp, sub, pattern, cfg)
	return dp[n][m], ins, del, subst
}

// traceback walks the DP matrix from (n,m) back to (0,0), classifying
// each step as an insertion, deletion, or substitution (a match costs
// nothing and isn't counted).
func traceback(dp [][]int, sub, pattern []byte, cfg Config) (ins, del, subst int) {
	i, j := len(sub), len(pattern)
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && dp[i][j] == dp[i-1][j-1] && matchesAt(sub, pattern, i, j, cfg):
			i--
			j--
		case i > 0 && j > 0 && dp[i][j] == dp[i-1][j-1]+1:
			subst++
			i--
			j--
		case i > 0 && dp[i][j] == dp[i-1][j]+1:
			del++
			i--
		case j > 0 && dp[i][j] == dp[i][j-1]+1:
			ins++
			j--
		default:
			if i > 0 {
				i--
			} else {
				j--
			}
		}
	}
	return
}

func matchesAt(sub, pattern []byte, i, j int, cfg Config) bool {
	if cfg.Ambiguity {
		return Matches(pattern[j-1], sub[i-1], cfg.Alphabet)
	}
	return sub[i-1] == pattern[j-1]
}
