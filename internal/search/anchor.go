package search

// Anchor filters matches per spec.md §4.7 phase 5: discard hits with
// start > max_shift_start + 1, or (seqLen - end) > max_shift_end, for
// whichever bound has its option set. Anchoring is strictly post-hoc
// rejection — a hit whose best alignment doesn't satisfy the anchor is
// dropped outright, never re-aligned, "a documented difference from
// Cutadapt's anchored mode" (spec.md §4.7, pinned in DESIGN.md).
func Anchor(matches []Match, seqLen int, cfg Config) []Match {
	if !cfg.AnchorStart && !cfg.AnchorEnd {
		return matches
	}
	out := matches[:0]
	for _, m := range matches {
		if cfg.AnchorStart && m.Start > cfg.MaxShiftStart+1 {
			continue
		}
		if cfg.AnchorEnd && (seqLen-m.End) > cfg.MaxShiftEnd {
			continue
		}
		out = append(out, m)
	}
	return out
}
