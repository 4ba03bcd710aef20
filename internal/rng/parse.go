package rng

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseRangeList parses a comma-separated range-list string of the form
// spec.md §8 scenario 2 uses ("2:4", "5:2"): each entry is "start:end"
// where either side may be empty (meaning Undefined/unbounded) or
// negative (offset from the sequence's end). zeroBased and exclusive
// apply uniformly to every range in the list — spec.md names a single
// `-0`/`--zero-based` flag on trim/mask, not a per-range modifier, so
// that's the granularity this parser exposes too.
func ParseRangeList(spec string, zeroBased, exclusive bool) (MultiRange, error) {
	if spec == "" {
		return nil, fmt.Errorf("empty range list")
	}
	var out MultiRange
	for _, tok := range strings.Split(spec, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		r, err := parseOneRange(tok, zeroBased, exclusive)
		if err != nil {
			return nil, fmt.Errorf("parsing range %q: %w", tok, err)
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty range list")
	}
	return out, nil
}

func parseOneRange(tok string, zeroBased, exclusive bool) (Range, error) {
	parts := strings.SplitN(tok, ":", 2)
	if len(parts) != 2 {
		// A bare "N" range means a single position, [N, N].
		n, err := parseBound(tok)
		if err != nil {
			return Range{}, err
		}
		return Range{Start: n, End: n, ZeroBased: zeroBased, Exclusive: exclusive}, nil
	}
	s, err := parseBound(parts[0])
	if err != nil {
		return Range{}, err
	}
	e, err := parseBound(parts[1])
	if err != nil {
		return Range{}, err
	}
	return Range{Start: s, End: e, ZeroBased: zeroBased, Exclusive: exclusive}, nil
}

func parseBound(s string) (int64, error) {
	if s == "" {
		return Undefined, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return n, nil
}
