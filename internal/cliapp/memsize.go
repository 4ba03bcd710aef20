package cliapp

import (
	"fmt"
	"strconv"
	"strings"
)

// parseMemSize parses a --max-mem argument like "256MB", "1GB", or a bare
// byte count, for sortuniq.NewSorter/NewUnique's maxMem parameter. No
// example in the pack parses human-readable byte sizes, so this is a
// small stdlib-only utility rather than a wired third-party dependency.
func parseMemSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	upper := strings.ToUpper(s)
	mult := int64(1)
	switch {
	case strings.HasSuffix(upper, "GB"):
		mult = 1 << 30
		s = s[:len(s)-2]
	case strings.HasSuffix(upper, "MB"):
		mult = 1 << 20
		s = s[:len(s)-2]
	case strings.HasSuffix(upper, "KB"):
		mult = 1 << 10
		s = s[:len(s)-2]
	case strings.HasSuffix(upper, "G"):
		mult = 1 << 30
		s = s[:len(s)-1]
	case strings.HasSuffix(upper, "M"):
		mult = 1 << 20
		s = s[:len(s)-1]
	case strings.HasSuffix(upper, "K"):
		mult = 1 << 10
		s = s[:len(s)-1]
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	return n * mult, nil
}
