package sequtil

// GCCount returns the count of G/C bases and the count of A/C/G/T/U
// bases, both restricted to uppercase letters per spec.md §4.6:
// "lowercase (softmasked) and N are excluded from numerator and
// denominator."
func GCCount(seq []byte) (gc, denom int64) {
	for _, b := range seq {
		switch b {
		case 'G', 'C':
			gc++
			denom++
		case 'A', 'T', 'U':
			denom++
		}
	}
	return gc, denom
}

// GCPercent computes 100 * gc/denom, returning 0 for a sequence with no
// countable bases (empty or entirely lowercase/N).
func GCPercent(seq []byte) float64 {
	gc, denom := GCCount(seq)
	if denom == 0 {
		return 0
	}
	return 100 * float64(gc) / float64(denom)
}

// UngappedLen counts bytes that are not a gap character ('-' or '.').
func UngappedLen(seq []byte) int {
	n := 0
	for _, b := range seq {
		if b != '-' && b != '.' {
			n++
		}
	}
	return n
}

// CharCount counts occurrences of any byte in chars within seq, for the
// charcount(chars) standard variable.
func CharCount(seq []byte, chars []byte) int64 {
	var set [256]bool
	for _, c := range chars {
		set[c] = true
	}
	var n int64
	for _, b := range seq {
		if set[b] {
			n++
		}
	}
	return n
}
