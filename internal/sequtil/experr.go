package sequtil

import "math"

// ExpErr computes the expected number of sequencing errors from
// Sanger-encoded (Phred+33) quality bytes: sum of 10^(-Q/10) over the
// read, per spec.md §4.6.
func ExpErr(qual []byte) float64 {
	var sum float64
	for _, q := range qual {
		phred := float64(q) - 33
		sum += math.Pow(10, -phred/10)
	}
	return sum
}
