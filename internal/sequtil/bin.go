package sequtil

import (
	"math"
	"strconv"
)

// Bin returns the half-open interval key (lo, lo+w] for x, where
// lo = floor(x/w)*w (so an x on a multiple of w gets the bin whose lower
// bound equals x), rendered as a stable string key "(lo,hi]" per
// spec.md §4.6. Values are rounded to 6 decimal places before
// formatting so floating-point noise doesn't produce distinct keys for
// what is semantically the same bin boundary.
func Bin(x, w float64) string {
	lo := math.Floor(x/w) * w
	hi := lo + w
	return "(" + formatBin(lo) + "," + formatBin(hi) + "]"
}

// BinLo returns the numeric lower bound of x's bin, for callers that
// need ordering rather than the rendered string key.
func BinLo(x, w float64) float64 {
	return round6(math.Floor(x/w) * w)
}

func formatBin(x float64) string {
	return strconv.FormatFloat(round6(x), 'f', -1, 64)
}

func round6(x float64) float64 {
	const scale = 1e6
	return math.Round(x*scale) / scale
}
