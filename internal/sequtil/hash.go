package sequtil

import "github.com/zeebo/xxh3"

// SeqHash returns the XXH3-64 hash of seq as-is, for the seqhash
// standard variable (spec.md §4.2: "hash functions use XXH3-64").
func SeqHash(seq []byte) uint64 {
	return xxh3.Hash(seq)
}

// SeqHashRev returns the XXH3-64 hash of seq's reverse complement, for
// seqhash_rev.
func SeqHashRev(seq []byte, st SeqType) uint64 {
	return xxh3.Hash(RevComp(seq, st))
}

// SeqHashMin returns min(SeqHash(seq), SeqHashRev(seq)) — identical
// under strand reversal. Pinned per the Open Question in spec.md §9: the
// literal, unambiguous reading of "strand-agnostic minimum", requiring
// no additional mixing-function assumption.
func SeqHashMin(seq []byte, st SeqType) uint64 {
	fwd := SeqHash(seq)
	rev := SeqHashRev(seq, st)
	if rev < fwd {
		return rev
	}
	return fwd
}
