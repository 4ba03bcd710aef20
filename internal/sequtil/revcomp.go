// Package sequtil implements the sequence-level derived values C10
// provides to the variable registry and range engine: reverse
// complement, GC content, expected error, binning, and strand-agnostic
// hashing.
package sequtil

// SeqType selects which complement table revcomp uses. spec.md §4.6:
// "byte-level complementation table including IUPAC ambiguities for DNA
// and RNA (select by declared seqtype)".
type SeqType uint8

const (
	SeqTypeDNA SeqType = iota
	SeqTypeRNA
)

// dnaComplement and rnaComplement are IUPAC-aware complement tables.
// Ambiguity codes complement to the code spanning the complementary
// bases (e.g. R = A|G complements to Y = C|T). Case is preserved so a
// softmasked (lowercase) record stays softmasked after reversal.
var dnaComplement = buildComplementTable(map[byte]byte{
	'A': 'T', 'T': 'A', 'C': 'G', 'G': 'C',
	'U': 'A',
	'R': 'Y', 'Y': 'R', // A|G <-> C|T
	'S': 'S',           // C|G
	'W': 'W',           // A|T
	'K': 'M', 'M': 'K', // G|T <-> A|C
	'B': 'V', 'V': 'B', // C|G|T <-> A|C|G
	'D': 'H', 'H': 'D', // A|G|T <-> A|C|T
	'N': 'N',
})

var rnaComplement = buildComplementTable(map[byte]byte{
	'A': 'U', 'U': 'A', 'C': 'G', 'G': 'C',
	'T': 'A',
	'R': 'Y', 'Y': 'R',
	'S': 'S',
	'W': 'W',
	'K': 'M', 'M': 'K',
	'B': 'V', 'V': 'B',
	'D': 'H', 'H': 'D',
	'N': 'N',
})

func buildComplementTable(upper map[byte]byte) [256]byte {
	var table [256]byte
	for i := range table {
		table[i] = byte(i)
	}
	for k, v := range upper {
		table[k] = v
		table[k+32] = v + 32 // lowercase mirror
	}
	return table
}

// RevComp returns the reverse complement of seq, preserving case and
// passing through any byte not present in the complement table
// unchanged (non-nucleotide bytes, e.g. in mixed-alphabet data, are left
// alone rather than rejected).
func RevComp(seq []byte, st SeqType) []byte {
	table := &dnaComplement
	if st == SeqTypeRNA {
		table = &rnaComplement
	}
	out := make([]byte, len(seq))
	n := len(seq)
	for i, b := range seq {
		out[n-1-i] = table[b]
	}
	return out
}

// ReverseQual reverses quality bytes without complementing them — qualities
// describe read positions, not bases, so spec.md §4.6 calls for a plain
// reversal alongside RevComp's complementation.
func ReverseQual(qual []byte) []byte {
	out := make([]byte, len(qual))
	n := len(qual)
	for i, b := range qual {
		out[n-1-i] = b
	}
	return out
}
