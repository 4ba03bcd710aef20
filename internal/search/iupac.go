// Package search implements the approximate pattern-search engine (C7):
// IUPAC-aware exact and bit-parallel approximate matching, ranking,
// anchoring, and multi-threaded record dispatch.
package search

// Alphabet selects which IUPAC ambiguity table expand/contains use.
type Alphabet uint8

const (
	AlphabetDNA Alphabet = iota
	AlphabetRNA
	AlphabetProtein
)

// dnaExpand and rnaExpand map each IUPAC ambiguity letter to the bitmask
// of concrete bases it denotes, bit i set for base i of "ACGT"/"ACGU".
var dnaExpand = buildExpand("ACGT", map[byte]string{
	'A': "A", 'C': "C", 'G': "G", 'T': "T",
	'R': "AG", 'Y': "CT", 'S': "CG", 'W': "AT",
	'K': "GT", 'M': "AC", 'B': "CGT", 'D': "AGT",
	'H': "ACT", 'V': "ACG", 'N': "ACGT",
})

var rnaExpand = buildExpand("ACGU", map[byte]string{
	'A': "A", 'C': "C", 'G': "G", 'U': "U",
	'R': "AG", 'Y': "CU", 'S': "CG", 'W': "AU",
	'K': "GU", 'M': "AC", 'B': "CGU", 'D': "AGU",
	'H': "ACU", 'V': "ACG", 'N': "ACGU",
})

// proteinExpand covers the 20 amino acids plus the ambiguity letters
// B/Z/X; spec.md §3: "the protein alphabet including B/Z/X but excluding
// U as ambiguity" (selenocysteine 'U' is a concrete residue here, not an
// ambiguity code).
var proteinExpand = buildExpand("ACDEFGHIKLMNPQRSTVWY", map[byte]string{
	'A': "A", 'C': "C", 'D': "D", 'E': "E", 'F': "F", 'G': "G", 'H': "H",
	'I': "I", 'K': "K", 'L': "L", 'M': "M", 'N': "N", 'P': "P", 'Q': "Q",
	'R': "R", 'S': "S", 'T': "T", 'V': "V", 'W': "W", 'Y': "Y",
	'B': "DN", 'Z': "EQ",
	'X': "ACDEFGHIKLMNPQRSTVWY",
})

func buildExpand(bases string, table map[byte]string) [256]uint32 {
	pos := make(map[byte]int, len(bases))
	for i := 0; i < len(bases); i++ {
		pos[bases[i]] = i
	}
	var out [256]uint32
	for letter, members := range table {
		var mask uint32
		for i := 0; i < len(members); i++ {
			mask |= 1 << uint(pos[members[i]])
		}
		out[letter] = mask
		out[letter+32] = mask // lowercase mirrors uppercase
	}
	return out
}

func expandTable(a Alphabet) *[256]uint32 {
	switch a {
	case AlphabetRNA:
		return &rnaExpand
	case AlphabetProtein:
		return &proteinExpand
	default:
		return &dnaExpand
	}
}

// Expand returns the bitmask of concrete symbols letter denotes.
func Expand(letter byte, a Alphabet) uint32 {
	return expandTable(a)[letter]
}

// Matches implements the asymmetric IUPAC containment rule of
// spec.md §4.7: a pattern letter P matches a sequence letter C iff
// expand(C) ⊆ expand(P). An exact literal match (both masks equal and
// single-bit) is the unambiguous special case.
func Matches(patternLetter, seqLetter byte, a Alphabet) bool {
	t := expandTable(a)
	p, c := t[patternLetter], t[seqLetter]
	if p == 0 || c == 0 {
		return patternLetter == seqLetter
	}
	return c&^p == 0 // c subset of p
}
