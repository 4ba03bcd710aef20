package seqio

import "math"

// QualityEncoding adapts vertti-fastqpacker/internal/encoder/quality.go's
// detection heuristic for the I/O-boundary conversion spec.md §3 requires
// ("their encoding is Sanger/Illumina-1.8 by default and may be declared
// as Illumina-1.3 or Solexa, with conversion applied on read or write").
type QualityEncoding uint8

const (
	EncodingSanger     QualityEncoding = iota // Phred+33, Sanger/Illumina-1.8+
	EncodingIllumina13                        // Phred+64, Illumina 1.3-1.7
	EncodingSolexa                             // Solexa+64, pre-1.3 (log-odds scale)
)

const (
	sangerOffset     = 33
	illumina13Offset = 64
	solexaOffset     = 64
)

// DetectEncoding scans quality bytes and returns the likely encoding,
// directly adapting encoder.DetectEncoding's min-byte heuristic: any byte
// below ';' (59) is definitely Sanger; a minimum at or above '@' (64)
// with no such low byte is Illumina-1.3-range.  Solexa is never
// autodetected (it is indistinguishable from Illumina-1.3 by range alone)
// — it must be declared explicitly.
func DetectEncoding(qualities [][]byte) QualityEncoding {
	minByte := byte(255)
	for _, qual := range qualities {
		for _, b := range qual {
			if b < minByte {
				minByte = b
			}
			if b < 59 {
				return EncodingSanger
			}
		}
	}
	if minByte == 255 {
		return EncodingSanger
	}
	if minByte >= 64 {
		return EncodingIllumina13
	}
	return EncodingSanger
}

// ToSangerQuality converts qual (in enc) into Sanger-encoded quality
// scores, in place where the arithmetic is linear (Sanger, Illumina-1.3)
// and via the log-odds formula for Solexa.
func ToSangerQuality(qual []byte, enc QualityEncoding) {
	switch enc {
	case EncodingSanger:
		return
	case EncodingIllumina13:
		for i := range qual {
			qual[i] = qual[i] - illumina13Offset + sangerOffset
		}
	case EncodingSolexa:
		for i := range qual {
			qSolexa := int(qual[i]) - solexaOffset
			qPhred := solexaToPhred(qSolexa)
			qual[i] = byte(qPhred + sangerOffset)
		}
	}
}

// FromSangerQuality is the inverse of ToSangerQuality, used when writing
// output declared in a non-Sanger encoding.
func FromSangerQuality(qual []byte, enc QualityEncoding) {
	switch enc {
	case EncodingSanger:
		return
	case EncodingIllumina13:
		for i := range qual {
			qual[i] = qual[i] - sangerOffset + illumina13Offset
		}
	case EncodingSolexa:
		for i := range qual {
			qPhred := int(qual[i]) - sangerOffset
			qSolexa := phredToSolexa(qPhred)
			qual[i] = byte(qSolexa + solexaOffset)
		}
	}
}

// solexaToPhred converts a Solexa log-odds quality score to a Phred
// quality score: Qphred = 10*log10(10^(Qsolexa/10) + 1).
func solexaToPhred(qSolexa int) int {
	odds := math.Pow(10, float64(qSolexa)/10)
	q := 10 * math.Log10(odds+1)
	return int(math.Round(q))
}

// phredToSolexa is the inverse: Qsolexa = 10*log10(10^(Qphred/10) - 1).
func phredToSolexa(qPhred int) int {
	if qPhred <= 0 {
		qPhred = 1
	}
	p := math.Pow(10, float64(qPhred)/10)
	q := 10 * math.Log10(p-1)
	return int(math.Round(q))
}
