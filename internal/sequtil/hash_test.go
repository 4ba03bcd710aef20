package sequtil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeqHashDeterministic(t *testing.T) {
	assert.Equal(t, SeqHash([]byte("ACGTACGT")), SeqHash([]byte("ACGTACGT")))
}

func TestSeqHashRevMatchesManualRevComp(t *testing.T) {
	seq := []byte("ACGTACGT")
	assert.Equal(t, SeqHash(RevComp(seq, SeqTypeDNA)), SeqHashRev(seq, SeqTypeDNA))
}

func TestSeqHashMinStrandAgnostic(t *testing.T) {
	seq := []byte("ACGTACGT")
	rc := RevComp(seq, SeqTypeDNA)
	assert.Equal(t, SeqHashMin(seq, SeqTypeDNA), SeqHashMin(rc, SeqTypeDNA))
}

func TestSeqHashMinIsMinOfBoth(t *testing.T) {
	seq := []byte("ACGTACGT")
	fwd := SeqHash(seq)
	rev := SeqHashRev(seq, SeqTypeDNA)
	want := fwd
	if rev < fwd {
		want = rev
	}
	assert.Equal(t, want, SeqHashMin(seq, SeqTypeDNA))
}
