package cliapp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seqtoolkit/st/internal/sortuniq"
	"github.com/seqtoolkit/st/internal/vars"
)

func TestKeyStringJoinsFieldsWithComma(t *testing.T) {
	k := sortuniq.Key{vars.NewText([]byte("ACGT")), vars.NewInt(4)}
	assert.Equal(t, "ACGT,4", keyString(k))
}

func TestKeyStringSingleField(t *testing.T) {
	k := sortuniq.Key{vars.NewInt(2)}
	assert.Equal(t, "2", keyString(k))
}
