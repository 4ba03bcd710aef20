package vars

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueString(t *testing.T) {
	assert.Equal(t, "undefined", Undefined.String())
	assert.Equal(t, "hi", NewText([]byte("hi")).String())
	assert.Equal(t, "42", NewInt(42).String())
}

func TestValueNum(t *testing.T) {
	assert.Equal(t, 3.0, NewInt(3).Num())
	assert.Equal(t, 2.5, NewFloat(2.5).Num())
	assert.Equal(t, 7.0, NewText([]byte("7")).Num())
	assert.True(t, math.IsNaN(NewText([]byte("nope")).Num()))
	assert.True(t, math.IsNaN(Undefined.Num()))
}

func TestValueEqual(t *testing.T) {
	assert.True(t, Undefined.Equal(Undefined))
	assert.False(t, Undefined.Equal(NewInt(0)))
	assert.True(t, NewInt(3).Equal(NewFloat(3)))
	assert.True(t, NewText([]byte("x")).Equal(NewText([]byte("x"))))
}

func TestValueLessOrdering(t *testing.T) {
	assert.True(t, Less(NewInt(1), NewInt(2)))
	assert.False(t, Less(NewInt(2), NewInt(1)))
	// Undefined sorts last.
	assert.True(t, Less(NewInt(100), Undefined))
	assert.False(t, Less(Undefined, NewInt(100)))
	// NaN sorts last among defined values.
	nan := NewFloat(math.NaN())
	assert.True(t, Less(NewInt(5), nan))
	assert.False(t, Less(nan, NewInt(5)))
}
