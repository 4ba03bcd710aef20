// Package vars implements the variable registry and string/expression
// interpolator (C4): a namespace of lazily-evaluated per-record
// variables, a template compiler, and an embedded JS expression host.
package vars

import (
	"fmt"
	"math"
	"strconv"
)

// Kind identifies which alternative of Value is populated.
type Kind uint8

const (
	KindUndefined Kind = iota
	KindText
	KindInt
	KindFloat
)

// Value is the sum type every variable resolves to, per spec.md §4.2:
// "Text(bytes), Int(i64), Float(f64), Undefined."
type Value struct {
	Kind Kind
	Text []byte
	Int  int64
	Flt  float64
}

// Undefined is the sentinel undefined value.
var Undefined = Value{Kind: KindUndefined}

// NewText wraps a text value.
func NewText(b []byte) Value { return Value{Kind: KindText, Text: b} }

// NewInt wraps an integer value.
func NewInt(i int64) Value { return Value{Kind: KindInt, Int: i} }

// NewFloat wraps a float value.
func NewFloat(f float64) Value { return Value{Kind: KindFloat, Flt: f} }

// IsUndefined reports whether v is the Undefined sentinel.
func (v Value) IsUndefined() bool { return v.Kind == KindUndefined }

// String renders v the way it appears in template interpolation:
// Undefined renders as the literal string "undefined" (spec.md §4.2).
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return string(v.Text)
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Flt, 'g', -1, 64)
	default:
		return "undefined"
	}
}

// Num converts v to a float64 for numeric comparison/arithmetic, the
// explicit num() standard function. Text is parsed; unparseable text
// and Undefined yield NaN.
func (v Value) Num() float64 {
	switch v.Kind {
	case KindInt:
		return float64(v.Int)
	case KindFloat:
		return v.Flt
	case KindText:
		f, err := strconv.ParseFloat(string(v.Text), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// Equal implements Value equality: Undefined compares unequal to
// everything except itself (spec.md §4.2).
func (v Value) Equal(other Value) bool {
	if v.Kind == KindUndefined || other.Kind == KindUndefined {
		return v.Kind == KindUndefined && other.Kind == KindUndefined
	}
	if v.Kind == KindText || other.Kind == KindText {
		return v.String() == other.String()
	}
	return v.Num() == other.Num()
}

// Less implements the numeric ordering of spec.md §4.2: "NaN sorts
// last, Undefined sorts last" — Undefined is strictly greater than
// every defined value, and within defined values NaN is strictly
// greater than every non-NaN value.
func Less(a, b Value) bool {
	if a.Kind == KindUndefined {
		return false
	}
	if b.Kind == KindUndefined {
		return true
	}
	an, bn := a.Num(), b.Num()
	aNaN, bNaN := math.IsNaN(an), math.IsNaN(bn)
	if aNaN && bNaN {
		return false
	}
	if aNaN {
		return false
	}
	if bNaN {
		return true
	}
	return an < bn
}

// GoValue converts v into a plain Go value suitable for handing to the
// JS host as a global binding.
func (v Value) GoValue() interface{} {
	switch v.Kind {
	case KindText:
		return string(v.Text)
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Flt
	default:
		return nil
	}
}

// FromGoValue converts a value returned by the JS host back into a
// Value, for the result of an evaluated JS expression.
func FromGoValue(x interface{}) Value {
	switch t := x.(type) {
	case nil:
		return Undefined
	case string:
		return NewText([]byte(t))
	case bool:
		if t {
			return NewInt(1)
		}
		return NewInt(0)
	case int64:
		return NewInt(t)
	case int:
		return NewInt(int64(t))
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			return NewInt(int64(t))
		}
		return NewFloat(t)
	default:
		return NewText([]byte(fmt.Sprintf("%v", t)))
	}
}
