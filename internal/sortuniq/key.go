// Package sortuniq implements the external sort/unique engine (C8):
// key extraction via the C4 registry, an in-memory accumulator that
// spills to disk once a memory budget is exceeded, and a k-way merge
// that restores a single sorted stream (spec.md §4.8).
package sortuniq

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/seqtoolkit/st/internal/vars"
)

// Key is a composite sort/unique key: one vars.Value per comma-
// separated key expression, per spec.md §4.8 ("may be composite
// (comma-separated keys compared lexicographically field by field,
// with numeric ordering for numeric fields)").
type Key []vars.Value

// KeySpec is a compiled, comma-separated list of key expressions.
type KeySpec struct {
	templates []*vars.Template
}

// CompileKey parses a comma-separated key expression string (e.g.
// "seqlen" or "gc_percent,id") into a KeySpec. Each field is compiled
// as its own template so a bare variable field (the common case)
// preserves its typed Value instead of being rendered to text.
func CompileKey(expr string, host *vars.JSHost) (*KeySpec, error) {
	fields := strings.Split(expr, ",")
	spec := &KeySpec{templates: make([]*vars.Template, len(fields))}
	for i, f := range fields {
		f = strings.TrimSpace(f)
		if !strings.Contains(f, "{") {
			// a brace-free field such as "seqlen" names a variable
			f = "{" + f + "}"
		}
		t, err := vars.Compile(f, host)
		if err != nil {
			return nil, fmt.Errorf("compiling key field %q: %w", f, err)
		}
		spec.templates[i] = t
	}
	return spec, nil
}

// Eval computes ctx's key.
func (s *KeySpec) Eval(ctx vars.Context) (Key, error) {
	k := make(Key, len(s.templates))
	for i, t := range s.templates {
		v, err := t.EvalSingle(ctx)
		if err != nil {
			return nil, err
		}
		k[i] = v
	}
	return k, nil
}

// Compare orders two keys field by field: numeric Kinds (Int/Float)
// compare numerically, everything else compares as text, and
// Undefined always sorts last within a field — the same invariant
// spec.md §4.2 states for Value ordering, specialized per-field rather
// than applied uniformly the way vars.Less does, so that a text field
// of non-numeric strings doesn't collapse to "all equal" under Num().
func Compare(a, b Key) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := compareValue(a[i], b[i]); c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}

func compareValue(a, b vars.Value) int {
	aUndef, bUndef := a.IsUndefined(), b.IsUndefined()
	if aUndef && bUndef {
		return 0
	}
	if aUndef {
		return 1
	}
	if bUndef {
		return -1
	}
	aNum := a.Kind == vars.KindInt || a.Kind == vars.KindFloat
	bNum := b.Kind == vars.KindInt || b.Kind == vars.KindFloat
	if aNum && bNum {
		an, bn := a.Num(), b.Num()
		aNaN, bNaN := math.IsNaN(an), math.IsNaN(bn)
		switch {
		case aNaN && bNaN:
			return 0
		case aNaN:
			return 1
		case bNaN:
			return -1
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a.String(), b.String())
}

// EncodeKey serializes a Key for spill storage, preserving enough of
// each field's Kind/Text/Int/Flt to reconstruct an equivalent Key (and
// hence a correct Compare) after a round trip through disk.
func EncodeKey(k Key) []byte {
	size := 4
	for _, v := range k {
		size += 1 + 8 + 4 + len(v.Text)
	}
	buf := make([]byte, size)
	i := 0
	binary.LittleEndian.PutUint32(buf[i:], uint32(len(k)))
	i += 4
	for _, v := range k {
		buf[i] = byte(v.Kind)
		i++
		switch v.Kind {
		case vars.KindInt:
			binary.LittleEndian.PutUint64(buf[i:], uint64(v.Int))
		case vars.KindFloat:
			binary.LittleEndian.PutUint64(buf[i:], math.Float64bits(v.Flt))
		}
		i += 8
		binary.LittleEndian.PutUint32(buf[i:], uint32(len(v.Text)))
		i += 4
		copy(buf[i:], v.Text)
		i += len(v.Text)
	}
	return buf[:i]
}

// DecodeKey reverses EncodeKey.
func DecodeKey(buf []byte) (Key, error) {
	if len(buf) < 4 {
		return nil, fmt.Errorf("sortuniq: truncated key")
	}
	n := int(binary.LittleEndian.Uint32(buf))
	i := 4
	k := make(Key, n)
	for f := 0; f < n; f++ {
		if i+1+8+4 > len(buf) {
			return nil, fmt.Errorf("sortuniq: truncated key field %d", f)
		}
		kind := vars.Kind(buf[i])
		i++
		raw := binary.LittleEndian.Uint64(buf[i:])
		i += 8
		tlen := int(binary.LittleEndian.Uint32(buf[i:]))
		i += 4
		if i+tlen > len(buf) {
			return nil, fmt.Errorf("sortuniq: truncated key field %d text", f)
		}
		var text []byte
		if tlen > 0 {
			text = append([]byte(nil), buf[i:i+tlen]...)
		}
		i += tlen
		switch kind {
		case vars.KindInt:
			k[f] = vars.NewInt(int64(raw))
		case vars.KindFloat:
			k[f] = vars.NewFloat(math.Float64frombits(raw))
		case vars.KindText:
			k[f] = vars.NewText(text)
		default:
			k[f] = vars.Undefined
		}
	}
	return k, nil
}
