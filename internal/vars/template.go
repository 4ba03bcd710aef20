package vars

import (
	"fmt"
	"strings"
	"unicode"
)

// part is one compiled piece of a template: either literal text, a
// compile-time-resolved bare variable, or a JS expression handed to the
// embedded evaluator.
type part struct {
	literal []byte
	handle  *Handle
	js      *compiledJS
}

// Template is a compiled `{...}`/`{{...}}` interpolation string, per
// spec.md §4.2.
type Template struct {
	parts []part
}

// Compile parses src, classifying each `{...}` span as a bare variable
// or a JS expression per the rule in spec.md §4.2: "if the inside
// parses as ident or ident(args…) with arguments that are literals or
// idents, it is a bare variable; otherwise it is a JS expression."
// Doubled braces `{{...}}` are always JS (the legacy escape).
func Compile(src string, host *JSHost) (*Template, error) {
	t := &Template{}
	i := 0
	for i < len(src) {
		open := strings.IndexByte(src[i:], '{')
		if open < 0 {
			t.parts = append(t.parts, part{literal: []byte(src[i:])})
			break
		}
		open += i
		if open > i {
			t.parts = append(t.parts, part{literal: []byte(src[i:open])})
		}

		doubled := open+1 < len(src) && src[open+1] == '{'
		start := open + 1
		if doubled {
			start = open + 2
		}

		end, closeLen, err := findClose(src, start, doubled)
		if err != nil {
			return nil, err
		}
		inner := src[start:end]

		var p part
		if doubled {
			js, err := host.Compile(inner)
			if err != nil {
				return nil, fmt.Errorf("compiling JS expression %q: %w", inner, err)
			}
			p = part{js: js}
		} else if name, args, ok := parseBareVariable(inner); ok {
			h, err := Resolve(name, args)
			if err != nil {
				if host == nil {
					return nil, err
				}
				js, jsErr := host.Compile(inner)
				if jsErr != nil {
					return nil, fmt.Errorf("%q is neither a known variable (%v) nor valid JS (%v)", inner, err, jsErr)
				}
				p = part{js: js}
			} else {
				p = part{handle: &h}
			}
		} else {
			js, err := host.Compile(inner)
			if err != nil {
				return nil, fmt.Errorf("compiling JS expression %q: %w", inner, err)
			}
			p = part{js: js}
		}
		t.parts = append(t.parts, p)
		i = end + closeLen
	}
	return t, nil
}

// findClose locates the matching close brace(s) for a span opened at
// start, counting nested '{'/'}' depth so JS object literals inside an
// expression don't terminate the span early.
func findClose(src string, start int, doubled bool) (end int, closeLen int, err error) {
	depth := 1
	for i := start; i < len(src); i++ {
		switch src[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				if doubled {
					if i+1 < len(src) && src[i+1] == '}' {
						return i, 2, nil
					}
					return i, 1, nil // tolerate a single stray closing brace
				}
				return i, 1, nil
			}
		}
	}
	return 0, 0, fmt.Errorf("unterminated template expression starting at byte %d", start)
}

// parseBareVariable recognizes `ident` or `ident(arg, arg, ...)` where
// every argument is itself a bare word or quoted literal with no nested
// expression syntax — anything else (operators, dots, brackets) is left
// for the JS path.
func parseBareVariable(s string) (name string, args []string, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil, false
	}
	i := 0
	if !isIdentStart(rune(s[0])) {
		return "", nil, false
	}
	for i < len(s) && isIdentByte(s[i]) {
		i++
	}
	name = s[:i]
	rest := strings.TrimSpace(s[i:])
	if rest == "" {
		return name, nil, true
	}
	if rest[0] != '(' || rest[len(rest)-1] != ')' {
		return "", nil, false
	}
	inner := strings.TrimSpace(rest[1 : len(rest)-1])
	if inner == "" {
		return name, nil, true
	}
	for _, tok := range strings.Split(inner, ",") {
		tok = strings.TrimSpace(tok)
		if !isBareArg(tok) {
			return "", nil, false
		}
		args = append(args, unquote(tok))
	}
	return name, args, true
}

func isBareArg(tok string) bool {
	if tok == "" {
		return false
	}
	if (tok[0] == '"' || tok[0] == '\'') && len(tok) >= 2 && tok[len(tok)-1] == tok[0] {
		return true
	}
	for i := 0; i < len(tok); i++ {
		if !isIdentByte(tok[i]) && !(tok[i] >= '0' && tok[i] <= '9') && tok[i] != '.' && tok[i] != '-' {
			return false
		}
	}
	return true
}

func unquote(tok string) string {
	if len(tok) >= 2 && (tok[0] == '"' || tok[0] == '\'') && tok[len(tok)-1] == tok[0] {
		return tok[1 : len(tok)-1]
	}
	return tok
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// EvalSingle evaluates t and returns its typed Value rather than a
// rendered string, for callers that need to preserve numeric-vs-text
// Kind (sort/unique key comparison, C8). If t is not exactly one bare
// variable or JS part (e.g. it mixes literal text with an expression),
// the whole template is still rendered, but the result comes back
// wrapped as Text.
func (t *Template) EvalSingle(ctx Context) (Value, error) {
	if len(t.parts) == 1 {
		p := t.parts[0]
		switch {
		case p.handle != nil:
			return Get(*p.handle, ctx), nil
		case p.js != nil:
			return p.js.Eval(ctx)
		}
	}
	s, err := t.Render(ctx)
	if err != nil {
		return Undefined, err
	}
	return NewText([]byte(s)), nil
}

// Render evaluates t against ctx and returns the interpolated string.
func (t *Template) Render(ctx Context) (string, error) {
	var sb strings.Builder
	for _, p := range t.parts {
		switch {
		case p.literal != nil:
			sb.Write(p.literal)
		case p.handle != nil:
			sb.WriteString(Get(*p.handle, ctx).String())
		case p.js != nil:
			v, err := p.js.Eval(ctx)
			if err != nil {
				return "", err
			}
			sb.WriteString(v.String())
		}
	}
	return sb.String(), nil
}
