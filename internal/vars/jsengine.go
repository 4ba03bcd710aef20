package vars

import (
	"fmt"
	"sync"

	"github.com/dop251/goja"

	"github.com/seqtoolkit/st/internal/sequtil"
)

// JSHost is the embedded JS expression evaluator behind the "compile
// template -> produce closure; evaluate closure -> Value" interface
// spec.md §9 calls for. It is pluggable: a build without JS support
// would swap this for a host whose Compile always errors, restricting
// the template compiler to bare variables only.
//
// Per spec.md §5, "each JS context is single-threaded and is cloned per
// worker thread rather than shared" — JSHost pools *goja.Runtime values
// so concurrent workers never touch the same runtime concurrently, while
// still amortizing runtime construction across records.
type JSHost struct {
	pool sync.Pool
}

// NewJSHost creates a JS host. Runtimes are created lazily on first use
// by each worker.
func NewJSHost() *JSHost {
	h := &JSHost{}
	h.pool.New = func() interface{} {
		return goja.New()
	}
	return h
}

// compiledJS is a parsed JS expression ready to be evaluated against
// many per-record contexts.
type compiledJS struct {
	host    *JSHost
	program *goja.Program
	src     string
}

// Compile parses src as a JS expression. A nil host always errors,
// forcing the template compiler down the bare-variable-only path.
func (h *JSHost) Compile(src string) (*compiledJS, error) {
	if h == nil {
		return nil, fmt.Errorf("JS evaluation disabled in this build")
	}
	prog, err := goja.Compile("<expr>", src, false)
	if err != nil {
		return nil, err
	}
	return &compiledJS{host: h, program: prog, src: src}, nil
}

// Eval runs the compiled expression against ctx, binding every standard
// variable as a JS-callable global (spec.md §4.2: "must be quoted
// inside JS expressions (attr(\"name\"))").
func (c *compiledJS) Eval(ctx Context) (Value, error) {
	rt := c.host.pool.Get().(*goja.Runtime)
	defer c.host.pool.Put(rt)

	bindGlobals(rt, ctx)
	result, err := rt.RunProgram(c.program)
	if err != nil {
		return Undefined, fmt.Errorf("evaluating %q: %w", c.src, err)
	}
	return FromGoValue(result.Export()), nil
}

// bindGlobals exposes every bare-variable name as a JS global: a value
// for nullary variables, a function for ones that take arguments. This
// runs once per Eval call since ctx (and therefore every bound closure)
// changes per record.
func bindGlobals(rt *goja.Runtime, ctx Context) {
	// num/bin receive already-evaluated JS values, not variable names —
	// unlike their bare-variable form, which re-resolves a nested
	// variable by name (see resolveArgValue).
	rt.Set("num", func(x interface{}) interface{} {
		return FromGoValue(x).Num()
	})
	rt.Set("bin", func(x, w interface{}) interface{} {
		return sequtil.Bin(FromGoValue(x).Num(), FromGoValue(w).Num())
	})

	for name, kind := range names {
		if kind == HNum || kind == HBin {
			continue
		}
		kind := kind
		if oneArgHandles[kind] || kind == HMeta || kind == HOptMeta ||
			kind == HHasMeta || kind == HSeqNum || kind == HSeqIdx || kind == HMatchGroup ||
			kind == HMatchGrpStart || kind == HMatchGrpEnd || kind == HMatchGrpRange {
			rt.Set(name, func(args ...interface{}) interface{} {
				h := Handle{Kind: kind}
				if len(args) > 0 {
					h.Arg = fmt.Sprint(args[0])
				}
				if len(args) > 1 {
					h.Arg2 = fmt.Sprint(args[1])
				}
				return Get(h, ctx).GoValue()
			})
			continue
		}
		rt.Set(name, Get(Handle{Kind: kind}, ctx).GoValue())
	}
}
