package cliapp

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seqtoolkit/st/internal/pipeline"
	"github.com/seqtoolkit/st/internal/record"
	"github.com/seqtoolkit/st/internal/vars"
)

// jsHost is the single embedded-JS runtime pool shared by every
// subcommand's templates, per vars.JSHost's own doc comment: runtime
// construction is amortized across records, not per-command.
var jsHost = vars.NewJSHost()

// attrSpec is one compiled -a/-A flag, ready to render per record and
// apply via record.Set (replace-or-append) or record.Append (fast
// append), spec.md §4.3's "-a k=v"/"-A k=v" distinction.
type attrSpec struct {
	key    string
	tmpl   *vars.Template
	append bool
}

type attrFlags struct {
	set      []string
	fastAppend []string
}

func addAttrFlags(cmd *cobra.Command, af *attrFlags) {
	cmd.Flags().StringArrayVarP(&af.set, "attr", "a", nil, "set a header attribute: key=template (repeatable, replaces an existing key)")
	cmd.Flags().StringArrayVarP(&af.fastAppend, "attr-append", "A", nil, "append a header attribute without checking for an existing key (repeatable)")
}

func compileAttrFlags(af attrFlags) ([]attrSpec, error) {
	var out []attrSpec
	for _, raw := range af.set {
		s, err := compileOneAttr(raw, false)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	for _, raw := range af.fastAppend {
		s, err := compileOneAttr(raw, true)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func compileOneAttr(raw string, appendOnly bool) (attrSpec, error) {
	key, val, ok := strings.Cut(raw, "=")
	if !ok {
		return attrSpec{}, fmt.Errorf("attribute %q: expected key=template", raw)
	}
	tmpl, err := vars.Compile(val, jsHost)
	if err != nil {
		return attrSpec{}, fmt.Errorf("attribute %q: %w", raw, err)
	}
	return attrSpec{key: key, tmpl: tmpl, append: appendOnly}, nil
}

// applyAttrs renders every spec against ctx (which must already be
// positioned at rec, via Reset/SetMatch/SetDedup) and applies it to
// rec's header segment in flag order.
func applyAttrs(specs []attrSpec, ctx *pipeline.EvalContext, rec *record.Record) error {
	af := ctx.AttrFormat()
	for _, s := range specs {
		val, err := s.tmpl.Render(ctx)
		if err != nil {
			return fmt.Errorf("rendering attribute %q: %w", s.key, err)
		}
		segment := &rec.ID
		if af.InDescription() {
			segment = &rec.Desc
		}
		if s.append {
			*segment = record.Append(*segment, af, s.key, val)
		} else {
			*segment = record.Set(*segment, af, s.key, val)
		}
	}
	return nil
}
