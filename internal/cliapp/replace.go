package cliapp

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seqtoolkit/st/internal/pipeline"
	"github.com/seqtoolkit/st/internal/record"
	"github.com/seqtoolkit/st/internal/search"
	"github.com/seqtoolkit/st/internal/vars"
)

// spliceQual resizes qual to newLen, matching a sequence-region edit:
// bytes before start and after the original region are kept, the region
// itself is refilled by repeating the byte just before it (or 'I' if the
// region starts at the first position) — there's no principled quality value for text a
// template invented, so this is a best-effort filler, not a scored
// basecall.
func spliceQual(qual []byte, start, oldEnd, newLen int) []byte {
	if qual == nil {
		return nil
	}
	fill := byte('I')
	if start > 0 {
		fill = qual[start-1]
	}
	region := make([]byte, newLen)
	for i := range region {
		region[i] = fill
	}
	out := make([]byte, 0, start+newLen+(len(qual)-oldEnd))
	out = append(out, qual[:start]...)
	out = append(out, region...)
	out = append(out, qual[oldEnd:]...)
	return out
}

// newReplaceCmd implements spec.md §4.7's replace consumer: "replace
// text in the matched region (--rep, with variable interpolation, no
// $1-style backreferences)." Only the best-ranked hit per record is
// replaced; records with no hit pass through unchanged.
func newReplaceCmd(flags *GlobalFlags) *cobra.Command {
	var mf metaFlags
	var af attrFlags
	var sf searchFlags
	var patternArgs []string
	var repTemplate string
	var filter, invert bool
	var dropped string

	cmd := &cobra.Command{
		Use:   "replace [files...]",
		Short: "replace the matched region of a pattern hit with an interpolated template",
		RunE: func(cmd *cobra.Command, args []string) error {
			if repTemplate == "" {
				return fmt.Errorf("replace: --rep is required")
			}
			patterns, err := loadPatterns(patternArgs)
			if err != nil {
				return fmt.Errorf("replace: %w", err)
			}
			specs, err := compileAttrFlags(af)
			if err != nil {
				return fmt.Errorf("replace: %w", err)
			}
			rep, err := vars.Compile(repTemplate, jsHost)
			if err != nil {
				return fmt.Errorf("replace: compiling --rep: %w", err)
			}

			r, err := openRunIO(flags, mf, args, dropped)
			if err != nil {
				return err
			}

			return runSearchPipeline(r, flags, patterns, sf, func(ctx *pipeline.EvalContext, rec *record.Record, matches []search.Match) (pipeline.Action, error) {
				matched := len(matches) > 0
				if matched {
					m := matches[0]
					text, err := rep.Render(ctx)
					if err != nil {
						return pipeline.ActionKeep, fmt.Errorf("rendering --rep: %w", err)
					}
					rec.Seq = append(append(append([]byte(nil), rec.Seq[:m.Start-1]...), text...), rec.Seq[m.End:]...)
					if rec.Qual != nil {
						rec.Qual = spliceQual(rec.Qual, m.Start-1, m.End, len(text))
					}
				}
				if err := applyAttrs(specs, ctx, rec); err != nil {
					return pipeline.ActionKeep, err
				}
				keep := true
				if filter {
					keep = matched
					if invert {
						keep = !keep
					}
				}
				if keep {
					return pipeline.ActionKeep, nil
				}
				if dropped != "" {
					return pipeline.ActionDivert, nil
				}
				return pipeline.ActionSkip, nil
			})
		},
	}

	cmd.Flags().StringArrayVarP(&patternArgs, "pattern", "p", nil, "a literal pattern, or file:<path> for a FASTA file of named patterns (repeatable)")
	cmd.Flags().StringVar(&repTemplate, "rep", "", "replacement template for the matched region (required)")
	cmd.Flags().BoolVarP(&filter, "filter", "f", false, "drop records with no hit (or, with -e, records with a hit)")
	cmd.Flags().BoolVarP(&invert, "invert", "e", false, "invert -f's filter sense")
	cmd.Flags().StringVar(&dropped, "dropped", "", "write filtered-out records here instead of discarding them")
	addSearchFlags(cmd, &sf)
	addAttrFlags(cmd, &af)
	addMetaFlags(cmd, &mf)
	return cmd
}
