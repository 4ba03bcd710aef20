package cliapp

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seqtoolkit/st/internal/pipeline"
	"github.com/seqtoolkit/st/internal/record"
	"github.com/seqtoolkit/st/internal/search"
)

// newFindCmd implements spec.md §4.7's find consumer: "find uses the
// match set to set attributes, filter (-f/-e), ... or write non-matching
// records to --dropped." Patterns are given with repeatable -p/--pattern
// flags (a literal string, or "file:<path>" for a FASTA file of named
// patterns per §4.7's example) rather than bare positional arguments, so
// patterns and input files never compete for the same argument list.
func newFindCmd(flags *GlobalFlags) *cobra.Command {
	var mf metaFlags
	var af attrFlags
	var sf searchFlags
	var patternArgs []string
	var filter, invert bool
	var dropped string

	cmd := &cobra.Command{
		Use:   "find [files...]",
		Short: "approximate multi-pattern search, setting match attributes and optionally filtering",
		RunE: func(cmd *cobra.Command, args []string) error {
			patterns, err := loadPatterns(patternArgs)
			if err != nil {
				return fmt.Errorf("find: %w", err)
			}
			specs, err := compileAttrFlags(af)
			if err != nil {
				return fmt.Errorf("find: %w", err)
			}

			r, err := openRunIO(flags, mf, args, dropped)
			if err != nil {
				return err
			}

			return runSearchPipeline(r, flags, patterns, sf, func(ctx *pipeline.EvalContext, rec *record.Record, matches []search.Match) (pipeline.Action, error) {
				matched := len(matches) > 0
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
	cmd.Flags().BoolVarP(&filter, "filter", "f", false, "drop records with no hit (or, with -e, records with a hit)")
	cmd.Flags().BoolVarP(&invert, "invert", "e", false, "invert -f's filter sense")
	cmd.Flags().StringVar(&dropped, "dropped", "", "write filtered-out records here instead of discarding them")
	addSearchFlags(cmd, &sf)
	addAttrFlags(cmd, &af)
	addMetaFlags(cmd, &mf)
	return cmd
}
