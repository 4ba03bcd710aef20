package cliapp

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seqtoolkit/st/internal/pipeline"
	"github.com/seqtoolkit/st/internal/record"
	"github.com/seqtoolkit/st/internal/rng"
)

// trimCommand concatenates the slices of a record's sequence (and, if
// present, quality) covered by a range list, in order — spec.md §4.5:
// "trim concatenates slices in order."
type trimCommand struct {
	ranges rng.MultiRange
}

func (c trimCommand) Process(ctx *pipeline.EvalContext, rec *record.Record) (pipeline.Action, error) {
	rec.Seq = c.ranges.Concat(rec.Seq)
	if rec.Qual != nil {
		rec.Qual = c.ranges.Concat(rec.Qual)
	}
	return pipeline.ActionKeep, nil
}

func newTrimCmd(flags *GlobalFlags) *cobra.Command {
	var mf metaFlags
	var zeroBased, exclusive bool
	cmd := &cobra.Command{
		Use:   "trim <ranges> [files...]",
		Short: "trim sequences to a comma-separated list of ranges",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ranges, err := rng.ParseRangeList(args[0], zeroBased, exclusive)
			if err != nil {
				return fmt.Errorf("trim: %w", err)
			}
			r, err := openRunIO(flags, mf, args[1:], "")
			if err != nil {
				return err
			}
			return runDriver(r, flags, trimCommand{ranges: ranges})
		},
	}
	cmd.Flags().BoolVarP(&zeroBased, "zero-based", "0", false, "interpret range bounds as zero-based, end-exclusive")
	cmd.Flags().BoolVar(&exclusive, "exclusive", false, "interpret bounded range ends as exclusive")
	addMetaFlags(cmd, &mf)
	return cmd
}
