package cliapp

import (
	"github.com/spf13/cobra"

	"github.com/seqtoolkit/st/internal/pipeline"
	"github.com/seqtoolkit/st/internal/record"
)

// passCommand is the identity command: every record is kept unchanged,
// exercising nothing but the Driver's read/write loop and the global
// format-conversion flags (--fmt/--to/--wrap). It is the subcommand `.`
// aliases to, per spec.md §6: "a dot `.` is an alias for the pass-through
// subcommand."
type passCommand struct{}

func (passCommand) Process(ctx *pipeline.EvalContext, rec *record.Record) (pipeline.Action, error) {
	return pipeline.ActionKeep, nil
}

func newPassCmd(flags *GlobalFlags) *cobra.Command {
	var mf metaFlags
	cmd := &cobra.Command{
		Use:   "pass [files...]",
		Short: "pass records through unchanged, converting format/compression as requested",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRunIO(flags, mf, args, "")
			if err != nil {
				return err
			}
			return runDriver(r, flags, passCommand{})
		},
	}
	addMetaFlags(cmd, &mf)
	return cmd
}
