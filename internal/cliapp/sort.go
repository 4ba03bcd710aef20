package cliapp

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seqtoolkit/st/internal/pipeline"
	"github.com/seqtoolkit/st/internal/sortuniq"
)

// keyString renders a sortuniq.Key for display, the way {key} is
// rendered for unique's dedup-family variables.
func keyString(k sortuniq.Key) string {
	parts := make([]string, len(k))
	for i, v := range k {
		parts[i] = v.String()
	}
	return strings.Join(parts, ",")
}

// newSortCmd implements spec.md §4.8's sort: "a key expression ... sorts
// the full stream by key, spilling to disk once the memory budget is
// exceeded." Output order changes to key order; spec.md §5 names sort
// (along with unique) as the one documented exception to its
// input-order guarantee.
func newSortCmd(flags *GlobalFlags) *cobra.Command {
	var mf metaFlags
	var reverse bool
	var maxMemStr string
	var tempFileLimit int

	cmd := &cobra.Command{
		Use:   "sort <key-expr> [files...]",
		Short: "sort records by a composite key expression, spilling to disk above --max-mem",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keySpec, err := sortuniq.CompileKey(args[0], jsHost)
			if err != nil {
				return fmt.Errorf("sort: compiling key %q: %w", args[0], err)
			}
			maxMem, err := parseMemSize(maxMemStr)
			if err != nil {
				return fmt.Errorf("sort: --max-mem: %w", err)
			}

			r, err := openRunIO(flags, mf, args[1:], "")
			if err != nil {
				return err
			}
			defer r.Close()

			ctx := pipeline.NewEvalContext(r.af, r.defaultExt, r.seqType, r.joiner)
			report := pipeline.NewReport()
			sorter := sortuniq.NewSorter(reverse, maxMem, flags.TempDir, tempFileLimit)

			lastPath, first := "", true
			for {
				rec, err := r.reader.Next()
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return fmt.Errorf("reading record: %w", err)
				}
				newFile := first || rec.Path != lastPath
				first, lastPath = false, rec.Path
				ctx.Reset(rec, newFile)
				report.Processed++

				key, err := keySpec.Eval(ctx)
				if err != nil {
					return fmt.Errorf("evaluating key for record %q: %w", string(rec.ID), err)
				}
				if err := sorter.Add(key, rec.Own()); err != nil {
					return fmt.Errorf("sort: %w", err)
				}
			}

			stream, err := sorter.Finish()
			if err != nil {
				return fmt.Errorf("sort: %w", err)
			}
			defer stream.Close()

			for {
				rec, _, err := stream.Next()
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return fmt.Errorf("sort: merging spill output: %w", err)
				}
				report.Kept++
				if err := r.writer.WriteRecord(rec); err != nil {
					return fmt.Errorf("writing record %q: %w", string(rec.ID), err)
				}
			}

			if flags.Report {
				if err := report.Write(os.Stderr); err != nil {
					return fmt.Errorf("writing report: %w", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&reverse, "reverse", "r", false, "reverse sort order")
	cmd.Flags().StringVar(&maxMemStr, "max-mem", "", "in-memory budget before spilling (e.g. 256MB); empty means unbounded")
	cmd.Flags().IntVar(&tempFileLimit, "temp-file-limit", 0, "maximum number of spill files (0: unbounded)")
	addMetaFlags(cmd, &mf)
	return cmd
}
