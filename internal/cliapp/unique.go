package cliapp

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/seqtoolkit/st/internal/pipeline"
	"github.com/seqtoolkit/st/internal/sortuniq"
)

// newUniqueCmd implements spec.md §4.8's unique: de-replicate by key,
// emitting one representative per distinct key with its duplicate count
// (and, with --dup-ids, the full duplicate ID list) available to -a
// templates via {n_duplicates}/{duplicates_list} — the worked example
// "unique seq -a abund={n_duplicates}".
func newUniqueCmd(flags *GlobalFlags) *cobra.Command {
	var mf metaFlags
	var af attrFlags
	var reverse, sortOutput bool
	var maxMemStr string
	var tempFileLimit int

	cmd := &cobra.Command{
		Use:   "unique <key-expr> [files...]",
		Short: "de-replicate records by a composite key, keeping the first occurrence of each",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keySpec, err := sortuniq.CompileKey(args[0], jsHost)
			if err != nil {
				return fmt.Errorf("unique: compiling key %q: %w", args[0], err)
			}
			specs, err := compileAttrFlags(af)
			if err != nil {
				return fmt.Errorf("unique: %w", err)
			}
			maxMem, err := parseMemSize(maxMemStr)
			if err != nil {
				return fmt.Errorf("unique: --max-mem: %w", err)
			}

			r, err := openRunIO(flags, mf, args[1:], "")
			if err != nil {
				return err
			}
			defer r.Close()

			ctx := pipeline.NewEvalContext(r.af, r.defaultExt, r.seqType, r.joiner)
			report := pipeline.NewReport()
			uniq := sortuniq.NewUnique(reverse, sortOutput, flags.DupIDs, maxMem, flags.TempDir, tempFileLimit)

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
				if err := uniq.Add(key, rec.Own()); err != nil {
					return fmt.Errorf("unique: %w", err)
				}
			}

			results, err := uniq.Finish()
			if err != nil {
				return fmt.Errorf("unique: %w", err)
			}

			for _, res := range results {
				ctx.Reset(res.Rec, true)
				ctx.SetDedup(keyString(res.Key), res.DuplicateCount, res.DuplicateIDs)
				if err := applyAttrs(specs, ctx, res.Rec); err != nil {
					return fmt.Errorf("unique: %w", err)
				}
				report.Kept++
				if err := r.writer.WriteRecord(res.Rec); err != nil {
					return fmt.Errorf("writing record %q: %w", string(res.Rec.ID), err)
				}
			}
			report.Skipped = report.Processed - report.Kept

			if flags.Report {
				if err := report.Write(os.Stderr); err != nil {
					return fmt.Errorf("writing report: %w", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&reverse, "reverse", "r", false, "reverse key order under --sort or the spill fallback")
	cmd.Flags().BoolVarP(&sortOutput, "sort", "s", false, "always emit in key order, even below the memory budget")
	cmd.Flags().StringVar(&maxMemStr, "max-mem", "", "in-memory budget before spilling (e.g. 256MB); empty means unbounded")
	cmd.Flags().IntVar(&tempFileLimit, "temp-file-limit", 0, "maximum number of spill files (0: unbounded)")
	addAttrFlags(cmd, &af)
	addMetaFlags(cmd, &mf)
	return cmd
}
