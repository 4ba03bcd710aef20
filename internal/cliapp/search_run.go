package cliapp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/seqtoolkit/st/internal/pipeline"
	"github.com/seqtoolkit/st/internal/record"
	"github.com/seqtoolkit/st/internal/search"
)

// searchFlags is the flag surface shared by find and replace, spec.md
// §4.7's Inputs list: "a maximum edit distance D ... or an error-rate R;
// ... anchor constraints; a gap penalty g; an ambiguity-matching flag;
// ... a thread count."
type searchFlags struct {
	maxDiffs      int
	maxDiffRate   float64
	gapPenalty    int
	ambiguity     bool
	alphabet      string
	inOrder       bool
	maxShiftStart int
	maxShiftEnd   int
	threads       int
}

func addSearchFlags(cmd *cobra.Command, sf *searchFlags) {
	cmd.Flags().IntVarP(&sf.maxDiffs, "max-diffs", "D", 0, "maximum edit distance D (absolute)")
	cmd.Flags().Float64Var(&sf.maxDiffRate, "max-diff-rate", 0, "maximum edit distance as a fraction of the longest pattern (overrides -D when nonzero)")
	cmd.Flags().IntVarP(&sf.gapPenalty, "gap-penalty", "g", search.DefaultGapPenalty, "gap penalty g for tie-breaking (subst + g*(ins+del))")
	cmd.Flags().BoolVar(&sf.ambiguity, "ambiguity", false, "treat IUPAC ambiguity codes as matching their expansion")
	cmd.Flags().StringVar(&sf.alphabet, "alphabet", "dna", "ambiguity alphabet: dna|rna|protein")
	cmd.Flags().BoolVar(&sf.inOrder, "in-order", false, "rank hits by start position only, ignoring edit distance")
	cmd.Flags().IntVar(&sf.maxShiftStart, "max-shift-start", -1, "reject hits starting beyond this offset (enables start anchoring)")
	cmd.Flags().IntVar(&sf.maxShiftEnd, "max-shift-end", -1, "reject hits ending before this many bases from the sequence end (enables end anchoring)")
	cmd.Flags().IntVarP(&sf.threads, "threads", "t", 1, "worker thread count for the search engine")
}

// config resolves sf against the longest loaded pattern, per spec.md
// §4.7. A single search.Config is shared across every pattern in one
// Engine, so --max-diff-rate (relative to pattern length) is pinned
// against the longest pattern rather than computed per pattern — patterns
// of very different lengths should instead use --max-diffs.
func (sf searchFlags) config(longestPattern int) search.Config {
	maxD := sf.maxDiffs
	if sf.maxDiffRate > 0 {
		maxD = int(sf.maxDiffRate * float64(longestPattern))
	}
	alphabet := search.AlphabetDNA
	switch sf.alphabet {
	case "rna":
		alphabet = search.AlphabetRNA
	case "protein":
		alphabet = search.AlphabetProtein
	}
	return search.Config{
		MaxDiffs:      maxD,
		GapPenalty:    sf.gapPenalty,
		Ambiguity:     sf.ambiguity,
		Alphabet:      alphabet,
		InOrder:       sf.inOrder,
		MaxShiftStart: sf.maxShiftStart,
		MaxShiftEnd:   sf.maxShiftEnd,
		AnchorStart:   sf.maxShiftStart >= 0,
		AnchorEnd:     sf.maxShiftEnd >= 0,
	}
}

// searchHandler is invoked once per record, in input order, with ctx
// already positioned at rec (Reset called) and the record's ranked,
// anchored match set. It returns the driver-style action to take.
type searchHandler func(ctx *pipeline.EvalContext, rec *record.Record, matches []search.Match) (pipeline.Action, error)

// runSearchPipeline is the find/replace analogue of runDriver: it feeds
// records through a search.Engine (spec.md §4.7/§5's worker-pool and
// reorder-buffer model) instead of pipeline.Driver's synchronous loop,
// since a single EvalContext can't be shared across concurrent workers.
// A dedicated reader goroutine pairs each submitted Job with its owned
// Record on a same-capacity channel so the collector can zip them back
// together in the engine's already-restored input order.
func runSearchPipeline(r *runIO, flags *GlobalFlags, patterns []namedPattern, sf searchFlags, handle searchHandler) error {
	defer r.Close()

	patternNames := make([]string, len(patterns))
	seqs := make([][]byte, len(patterns))
	longest := 0
	for i, p := range patterns {
		patternNames[i] = p.name
		seqs[i] = p.seq
		if len(p.seq) > longest {
			longest = len(p.seq)
		}
	}
	engine := search.NewEngine(seqs, sf.config(longest), sf.threads)

	const queueDepth = 256
	in := make(chan search.Job, queueDepth)
	out := make(chan search.Result, queueDepth)
	type queued struct {
		rec     *record.Record
		newFile bool
	}
	recs := make(chan queued, queueDepth)

	g, gctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		defer close(in)
		defer close(recs)
		lastPath, first, seqNum := "", true, 0
		for {
			rec, err := r.reader.Next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("reading record: %w", err)
			}
			rec = rec.Own()
			newFile := first || rec.Path != lastPath
			first, lastPath = false, rec.Path

			select {
			case in <- search.Job{SeqNum: seqNum, Seq: rec.Seq}:
			case <-gctx.Done():
				return gctx.Err()
			}
			select {
			case recs <- queued{rec: rec, newFile: newFile}:
			case <-gctx.Done():
				return gctx.Err()
			}
			seqNum++
		}
	})

	g.Go(func() error {
		return engine.Run(gctx, in, out)
	})

	ctx := pipeline.NewEvalContext(r.af, r.defaultExt, r.seqType, r.joiner)
	report := pipeline.NewReport()

	g.Go(func() error {
		for res := range out {
			q, ok := <-recs
			if !ok {
				return fmt.Errorf("search pipeline: record queue closed early")
			}
			if res.Err != nil {
				return fmt.Errorf("search worker: %w", res.Err)
			}

			report.Processed++
			ctx.Reset(q.rec, q.newFile)
			if len(res.Matches) > 0 {
				best := res.Matches[0]
				ctx.SetMatch(&best, patterns[best.PatternIdx].seq, patternNames)
				report.AddPatternHit(patternNames[best.PatternIdx])
			}

			action, err := handle(ctx, q.rec, res.Matches)
			if err != nil {
				var recov *pipeline.RecoverableError
				if errors.As(err, &recov) {
					report.Errors++
					if flags.Verbose {
						fmt.Fprintf(os.Stderr, "warning: %v\n", recov)
					}
					continue
				}
				return fmt.Errorf("processing record %q: %w", string(q.rec.ID), err)
			}

			switch action {
			case pipeline.ActionSkip:
				report.Skipped++
			case pipeline.ActionDivert:
				report.Diverted++
				if r.divert != nil {
					if err := r.divert.WriteRecord(q.rec); err != nil {
						return fmt.Errorf("writing diverted record %q: %w", string(q.rec.ID), err)
					}
				}
			default:
				report.Kept++
				if err := r.writer.WriteRecord(q.rec); err != nil {
					return fmt.Errorf("writing record %q: %w", string(q.rec.ID), err)
				}
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	if flags.Report {
		if err := report.Write(os.Stderr); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}
	return nil
}
