package search

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Job is one record's worth of search work, taken from the shared input
// channel by whichever worker is free; jobs are not assigned round-robin.
type Job struct {
	SeqNum int
	Seq    []byte
}

// Result is the outcome of running every pattern against one record,
// already ranked and anchored, tagged with SeqNum so the collector can
// restore input order.
type Result struct {
	SeqNum  int
	Matches []Match
	Err     error
}

// Engine dispatches search jobs across workers, generalizing
// `internal/compress/compress.go`'s `compressParallelWithBatch`/
// `collectAndWriteResults` worker-pool-with-reorder-buffer shape
// (spec.md §4.7: "a bounded multi-producer -> single-consumer
// reordering queue restores input order before the writer; queue
// capacity >= 2 * N * batch_size records prevents head-of-line stalls").
// Each worker owns its own DP state per spec.md §5: "no shared mutable
// record state. Each worker owns its DP state."
type Engine struct {
	patterns [][]byte
	cfg      Config
	workers  int
}

// NewEngine creates an Engine for patterns with the given per-run
// options and worker count (workers <= 1 runs single-threaded).
func NewEngine(patterns [][]byte, cfg Config, workers int) *Engine {
	if workers < 1 {
		workers = 1
	}
	return &Engine{patterns: patterns, cfg: cfg, workers: workers}
}

// searchOne runs every pattern against seq, applying ranking and
// anchoring in pattern-major order before the multi-pattern reorder of
// spec.md §4.7 phase 6.
func (e *Engine) searchOne(seq []byte) []Match {
	byPattern := make([][]Match, len(e.patterns))
	for i, p := range e.patterns {
		ms := FindMatches(seq, p, i, e.cfg)
		ms = Anchor(ms, len(seq), e.cfg)
		Rank(ms, e.cfg.InOrder)
		byPattern[i] = ms
	}
	order := ReorderPatterns(byPattern)
	var out []Match
	for _, idx := range order {
		out = append(out, byPattern[idx]...)
	}
	return out
}

// Run processes jobs from in, invoking searchOne on e.workers goroutines
// (or inline if e.workers == 1), and delivers results to out in the
// same order jobs were received — regardless of which worker finished
// first — by buffering out-of-order results in a pending map keyed by
// SeqNum, exactly the pattern `collectAndWriteResults` uses.
func (e *Engine) Run(ctx context.Context, in <-chan Job, out chan<- Result) error {
	if e.workers <= 1 {
		defer close(out)
		for job := range in {
			select {
			case out <- Result{SeqNum: job.SeqNum, Matches: e.searchOne(job.Seq)}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	}

	results := make(chan Result, 2*e.workers*64)
	g, gctx := errgroup.WithContext(ctx)

	for w := 0; w < e.workers; w++ {
		g.Go(func() error {
			for {
				select {
				case job, ok := <-in:
					if !ok {
						return nil
					}
					ms := e.searchOne(job.Seq)
					select {
					case results <- Result{SeqNum: job.SeqNum, Matches: ms}:
					case <-gctx.Done():
						return gctx.Err()
					}
				case <-gctx.Done():
					return gctx.Err()
				}
			}
		})
	}

	var collectErr error
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		collectErr = collectInOrder(results, out)
	}()

	err := g.Wait()
	close(results)
	wg.Wait()
	close(out)
	if err != nil {
		return err
	}
	return collectErr
}

// collectInOrder buffers results by SeqNum until the next expected
// sequence number is available, then emits runs of consecutive ready
// results — the reorder buffer spec.md §5 requires ("the writer
// reassembles input order via a sequence-number re-order buffer").
func collectInOrder(results <-chan Result, out chan<- Result) error {
	pending := make(map[int]Result)
	next := 0
	for r := range results {
		if r.Err != nil {
			return fmt.Errorf("search worker: %w", r.Err)
		}
		pending[r.SeqNum] = r
		for {
			res, ok := pending[next]
			if !ok {
				break
			}
			out <- res
			delete(pending, next)
			next++
		}
	}
	return nil
}
