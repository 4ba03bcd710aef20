package cliapp

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/seqtoolkit/st/internal/seqio"
)

// namedPattern pairs a search pattern's bytes with the name find/replace
// report per-pattern hit counts and {pattern_name} under, per spec.md
// §4.2's "pattern_name" standard variable.
type namedPattern struct {
	name string
	seq  []byte
}

// loadPatterns resolves find/replace's -p/--pattern values: a
// literal string becomes a single pattern named after itself; a
// "file:<path>" argument loads every record of a FASTA file of patterns,
// named by their IDs — spec.md §4.7's example "find file:P AATG where P
// contains patterns {p1: AATG, p2: AATN}".
func loadPatterns(args []string) ([]namedPattern, error) {
	var out []namedPattern
	for _, a := range args {
		path, ok := strings.CutPrefix(a, "file:")
		if !ok {
			out = append(out, namedPattern{name: a, seq: []byte(a)})
			continue
		}
		f, err := os.Open(path) //nolint:gosec // CLI tool opens user-specified files
		if err != nil {
			return nil, fmt.Errorf("opening pattern file %q: %w", path, err)
		}
		r := seqio.NewFASTAReader(f, path)
		for {
			rec, err := r.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("reading pattern file %q: %w", path, err)
			}
			out = append(out, namedPattern{name: string(rec.ID), seq: append([]byte(nil), rec.Seq...)})
		}
		if err := f.Close(); err != nil {
			return nil, err
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no patterns given")
	}
	return out, nil
}
