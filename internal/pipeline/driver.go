package pipeline

import (
	"errors"
	"fmt"
	"io"

	"github.com/seqtoolkit/st/internal/record"
	"github.com/seqtoolkit/st/internal/seqio"
)

// Action is what a Command decides to do with the record it just
// evaluated, per spec.md §4.9: "may request the record be skipped
// (filter) or diverted (--dropped)."
type Action uint8

const (
	ActionKeep Action = iota
	ActionSkip
	ActionDivert
)

// Command is the per-subcommand body the Driver invokes once per record.
// Implementations mutate rec in place (trim/mask/replace rewrite its
// fields; find only reads it) and may call ctx.SetMatch/SetDedup before
// any template evaluation that depends on command-local variables.
type Command interface {
	Process(ctx *EvalContext, rec *record.Record) (Action, error)
}

// RecoverableError marks a per-record error that the driver counts and
// reports rather than aborting the run over, per spec.md §7's recoverable
// taxonomy (malformed attribute, missing optional metadata row, and
// friends — never a malformed input record, which is always fatal).
type RecoverableError struct {
	Err error
}

func (e *RecoverableError) Error() string { return e.Err.Error() }
func (e *RecoverableError) Unwrap() error { return e.Err }

// Driver wraps one seqio.Reader/Writer pair and runs cmd's body over
// every record pulled from the reader, in the three-step loop spec.md
// §4.9 describes: pull, reset+invoke, write.
type Driver struct {
	Reader  seqio.Reader
	Writer  *seqio.Writer
	Divert  *seqio.Writer // non-nil under --dropped
	Ctx     *EvalContext
	Cmd     Command
	Report  *Report
	OnError func(err error) // --verbose diagnostic hook; nil is fine
}

// Run drains Reader, invoking Cmd.Process for each record and writing
// kept/diverted records through Writer/Divert. It returns the first fatal
// error encountered; recoverable errors are tallied onto d.Report and
// otherwise ignored, matching spec.md §4.9 ("fatal errors abort
// immediately... recoverable errors are reported with record-level
// context and increment a counter").
func (d *Driver) Run() error {
	lastPath := ""
	first := true
	for {
		rec, err := d.Reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading record: %w", err)
		}

		newFile := first || rec.Path != lastPath
		first = false
		lastPath = rec.Path
		d.Ctx.Reset(rec, newFile)
		d.Report.Processed++

		action, err := d.Cmd.Process(d.Ctx, rec)
		if err != nil {
			var recov *RecoverableError
			if errors.As(err, &recov) {
				d.Report.Errors++
				if d.OnError != nil {
					d.OnError(recov)
				}
				continue
			}
			return fmt.Errorf("processing record %q: %w", string(rec.ID), err)
		}

		switch action {
		case ActionSkip:
			d.Report.Skipped++
			continue
		case ActionDivert:
			d.Report.Diverted++
			if d.Divert != nil {
				if err := d.Divert.WriteRecord(rec); err != nil {
					return fmt.Errorf("writing diverted record %q: %w", string(rec.ID), err)
				}
			}
			continue
		}

		d.Report.Kept++
		if err := d.Writer.WriteRecord(rec); err != nil {
			return fmt.Errorf("writing record %q: %w", string(rec.ID), err)
		}
	}
}
