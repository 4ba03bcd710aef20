package cliapp

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seqtoolkit/st/internal/ioutil"
	"github.com/seqtoolkit/st/internal/meta"
	"github.com/seqtoolkit/st/internal/pipeline"
	"github.com/seqtoolkit/st/internal/record"
	"github.com/seqtoolkit/st/internal/seqio"
	"github.com/seqtoolkit/st/internal/sequtil"
)

// metaFlags is the per-command metadata-join configuration spec.md §4.4
// describes but doesn't name a flag syntax for; every subcommand that
// wires metadata into its EvalContext exposes the same four flags.
type metaFlags struct {
	path      string
	delim     string
	idCol     int
	hasHeader bool
}

func addMetaFlags(cmd *cobra.Command, mf *metaFlags) {
	cmd.Flags().StringVar(&mf.path, "meta", "", "delimited-text metadata file to join by record ID")
	cmd.Flags().StringVar(&mf.delim, "meta-delim", "\t", "metadata file field delimiter")
	cmd.Flags().IntVar(&mf.idCol, "meta-id-col", 1, "1-based ID column in the metadata file")
	cmd.Flags().BoolVar(&mf.hasHeader, "meta-header", false, "metadata file has a header row naming its columns")
}

// openJoiner builds a meta.Joiner for mf, or nil if no --meta file was
// given. dupIDs forces indexed mode immediately, per spec.md §4.4's
// "a --dup-ids flag opts into duplicate-safe metadata lookup."
func openJoiner(mf metaFlags, dupIDs bool) (*meta.Joiner, func() error, error) {
	noop := func() error { return nil }
	if mf.path == "" {
		return nil, noop, nil
	}
	f, err := os.Open(mf.path) //nolint:gosec // CLI tool opens user-specified files
	if err != nil {
		return nil, nil, fmt.Errorf("opening metadata file %q: %w", mf.path, err)
	}
	delim := byte('\t')
	if len(mf.delim) == 1 {
		delim = mf.delim[0]
	}
	cfg := meta.Config{IDCol: mf.idCol, HasHeader: mf.hasHeader, Delim: delim, DupIDs: dupIDs}
	var j *meta.Joiner
	if dupIDs {
		j, err = meta.NewIndexed(f, cfg)
	} else {
		j, err = meta.NewSynchronized(f, cfg)
	}
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("reading metadata file %q: %w", mf.path, err)
	}
	return j, f.Close, nil
}

// runIO resolves input/output readers and writers for one subcommand
// invocation, the setup every subcommand shares before building its own
// pipeline.Command and handing it to a Driver.
type runIO struct {
	reader    seqio.Reader
	closeIn   func() error
	wc        *ioutil.WriteCloser
	writer    *seqio.Writer
	divertWC  *ioutil.WriteCloser
	divert    *seqio.Writer
	seqType    sequtil.SeqType
	af         record.AttrFormat
	defaultExt string
	joiner     *meta.Joiner
	closeMeta  func() error
}

// seqFormatExtension names the canonical extension for default_ext, per
// spec.md §4.2's "default_ext" standard variable.
func seqFormatExtension(f ioutil.SeqFormat) string {
	switch f {
	case ioutil.SeqFormatFASTA:
		return "fasta"
	case ioutil.SeqFormatFASTQ:
		return "fastq"
	case ioutil.SeqFormatCSV:
		return "csv"
	default:
		return "tsv"
	}
}

func openRunIO(flags *GlobalFlags, mf metaFlags, paths []string, dropped string) (*runIO, error) {
	env, err := LoadEnvDefaults()
	if err != nil {
		return nil, err
	}

	firstPath := "-"
	if len(paths) > 0 {
		firstPath = paths[0]
	}
	inSpec, err := resolveInputFormat(flags.Fmt, env.Format, firstPath)
	if err != nil {
		return nil, err
	}
	outFmt, err := resolveOutputFormat(flags.To, inSpec)
	if err != nil {
		return nil, err
	}

	reader, closeIn, err := OpenInputs(paths, inSpec)
	if err != nil {
		return nil, err
	}

	wc, writer, err := OpenOutput(OutputSpec{
		Path:   flags.Out,
		Append: flags.Append,
		Format: outFmt,
		Fields: inSpec.Fields,
		Wrap:   flags.Wrap,
	})
	if err != nil {
		_ = closeIn()
		return nil, err
	}

	var divertWC *ioutil.WriteCloser
	var divert *seqio.Writer
	if dropped != "" {
		divertWC, divert, err = OpenOutput(OutputSpec{Path: dropped, Format: outFmt, Fields: inSpec.Fields, Wrap: flags.Wrap})
		if err != nil {
			_ = closeIn()
			_ = wc.Close()
			return nil, err
		}
	}

	joiner, closeMeta, err := openJoiner(mf, flags.DupIDs)
	if err != nil {
		_ = closeIn()
		_ = wc.Close()
		return nil, err
	}

	return &runIO{
		reader:     reader,
		closeIn:    closeIn,
		wc:         wc,
		writer:     writer,
		divertWC:   divertWC,
		divert:     divert,
		seqType:    resolveSeqType(flags.SeqType),
		af:         defaultAttrFormat(env),
		defaultExt: seqFormatExtension(outFmt),
		joiner:     joiner,
		closeMeta:  closeMeta,
	}, nil
}

// resolveSeqType maps --seq-type to its sequtil.SeqType, defaulting to
// DNA for an empty or unrecognized value rather than failing the run:
// it only governs the seq_revcomp template variable, not parsing.
func resolveSeqType(s string) sequtil.SeqType {
	if strings.EqualFold(s, "rna") {
		return sequtil.SeqTypeRNA
	}
	return sequtil.SeqTypeDNA
}

func (r *runIO) Close() error {
	var firstErr error
	if err := r.closeMeta(); err != nil && firstErr == nil {
		firstErr = err
	}
	if r.divertWC != nil {
		if err := r.divertWC.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := r.wc.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := r.closeIn(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// runDriver assembles a pipeline.Driver from r, runs it against cmd, and
// emits the --report JSON on success.
func runDriver(r *runIO, flags *GlobalFlags, cmd pipeline.Command) error {
	defer r.Close()

	ctx := pipeline.NewEvalContext(r.af, r.defaultExt, r.seqType, r.joiner)
	report := pipeline.NewReport()

	d := &pipeline.Driver{
		Reader: r.reader,
		Writer: r.writer,
		Divert: r.divert,
		Ctx:    ctx,
		Cmd:    cmd,
		Report: report,
	}
	if flags.Verbose {
		d.OnError = func(err error) { fmt.Fprintf(os.Stderr, "warning: %v\n", err) }
	}

	if err := d.Run(); err != nil {
		return err
	}
	if flags.Report {
		if err := report.Write(os.Stderr); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}
	return nil
}
