package cliapp

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/seqtoolkit/st/internal/ioutil"
	"github.com/seqtoolkit/st/internal/record"
	"github.com/seqtoolkit/st/internal/seqio"
)

// GlobalFlags holds the persistent flags spec.md §6 and the "(ADDED)
// cmd/st" section of the expanded spec define once, shared by every
// subcommand: "-o/--out, --fmt, --to, --verbose, --report, --temp-dir,
// --append, --dup-ids, --wrap, --seq-type."
type GlobalFlags struct {
	Out      string
	Fmt      string
	To       string
	Verbose  bool
	Report   bool
	TempDir  string
	Append   bool
	DupIDs   bool
	Wrap     int
	SeqType  string
}

// NewRootCmd builds the `st` command tree: one cobra.Command per
// subcommand (pass/trim/mask/find/replace/sort/unique), `.` aliased to
// pass, generalizing the teacher's single-purpose `cmd/fqpack/main.go`
// flag set into a subcommand family the way `davidebolo1993-kfilt` and
// `shenwei356-kmcp` structure their own cobra trees.
func NewRootCmd(version string) *cobra.Command {
	flags := &GlobalFlags{}

	root := &cobra.Command{
		Use:           "st",
		Short:         "a sequence-record toolkit: pass, trim, mask, find, replace, sort, unique",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&flags.Out, "out", "o", "", "output file (default: stdout)")
	root.PersistentFlags().StringVar(&flags.Fmt, "fmt", "", "input format override: fasta|fastq|csv|tsv")
	root.PersistentFlags().StringVar(&flags.To, "to", "", "output format override (default: same as input)")
	root.PersistentFlags().BoolVar(&flags.Verbose, "verbose", false, "print a warning to stderr for each record skipped by a recoverable error (no progress output)")
	root.PersistentFlags().BoolVar(&flags.Report, "report", false, "emit a JSON report to stderr at completion")
	root.PersistentFlags().StringVar(&flags.TempDir, "temp-dir", "", "directory for sort/unique spill files (default: OS temp dir)")
	root.PersistentFlags().BoolVar(&flags.Append, "append", false, "append to an existing output file instead of truncating")
	root.PersistentFlags().BoolVar(&flags.DupIDs, "dup-ids", false, "record IDs may repeat; use indexed (not synchronized) metadata lookup")
	root.PersistentFlags().IntVar(&flags.Wrap, "wrap", 0, "FASTA line-wrap width (0: unwrapped)")
	root.PersistentFlags().StringVar(&flags.SeqType, "seq-type", "dna", "declared sequence type for revcomp/ambiguity tables: dna|rna")

	pass := newPassCmd(flags)
	root.AddCommand(pass)
	root.AddCommand(newAliasCmd(".", pass))
	root.AddCommand(newTrimCmd(flags))
	root.AddCommand(newMaskCmd(flags))
	root.AddCommand(newFindCmd(flags))
	root.AddCommand(newReplaceCmd(flags))
	root.AddCommand(newSortCmd(flags))
	root.AddCommand(newUniqueCmd(flags))

	return root
}

// newAliasCmd registers name as a hidden alias that runs target's RunE,
// the way cobra idiomatically supports a non-identifier alias like ".".
func newAliasCmd(name string, target *cobra.Command) *cobra.Command {
	alias := &cobra.Command{
		Use:                name,
		Short:              target.Short,
		Hidden:             true,
		DisableFlagParsing: false,
		RunE:               target.RunE,
		Args:               target.Args,
	}
	alias.Flags().AddFlagSet(target.Flags())
	return alias
}

// Run executes the root command, printing a teacher-style "error: %v"
// line to stderr on failure (cmd/fqpack/main.go's own convention) rather
// than cobra's default usage dump.
func Run(version string) int {
	root := NewRootCmd(version)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// resolveInputFormat applies --fmt, then ST_FORMAT, then extension
// sniffing of the first input path (the result applies to every input
// file), per spec.md §4.1's precedence ("format ... inferred
// from the outermost extension" unless overridden) and §6 (ST_FORMAT is
// itself a default, lower priority than an explicit flag).
func resolveInputFormat(fmtFlag string, env EnvFormat, firstPath string) (FormatSpec, error) {
	if fmtFlag != "" {
		f, ok := ioutil.ParseFormat(fmtFlag)
		if !ok {
			return FormatSpec{}, fmt.Errorf("--fmt: unrecognized format %q", fmtFlag)
		}
		return FormatSpec{Format: f}, nil
	}
	if env.HasEnv {
		return FormatSpec{Format: env.Format, Fields: toDelimFields(env.Fields)}, nil
	}
	stripped := ioutil.StripExtension(firstPath, ioutil.CodecFromExtension(firstPath))
	return FormatSpec{Format: ioutil.SeqFormatFromExtension(stripped)}, nil
}

func resolveOutputFormat(toFlag string, in FormatSpec) (ioutil.SeqFormat, error) {
	if toFlag == "" {
		return in.Format, nil
	}
	f, ok := ioutil.ParseFormat(toFlag)
	if !ok {
		return 0, fmt.Errorf("--to: unrecognized format %q", toFlag)
	}
	return f, nil
}

func toDelimFields(f seqioFields) seqio.DelimFields {
	return seqio.DelimFields{ID: f.ID, Desc: f.Desc, Seq: f.Seq, Qual: f.Qual}
}

// defaultAttrFormat resolves the attribute format for a run: ST_ATTR_FORMAT
// if set, else record.DefaultAttrFormat.
func defaultAttrFormat(env EnvDefaults) record.AttrFormat {
	if env.HasAttr {
		return env.AttrFormat
	}
	return record.DefaultAttrFormat
}
