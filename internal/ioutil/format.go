package ioutil

import "strings"

// SeqFormat identifies the sequence-record file format inferred from an
// extension, independent of any compression layer.
type SeqFormat uint8

const (
	SeqFormatFASTA SeqFormat = iota
	SeqFormatFASTQ
	SeqFormatCSV
	SeqFormatTSV
)

// SeqFormatFromExtension infers format from path's extension once any
// compression suffix has been stripped (via StripExtension), per
// spec.md §4.1: "Format and compression are inferred from the outermost
// extension: sequence format (fasta/fastq/csv/tsv, with any case), then
// optional compression layer." Unknown extensions for delimited text
// default to tab-delimited; ".csv" means comma-delimited.
func SeqFormatFromExtension(path string) SeqFormat {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".fasta"), strings.HasSuffix(lower, ".fa"), strings.HasSuffix(lower, ".fna"), strings.HasSuffix(lower, ".faa"):
		return SeqFormatFASTA
	case strings.HasSuffix(lower, ".fastq"), strings.HasSuffix(lower, ".fq"):
		return SeqFormatFASTQ
	case strings.HasSuffix(lower, ".csv"):
		return SeqFormatCSV
	case strings.HasSuffix(lower, ".tsv"), strings.HasSuffix(lower, ".txt"), strings.HasSuffix(lower, ".tab"):
		return SeqFormatTSV
	default:
		return SeqFormatTSV
	}
}

// ParseFormat maps a --fmt/--to/ST_FORMAT override string to a SeqFormat.
func ParseFormat(s string) (SeqFormat, bool) {
	switch strings.ToLower(s) {
	case "fasta", "fa", "fna", "faa":
		return SeqFormatFASTA, true
	case "fastq", "fq":
		return SeqFormatFASTQ, true
	case "csv":
		return SeqFormatCSV, true
	case "tsv", "tab", "txt":
		return SeqFormatTSV, true
	default:
		return SeqFormatTSV, false
	}
}

// Delimiter returns the field delimiter byte for a delimited SeqFormat.
func (f SeqFormat) Delimiter() byte {
	if f == SeqFormatCSV {
		return ','
	}
	return '\t'
}
