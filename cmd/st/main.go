// st is a sequence-record toolkit: pass, trim, mask, find, replace,
// sort, and unique subcommands over FASTA/FASTQ/delimited-text streams.
package main

import (
	"os"

	"github.com/seqtoolkit/st/internal/cliapp"
)

var version = "dev"

func main() {
	os.Exit(cliapp.Run(version))
}
