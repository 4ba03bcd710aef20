package seqio

import "github.com/seqtoolkit/st/internal/record"

// Reader is satisfied by FASTAReader, FASTQReader, and DelimReader, letting
// the pipeline driver (C9) pull records without caring which format it
// opened. Next returns io.EOF (wrapped or bare, per each reader's own
// contract) once the underlying input is exhausted.
type Reader interface {
	Next() (*record.Record, error)
}
