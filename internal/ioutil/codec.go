// Package ioutil is the byte I/O layer (C1): file/stdin opening,
// extension- and magic-sniffed compression codec selection, and an
// optional dedicated read/write thread with a bounded buffer queue,
// generalizing the open/close/sniff helpers in
// vertti-fastqpacker/cmd/fqpack/main.go from "maybe gzip" to the full
// gzip/bzip2/lz4/zstd family spec.md §4.1/§6 requires.
package ioutil

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Codec identifies a compression format.
type Codec uint8

const (
	CodecNone Codec = iota
	CodecGzip
	CodecBzip2
	CodecLZ4
	CodecZstd
)

func (c Codec) String() string {
	switch c {
	case CodecGzip:
		return "gzip"
	case CodecBzip2:
		return "bzip2"
	case CodecLZ4:
		return "lz4"
	case CodecZstd:
		return "zstd"
	default:
		return "none"
	}
}

// magic bytes for sniffing a codec on a stream whose extension is
// unknown or absent (e.g. stdin).
var magics = []struct {
	codec Codec
	bytes []byte
}{
	{CodecGzip, []byte{0x1f, 0x8b}},
	{CodecBzip2, []byte{'B', 'Z', 'h'}},
	{CodecZstd, []byte{0x28, 0xb5, 0x2f, 0xfd}},
	{CodecLZ4, []byte{0x04, 0x22, 0x4d, 0x18}},
}

// CodecFromExtension infers a compression codec from the outermost
// extension of path, per spec.md §4.1/§6.
func CodecFromExtension(path string) Codec {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".gz"):
		return CodecGzip
	case strings.HasSuffix(lower, ".bz2"):
		return CodecBzip2
	case strings.HasSuffix(lower, ".lz4"):
		return CodecLZ4
	case strings.HasSuffix(lower, ".zst"):
		return CodecZstd
	default:
		return CodecNone
	}
}

// SniffCodec peeks at the front of br (without consuming it) and returns
// the codec implied by magic bytes, or CodecNone if no magic matches.
// Mirrors cmd/fqpack/main.go's inputHasGzipMagic, generalized to all four
// codecs.
func SniffCodec(br *bufio.Reader) (Codec, error) {
	header, err := br.Peek(4)
	if err != nil && len(header) == 0 {
		return CodecNone, nil
	}
	for _, m := range magics {
		if len(header) >= len(m.bytes) && string(header[:len(m.bytes)]) == string(m.bytes) {
			return m.codec, nil
		}
	}
	return CodecNone, nil
}

// StripExtension removes a trailing compression extension from path, so
// callers can sniff the underlying sequence format from what remains.
func StripExtension(path string, c Codec) string {
	lower := strings.ToLower(path)
	var suffix string
	switch c {
	case CodecGzip:
		suffix = ".gz"
	case CodecBzip2:
		suffix = ".bz2"
	case CodecLZ4:
		suffix = ".lz4"
	case CodecZstd:
		suffix = ".zst"
	default:
		return path
	}
	if strings.HasSuffix(lower, suffix) {
		return path[:len(path)-len(suffix)]
	}
	return path
}

// FlushCloser is the "finalize-then-close" contract every codec writer
// must satisfy: Flush pushes internally buffered data through to the
// underlying writer (a no-op for bzip2), and Close writes the codec's
// stream footer and releases its resources.
// spec.md §4.1: "failure to flush is a fatal error ... every codec exit
// path must call finalize-then-close."
type FlushCloser interface {
	io.Writer
	Flush() error
	Close() error
}

// FinalizeAndClose runs the finalize-then-close contract, returning the
// first error encountered from either step.
func FinalizeAndClose(fc FlushCloser) error {
	flushErr := fc.Flush()
	closeErr := fc.Close()
	if flushErr != nil {
		return fmt.Errorf("flushing output: %w", flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("closing output: %w", closeErr)
	}
	return nil
}
