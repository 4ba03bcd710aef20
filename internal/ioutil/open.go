package ioutil

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// peekBufSize mirrors cmd/fqpack/main.go's 1 MiB stdio buffer.
const peekBufSize = 1 << 20

// OpenOptions configures Open.
type OpenOptions struct {
	// Codec overrides extension/magic sniffing when non-zero.
	Codec Codec
}

// Open opens path (or stdin for "" / "-") for reading, transparently
// decompressing according to the codec inferred from the extension or,
// failing that, sniffed from the stream's magic bytes. Generalizes
// cmd/fqpack/main.go's openInput/wrapInputMaybeGzip/inputHasGzipMagic.
func Open(path string, opts OpenOptions) (io.ReadCloser, error) {
	var raw io.Reader
	var closeRaw func() error

	if path == "" || path == "-" {
		raw = os.Stdin
		closeRaw = func() error { return nil }
	} else {
		f, err := os.Open(path) //nolint:gosec // CLI tool opens user-specified files
		if err != nil {
			return nil, fmt.Errorf("cannot open input %q: %w", path, err)
		}
		raw = f
		closeRaw = f.Close
	}

	br := bufio.NewReaderSize(raw, peekBufSize)

	codec := opts.Codec
	if codec == CodecNone {
		codec = CodecFromExtension(path)
	}
	if codec == CodecNone {
		sniffed, err := SniffCodec(br)
		if err != nil {
			_ = closeRaw()
			return nil, fmt.Errorf("cannot inspect input %q: %w", path, err)
		}
		codec = sniffed
	}

	switch codec {
	case CodecNone:
		return &readCloserWithClose{Reader: br, closeFn: closeRaw}, nil
	case CodecGzip:
		rc, err := newGzipReader(br)
		if err != nil {
			_ = closeRaw()
			return nil, fmt.Errorf("opening gzip input %q: %w", path, err)
		}
		return &readCloserWithClose{Reader: rc, closeFn: func() error {
			cerr := rc.Close()
			rerr := closeRaw()
			if cerr != nil {
				return cerr
			}
			return rerr
		}}, nil
	case CodecBzip2:
		rc, err := newBzip2Reader(br)
		if err != nil {
			_ = closeRaw()
			return nil, fmt.Errorf("opening bzip2 input %q: %w", path, err)
		}
		return &readCloserWithClose{Reader: rc, closeFn: func() error {
			cerr := rc.Close()
			rerr := closeRaw()
			if cerr != nil {
				return cerr
			}
			return rerr
		}}, nil
	case CodecLZ4:
		rc, err := newLZ4Reader(br)
		if err != nil {
			_ = closeRaw()
			return nil, fmt.Errorf("opening lz4 input %q: %w", path, err)
		}
		return &readCloserWithClose{Reader: rc, closeFn: func() error {
			cerr := rc.Close()
			rerr := closeRaw()
			if cerr != nil {
				return cerr
			}
			return rerr
		}}, nil
	case CodecZstd:
		rc, err := newZstdReader(br)
		if err != nil {
			_ = closeRaw()
			return nil, fmt.Errorf("opening zstd input %q: %w", path, err)
		}
		return &readCloserWithClose{Reader: rc, closeFn: func() error {
			cerr := rc.Close()
			rerr := closeRaw()
			if cerr != nil {
				return cerr
			}
			return rerr
		}}, nil
	default:
		_ = closeRaw()
		return nil, fmt.Errorf("unsupported codec for %q", path)
	}
}

type readCloserWithClose struct {
	io.Reader
	closeFn func() error
}

func (r *readCloserWithClose) Close() error { return r.closeFn() }

// CreateOptions configures Create.
type CreateOptions struct {
	Codec  Codec
	Append bool // open existing output without truncation, per spec.md §4.1
}

// WriteCloser is the result of Create: writes go through any compression
// codec, and Close runs finalize-then-close on every layer.
type WriteCloser struct {
	io.Writer
	layers []FlushCloser
	file   *os.File
	isStd  bool
}

// Close finalizes every codec layer innermost-first, then the underlying
// file, matching spec.md §9's "writer must never emit a stream footer
// until the last record of the run is flushed, and must always emit the
// footer on normal close." wc.layers is already ordered innermost-first
// by wrapWriter.
func (wc *WriteCloser) Close() error {
	var firstErr error
	for _, l := range wc.layers {
		if err := FinalizeAndClose(l); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if wc.isStd {
		return firstErr
	}
	if wc.file != nil {
		if err := wc.file.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing output file: %w", err)
		}
	}
	return firstErr
}

// Create opens path (or stdout for "" / "-") for writing, wrapping it in
// the compression codec inferred from the extension unless overridden.
func Create(path string, opts CreateOptions) (*WriteCloser, error) {
	if path == "" || path == "-" {
		bw := bufio.NewWriterSize(os.Stdout, peekBufSize)
		return wrapWriter(bw, nil, true, opts)
	}

	flags := os.O_WRONLY | os.O_CREATE
	if opts.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644) //nolint:gosec // CLI tool writes user-specified files
	if err != nil {
		return nil, fmt.Errorf("cannot create output %q: %w", path, err)
	}
	bw := bufio.NewWriterSize(f, peekBufSize)
	return wrapWriter(bw, f, false, opts)
}

func wrapWriter(bw *bufio.Writer, f *os.File, isStd bool, opts CreateOptions) (*WriteCloser, error) {
	codec := opts.Codec
	bufLayer := &bufFlushCloser{w: bw}

	var final io.Writer = bw
	// layers is built innermost-first: the compression layer (if any)
	// must Close before the underlying bufio.Writer is flushed, since
	// closing the codec is what emits its footer into bw.
	var layers []FlushCloser

	switch codec {
	case CodecNone:
		// no compression layer
	case CodecGzip:
		gw, err := newGzipWriter(bw)
		if err != nil {
			return nil, fmt.Errorf("creating gzip writer: %w", err)
		}
		final = gw
		layers = append(layers, gw)
	case CodecBzip2:
		zw, err := newBzip2Writer(bw)
		if err != nil {
			return nil, fmt.Errorf("creating bzip2 writer: %w", err)
		}
		final = zw
		layers = append(layers, zw)
	case CodecLZ4:
		zw, err := newLZ4Writer(bw)
		if err != nil {
			return nil, fmt.Errorf("creating lz4 writer: %w", err)
		}
		final = zw
		layers = append(layers, zw)
	case CodecZstd:
		zw, err := newZstdWriter(bw)
		if err != nil {
			return nil, fmt.Errorf("creating zstd writer: %w", err)
		}
		final = zw
		layers = append(layers, zw)
	default:
		return nil, fmt.Errorf("unsupported codec")
	}

	layers = append(layers, bufLayer)

	return &WriteCloser{Writer: final, layers: layers, file: f, isStd: isStd}, nil
}

type bufFlushCloser struct {
	w *bufio.Writer
}

func (b *bufFlushCloser) Write(p []byte) (int, error) { return b.w.Write(p) }
func (b *bufFlushCloser) Flush() error                { return b.w.Flush() }
func (b *bufFlushCloser) Close() error                { return nil }
