package ioutil

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"
)

// DefaultChunkSize is the recommended background-thread buffer size,
// spec.md §4.1: "recommended 64 KiB-1 MiB".
const DefaultChunkSize = 256 * 1024

// chunk is one fixed-size buffer passed across the bounded queue between
// a dedicated I/O goroutine and the foreground parser/writer.
type chunk struct {
	data []byte
	err  error
}

// BackgroundReader offloads reading (and, transitively, decompression)
// of r onto a dedicated goroutine, communicating through a bounded
// channel of fixed-size buffers. This overlaps decompression with
// parsing, per spec.md §4.1, generalizing the
// producer/worker/collector-with-errgroup shape of
// internal/compress/compress.go's compressParallelWithBatch.
type BackgroundReader struct {
	ch     chan chunk
	cancel context.CancelFunc
	g      *errgroup.Group
	cur    []byte
}

// NewBackgroundReader starts the reader goroutine. queueDepth is the
// number of in-flight buffers (spec.md §4.1 recommends queue capacity
// bounded so decompression can't run arbitrarily far ahead of parsing).
func NewBackgroundReader(r io.Reader, chunkSize, queueDepth int) *BackgroundReader {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if queueDepth <= 0 {
		queueDepth = 4
	}
	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	ch := make(chan chunk, queueDepth)

	g.Go(func() error {
		defer close(ch)
		for {
			buf := make([]byte, chunkSize)
			n, err := io.ReadFull(r, buf)
			if n > 0 {
				select {
				case ch <- chunk{data: buf[:n]}:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			if err == io.ErrUnexpectedEOF || err == io.EOF {
				return nil
			}
			if err != nil {
				select {
				case ch <- chunk{err: err}:
				case <-gctx.Done():
				}
				return err
			}
		}
	})

	return &BackgroundReader{ch: ch, cancel: cancel, g: g}
}

// Read implements io.Reader by draining the background channel.
func (b *BackgroundReader) Read(p []byte) (int, error) {
	if len(b.cur) == 0 {
		c, ok := <-b.ch
		if !ok {
			return 0, io.EOF
		}
		if c.err != nil {
			return 0, c.err
		}
		b.cur = c.data
	}
	n := copy(p, b.cur)
	b.cur = b.cur[n:]
	return n, nil
}

// Close stops the background goroutine and waits for it to exit.
func (b *BackgroundReader) Close() error {
	b.cancel()
	return b.g.Wait()
}

// BackgroundWriter offloads writing (and compression) of records onto a
// dedicated goroutine, symmetric to BackgroundReader.
type BackgroundWriter struct {
	ch     chan chunk
	done   chan struct{}
	werr   error
	w      io.Writer
	cancel context.CancelFunc
}

// NewBackgroundWriter starts the writer goroutine.
func NewBackgroundWriter(w io.Writer, queueDepth int) *BackgroundWriter {
	if queueDepth <= 0 {
		queueDepth = 4
	}
	_, cancel := context.WithCancel(context.Background())
	bw := &BackgroundWriter{
		ch:     make(chan chunk, queueDepth),
		done:   make(chan struct{}),
		w:      w,
		cancel: cancel,
	}
	go func() {
		defer close(bw.done)
		for c := range bw.ch {
			if _, err := w.Write(c.data); err != nil {
				bw.werr = err
				// drain remaining sends so producers don't block forever
				for range bw.ch {
				}
				return
			}
		}
	}()
	return bw
}

// Write enqueues p for the background goroutine. p is copied since the
// caller's buffer may be reused immediately.
func (b *BackgroundWriter) Write(p []byte) (int, error) {
	if b.werr != nil {
		return 0, b.werr
	}
	cp := make([]byte, len(p))
	copy(cp, p)
	b.ch <- chunk{data: cp}
	return len(p), nil
}

// Close drains the queue and waits for the background goroutine to
// finish, then reports any write error encountered.
func (b *BackgroundWriter) Close() error {
	close(b.ch)
	<-b.done
	b.cancel()
	if b.werr != nil {
		return fmt.Errorf("background write: %w", b.werr)
	}
	return nil
}
