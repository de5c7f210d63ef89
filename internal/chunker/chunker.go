// Package chunker reads a newline-delimited input sequentially and emits
// bounded chunks of lines. Memory use is bounded by the chunk size and the
// line limit, never by the file size.
package chunker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"fqdnsan/internal/runutil"
)

// Chunk is one unit of work. Seq starts at 0 and increases by one per chunk.
// A chunk never splits a line.
type Chunk struct {
	Seq   int
	Lines []string
}

// Options controls chunking. Zero values take the package defaults.
type Options struct {
	ChunkSize    int // lines per chunk
	MaxLineBytes int // longer lines are dropped
}

// Stats counts what the reader saw.
type Stats struct {
	Bytes          int64
	Lines          int64 // lines handed to chunks
	DecodeFailures int64 // invalid UTF-8
	Oversized      int64 // longer than MaxLineBytes
}

// Dropped is the total of lines that never reached a chunk.
func (s Stats) Dropped() int64 { return s.DecodeFailures + s.Oversized }

// Stream opens path and emits chunks of at most ChunkSize lines to emit.
// An open failure is returned as *OpenError before emit is ever called.
// A read failure mid-file is returned wrapped; ctx cancellation returns
// ctx.Err(). Returning an error from emit stops the scan.
func Stream(ctx context.Context, path string, opt Options, emit func(Chunk) error) (Stats, error) {
	rc, err := Open(path)
	if err != nil {
		return Stats{}, err
	}
	defer rc.Close()
	return StreamReader(ctx, rc, opt, emit)
}

// StreamReader is Stream over an already-open reader.
func StreamReader(ctx context.Context, r io.Reader, opt Options, emit func(Chunk) error) (Stats, error) {
	size := runutil.OrDefault(opt.ChunkSize, runutil.DefaultChunkSize)
	maxLine := runutil.OrDefault(opt.MaxLineBytes, runutil.DefaultMaxLineBytes)

	br := bufio.NewReaderSize(r, 64*1024)
	var (
		st    Stats
		seq   int
		lines = make([]string, 0, size)
		long  []byte
		skip  bool // inside an oversized line
	)

	flush := func() error {
		if len(lines) == 0 {
			return nil
		}
		ch := Chunk{Seq: seq, Lines: lines}
		seq++
		lines = make([]string, 0, size)
		return emit(ch)
	}

	take := func(line []byte) error {
		st.Lines++
		lines = append(lines, string(line))
		if len(lines) >= size {
			return flush()
		}
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return st, ctx.Err()
		default:
		}
		frag, err := br.ReadSlice('\n')
		st.Bytes += int64(len(frag))
		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			// Line continues past the buffer; accumulate up to maxLine.
			if !skip {
				long = append(long, frag...)
				if len(long) > maxLine {
					skip, long = true, long[:0]
				}
			}
			continue
		case err != nil && err != io.EOF:
			return st, fmt.Errorf("read input: %w", err)
		}

		line := frag
		if len(long) > 0 {
			line = append(long, frag...)
			long = long[:0]
		}
		eof := err == io.EOF
		if !eof || len(line) > 0 || skip {
			line = trimEOL(line)
			switch {
			case skip || len(line) > maxLine:
				st.Oversized++
			case !utf8.Valid(line):
				st.DecodeFailures++
			default:
				if e := take(line); e != nil {
					return st, e
				}
			}
		}
		skip = false
		if eof {
			break
		}
	}
	if err := flush(); err != nil {
		return st, err
	}
	return st, nil
}

// StreamChan runs Stream in a goroutine and delivers chunks over a channel.
// The returned wait func blocks until the reader is done and reports its
// stats and error. Cancel ctx to abandon the scan early.
func StreamChan(ctx context.Context, path string, opt Options, depth int) (<-chan Chunk, func() (Stats, error), error) {
	rc, err := Open(path)
	if err != nil {
		return nil, nil, err
	}
	out := make(chan Chunk, depth)
	done := make(chan struct{})
	var (
		st   Stats
		serr error
	)
	go func() {
		defer close(done)
		defer close(out)
		defer rc.Close()
		st, serr = StreamReader(ctx, rc, opt, func(c Chunk) error {
			select {
			case out <- c:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}()
	return out, func() (Stats, error) { <-done; return st, serr }, nil
}

func trimEOL(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == '\n' {
		b = b[:n-1]
	}
	if n := len(b); n > 0 && b[n-1] == '\r' {
		b = b[:n-1]
	}
	return b
}
