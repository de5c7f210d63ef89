// internal/writers/sorted.go
package writers

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"go.uber.org/zap"
)

const DefaultBatchSize = 10_000

// WriteError is a fatal failure to produce the output.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string { return fmt.Sprintf("write output %q: %v", e.Path, e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }

type Options struct {
	BatchSize int    // lines per flushed batch
	Format    string // registry name; "" = plain
	Log       *zap.Logger
}

// Sorted returns the members of set in ascending byte order.
func Sorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	slices.Sort(out)
	return out
}

// WriteSorted writes set to path ("-" means stdout) and returns the number
// of lines written. File output is atomic: temp file, fsync, rename.
func WriteSorted(set map[string]struct{}, path string, stdout io.Writer, o Options) (int, error) {
	domains := Sorted(set)
	if path == "-" {
		n, err := WriteLines(stdout, domains, o)
		if err != nil {
			return n, &WriteError{Path: path, Err: err}
		}
		return n, nil
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return 0, &WriteError{Path: path, Err: err}
	}
	tmpName := tmp.Name()
	fail := func(err error) (int, error) {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return 0, &WriteError{Path: path, Err: err}
	}

	n, err := WriteLines(tmp, domains, o)
	if err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return 0, &WriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return 0, &WriteError{Path: path, Err: err}
	}
	return n, nil
}

// WriteLines writes already-sorted domains to w in batches of o.BatchSize,
// flushing after each batch.
func WriteLines(w io.Writer, domains []string, o Options) (int, error) {
	render, err := LookupFormat(o.Format)
	if err != nil {
		return 0, err
	}
	batch := o.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	log := o.Log
	if log == nil {
		log = zap.NewNop()
	}

	bw := bufio.NewWriterSize(w, 256*1024)
	written := 0
	for start := 0; start < len(domains); start += batch {
		end := min(start+batch, len(domains))
		for _, d := range domains[start:end] {
			if _, err := bw.WriteString(render(d)); err != nil {
				return written, err
			}
			if err := bw.WriteByte('\n'); err != nil {
				return written, err
			}
		}
		if err := bw.Flush(); err != nil {
			return written, err
		}
		written = end
		log.Debug("wrote batch", zap.Int("written", written), zap.Int("total", len(domains)))
	}
	return written, bw.Flush()
}
