// internal/chunker/open.go
package chunker

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// OpenError reports that the input could not be opened or decoded at all.
// It is always returned before any chunk is emitted.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string { return fmt.Sprintf("open input %q: %v", e.Path, e.Err) }
func (e *OpenError) Unwrap() error { return e.Err }

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Open returns a reader for path. "-" is stdin; gzip input is detected by
// magic number (1F 8B) or by .gz suffix.
func Open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	if st, err := fh.Stat(); err == nil && st.IsDir() {
		_ = fh.Close()
		return nil, &OpenError{Path: path, Err: fmt.Errorf("is a directory")}
	}
	var sig [2]byte
	n, _ := io.ReadFull(fh, sig[:])
	if _, err := fh.Seek(0, io.SeekStart); err != nil {
		_ = fh.Close()
		return nil, &OpenError{Path: path, Err: err}
	}
	if (n == 2 && sig[0] == 0x1f && sig[1] == 0x8b) || strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(fh)
		if err != nil {
			_ = fh.Close()
			return nil, &OpenError{Path: path, Err: err}
		}
		return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, fh}}, nil
	}
	return fh, nil
}
