// Package ioutils opens inputs and creates outputs, treating "-" as
// stdin/stdout and handling gzip transparently.
package ioutils

import (
	"bufio"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Stdio is the path that selects stdin or stdout.
const Stdio = "-"

// Ext returns the lower-cased extension of path with any trailing ".gz"
// removed first, so "data.csv.gz" gives ".csv".
func Ext(path string) string {
	p := strings.ToLower(path)
	p = strings.TrimSuffix(p, ".gz")
	return filepath.Ext(p)
}

// OpenMaybeCompressed opens a file path or stdin ("-") and returns a reader.
// Gzip input is detected by its magic bytes, whatever the extension.
func OpenMaybeCompressed(path string) (io.ReadCloser, error) {
	if path == Stdio || path == "" {
		r, err := maybeGunzip(bufio.NewReader(os.Stdin), nil)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := maybeGunzip(bufio.NewReader(f), f.Close)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return r, nil
}

func maybeGunzip(br *bufio.Reader, closeFn func() error) (io.ReadCloser, error) {
	b, err := br.Peek(2)
	if err == nil && b[0] == 0x1f && b[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		return readCloser{Reader: zr, closeFn: func() error {
			zerr := zr.Close()
			if closeFn != nil {
				return errors.Join(zerr, closeFn())
			}
			return zerr
		}}, nil
	}
	return readCloser{Reader: br, closeFn: closeFn}, nil
}

// CreateMaybeCompressed creates a file (or stdout if path is "-") and
// returns a buffered writer. If the path ends in .gz, the writer is gzip
// compressed. Close flushes everything.
func CreateMaybeCompressed(path string) (io.WriteCloser, error) {
	if path == Stdio || path == "" {
		return writeCloser{Writer: bufio.NewWriter(os.Stdout)}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".gz") {
		zw := gzip.NewWriter(f)
		return writeCloser{Writer: zw, closeFn: func() error { return errors.Join(zw.Close(), f.Close()) }}, nil
	}
	return writeCloser{Writer: bufio.NewWriter(f), closeFn: f.Close}, nil
}

type readCloser struct {
	io.Reader
	closeFn func() error
}

func (r readCloser) Close() error {
	if r.closeFn != nil {
		return r.closeFn()
	}
	return nil
}

type writeCloser struct {
	io.Writer
	closeFn func() error
}

func (w writeCloser) Close() error {
	var ferr error
	if bw, ok := w.Writer.(*bufio.Writer); ok {
		ferr = bw.Flush()
	}
	if w.closeFn != nil {
		return errors.Join(ferr, w.closeFn())
	}
	return ferr
}
