package limitwriter

import (
	"errors"
	"io"
)

var ErrWriteLimitExceeded = errors.New("write limit exceeded")

type limitWriter struct {
	w       io.Writer
	limit   int64
	written int64
}

// New returns a writer passing at most n bytes to w. The write crossing the
// limit is cut short with ErrWriteLimitExceeded, later writes fail with
// io.ErrShortWrite.
func New(w io.Writer, n int64) io.Writer {
	return &limitWriter{w: w, limit: n}
}

func (w *limitWriter) Write(p []byte) (int, error) {
	remaining := w.limit - w.written
	if remaining <= 0 {
		return 0, io.ErrShortWrite
	}

	var exceeded bool
	if int64(len(p)) > remaining {
		p = p[:remaining]
		exceeded = true
	}

	n, err := w.w.Write(p)
	w.written += int64(max(n, 0))

	if err == nil && exceeded {
		err = ErrWriteLimitExceeded
	}

	return n, err
}
