package limitwriter

import (
	"bytes"
	"errors"
	"io"
)

// Buffer keeps the first limit bytes written to it and silently drops the
// rest. Unlike the writer returned by New it never fails a write, so a child
// process piping into it is never blocked or broken by the cap.
type Buffer struct {
	buf       bytes.Buffer
	w         io.Writer
	truncated bool
}

func NewBuffer(limit int64) *Buffer {
	b := &Buffer{}
	b.w = New(&b.buf, limit)

	return b
}

func (b *Buffer) Write(p []byte) (int, error) {
	_, err := b.w.Write(p)
	if errors.Is(err, ErrWriteLimitExceeded) || errors.Is(err, io.ErrShortWrite) {
		b.truncated = true
		err = nil
	}
	if err != nil {
		return 0, err
	}

	return len(p), nil
}

// Truncated reports whether any written byte was dropped.
func (b *Buffer) Truncated() bool {
	return b.truncated
}

func (b *Buffer) Bytes() []byte {
	return b.buf.Bytes()
}

func (b *Buffer) String() string {
	return b.buf.String()
}
