//go:build !integration

package limitwriter

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer(t *testing.T) {
	tests := map[string]struct {
		limit             int64
		writes            []string
		expectedContent   string
		expectedTruncated bool
	}{
		"under limit": {
			limit:           10,
			writes:          []string{"abc", "def"},
			expectedContent: "abcdef",
		},
		"exactly at limit": {
			limit:           6,
			writes:          []string{"abc", "def"},
			expectedContent: "abcdef",
		},
		"single write over limit": {
			limit:             4,
			writes:            []string{"abcdef"},
			expectedContent:   "abcd",
			expectedTruncated: true,
		},
		"writes after limit reached": {
			limit:             3,
			writes:            []string{"abc", "def", "ghi"},
			expectedContent:   "abc",
			expectedTruncated: true,
		},
	}

	for tn, tc := range tests {
		t.Run(tn, func(t *testing.T) {
			b := NewBuffer(tc.limit)

			for _, w := range tc.writes {
				n, err := b.Write([]byte(w))
				require.NoError(t, err)
				assert.Equal(t, len(w), n)
			}

			assert.Equal(t, tc.expectedContent, b.String())
			assert.Equal(t, []byte(tc.expectedContent), b.Bytes())
			assert.Equal(t, tc.expectedTruncated, b.Truncated())
		})
	}
}

func TestBufferDrainsCopy(t *testing.T) {
	b := NewBuffer(1024)

	n, err := io.Copy(b, strings.NewReader(strings.Repeat("x", 1<<20)))
	require.NoError(t, err)
	assert.Equal(t, int64(1<<20), n)
	assert.Len(t, b.Bytes(), 1024)
	assert.True(t, b.Truncated())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, fmt.Errorf("disk on fire")
}

func TestBufferPropagatesUnderlyingErrors(t *testing.T) {
	b := &Buffer{w: New(failingWriter{}, 10)}

	n, err := b.Write([]byte("abc"))
	assert.EqualError(t, err, "disk on fire")
	assert.Zero(t, n)
	assert.False(t, b.Truncated())
	assert.Empty(t, bytes.TrimSpace(b.Bytes()))
}
