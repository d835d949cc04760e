//go:build !integration

package limitwriter

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitWriter(t *testing.T) {
	type write struct {
		size          int
		expectedN     int
		expectedError error
	}

	tests := map[string]struct {
		limit  int64
		writes []write
	}{
		"single write exact": {
			limit:  100,
			writes: []write{{size: 100, expectedN: 100}},
		},
		"single write over limit": {
			limit:  100,
			writes: []write{{size: 101, expectedN: 100, expectedError: ErrWriteLimitExceeded}},
		},
		"multiple writes over limit": {
			limit: 123,
			writes: []write{
				{size: 100, expectedN: 100},
				{size: 24, expectedN: 23, expectedError: ErrWriteLimitExceeded},
				{size: 10, expectedN: 0, expectedError: io.ErrShortWrite},
			},
		},
	}

	for tn, tc := range tests {
		t.Run(tn, func(t *testing.T) {
			buf := new(bytes.Buffer)
			lw := New(buf, tc.limit)

			total := 0
			for _, w := range tc.writes {
				n, err := lw.Write(bytes.Repeat([]byte{'a'}, w.size))
				assert.Equal(t, w.expectedN, n)
				if w.expectedError != nil {
					require.ErrorIs(t, err, w.expectedError)
				} else {
					require.NoError(t, err)
				}
				total += n
			}

			assert.Equal(t, bytes.Repeat([]byte{'a'}, total), buf.Bytes())
		})
	}
}
