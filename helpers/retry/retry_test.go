//go:build !integration

package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRetry_Run(t *testing.T) {
	runErr := errors.New("runErr")

	tests := map[string]struct {
		calls       []error
		shouldRetry bool
		expectedErr error
	}{
		"no error should succeed": {
			calls:       []error{nil},
			shouldRetry: false,
			expectedErr: nil,
		},
		"one error succeed on second call": {
			calls:       []error{runErr, nil},
			shouldRetry: true,
			expectedErr: nil,
		},
		"on error should not retry": {
			calls:       []error{runErr},
			shouldRetry: false,
			expectedErr: runErr,
		},
	}

	for tn, tt := range tests {
		t.Run(tn, func(t *testing.T) {
			m := newMockRetryable(t)

			for _, e := range tt.calls {
				m.On("Run").Return(e).Once()
			}

			m.On("ShouldRetry", mock.Anything, mock.Anything).
				Return(tt.shouldRetry).
				Maybe()

			err := New(m.Run).
				WithCheck(m.ShouldRetry).
				WithBackoff(time.Millisecond, time.Millisecond).
				Run()

			assert.Equal(t, tt.expectedErr, err)
		})
	}
}

func TestRetry_WithMaxTries(t *testing.T) {
	runErr := errors.New("err")

	m := newMockRetryable(t)
	m.On("Run").Return(runErr).Times(3)

	err := New(m.Run).
		WithMaxTries(3).
		WithBackoff(time.Millisecond, time.Millisecond).
		Run()

	assert.Equal(t, runErr, err)
}

func TestRetry_RunValue(t *testing.T) {
	tries := 0

	value, err := NewWithValue(func() (string, error) {
		tries++
		if tries < 2 {
			return "", errors.New("not yet")
		}

		return "ok", nil
	}).WithBackoff(time.Millisecond, time.Millisecond).RunValue()

	require.NoError(t, err)
	assert.Equal(t, "ok", value)
	assert.Equal(t, 2, tries)
}

func TestRetry_WithContext(t *testing.T) {
	runErr := errors.New("err")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := newMockRetryable(t)
	m.On("Run").Return(runErr).Once()

	start := time.Now()
	err := New(m.Run).
		WithContext(ctx).
		WithBackoff(time.Minute, time.Minute).
		Run()

	assert.Equal(t, runErr, err)
	assert.Less(t, time.Since(start), time.Minute)
}

func TestRetry_WithLogrus(t *testing.T) {
	runErr := errors.New("err")
	logger, hook := test.NewNullLogger()

	m := newMockRetryable(t)
	m.On("Run").Return(runErr).Times(2)

	err := New(m.Run).
		WithMaxTries(2).
		WithLogrus(logger.WithField("job", "a.vert")).
		WithBackoff(time.Millisecond, time.Millisecond).
		Run()

	assert.Equal(t, runErr, err)
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "Retrying...", hook.LastEntry().Message)
	assert.Equal(t, 1, hook.LastEntry().Data["tries"])
	assert.Equal(t, runErr, hook.LastEntry().Data[logrus.ErrorKey])
}
