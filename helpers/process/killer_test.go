//go:build !integration

package process

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func mockKillerFactory(t *testing.T) *mockKiller {
	t.Helper()

	killerMock := new(mockKiller)

	oldNewProcessKiller := newProcessKiller
	t.Cleanup(func() {
		newProcessKiller = oldNewProcessKiller
		killerMock.AssertExpectations(t)
	})

	newProcessKiller = func(logger Logger, cmd Commander) killer {
		return killerMock
	}

	return killerMock
}

func TestOSKillWait_KillAndWait(t *testing.T) {
	testProcess := &os.Process{Pid: 1234}
	processStoppedErr := errors.New("process stopped properly")
	killProcessErr := KillProcessError{testProcess.Pid}

	tests := map[string]struct {
		process          *os.Process
		terminateProcess bool
		forceKillProcess bool
		expectedError    error
	}{
		"process is nil": {
			process:       nil,
			expectedError: ErrProcessNotStarted,
		},
		"process terminated": {
			process:          testProcess,
			terminateProcess: true,
			expectedError:    processStoppedErr,
		},
		"process force-killed": {
			process:          testProcess,
			forceKillProcess: true,
			expectedError:    processStoppedErr,
		},
		"process killing failed": {
			process:       testProcess,
			expectedError: &killProcessErr,
		},
	}

	for tn, tc := range tests {
		t.Run(tn, func(t *testing.T) {
			waitCh := make(chan error, 1)

			killerMock := mockKillerFactory(t)

			loggerMock := new(MockLogger)
			defer loggerMock.AssertExpectations(t)

			commanderMock := new(MockCommander)
			defer commanderMock.AssertExpectations(t)

			commanderMock.On("Process").Return(tc.process)

			if tc.process != nil {
				loggerMock.
					On("WithFields", logrus.Fields{"PID": tc.process.Pid}).
					Return(loggerMock)
				loggerMock.On("Warn", mock.Anything).Maybe()

				terminateCall := killerMock.On("Terminate")
				forceKillCall := killerMock.On("ForceKill").Maybe()

				if tc.terminateProcess {
					terminateCall.Run(func(_ mock.Arguments) {
						waitCh <- processStoppedErr
					})
				}

				if tc.forceKillProcess {
					forceKillCall.Run(func(_ mock.Arguments) {
						waitCh <- processStoppedErr
					})
				}
			}

			kw := NewOSKillWait(loggerMock, 100*time.Millisecond, 100*time.Millisecond)
			err := kw.KillAndWait(commanderMock, waitCh)

			assert.ErrorIs(t, err, tc.expectedError)
		})
	}
}

func TestKillProcessErrorIs(t *testing.T) {
	err := &KillProcessError{pid: 10}

	assert.ErrorIs(t, err, &KillProcessError{})
	assert.NotErrorIs(t, ErrProcessNotStarted, &KillProcessError{})
	assert.Contains(t, err.Error(), "PID=10")
}

func TestLogrusLogger(t *testing.T) {
	logger, hook := test.NewNullLogger()

	l := NewLogrusLogger(logger).WithFields(logrus.Fields{"PID": 42})
	l.Warn("Failed to terminate process:", "boom")

	require.Len(t, hook.AllEntries(), 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, 42, entry.Data["PID"])
	assert.Equal(t, "Failed to terminate process:boom", entry.Message)
}
