package helpers

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

type fatalLogHook struct {
	output io.Writer
}

func (s *fatalLogHook) Levels() []logrus.Level {
	return []logrus.Level{
		logrus.FatalLevel,
	}
}

// Fire prints the message, and the error attached with WithError, before
// panicking.
func (s *fatalLogHook) Fire(e *logrus.Entry) error {
	if err, ok := e.Data[logrus.ErrorKey].(error); ok {
		_, _ = fmt.Fprintf(s.output, "%s: %v\n", e.Message, err)
	} else {
		_, _ = fmt.Fprintln(s.output, e.Message)
	}

	panic(e)
}

// MakeFatalToPanic turns logrus.Fatal on the standard logger into a panic
// carrying the *logrus.Entry, so tests can exercise code paths that would
// otherwise exit the process. The returned function restores the hooks.
func MakeFatalToPanic() func() {
	logger := logrus.StandardLogger()
	hooks := make(logrus.LevelHooks)

	hooks.Add(&fatalLogHook{output: logger.Out})
	oldHooks := logger.ReplaceHooks(hooks)

	return func() {
		logger.ReplaceHooks(oldHooks)
	}
}
