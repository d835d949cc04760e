package test

import (
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// NewHook installs a test hook on the standard logger and returns a function
// restoring the previous hooks.
//
// Prefer passing a logrus.FieldLogger to the code under test and using
// test.NewNullLogger; this is for code paths that only log through the
// standard logger, such as command Execute methods.
func NewHook() (*test.Hook, func()) {
	oldHooks := logrus.LevelHooks{}
	for level, hooks := range logrus.StandardLogger().Hooks {
		oldHooks[level] = hooks
	}

	newHook := test.NewGlobal()
	return newHook, func() {
		logrus.StandardLogger().ReplaceHooks(oldHooks)
	}
}
