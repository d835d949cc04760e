package process

import "github.com/sirupsen/logrus"

import "github.com/stretchr/testify/mock"

type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) WithFields(fields logrus.Fields) Logger {
	ret := m.Called(fields)

	var r0 Logger
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(Logger)
	}

	return r0
}
func (m *MockLogger) Warn(args ...interface{}) {
	m.Called(args...)
}
