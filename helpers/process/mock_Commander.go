package process

import "os"

import "github.com/stretchr/testify/mock"

type MockCommander struct {
	mock.Mock
}

func (m *MockCommander) Start() error {
	ret := m.Called()

	r0 := ret.Error(0)

	return r0
}
func (m *MockCommander) Wait() error {
	ret := m.Called()

	r0 := ret.Error(0)

	return r0
}
func (m *MockCommander) Process() *os.Process {
	ret := m.Called()

	var r0 *os.Process
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*os.Process)
	}

	return r0
}
