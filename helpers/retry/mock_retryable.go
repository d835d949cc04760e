package retry

import "github.com/stretchr/testify/mock"

type mockRetryable struct {
	mock.Mock
}

func newMockRetryable(t interface {
	mock.TestingT
	Cleanup(func())
}) *mockRetryable {
	m := &mockRetryable{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *mockRetryable) Run() error {
	ret := m.Called()

	r0 := ret.Error(0)

	return r0
}
func (m *mockRetryable) ShouldRetry(tries int, err error) bool {
	ret := m.Called(tries, err)

	r0 := ret.Get(0).(bool)

	return r0
}
