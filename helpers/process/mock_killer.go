package process

import "github.com/stretchr/testify/mock"

type mockKiller struct {
	mock.Mock
}

func (m *mockKiller) Terminate() {
	m.Called()
}
func (m *mockKiller) ForceKill() {
	m.Called()
}
