package driver

import "context"

import "github.com/stretchr/testify/mock"

import "gitlab.com/gitlab-org/buildshaders/common"

type MockCompiler struct {
	mock.Mock
}

func (m *MockCompiler) Compile(ctx context.Context, job common.ShaderJob) common.BuildResult {
	ret := m.Called(ctx, job)

	var r0 common.BuildResult
	if rf, ok := ret.Get(0).(func(context.Context, common.ShaderJob) common.BuildResult); ok {
		r0 = rf(ctx, job)
	} else {
		r0 = ret.Get(0).(common.BuildResult)
	}

	return r0
}
