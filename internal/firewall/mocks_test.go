package firewall

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hostprobe/internal/sysutil"
)

type MockCommandRunner struct {
	mock.Mock
}

func (m *MockCommandRunner) Run(ctx context.Context, command string) (sysutil.Result, error) {
	args := m.Called(ctx, command)
	return args.Get(0).(sysutil.Result), args.Error(1)
}

type MockScriptRunner struct {
	mock.Mock
}

func (m *MockScriptRunner) RunScript(ctx context.Context, script string) (sysutil.Result, error) {
	args := m.Called(ctx, script)
	return args.Get(0).(sysutil.Result), args.Error(1)
}

type MockServiceController struct {
	mock.Mock
}

func (m *MockServiceController) QueryStatus(ctx context.Context, name string) (sysutil.ServiceState, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(sysutil.ServiceState), args.Error(1)
}
