package testing

import (
	"context"
	"io"
	"os"

	"github.com/stretchr/testify/mock"

	"github.com/imamik/hostkit/internal/remote"
)

// MockExecutor is a mock implementation of the remote.Executor interface.
// Prefer FakeExecutor for scenario tests; use this when exact call
// expectations matter.
type MockExecutor struct {
	mock.Mock
}

var _ remote.Executor = (*MockExecutor)(nil)

// Execute runs a mocked command.
func (m *MockExecutor) Execute(ctx context.Context, line string) (remote.Result, error) {
	args := m.Called(ctx, line)
	return args.Get(0).(remote.Result), args.Error(1)
}

// Upload records a mocked upload.
func (m *MockExecutor) Upload(ctx context.Context, content io.Reader, remotePath string, mode os.FileMode) error {
	args := m.Called(ctx, content, remotePath, mode)
	return args.Error(0)
}
