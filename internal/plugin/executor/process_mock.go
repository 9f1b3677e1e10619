package executor

import (
	"context"
	"errors"
	"io"
)

// MockProcessRunner is a ProcessRunner with canned behaviour for tests.
type MockProcessRunner struct {
	RunFunc func(ctx context.Context, path string, args []string, stdin io.Reader) (stdout, stderr []byte, err error)

	// ShouldTimeout blocks until the context is cancelled.
	ShouldTimeout bool

	CallCount int
	LastPath  string
	LastArgs  []string
}

// Run executes the mock behavior.
func (m *MockProcessRunner) Run(ctx context.Context, path string, args []string, stdin io.Reader) ([]byte, []byte, error) {
	m.CallCount++
	m.LastPath = path
	m.LastArgs = args

	if m.ShouldTimeout {
		<-ctx.Done()
		return nil, nil, ctx.Err()
	}
	if m.RunFunc != nil {
		return m.RunFunc(ctx, path, args, stdin)
	}
	return []byte("{}"), nil, nil
}

// NewErrorMockProcessRunner creates a mock that fails with errMsg on stderr.
func NewErrorMockProcessRunner(errMsg string) *MockProcessRunner {
	return &MockProcessRunner{
		RunFunc: func(context.Context, string, []string, io.Reader) ([]byte, []byte, error) {
			return nil, []byte(errMsg), errors.New(errMsg)
		},
	}
}

// NewSuccessMockProcessRunner creates a mock that prints stdout and succeeds.
func NewSuccessMockProcessRunner(stdout []byte) *MockProcessRunner {
	return &MockProcessRunner{
		RunFunc: func(context.Context, string, []string, io.Reader) ([]byte, []byte, error) {
			return stdout, nil, nil
		},
	}
}
