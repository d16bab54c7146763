package llm

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockClient is a mock implementation of Client using testify/mock.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) Respond(ctx context.Context, model, message string, opts *Options) (string, error) {
	args := m.Called(ctx, model, message, opts)
	return args.String(0), args.Error(1)
}

func (m *MockClient) Models(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockClient) Ensure(ctx context.Context, model string) error {
	args := m.Called(ctx, model)
	return args.Error(0)
}
