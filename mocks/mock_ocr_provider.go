package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ocrbench/internal/port"
)

// MockOCRProvider is a mock implementation of port.OCRProvider.
type MockOCRProvider struct {
	mock.Mock
}

func (m *MockOCRProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockOCRProvider) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.ExtractOutput), args.Error(1)
}
