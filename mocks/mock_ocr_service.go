package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ocrbench/internal/service"
)

// MockOCRService is a mock implementation of service.OCRService.
type MockOCRService struct {
	mock.Mock
}

func (m *MockOCRService) Run(ctx context.Context, input service.RunInput) (*service.RunOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RunOutput), args.Error(1)
}
