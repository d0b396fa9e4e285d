package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"ocrbench/internal/domain"
	"ocrbench/internal/service"
)

// MockTestAreaService is a mock implementation of service.TestAreaService.
type MockTestAreaService struct {
	mock.Mock
}

func (m *MockTestAreaService) area(args mock.Arguments) (*domain.TestArea, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TestArea), args.Error(1)
}

func (m *MockTestAreaService) Create(ctx context.Context, input service.CreateTestAreaInput) (*domain.TestArea, error) {
	return m.area(m.Called(ctx, input))
}

func (m *MockTestAreaService) GetByID(ctx context.Context, id uuid.UUID) (*domain.TestArea, error) {
	return m.area(m.Called(ctx, id))
}

func (m *MockTestAreaService) List(ctx context.Context, offset, limit int) ([]domain.TestArea, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.TestArea), args.Int(1), args.Error(2)
}

func (m *MockTestAreaService) Update(ctx context.Context, id uuid.UUID, input service.UpdateTestAreaInput) (*domain.TestArea, error) {
	return m.area(m.Called(ctx, id, input))
}

func (m *MockTestAreaService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTestAreaService) Duplicate(ctx context.Context, id uuid.UUID) (*domain.TestArea, error) {
	return m.area(m.Called(ctx, id))
}

func (m *MockTestAreaService) Run(ctx context.Context, id uuid.UUID, input service.RunTestInput) (*service.RunTestOutput, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RunTestOutput), args.Error(1)
}

func (m *MockTestAreaService) SetActiveVersion(ctx context.Context, id, versionID uuid.UUID) (*domain.TestArea, error) {
	return m.area(m.Called(ctx, id, versionID))
}

func (m *MockTestAreaService) Rescore(ctx context.Context, id uuid.UUID) (*domain.TestArea, error) {
	return m.area(m.Called(ctx, id))
}

func (m *MockTestAreaService) Import(ctx context.Context, inputs []service.CreateTestAreaInput) ([]domain.TestArea, error) {
	args := m.Called(ctx, inputs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TestArea), args.Error(1)
}
