package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"ocrbench/internal/domain"
)

// MockTestAreaRepo is a mock implementation of port.TestAreaRepository.
type MockTestAreaRepo struct {
	mock.Mock
}

func (m *MockTestAreaRepo) Create(ctx context.Context, area *domain.TestArea) error {
	args := m.Called(ctx, area)
	return args.Error(0)
}

func (m *MockTestAreaRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.TestArea, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TestArea), args.Error(1)
}

func (m *MockTestAreaRepo) List(ctx context.Context, offset, limit int) ([]domain.TestArea, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.TestArea), args.Int(1), args.Error(2)
}

func (m *MockTestAreaRepo) Save(ctx context.Context, area *domain.TestArea) error {
	args := m.Called(ctx, area)
	return args.Error(0)
}

func (m *MockTestAreaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
