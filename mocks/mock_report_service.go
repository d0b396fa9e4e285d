package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"ocrbench/internal/service"
)

// MockReportService is a mock implementation of service.ReportService.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Leaderboard(ctx context.Context, areaID uuid.UUID) ([]service.LeaderboardEntry, error) {
	args := m.Called(ctx, areaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.LeaderboardEntry), args.Error(1)
}

func (m *MockReportService) ModelStats(ctx context.Context, areaID, versionID uuid.UUID, normalize bool) ([]service.ModelStat, error) {
	args := m.Called(ctx, areaID, versionID, normalize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.ModelStat), args.Error(1)
}

func (m *MockReportService) Trend(ctx context.Context, areaID uuid.UUID) ([]service.TrendPoint, error) {
	args := m.Called(ctx, areaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.TrendPoint), args.Error(1)
}

func (m *MockReportService) Compare(ctx context.Context, areaID, baseID, targetID uuid.UUID, normalize bool) (*service.Comparison, error) {
	args := m.Called(ctx, areaID, baseID, targetID, normalize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Comparison), args.Error(1)
}
