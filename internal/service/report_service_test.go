package service_test

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ocrbench/internal/domain"
	"ocrbench/internal/service"
	"ocrbench/mocks"
)

func reportFixture() *domain.TestArea {
	return &domain.TestArea{
		ID:          uuid.New(),
		Name:        "fixture",
		GroundTruth: "abcd efg",
		Versions: []domain.TestVersion{
			{
				ID:            uuid.New(),
				VersionNumber: 1,
				Results: []domain.TestResult{
					{ID: uuid.New(), Provider: "openai", Model: "gpt-4o", Text: "abcd efg", Accuracy: 1},
					{ID: uuid.New(), Provider: "openai", Model: "gpt-4o", Text: "abcd", Accuracy: 0.5},
					{ID: uuid.New(), Provider: "gemini", Model: "gemini-2.0-flash", Text: "abcd ef", Accuracy: 0.625},
					{ID: uuid.New(), Text: "orphan", Accuracy: 0.9},
				},
			},
			{
				ID:            uuid.New(),
				VersionNumber: 3,
				Results: []domain.TestResult{
					{ID: uuid.New(), Provider: "gemini", Model: "gemini-2.0-flash", Text: "abcd efg", Accuracy: 1},
				},
			},
		},
	}
}

func newReportService(t *testing.T, area *domain.TestArea) service.ReportService {
	t.Helper()
	repo := new(mocks.MockTestAreaRepo)
	repo.On("GetByID", mock.Anything, area.ID).Return(area, nil)
	return service.NewReportService(repo)
}

func TestReportService_Leaderboard(t *testing.T) {
	area := reportFixture()
	svc := newReportService(t, area)

	entries, err := svc.Leaderboard(context.Background(), area.ID)

	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, 100.0, entries[0].Accuracy)
	assert.Equal(t, 1, entries[0].VersionNumber)
	assert.Equal(t, 3, entries[1].VersionNumber)
	assert.Equal(t, 62.5, entries[2].Accuracy)
	assert.Equal(t, 50.0, entries[3].Accuracy)
	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank)
		assert.NotEmpty(t, e.Provider)
	}
}

func TestReportService_Leaderboard_NotFound(t *testing.T) {
	repo := new(mocks.MockTestAreaRepo)
	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrTestAreaNotFound)

	_, err := service.NewReportService(repo).Leaderboard(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrTestAreaNotFound)
}

func TestReportService_ModelStats(t *testing.T) {
	area := reportFixture()
	svc := newReportService(t, area)

	stats, err := svc.ModelStats(context.Background(), area.ID, area.Versions[0].ID, true)

	require.NoError(t, err)
	require.Len(t, stats, 3)

	// "orphan" shares no words with the ground truth.
	assert.Equal(t, "openai", stats[0].Provider)
	assert.Equal(t, 2, stats[0].Count)
	assert.InDelta(t, 75.0, stats[0].Average, 1e-9)
	assert.InDelta(t, 25.0, stats[0].StdDev, 1e-9)
	assert.InDelta(t, 100.0, stats[0].Max, 1e-9)

	assert.Equal(t, "gemini-2.0-flash", stats[1].Model)
	assert.InDelta(t, 62.5, stats[1].Average, 1e-9)
	assert.InDelta(t, 0.0, stats[1].StdDev, 1e-9)

	assert.Equal(t, "unknown", stats[2].Provider)
	assert.Equal(t, 0.0, stats[2].Average)
}

func TestReportService_ModelStats_UnknownVersion(t *testing.T) {
	area := reportFixture()
	svc := newReportService(t, area)

	_, err := svc.ModelStats(context.Background(), area.ID, uuid.New(), true)
	assert.ErrorIs(t, err, domain.ErrVersionNotFound)
}

func TestReportService_Trend(t *testing.T) {
	area := reportFixture()
	svc := newReportService(t, area)

	points, err := svc.Trend(context.Background(), area.ID)

	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "V1", points[0].Label)
	assert.Equal(t, "V2", points[1].Label)
	assert.Equal(t, 3, points[1].VersionNumber)

	openai := points[0].Providers["openai"]
	assert.InDelta(t, 75.0, openai.Avg, 1e-9)
	assert.InDelta(t, 50.0, openai.Min, 1e-9)
	assert.InDelta(t, 100.0, openai.Max, 1e-9)
	assert.Len(t, points[0].Providers, 2)

	_, ok := points[1].Providers["openai"]
	assert.False(t, ok)
}

func TestReportService_Compare(t *testing.T) {
	area := reportFixture()
	svc := newReportService(t, area)

	cmp, err := svc.Compare(context.Background(), area.ID, area.Versions[0].ID, area.Versions[1].ID, true)

	require.NoError(t, err)
	assert.InDelta(t, 75.625, cmp.Base.AverageAccuracy, 1e-9)
	assert.InDelta(t, 100.0, cmp.Target.AverageAccuracy, 1e-9)
	assert.InDelta(t, 24.375, cmp.Delta, 1e-9)
	require.NotNil(t, cmp.Diff)
	assert.Equal(t, 1.0, cmp.Diff.Value)
	assert.False(t, math.IsNaN(cmp.Delta))
}

func TestReportService_Compare_EmptyVersion(t *testing.T) {
	area := reportFixture()
	area.Versions = append(area.Versions, domain.TestVersion{ID: uuid.New(), VersionNumber: 4})
	svc := newReportService(t, area)

	cmp, err := svc.Compare(context.Background(), area.ID, area.Versions[0].ID, area.Versions[2].ID, true)

	require.NoError(t, err)
	assert.Nil(t, cmp.Diff)
	assert.Equal(t, 0, cmp.Target.ResultCount)

	_, err = svc.Compare(context.Background(), area.ID, area.Versions[0].ID, uuid.New(), true)
	assert.ErrorIs(t, err, domain.ErrVersionNotFound)
}
