package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocrbench/internal/domain"
)

func TestRecordRun_NewPromptsCreateVersions(t *testing.T) {
	area := &domain.TestArea{NextVersionNumber: 1}
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	v1 := area.RecordRun("sys", "user", 0, []domain.TestResult{{Model: "gpt-4o"}}, now)
	assert.Equal(t, 1, v1.VersionNumber)
	v2 := area.RecordRun("sys", "other", 0.2, []domain.TestResult{{Model: "gpt-4o"}}, now)
	assert.Equal(t, 2, v2.VersionNumber)

	assert.Equal(t, 3, area.NextVersionNumber)
	require.Len(t, area.Versions, 2)
	require.NotNil(t, area.ActiveVersionID)
	assert.Equal(t, v2.ID, *area.ActiveVersionID)
}

func TestRecordRun_SamePromptsAppend(t *testing.T) {
	area := &domain.TestArea{NextVersionNumber: 1}
	first := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	later := first.Add(time.Hour)

	v1 := area.RecordRun("sys", "user", 0, []domain.TestResult{{Model: "a"}}, first)
	v1ID := v1.ID
	area.RecordRun("sys", "other", 0, nil, first)

	again := area.RecordRun("sys", "user", 0.7, []domain.TestResult{{Model: "b"}}, later)
	assert.Equal(t, v1ID, again.ID)
	assert.Equal(t, 1, again.VersionNumber)
	assert.Equal(t, 0.7, again.Temperature)
	assert.Equal(t, later, again.UpdatedAt)
	assert.Equal(t, first, again.CreatedAt)
	require.Len(t, again.Results, 2)
	assert.Equal(t, "b", again.Results[1].Model)

	assert.Equal(t, 3, area.NextVersionNumber)
	assert.Equal(t, v1ID, *area.ActiveVersionID)
}

func TestRecordRun_NumbersNeverReused(t *testing.T) {
	area := &domain.TestArea{NextVersionNumber: 1}
	now := time.Now()
	area.RecordRun("s", "1", 0, nil, now)
	area.RecordRun("s", "2", 0, nil, now)
	area.Versions = area.Versions[:1]

	v := area.RecordRun("s", "3", 0, nil, now)
	assert.Equal(t, 3, v.VersionNumber)
}

func TestRecordRun_RepairsStaleCounter(t *testing.T) {
	area := &domain.TestArea{
		Versions: []domain.TestVersion{{ID: uuid.New(), VersionNumber: 4, SystemPrompt: "x"}},
	}
	v := area.RecordRun("y", "y", 0, nil, time.Now())
	assert.Equal(t, 5, v.VersionNumber)
	assert.Equal(t, 6, area.NextVersionNumber)
}

func TestClone_IsDeep(t *testing.T) {
	id := uuid.New()
	area := &domain.TestArea{
		Name:            "orig",
		ModelConfigs:    domain.DefaultModelConfigs(),
		Versions:        []domain.TestVersion{{ID: id, Results: []domain.TestResult{{Text: "a"}}}},
		ActiveVersionID: &id,
	}
	c := area.Clone()
	c.ModelConfigs[0].Enabled = false
	c.Versions[0].Results[0].Text = "changed"
	*c.ActiveVersionID = uuid.New()

	assert.True(t, area.ModelConfigs[0].Enabled)
	assert.Equal(t, "a", area.Versions[0].Results[0].Text)
	assert.Equal(t, id, *area.ActiveVersionID)
}

func TestEnabledModels(t *testing.T) {
	area := &domain.TestArea{ModelConfigs: domain.DefaultModelConfigs()}
	assert.Equal(t, []string{"gpt-4o", "gemini-2.0-flash"}, area.EnabledModels())
}
