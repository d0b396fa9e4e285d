package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ModelConfig toggles one provider model for a test area.
type ModelConfig struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Enabled  bool   `json:"enabled"`
}

// TestResult is a single model invocation scored against the area's ground truth.
type TestResult struct {
	ID        uuid.UUID       `json:"id"`
	Provider  string          `json:"provider"`
	Model     string          `json:"model"`
	Text      string          `json:"text"`
	Raw       json.RawMessage `json:"raw,omitempty"`
	Accuracy  float64         `json:"accuracy"`
	Failed    bool            `json:"failed"`
	CreatedAt time.Time       `json:"created_at"`
}

// TestVersion groups results produced with one system/user prompt pair.
type TestVersion struct {
	ID            uuid.UUID    `json:"id"`
	VersionNumber int          `json:"version_number"`
	SystemPrompt  string       `json:"system_prompt"`
	UserPrompt    string       `json:"user_prompt"`
	Temperature   float64      `json:"temperature"`
	Results       []TestResult `json:"results"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// SamePrompts reports whether v was produced with the given prompt pair.
func (v *TestVersion) SamePrompts(systemPrompt, userPrompt string) bool {
	return v.SystemPrompt == systemPrompt && v.UserPrompt == userPrompt
}

// TestArea pairs an image and its ground truth with the history of prompt
// versions run against it. The whole object is persisted on every mutation.
type TestArea struct {
	ID                uuid.UUID     `json:"id"`
	Name              string        `json:"name"`
	ImageURL          string        `json:"image_url"`
	GroundTruth       string        `json:"ground_truth"`
	ModelConfigs      []ModelConfig `json:"model_configs"`
	Versions          []TestVersion `json:"versions"`
	ActiveVersionID   *uuid.UUID    `json:"active_version_id,omitempty"`
	NextVersionNumber int           `json:"next_version_number"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// Version returns the version with the given id, or nil.
func (a *TestArea) Version(id uuid.UUID) *TestVersion {
	for i := range a.Versions {
		if a.Versions[i].ID == id {
			return &a.Versions[i]
		}
	}
	return nil
}

// ActiveVersion returns the active version, or nil when none is set.
func (a *TestArea) ActiveVersion() *TestVersion {
	if a.ActiveVersionID == nil {
		return nil
	}
	return a.Version(*a.ActiveVersionID)
}

// EnabledModels lists the model ids switched on for this area, in config order.
func (a *TestArea) EnabledModels() []string {
	var models []string
	for _, mc := range a.ModelConfigs {
		if mc.Enabled {
			models = append(models, mc.Model)
		}
	}
	return models
}

// Clone returns a deep copy of a.
func (a *TestArea) Clone() *TestArea {
	c := *a
	c.ModelConfigs = append([]ModelConfig(nil), a.ModelConfigs...)
	c.Versions = make([]TestVersion, len(a.Versions))
	for i, v := range a.Versions {
		v.Results = append([]TestResult(nil), v.Results...)
		c.Versions[i] = v
	}
	if a.ActiveVersionID != nil {
		id := *a.ActiveVersionID
		c.ActiveVersionID = &id
	}
	return &c
}

// DefaultModelConfigs is the model set a new test area starts with.
func DefaultModelConfigs() []ModelConfig {
	return []ModelConfig{
		{Provider: ProviderOpenAI, Model: "gpt-4o", Enabled: true},
		{Provider: ProviderOpenAI, Model: "gpt-4o-mini", Enabled: false},
		{Provider: ProviderGemini, Model: "gemini-2.0-flash", Enabled: true},
		{Provider: ProviderGemini, Model: "gemini-2.0-flash-lite", Enabled: false},
		{Provider: ProviderGemini, Model: "gemini-2.0-pro-exp-02-05", Enabled: false},
	}
}

// RecordRun files results under the version that used the same prompt pair,
// or under a new version when the pair has not been run before. Version
// numbers are never reused. The touched version becomes active.
func (a *TestArea) RecordRun(systemPrompt, userPrompt string, temperature float64, results []TestResult, now time.Time) *TestVersion {
	for i := range a.Versions {
		v := &a.Versions[i]
		if !v.SamePrompts(systemPrompt, userPrompt) {
			continue
		}
		v.Results = append(v.Results, results...)
		v.Temperature = temperature
		v.UpdatedAt = now
		id := v.ID
		a.ActiveVersionID = &id
		return v
	}

	for _, v := range a.Versions {
		if v.VersionNumber >= a.NextVersionNumber {
			a.NextVersionNumber = v.VersionNumber + 1
		}
	}
	if a.NextVersionNumber < 1 {
		a.NextVersionNumber = 1
	}

	a.Versions = append(a.Versions, TestVersion{
		ID:            uuid.New(),
		VersionNumber: a.NextVersionNumber,
		SystemPrompt:  systemPrompt,
		UserPrompt:    userPrompt,
		Temperature:   temperature,
		Results:       append([]TestResult{}, results...),
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	a.NextVersionNumber++
	v := &a.Versions[len(a.Versions)-1]
	id := v.ID
	a.ActiveVersionID = &id
	return v
}
