package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"ocrbench/internal/accuracy"
	"ocrbench/internal/domain"
	"ocrbench/internal/port"
)

// CreateTestAreaInput is the DTO for creating a test area.
type CreateTestAreaInput struct {
	Name         string               `json:"name" binding:"required"`
	ImageURL     string               `json:"image_url"`
	GroundTruth  string               `json:"ground_truth"`
	ModelConfigs []domain.ModelConfig `json:"model_configs"`
}

// UpdateTestAreaInput is the DTO for updating a test area. Nil fields are left unchanged.
type UpdateTestAreaInput struct {
	Name         *string              `json:"name"`
	ImageURL     *string              `json:"image_url"`
	GroundTruth  *string              `json:"ground_truth"`
	ModelConfigs []domain.ModelConfig `json:"model_configs"`
}

// RunTestInput is the DTO for running a test area's image through its models.
type RunTestInput struct {
	SystemPrompt string   `json:"system_prompt"`
	UserPrompt   string   `json:"user_prompt"`
	Temperature  float64  `json:"temperature"`
	BatchSize    int      `json:"batch_size"`
	Models       []string `json:"models"`
}

// RunTestOutput is the area after a run together with the version the results were filed under.
type RunTestOutput struct {
	Area          *domain.TestArea    `json:"test_area"`
	Version       *domain.TestVersion `json:"version"`
	SkippedModels []string            `json:"skipped_models,omitempty"`
}

// TestAreaService defines the test area management contract.
type TestAreaService interface {
	Create(ctx context.Context, input CreateTestAreaInput) (*domain.TestArea, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TestArea, error)
	List(ctx context.Context, offset, limit int) ([]domain.TestArea, int, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateTestAreaInput) (*domain.TestArea, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Duplicate(ctx context.Context, id uuid.UUID) (*domain.TestArea, error)
	Run(ctx context.Context, id uuid.UUID, input RunTestInput) (*RunTestOutput, error)
	SetActiveVersion(ctx context.Context, id, versionID uuid.UUID) (*domain.TestArea, error)
	Rescore(ctx context.Context, id uuid.UUID) (*domain.TestArea, error)
	Import(ctx context.Context, inputs []CreateTestAreaInput) ([]domain.TestArea, error)
}

type testAreaService struct {
	repo      port.TestAreaRepository
	ocr       OCRService
	normalize bool

	// Serializes read-modify-write cycles per area within this process.
	locks sync.Map
}

// NewTestAreaService creates a new TestAreaService implementation. normalize
// selects whether results are scored on normalized text.
func NewTestAreaService(repo port.TestAreaRepository, ocr OCRService, normalize bool) TestAreaService {
	return &testAreaService{repo: repo, ocr: ocr, normalize: normalize}
}

func (s *testAreaService) Create(ctx context.Context, input CreateTestAreaInput) (*domain.TestArea, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidRequest)
	}
	configs := input.ModelConfigs
	if configs == nil {
		configs = domain.DefaultModelConfigs()
	}
	area := &domain.TestArea{
		Name:              name,
		ImageURL:          strings.TrimSpace(input.ImageURL),
		GroundTruth:       input.GroundTruth,
		ModelConfigs:      configs,
		Versions:          []domain.TestVersion{},
		NextVersionNumber: 1,
	}
	if err := s.repo.Create(ctx, area); err != nil {
		return nil, err
	}
	return area, nil
}

func (s *testAreaService) GetByID(ctx context.Context, id uuid.UUID) (*domain.TestArea, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *testAreaService) List(ctx context.Context, offset, limit int) ([]domain.TestArea, int, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *testAreaService) Update(ctx context.Context, id uuid.UUID, input UpdateTestAreaInput) (*domain.TestArea, error) {
	return s.mutate(ctx, id, func(area *domain.TestArea) error {
		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return fmt.Errorf("%w: name must not be empty", domain.ErrInvalidRequest)
			}
			area.Name = name
		}
		if input.ImageURL != nil {
			area.ImageURL = strings.TrimSpace(*input.ImageURL)
		}
		if input.ModelConfigs != nil {
			area.ModelConfigs = input.ModelConfigs
		}
		if input.GroundTruth != nil && *input.GroundTruth != area.GroundTruth {
			area.GroundTruth = *input.GroundTruth
			s.rescore(area)
		}
		return nil
	})
}

func (s *testAreaService) Delete(ctx context.Context, id uuid.UUID) error {
	mu := s.lockFor(id)
	mu.Lock()
	defer mu.Unlock()
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.locks.Delete(id)
	return nil
}

func (s *testAreaService) Duplicate(ctx context.Context, id uuid.UUID) (*domain.TestArea, error) {
	src, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dup := src.Clone()
	dup.ID = uuid.Nil
	dup.Name = src.Name + " (copy)"
	if err := s.repo.Create(ctx, dup); err != nil {
		return nil, err
	}
	return dup, nil
}

func (s *testAreaService) Run(ctx context.Context, id uuid.UUID, input RunTestInput) (*RunTestOutput, error) {
	area, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(area.ImageURL) == "" {
		return nil, domain.ErrMissingImage
	}
	models := input.Models
	if len(models) == 0 {
		models = area.EnabledModels()
	}
	if len(models) == 0 {
		return nil, domain.ErrNoModels
	}

	out, err := s.ocr.Run(ctx, RunInput{
		ImageURL:     area.ImageURL,
		SystemPrompt: input.SystemPrompt,
		UserPrompt:   input.UserPrompt,
		Models:       models,
		Temperature:  input.Temperature,
		BatchSize:    input.BatchSize,
	})
	if err != nil {
		return nil, err
	}

	var version *domain.TestVersion
	area, err = s.mutate(ctx, id, func(a *domain.TestArea) error {
		now := time.Now().UTC()
		results := make([]domain.TestResult, len(out.Results))
		for i, r := range out.Results {
			results[i] = domain.TestResult{
				ID:        uuid.New(),
				Provider:  r.Provider,
				Model:     r.Model,
				Text:      r.Text,
				Raw:       r.Raw,
				Failed:    r.Failed,
				CreatedAt: now,
			}
			results[i].Accuracy = s.score(a.GroundTruth, &results[i])
		}
		version = a.RecordRun(input.SystemPrompt, input.UserPrompt, input.Temperature, results, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &RunTestOutput{Area: area, Version: version, SkippedModels: out.SkippedModels}, nil
}

func (s *testAreaService) SetActiveVersion(ctx context.Context, id, versionID uuid.UUID) (*domain.TestArea, error) {
	return s.mutate(ctx, id, func(area *domain.TestArea) error {
		if area.Version(versionID) == nil {
			return domain.ErrVersionNotFound
		}
		area.ActiveVersionID = &versionID
		return nil
	})
}

func (s *testAreaService) Rescore(ctx context.Context, id uuid.UUID) (*domain.TestArea, error) {
	return s.mutate(ctx, id, func(area *domain.TestArea) error {
		s.rescore(area)
		return nil
	})
}

func (s *testAreaService) Import(ctx context.Context, inputs []CreateTestAreaInput) ([]domain.TestArea, error) {
	created := make([]domain.TestArea, 0, len(inputs))
	for i, in := range inputs {
		if strings.TrimSpace(in.Name) == "" {
			in.Name = fmt.Sprintf("Imported %d", i+1)
		}
		area, err := s.Create(ctx, in)
		if err != nil {
			return created, fmt.Errorf("import row %d: %w", i+1, err)
		}
		created = append(created, *area)
	}
	return created, nil
}

// mutate loads the area, applies fn and saves the whole object while holding
// the area's lock.
func (s *testAreaService) mutate(ctx context.Context, id uuid.UUID, fn func(*domain.TestArea) error) (*domain.TestArea, error) {
	mu := s.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	area, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(area); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, area); err != nil {
		return nil, err
	}
	return area, nil
}

func (s *testAreaService) lockFor(id uuid.UUID) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (s *testAreaService) rescore(area *domain.TestArea) {
	for vi := range area.Versions {
		results := area.Versions[vi].Results
		for ri := range results {
			results[ri].Accuracy = s.score(area.GroundTruth, &results[ri])
		}
	}
}

// score rates one result against the ground truth. Failed runs score zero.
func (s *testAreaService) score(groundTruth string, r *domain.TestResult) float64 {
	if r.Failed {
		return 0
	}
	return accuracy.Accuracy(groundTruth, r.Text, s.normalize)
}
