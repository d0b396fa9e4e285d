package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"ocrbench/internal/domain"
	"ocrbench/internal/port"
	"ocrbench/internal/provider"
)

// placeholderRaw marks a run that produced no provider response.
var placeholderRaw = json.RawMessage(`{"error":true}`)

// RunInput is the DTO for a multi-model OCR run.
type RunInput struct {
	ImageURL     string   `json:"image_url" binding:"required"`
	SystemPrompt string   `json:"system_prompt"`
	UserPrompt   string   `json:"user_prompt"`
	Models       []string `json:"models" binding:"required"`
	Temperature  float64  `json:"temperature"`
	BatchSize    int      `json:"batch_size"`
}

// RunResult is the outcome of one model invocation.
type RunResult struct {
	Provider string          `json:"provider"`
	Model    string          `json:"model"`
	Text     string          `json:"text"`
	Raw      json.RawMessage `json:"raw"`
	Failed   bool            `json:"failed"`
}

// RunOutput holds every run in requested model order, then run index.
type RunOutput struct {
	Results       []RunResult `json:"results"`
	SkippedModels []string    `json:"skipped_models,omitempty"`
}

// OCRConfig tunes how runs are issued.
type OCRConfig struct {
	MaxBatchSize int
	Delay        time.Duration
	MaxTokens    int
}

// OCRService sends one image to several models and collects their text.
type OCRService interface {
	Run(ctx context.Context, input RunInput) (*RunOutput, error)
}

type ocrService struct {
	providers map[string]port.OCRProvider
	catalog   *provider.Catalog
	cfg       OCRConfig
}

// NewOCRService creates a new OCRService. providers is keyed by provider
// name; models whose provider is missing produce failed runs.
func NewOCRService(providers map[string]port.OCRProvider, catalog *provider.Catalog, cfg OCRConfig) OCRService {
	if cfg.MaxBatchSize < 1 {
		cfg.MaxBatchSize = 1
	}
	return &ocrService{providers: providers, catalog: catalog, cfg: cfg}
}

func (s *ocrService) Run(ctx context.Context, input RunInput) (*RunOutput, error) {
	if strings.TrimSpace(input.ImageURL) == "" {
		return nil, domain.ErrMissingImage
	}
	if len(input.Models) == 0 {
		return nil, domain.ErrNoModels
	}
	batch := input.BatchSize
	if batch == 0 {
		batch = 1
	}
	if batch < 1 || batch > s.cfg.MaxBatchSize {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", domain.ErrInvalidBatchSize, batch, s.cfg.MaxBatchSize)
	}

	out := &RunOutput{}
	var refs []provider.ModelRef
	seen := map[string]bool{}
	for _, model := range input.Models {
		if seen[model] {
			continue
		}
		seen[model] = true
		name, ok := s.catalog.ProviderFor(model)
		if !ok {
			slog.Warn("ocrService: skipping unknown model", "model", model)
			out.SkippedModels = append(out.SkippedModels, model)
			continue
		}
		refs = append(refs, provider.ModelRef{Provider: name, Model: model})
	}

	perModel := make([][]RunResult, len(refs))
	var g errgroup.Group
	for i, ref := range refs {
		g.Go(func() error {
			perModel[i] = s.runModel(ctx, ref, input, batch)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out.Results = make([]RunResult, 0, len(refs)*batch)
	for _, results := range perModel {
		out.Results = append(out.Results, results...)
	}
	return out, nil
}

// runModel issues batch sequential calls to one model, pausing between them.
func (s *ocrService) runModel(ctx context.Context, ref provider.ModelRef, input RunInput, batch int) []RunResult {
	results := make([]RunResult, 0, batch)
	p, ok := s.providers[ref.Provider]

	for run := 0; run < batch; run++ {
		if run > 0 && s.cfg.Delay > 0 {
			timer := time.NewTimer(s.cfg.Delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return results
			case <-timer.C:
			}
		}

		if !ok {
			results = append(results, placeholder(ref, fmt.Errorf("%w: %s", domain.ErrProviderUnavailable, ref.Provider)))
			continue
		}

		res, err := p.Extract(ctx, port.ExtractInput{
			ImageURL:     input.ImageURL,
			SystemPrompt: input.SystemPrompt,
			UserPrompt:   input.UserPrompt,
			Model:        ref.Model,
			Temperature:  input.Temperature,
			MaxTokens:    s.cfg.MaxTokens,
		})
		if err != nil {
			slog.Warn("ocrService: run failed", "provider", ref.Provider, "model", ref.Model, "run", run+1, "error", err)
			results = append(results, placeholder(ref, err))
			continue
		}
		results = append(results, RunResult{
			Provider: ref.Provider,
			Model:    ref.Model,
			Text:     res.Text,
			Raw:      res.Raw,
		})
	}
	slog.Info("ocrService: model finished", "provider", ref.Provider, "model", ref.Model, "runs", len(results))
	return results
}

func placeholder(ref provider.ModelRef, err error) RunResult {
	return RunResult{
		Provider: ref.Provider,
		Model:    ref.Model,
		Text:     "Error: " + err.Error(),
		Raw:      placeholderRaw,
		Failed:   true,
	}
}
