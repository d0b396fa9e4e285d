package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ocrbench/internal/domain"
	"ocrbench/internal/port"
	"ocrbench/internal/provider"
	"ocrbench/internal/service"
	"ocrbench/mocks"
)

func newOCRService(providers map[string]port.OCRProvider, delay time.Duration) service.OCRService {
	return service.NewOCRService(providers, provider.DefaultCatalog(), service.OCRConfig{
		MaxBatchSize: 5,
		Delay:        delay,
		MaxTokens:    1000,
	})
}

func modelInput(model string) interface{} {
	return mock.MatchedBy(func(in port.ExtractInput) bool { return in.Model == model })
}

func TestOCRService_Run_Validation(t *testing.T) {
	svc := newOCRService(nil, 0)
	ctx := context.Background()

	_, err := svc.Run(ctx, service.RunInput{Models: []string{"gpt-4o"}})
	assert.ErrorIs(t, err, domain.ErrMissingImage)

	_, err = svc.Run(ctx, service.RunInput{ImageURL: "http://img"})
	assert.ErrorIs(t, err, domain.ErrNoModels)

	_, err = svc.Run(ctx, service.RunInput{ImageURL: "http://img", Models: []string{"gpt-4o"}, BatchSize: 6})
	assert.ErrorIs(t, err, domain.ErrInvalidBatchSize)

	_, err = svc.Run(ctx, service.RunInput{ImageURL: "http://img", Models: []string{"gpt-4o"}, BatchSize: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidBatchSize)
}

func TestOCRService_Run_OrdersByModelThenRun(t *testing.T) {
	openai := new(mocks.MockOCRProvider)
	gemini := new(mocks.MockOCRProvider)
	svc := newOCRService(map[string]port.OCRProvider{
		domain.ProviderOpenAI: openai,
		domain.ProviderGemini: gemini,
	}, 0)

	gemini.On("Extract", mock.Anything, modelInput("gemini-2.0-flash")).
		Return(&port.ExtractOutput{Text: "gem", Raw: json.RawMessage(`{"g":1}`)}, nil).Twice()
	openai.On("Extract", mock.Anything, mock.MatchedBy(func(in port.ExtractInput) bool {
		return in.Model == "gpt-4o" && in.MaxTokens == 1000 && in.Temperature == 0.3 &&
			in.SystemPrompt == "sys" && in.UserPrompt == "usr" && in.ImageURL == "http://img"
	})).Return(&port.ExtractOutput{Text: "oai"}, nil).Twice()

	out, err := svc.Run(context.Background(), service.RunInput{
		ImageURL:     "http://img",
		SystemPrompt: "sys",
		UserPrompt:   "usr",
		Models:       []string{"gemini-2.0-flash", "gpt-4o"},
		Temperature:  0.3,
		BatchSize:    2,
	})

	require.NoError(t, err)
	require.Len(t, out.Results, 4)
	assert.Equal(t, "gemini-2.0-flash", out.Results[0].Model)
	assert.Equal(t, "gemini-2.0-flash", out.Results[1].Model)
	assert.Equal(t, "gpt-4o", out.Results[2].Model)
	assert.Equal(t, domain.ProviderOpenAI, out.Results[3].Provider)
	assert.Equal(t, "oai", out.Results[3].Text)
	assert.JSONEq(t, `{"g":1}`, string(out.Results[0].Raw))
	openai.AssertExpectations(t)
	gemini.AssertExpectations(t)
}

func TestOCRService_Run_FailuresBecomePlaceholders(t *testing.T) {
	openai := new(mocks.MockOCRProvider)
	gemini := new(mocks.MockOCRProvider)
	svc := newOCRService(map[string]port.OCRProvider{
		domain.ProviderOpenAI: openai,
		domain.ProviderGemini: gemini,
	}, 0)

	openai.On("Extract", mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()
	openai.On("Extract", mock.Anything, mock.Anything).Return(&port.ExtractOutput{Text: "second"}, nil).Once()
	gemini.On("Extract", mock.Anything, mock.Anything).Return(&port.ExtractOutput{Text: "fine"}, nil).Twice()

	out, err := svc.Run(context.Background(), service.RunInput{
		ImageURL:  "http://img",
		Models:    []string{"gpt-4o", "gemini-2.0-flash"},
		BatchSize: 2,
	})

	require.NoError(t, err)
	require.Len(t, out.Results, 4)
	assert.True(t, out.Results[0].Failed)
	assert.Equal(t, "Error: boom", out.Results[0].Text)
	assert.JSONEq(t, `{"error":true}`, string(out.Results[0].Raw))
	assert.False(t, out.Results[1].Failed)
	assert.Equal(t, "second", out.Results[1].Text)
	assert.Equal(t, "fine", out.Results[2].Text)
}

func TestOCRService_Run_SkipsUnknownModels(t *testing.T) {
	openai := new(mocks.MockOCRProvider)
	svc := newOCRService(map[string]port.OCRProvider{domain.ProviderOpenAI: openai}, 0)
	openai.On("Extract", mock.Anything, mock.Anything).Return(&port.ExtractOutput{Text: "x"}, nil).Once()

	out, err := svc.Run(context.Background(), service.RunInput{
		ImageURL: "http://img",
		Models:   []string{"mystery-1", "gpt-4o", "gpt-4o"},
	})

	require.NoError(t, err)
	require.Len(t, out.Results, 1)
	assert.Equal(t, []string{"mystery-1"}, out.SkippedModels)
	openai.AssertExpectations(t)
}

func TestOCRService_Run_UnconfiguredProvider(t *testing.T) {
	svc := newOCRService(map[string]port.OCRProvider{}, 0)

	out, err := svc.Run(context.Background(), service.RunInput{
		ImageURL:  "http://img",
		Models:    []string{"claude-sonnet-4-20250514"},
		BatchSize: 2,
	})

	require.NoError(t, err)
	require.Len(t, out.Results, 2)
	for _, r := range out.Results {
		assert.True(t, r.Failed)
		assert.Equal(t, domain.ProviderClaude, r.Provider)
		assert.Contains(t, r.Text, "provider is not configured")
	}
}

func TestOCRService_Run_WaitsBetweenRuns(t *testing.T) {
	openai := new(mocks.MockOCRProvider)
	svc := newOCRService(map[string]port.OCRProvider{domain.ProviderOpenAI: openai}, 30*time.Millisecond)
	openai.On("Extract", mock.Anything, mock.Anything).Return(&port.ExtractOutput{Text: "x"}, nil).Times(3)

	start := time.Now()
	out, err := svc.Run(context.Background(), service.RunInput{
		ImageURL:  "http://img",
		Models:    []string{"gpt-4o"},
		BatchSize: 3,
	})

	require.NoError(t, err)
	assert.Len(t, out.Results, 3)
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestOCRService_Run_CancelledWhileWaiting(t *testing.T) {
	openai := new(mocks.MockOCRProvider)
	svc := newOCRService(map[string]port.OCRProvider{domain.ProviderOpenAI: openai}, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	openai.On("Extract", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(&port.ExtractOutput{Text: "x"}, nil).Once()

	out, err := svc.Run(ctx, service.RunInput{
		ImageURL:  "http://img",
		Models:    []string{"gpt-4o"},
		BatchSize: 3,
	})

	assert.Nil(t, out)
	assert.ErrorIs(t, err, context.Canceled)
	openai.AssertExpectations(t)
}
