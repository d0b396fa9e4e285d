package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ocrbench/internal/config"
	"ocrbench/internal/domain"
	"ocrbench/internal/port"
	"ocrbench/internal/provider"
)

const (
	apiURL       = "https://api.openai.com/v1/chat/completions"
	defaultModel = "gpt-4o"
)

// Provider implements port.OCRProvider using the OpenAI Chat Completions API.
type Provider struct {
	apiKey    string
	endpoint  string
	maxTokens int
	client    *http.Client
}

func init() {
	provider.RegisterProvider(domain.ProviderOpenAI, func(cfg *config.ProviderConfig) (port.OCRProvider, error) {
		return NewProvider(cfg), nil
	})
}

// NewProvider creates an OpenAI OCR provider from its config.
func NewProvider(cfg *config.ProviderConfig) *Provider {
	endpoint := cfg.BaseURL
	if endpoint == "" {
		endpoint = apiURL
	}
	return newProvider(cfg, endpoint)
}

// NewProviderWithEndpoint creates a provider pointing at a custom API endpoint (for testing).
func NewProviderWithEndpoint(cfg *config.ProviderConfig, endpoint string) *Provider {
	return newProvider(cfg, endpoint)
}

func newProvider(cfg *config.ProviderConfig, endpoint string) *Provider {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1000
	}
	return &Provider{
		apiKey:    cfg.APIKey,
		endpoint:  endpoint,
		maxTokens: maxTokens,
		client:    &http.Client{Timeout: timeout},
	}
}

// Name returns the registry name of the provider.
func (p *Provider) Name() string { return "openai" }

// Extract sends the prompts and image to the model. Both http(s) and data URLs
// are passed through unchanged.
func (p *Provider) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	model := input.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := input.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.maxTokens
	}

	reqBody := map[string]interface{}{
		"model": model,
		"messages": []map[string]interface{}{
			{
				"role":    "system",
				"content": input.SystemPrompt,
			},
			{
				"role": "user",
				"content": []map[string]interface{}{
					{
						"type": "text",
						"text": input.UserPrompt,
					},
					{
						"type": "image_url",
						"image_url": map[string]interface{}{
							"url": input.ImageURL,
						},
					},
				},
			},
		},
		"max_tokens":  maxTokens,
		"temperature": input.Temperature,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling openai API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, provider.StatusError("openai", resp, respBody)
	}

	return parseResponse(respBody, model)
}

// apiResponse models the OpenAI Chat Completions API response.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func parseResponse(body []byte, model string) (*port.ExtractOutput, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	var text string
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
	}

	return &port.ExtractOutput{
		Text:  text,
		Raw:   json.RawMessage(body),
		Model: model,
	}, nil
}
