package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ocrbench/internal/config"
	"ocrbench/internal/domain"
	"ocrbench/internal/port"
	"ocrbench/internal/provider"
)

const (
	apiURL       = "https://api.anthropic.com/v1/messages"
	apiVersion   = "2023-06-01"
	defaultModel = "claude-sonnet-4-20250514"
)

// Provider implements port.OCRProvider using the Anthropic Messages API.
type Provider struct {
	apiKey    string
	endpoint  string
	maxTokens int
	client    *http.Client
}

func init() {
	provider.RegisterProvider(domain.ProviderClaude, func(cfg *config.ProviderConfig) (port.OCRProvider, error) {
		return NewProvider(cfg), nil
	})
}

// NewProvider creates a Claude OCR provider from its config.
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
func (p *Provider) Name() string { return "claude" }

// Extract sends the image and prompts to the Messages API.
func (p *Provider) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	model := input.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := input.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.maxTokens
	}

	source, err := imageSource(input.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("building image block: %w", err)
	}

	reqBody := map[string]interface{}{
		"model":       model,
		"max_tokens":  maxTokens,
		"temperature": input.Temperature,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{
						"type":   "image",
						"source": source,
					},
					{
						"type": "text",
						"text": input.UserPrompt,
					},
				},
			},
		},
	}
	if input.SystemPrompt != "" {
		reqBody["system"] = input.SystemPrompt
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
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling anthropic API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, provider.StatusError("claude", resp, respBody)
	}

	return parseResponse(respBody, model)
}

// imageSource references http(s) images by URL and inlines data URLs.
func imageSource(imageURL string) (map[string]interface{}, error) {
	if !provider.IsDataURL(imageURL) {
		return map[string]interface{}{
			"type": "url",
			"url":  imageURL,
		}, nil
	}
	img, err := provider.ParseDataURL(imageURL)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"type":       "base64",
		"media_type": img.MimeType,
		"data":       img.Data,
	}, nil
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func parseResponse(body []byte, model string) (*port.ExtractOutput, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	var parts []string
	for _, block := range resp.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}

	return &port.ExtractOutput{
		Text:  strings.Join(parts, ""),
		Raw:   json.RawMessage(body),
		Model: model,
	}, nil
}
