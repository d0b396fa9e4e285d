package gemini

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
	apiBaseURL   = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultModel = "gemini-2.0-flash"
)

// Provider implements port.OCRProvider using Google's Gemini API.
type Provider struct {
	apiKey    string
	baseURL   string
	maxTokens int
	client    *http.Client
}

func init() {
	provider.RegisterProvider(domain.ProviderGemini, func(cfg *config.ProviderConfig) (port.OCRProvider, error) {
		return NewProvider(cfg), nil
	})
}

// NewProvider creates a Gemini OCR provider.
func NewProvider(cfg *config.ProviderConfig) *Provider {
	base := cfg.BaseURL
	if base == "" {
		base = apiBaseURL
	}
	return newProvider(cfg, base)
}

// NewProviderWithEndpoint creates a provider whose model endpoints live under
// baseURL (for testing).
func NewProviderWithEndpoint(cfg *config.ProviderConfig, baseURL string) *Provider {
	return newProvider(cfg, baseURL)
}

func newProvider(cfg *config.ProviderConfig, baseURL string) *Provider {
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
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		maxTokens: maxTokens,
		client:    &http.Client{Timeout: timeout},
	}
}

// Name returns the registry name of the provider.
func (p *Provider) Name() string { return "gemini" }

// Extract inlines the image (decoding a data URL or downloading it) and asks
// the model to transcribe it.
func (p *Provider) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	model := input.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := input.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.maxTokens
	}

	img, err := provider.LoadImage(ctx, p.client, input.ImageURL)
	if err != nil {
		return nil, err
	}

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]interface{}{
					{
						"text": input.UserPrompt,
					},
					{
						"inline_data": map[string]interface{}{
							"mime_type": img.MimeType,
							"data":      img.Data,
						},
					},
				},
			},
		},
		"system_instruction": map[string]interface{}{
			"parts": []map[string]interface{}{
				{"text": input.SystemPrompt},
			},
		},
		"generation_config": map[string]interface{}{
			"temperature":       input.Temperature,
			"max_output_tokens": maxTokens,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent", p.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling gemini API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, provider.StatusError("gemini", resp, respBody)
	}

	return parseResponse(respBody, model)
}

// geminiResponse models the Gemini API response.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

func parseResponse(body []byte, model string) (*port.ExtractOutput, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	var text string
	if len(resp.Candidates) > 0 && len(resp.Candidates[0].Content.Parts) > 0 {
		text = resp.Candidates[0].Content.Parts[0].Text
	}

	return &port.ExtractOutput{
		Text:  text,
		Raw:   json.RawMessage(body),
		Model: model,
	}, nil
}
