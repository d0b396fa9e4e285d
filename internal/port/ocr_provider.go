package port

import (
	"context"
	"encoding/json"
)

// ExtractInput carries one OCR request to a provider.
type ExtractInput struct {
	ImageURL     string // http(s) URL or data URL
	SystemPrompt string
	UserPrompt   string
	Model        string
	Temperature  float64
	MaxTokens    int
}

// ExtractOutput contains the text a provider extracted plus its raw response.
type ExtractOutput struct {
	Text  string
	Raw   json.RawMessage
	Model string
}

// OCRProvider abstracts a vision model API that transcribes an image.
type OCRProvider interface {
	Name() string
	Extract(ctx context.Context, input ExtractInput) (*ExtractOutput, error)
}
