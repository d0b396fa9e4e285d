package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocrbench/internal/config"
	"ocrbench/internal/port"
	"ocrbench/internal/provider"
	"ocrbench/internal/provider/openai"
)

func newTestProvider(serverURL string) *openai.Provider {
	cfg := &config.ProviderConfig{
		APIKey:      "test-openai-key",
		TimeoutSecs: 30,
	}
	return openai.NewProviderWithEndpoint(cfg, serverURL)
}

func successResponse(content string) map[string]interface{} {
	return map[string]interface{}{
		"id": "chatcmpl-1",
		"choices": []map[string]interface{}{
			{
				"message": map[string]interface{}{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
	}
}

func TestOpenAIProvider_Extract_VerifyRequestFormat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-openai-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "gpt-4o-mini", reqBody["model"])
		assert.Equal(t, float64(1000), reqBody["max_tokens"])
		assert.Equal(t, 0.3, reqBody["temperature"])

		messages := reqBody["messages"].([]interface{})
		require.Len(t, messages, 2)
		system := messages[0].(map[string]interface{})
		assert.Equal(t, "system", system["role"])
		assert.Equal(t, "You transcribe documents.", system["content"])

		user := messages[1].(map[string]interface{})
		content := user["content"].([]interface{})
		require.Len(t, content, 2)
		textBlock := content[0].(map[string]interface{})
		assert.Equal(t, "text", textBlock["type"])
		assert.Equal(t, "Transcribe this.", textBlock["text"])
		imgBlock := content[1].(map[string]interface{})
		assert.Equal(t, "image_url", imgBlock["type"])
		assert.Equal(t, "https://img.example/page.png", imgBlock["image_url"].(map[string]interface{})["url"])

		_ = json.NewEncoder(w).Encode(successResponse("Hello world"))
	}))
	defer server.Close()

	p := newTestProvider(server.URL)
	out, err := p.Extract(context.Background(), port.ExtractInput{
		ImageURL:     "https://img.example/page.png",
		SystemPrompt: "You transcribe documents.",
		UserPrompt:   "Transcribe this.",
		Model:        "gpt-4o-mini",
		Temperature:  0.3,
	})

	require.NoError(t, err)
	assert.Equal(t, "Hello world", out.Text)
	assert.Equal(t, "gpt-4o-mini", out.Model)
	assert.Contains(t, string(out.Raw), "chatcmpl-1")
	assert.Equal(t, "openai", p.Name())
}

func TestOpenAIProvider_Extract_DataURLPassedThrough(t *testing.T) {
	dataURL := "data:image/png;base64,iVBORw0KGgo="
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&reqBody)
		user := reqBody["messages"].([]interface{})[1].(map[string]interface{})
		img := user["content"].([]interface{})[1].(map[string]interface{})
		assert.Equal(t, dataURL, img["image_url"].(map[string]interface{})["url"])
		_ = json.NewEncoder(w).Encode(successResponse("ok"))
	}))
	defer server.Close()

	_, err := newTestProvider(server.URL).Extract(context.Background(), port.ExtractInput{ImageURL: dataURL})
	require.NoError(t, err)
}

func TestOpenAIProvider_Extract_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	out, err := newTestProvider(server.URL).Extract(context.Background(), port.ExtractInput{ImageURL: "https://x"})
	require.NoError(t, err)
	assert.Empty(t, out.Text)
	assert.Equal(t, "gpt-4o", out.Model)
}

func TestOpenAIProvider_Extract_RateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "12")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit"}}`))
	}))
	defer server.Close()

	out, err := newTestProvider(server.URL).Extract(context.Background(), port.ExtractInput{ImageURL: "https://x"})
	assert.Nil(t, out)

	var rlErr *provider.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "openai", rlErr.Provider)
	assert.Equal(t, 12*time.Second, rlErr.RetryAfter)
}

func TestOpenAIProvider_Extract_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer server.Close()

	_, err := newTestProvider(server.URL).Extract(context.Background(), port.ExtractInput{ImageURL: "https://x"})
	assert.EqualError(t, err, "openai API error (status 500): boom")
}

func TestOpenAIProvider_Extract_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := newTestProvider(server.URL).Extract(context.Background(), port.ExtractInput{ImageURL: "https://x"})
	assert.ErrorContains(t, err, "unmarshaling response")
}
