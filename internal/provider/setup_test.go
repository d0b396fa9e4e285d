package provider_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocrbench/internal/config"
	"ocrbench/internal/domain"
	"ocrbench/internal/provider"
	_ "ocrbench/internal/provider/claude"
	_ "ocrbench/internal/provider/gemini"
	_ "ocrbench/internal/provider/openai"
)

func TestFromConfig(t *testing.T) {
	cfg := &config.ProvidersConfig{
		OpenAI: config.ProviderConfig{APIKey: "sk-test", Models: []string{"gpt-4o"}},
		Gemini: config.ProviderConfig{Models: []string{"gemini-2.0-flash"}},
		Claude: config.ProviderConfig{APIKey: "ak-test", Models: []string{"claude-sonnet-4-20250514"}},
	}

	clients, catalog, err := provider.FromConfig(cfg)

	require.NoError(t, err)
	assert.Contains(t, clients, domain.ProviderOpenAI)
	assert.Contains(t, clients, domain.ProviderClaude)
	assert.NotContains(t, clients, domain.ProviderGemini)
	assert.Equal(t, []string{domain.ProviderClaude, domain.ProviderOpenAI}, provider.ConfiguredNames(clients))

	p, ok := catalog.ProviderFor("gemini-2.0-flash")
	assert.True(t, ok)
	assert.Equal(t, domain.ProviderGemini, p)
	assert.Len(t, catalog.Models(), 3)
}
