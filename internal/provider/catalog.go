package provider

import "ocrbench/internal/domain"

// ModelRef names a model together with the provider that serves it.
type ModelRef struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// Catalog resolves model ids to the provider that serves them.
type Catalog struct {
	byModel map[string]string
	order   []ModelRef
}

// NewCatalog builds a catalog from provider name to model ids. Providers are
// visited in the given order; a model listed twice keeps its first provider.
func NewCatalog(providerOrder []string, models map[string][]string) *Catalog {
	c := &Catalog{byModel: map[string]string{}}
	for _, p := range providerOrder {
		for _, m := range models[p] {
			if _, dup := c.byModel[m]; dup {
				continue
			}
			c.byModel[m] = p
			c.order = append(c.order, ModelRef{Provider: p, Model: m})
		}
	}
	return c
}

// DefaultCatalog lists the models available out of the box.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		[]string{domain.ProviderOpenAI, domain.ProviderGemini, domain.ProviderClaude},
		map[string][]string{
			domain.ProviderOpenAI: {"gpt-4o", "gpt-4o-mini"},
			domain.ProviderGemini: {"gemini-2.0-flash", "gemini-2.0-flash-lite", "gemini-2.0-pro-exp-02-05"},
			domain.ProviderClaude: {"claude-sonnet-4-20250514"},
		},
	)
}

// ProviderFor returns the provider serving model.
func (c *Catalog) ProviderFor(model string) (string, bool) {
	p, ok := c.byModel[model]
	return p, ok
}

// Models lists every known model in catalog order.
func (c *Catalog) Models() []ModelRef {
	return append([]ModelRef(nil), c.order...)
}
