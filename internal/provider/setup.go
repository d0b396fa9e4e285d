package provider

import (
	"fmt"
	"log/slog"

	"ocrbench/internal/config"
	"ocrbench/internal/port"
)

// FromConfig builds a client for every configured provider that has a
// registered factory, together with a catalog of the models they list.
// Providers without an API key are left out of the client map but keep their
// models in the catalog, so runs against them fail with a placeholder.
func FromConfig(cfg *config.ProvidersConfig) (map[string]port.OCRProvider, *Catalog, error) {
	byName := cfg.ByName()
	clients := make(map[string]port.OCRProvider, len(byName))
	models := make(map[string][]string, len(byName))
	order := Registered()

	for _, name := range order {
		pc, ok := byName[name]
		if !ok {
			continue
		}
		models[name] = pc.Models
		if !pc.Configured() {
			slog.Debug("provider: skipping unconfigured provider", "provider", name)
			continue
		}
		client, err := NewProvider(name, pc)
		if err != nil {
			return nil, nil, fmt.Errorf("creating %s provider: %w", name, err)
		}
		clients[name] = client
	}

	return clients, NewCatalog(order, models), nil
}

// ConfiguredNames lists the providers in clients in registry order.
func ConfiguredNames(clients map[string]port.OCRProvider) []string {
	var names []string
	for _, name := range Registered() {
		if _, ok := clients[name]; ok {
			names = append(names, name)
		}
	}
	return names
}
