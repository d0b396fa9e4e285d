// Package provider holds the registry of OCR provider clients and the helpers
// they share.
package provider

import (
	"fmt"
	"sort"
	"sync"

	"ocrbench/internal/config"
	"ocrbench/internal/port"
)

// Factory creates an OCRProvider from its config.
type Factory func(cfg *config.ProviderConfig) (port.OCRProvider, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// RegisterProvider registers a provider factory by name.
func RegisterProvider(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[name] = factory
}

// NewProvider creates an OCRProvider using the factory registered under name.
func NewProvider(name string, cfg *config.ProviderConfig) (port.OCRProvider, error) {
	mu.RLock()
	factory, ok := factories[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown ocr provider: %s", name)
	}
	return factory(cfg)
}

// Registered lists registered provider names in sorted order.
func Registered() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
