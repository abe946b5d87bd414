package ai

import (
	"sort"
	"strings"
	"time"
)

// RuntimeFactory builds a Runtime from the generic config below.
type RuntimeFactory func(RuntimeConfig) Runtime

// RuntimeConfig carries common knobs used by runtimes.
type RuntimeConfig struct {
	HTTPTimeout time.Duration
	RetryMax    int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	// APIKey is used by the hosted providers.
	APIKey string
	// Host is the Ollama base URL.
	Host string
}

var registry = map[string]RuntimeFactory{}

// RegisterRuntime registers a provider name with its factory.
func RegisterRuntime(name string, f RuntimeFactory) { registry[strings.ToLower(name)] = f }

// GetRuntime creates a Runtime for the given provider if registered.
func GetRuntime(name string, cfg RuntimeConfig) (Runtime, bool) {
	if f, ok := registry[strings.ToLower(strings.TrimSpace(name))]; ok {
		return f(cfg), true
	}
	return nil, false
}

// Providers lists registered provider names in sorted order.
func Providers() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func init() {
	gemini := func(c RuntimeConfig) Runtime {
		return NewGeminiClient(c.APIKey, c.HTTPTimeout, c.RetryMax, c.BaseDelay, c.MaxDelay)
	}
	RegisterRuntime(ProviderGemini, gemini)
	RegisterRuntime(ProviderGoogle, gemini)
	RegisterRuntime(ProviderOpenRouter, func(c RuntimeConfig) Runtime {
		return NewClient(c.APIKey, c.HTTPTimeout, c.RetryMax, c.BaseDelay, c.MaxDelay)
	})
	ollama := func(c RuntimeConfig) Runtime {
		return NewOllamaClient(c.Host, c.HTTPTimeout, c.RetryMax, c.BaseDelay, c.MaxDelay)
	}
	RegisterRuntime(ProviderOllama, ollama)
	RegisterRuntime(ProviderLocal, ollama)
}
