package cmd

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/always1st-js/KPC-ai-survey-dashboard/internal/ai"
	cfgpkg "github.com/always1st-js/KPC-ai-survey-dashboard/internal/config"
	"github.com/always1st-js/KPC-ai-survey-dashboard/internal/insight"
	"github.com/always1st-js/KPC-ai-survey-dashboard/internal/source"
)

type runtimeOptions struct {
	ProviderFlag string
	ModelFlag    string
	OllamaHost   string
}

// buildRuntime resolves the provider, its credential and retry settings.
// A missing key is not an error here: the insight generator reports it.
func buildRuntime(cfg *cfgpkg.Global, opts runtimeOptions) (ai.Runtime, string, string, error) {
	httpTimeout := 60 * time.Second
	retryMax := 3
	baseDelay := 500 * time.Millisecond
	maxDelay := 4 * time.Second
	if cfg != nil {
		if cfg.HTTPTimeoutSec > 0 {
			httpTimeout = cfg.HTTPTimeout()
		}
		if cfg.RetryMaxAttempts > 0 {
			retryMax = cfg.RetryMaxAttempts
		}
		if cfg.RetryBaseDelayMs > 0 {
			baseDelay = time.Duration(cfg.RetryBaseDelayMs) * time.Millisecond
		}
		if cfg.RetryMaxDelayMs > 0 {
			maxDelay = time.Duration(cfg.RetryMaxDelayMs) * time.Millisecond
		}
	}

	provider := strings.ToLower(strings.TrimSpace(opts.ProviderFlag))
	if provider == "" && cfg != nil && cfg.Provider != "" {
		provider = strings.ToLower(cfg.Provider)
	}
	if provider == "" {
		provider = ai.DefaultProvider
	}
	switch provider {
	case ai.ProviderGoogle:
		provider = ai.ProviderGemini
	case ai.ProviderLocal:
		provider = ai.ProviderOllama
	}

	model := strings.TrimSpace(opts.ModelFlag)
	if model == "" && cfg != nil && cfg.Model != "" && (opts.ProviderFlag == "" || strings.EqualFold(opts.ProviderFlag, cfg.Provider)) {
		model = cfg.Model
	}
	if model == "" {
		model = ai.DefaultModel(provider)
	}

	var apiKey string
	if env := ai.APIKeyEnv(provider); env != "" {
		apiKey = os.Getenv(env)
	}
	if apiKey == "" && cfg != nil {
		apiKey = cfg.APIKey
	}

	host := strings.TrimSpace(opts.OllamaHost)
	if host == "" && cfg != nil {
		host = cfg.OllamaHost
	}

	rt, ok := ai.GetRuntime(provider, ai.RuntimeConfig{
		HTTPTimeout: httpTimeout,
		RetryMax:    retryMax,
		BaseDelay:   baseDelay,
		MaxDelay:    maxDelay,
		APIKey:      apiKey,
		Host:        host,
	})
	if !ok {
		return nil, "", "", fmt.Errorf("unknown provider %q (available: %s)", provider, strings.Join(ai.Providers(), ", "))
	}
	return rt, provider, model, nil
}

// newGenerator wires the configured runtime into an insight generator.
func newGenerator(c *cfgpkg.Global, opts runtimeOptions) (*insight.Generator, error) {
	rt, provider, model, err := buildRuntime(c, opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("insight runtime", "provider", provider, "model", model)
	return insight.NewGenerator(rt, insight.Options{
		Model:       model,
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
		Logger:      logger.WithPrefix("insight"),
	}), nil
}

func newLoader(c *cfgpkg.Global) *source.Loader {
	return source.NewLoader(source.Options{
		HTTPClient: &http.Client{Timeout: c.HTTPTimeout()},
		SheetName:  c.SheetName,
		Logger:     logger.WithPrefix("source"),
	})
}
