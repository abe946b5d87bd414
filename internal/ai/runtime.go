package ai

import "context"

// Runtime is implemented by every text generation backend: the hosted
// Gemini API, OpenRouter and a local Ollama daemon.
type Runtime interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// Provider identifiers accepted by the provider config key and --provider flag.
const (
	ProviderGemini     = "gemini"
	ProviderGoogle     = "google"
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
	ProviderLocal      = "local"
)

// DefaultProvider matches the deployed dashboard, which called Gemini directly.
const DefaultProvider = ProviderGemini
