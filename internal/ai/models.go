package ai

// DefaultModel returns the model used when none is configured for provider.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderOpenRouter:
		return "google/gemini-2.0-flash-001"
	case ProviderOllama, ProviderLocal:
		return "llama3.1:8b-instruct"
	default:
		return "gemini-2.0-flash"
	}
}

// APIKeyEnv names the environment variable holding provider's credential,
// or "" for providers that need none.
func APIKeyEnv(provider string) string {
	switch provider {
	case ProviderGemini, ProviderGoogle:
		return "GOOGLE_API_KEY"
	case ProviderOpenRouter:
		return "OPENROUTER_API_KEY"
	}
	return ""
}
