package cmd

import (
	"testing"

	"github.com/always1st-js/KPC-ai-survey-dashboard/internal/ai"
	cfgpkg "github.com/always1st-js/KPC-ai-survey-dashboard/internal/config"
)

func TestBuildRuntimeDefaults(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	rt, provider, model, err := buildRuntime(&cfgpkg.Global{}, runtimeOptions{})
	if err != nil {
		t.Fatalf("buildRuntime error: %v", err)
	}
	if provider != ai.ProviderGemini || model != "gemini-2.0-flash" {
		t.Fatalf("unexpected defaults provider=%q model=%q", provider, model)
	}
	if _, ok := rt.(*ai.GeminiClient); !ok {
		t.Fatalf("expected GeminiClient, got %T", rt)
	}
}

func TestBuildRuntimeLocalAlias(t *testing.T) {
	cfg := &cfgpkg.Global{Provider: "local", Model: "gemini-2.0-flash", OllamaHost: "http://example"}
	rt, provider, model, err := buildRuntime(cfg, runtimeOptions{})
	if err != nil {
		t.Fatalf("buildRuntime error: %v", err)
	}
	if provider != ai.ProviderOllama {
		t.Fatalf("expected ollama provider, got %q", provider)
	}
	if model != "gemini-2.0-flash" {
		t.Fatalf("expected config model, got %q", model)
	}
	if _, ok := rt.(*ai.OllamaClient); !ok {
		t.Fatalf("expected OllamaClient, got %T", rt)
	}
}

func TestBuildRuntimeModelPrecedence(t *testing.T) {
	cfg := &cfgpkg.Global{Provider: "gemini", Model: "cfg-model"}
	if _, _, model, _ := buildRuntime(cfg, runtimeOptions{ModelFlag: "cli-model"}); model != "cli-model" {
		t.Fatalf("expected CLI model, got %q", model)
	}
	if _, _, model, _ := buildRuntime(cfg, runtimeOptions{}); model != "cfg-model" {
		t.Fatalf("expected config model, got %q", model)
	}
	// A different provider on the command line ignores the configured model.
	if _, _, model, _ := buildRuntime(cfg, runtimeOptions{ProviderFlag: "ollama"}); model != ai.DefaultModel(ai.ProviderOllama) {
		t.Fatalf("expected provider default model, got %q", model)
	}
}

func TestBuildRuntimeKeyFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "env-key")
	rt, _, _, err := buildRuntime(&cfgpkg.Global{Provider: "gemini"}, runtimeOptions{})
	if err != nil {
		t.Fatalf("buildRuntime error: %v", err)
	}
	if err := ai.Validate(rt); err != nil {
		t.Fatalf("expected key from env, got %v", err)
	}

	t.Setenv("OPENROUTER_API_KEY", "")
	rt, _, _, _ = buildRuntime(&cfgpkg.Global{Provider: "openrouter"}, runtimeOptions{})
	if err := ai.Validate(rt); err == nil {
		t.Fatalf("GOOGLE_API_KEY must not be used for openrouter")
	}
}

func TestBuildRuntimeUnknownProvider(t *testing.T) {
	if _, _, _, err := buildRuntime(&cfgpkg.Global{}, runtimeOptions{ProviderFlag: "nope"}); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestSetConfigValue(t *testing.T) {
	c := &cfgpkg.Global{}
	if err := setConfigValue(c, "provider", "Ollama"); err != nil || c.Provider != "ollama" {
		t.Fatalf("provider: %v %q", err, c.Provider)
	}
	if err := setConfigValue(c, "allowed_origins", "https://a.example, https://b.example"); err != nil || len(c.AllowedOrigins) != 2 {
		t.Fatalf("allowed_origins: %v %v", err, c.AllowedOrigins)
	}
	if err := setConfigValue(c, "max_tokens", "-1"); err == nil {
		t.Fatal("expected error for negative max_tokens")
	}
	if err := setConfigValue(c, "temperature", "3"); err == nil {
		t.Fatal("expected error for temperature out of range")
	}
	if err := setConfigValue(c, "provider", "nope"); err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if err := setConfigValue(c, "bogus", "x"); err == nil {
		t.Fatal("expected error for unknown key")
	}
}
