package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"
)

// GeminiClient calls the Gemini API through the official genai SDK.
type GeminiClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	retry      retryPolicy

	mu     sync.Mutex
	client *genai.Client
}

// NewGeminiClient returns a client for the hosted Gemini API. The SDK client
// is created on first use so a missing key surfaces as ErrMissingAPIKey.
func NewGeminiClient(apiKey string, httpTimeout time.Duration, retryMax int, baseDelay, maxDelay time.Duration) *GeminiClient {
	if httpTimeout <= 0 {
		httpTimeout = 60 * time.Second
	}
	return &GeminiClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: httpTimeout},
		retry:      retryPolicy{retryMax, baseDelay, maxDelay}.withDefaults(2, 500*time.Millisecond, 4*time.Second),
	}
}

// NewGeminiClientWithBaseURL points the SDK at a different endpoint (used in tests).
func NewGeminiClientWithBaseURL(apiKey string, httpTimeout time.Duration, baseURL string) *GeminiClient {
	c := NewGeminiClient(apiKey, httpTimeout, 1, 0, 0)
	c.baseURL = baseURL
	return c
}

func (c *GeminiClient) Validate() error {
	if c.apiKey == "" {
		return fmt.Errorf("%w: GOOGLE_API_KEY", ErrMissingAPIKey)
	}
	return nil
}

func (c *GeminiClient) sdk(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return c.client, nil
	}
	cfg := &genai.ClientConfig{
		APIKey:     c.apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.httpClient,
	}
	if c.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	c.client = client
	return client, nil
}

// Generate maps system messages to the system instruction and the rest to
// conversation turns.
func (c *GeminiClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if req.Model == "" {
		return nil, errors.New("model cannot be empty")
	}
	if len(req.Messages) == 0 {
		return nil, errors.New("messages cannot be empty")
	}
	client, err := c.sdk(ctx)
	if err != nil {
		return nil, err
	}

	cfg := &genai.GenerateContentConfig{}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.Temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(req.Temperature))
	}
	var system []string
	var contents []*genai.Content
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			system = append(system, m.Content)
		case "assistant":
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	if len(system) > 0 {
		cfg.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}

	backoff := c.retry.baseDelay
	var lastErr error
	for attempt := 1; attempt <= c.retry.maxAttempts; attempt++ {
		result, err := client.Models.GenerateContent(ctx, req.Model, contents, cfg)
		if err == nil {
			return geminiResponse(result), nil
		}
		lastErr = classifyGeminiError(err)
		var srvErr *ServerError
		var rlErr *RateLimitError
		if !(errors.As(lastErr, &srvErr) || errors.As(lastErr, &rlErr)) || attempt == c.retry.maxAttempts {
			break
		}
		if err := sleep(ctx, min(withJitter(backoff), c.retry.maxDelay)); err != nil {
			return nil, err
		}
		backoff *= 2
	}
	return nil, lastErr
}

func geminiResponse(result *genai.GenerateContentResponse) *GenerateResponse {
	out := &GenerateResponse{
		Choices:   []Choice{{Message: Message{Role: "assistant", Content: result.Text()}}},
		RequestID: "gemini-" + uuid.NewString(),
	}
	if u := result.UsageMetadata; u != nil {
		out.Usage = Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	return out
}

// classifyGeminiError converts SDK API errors into the package's typed errors.
func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		var p *genai.APIError
		if !errors.As(err, &p) || p == nil {
			return fmt.Errorf("gemini: %w", err)
		}
		apiErr = *p
	}
	base := &APIError{StatusCode: apiErr.Code, Code: apiErr.Status, Message: apiErr.Message}
	if apiErr.Status == "RESOURCE_EXHAUSTED" && containsAnyFold(apiErr.Message, "quota", "billing") {
		return &QuotaExceededError{APIError: base}
	}
	return classifyAPIError(base, nil)
}
