package llm

import (
	"context"
	"net/http"
	"time"

	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/util"
	"go.uber.org/zap"
)

// Provider defines the interface for LLM completion providers.
// Implementations are stateless and safe for concurrent use.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete runs one completion call
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Sampling holds generation parameters. Zero values mean "provider default".
type Sampling struct {
	Temperature      float64
	TopP             float64
	PresencePenalty  float64
	FrequencyPenalty float64
}

// CompletionRequest contains the input for one completion
type CompletionRequest struct {
	// System is the instruction text
	System string

	// Prompt is the user content
	Prompt string

	// Model overrides the configured model
	Model string

	// MaxTokens limits the response length
	MaxTokens int

	Sampling Sampling
}

// CompletionResponse contains the provider's output
type CompletionResponse struct {
	Text       string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama, proxies)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// RequestsPerSecond throttles outbound calls (0 disables)
	RequestsPerSecond float64

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string

	// Logger receives availability diagnostics (nil discards)
	Logger *zap.Logger
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "openai",
		Timeout:   30,
		MaxTokens: 1000,
	}
}

func (c Config) timeout(fallback time.Duration) time.Duration {
	timeout := time.Duration(c.Timeout) * time.Second
	if timeout == 0 {
		timeout = fallback
	}
	return timeout
}

func (c Config) maxTokens(req CompletionRequest) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return 1000
}

func (c Config) model(req CompletionRequest, fallback string) string {
	if req.Model != "" {
		return req.Model
	}
	if c.Model != "" {
		return c.Model
	}
	return fallback
}

func (c Config) hasProxy() bool {
	return c.HTTPProxy != "" || c.HTTPSProxy != "" || c.NoProxy != ""
}

// proxyClient builds an HTTP client for the SDK-backed providers, which
// otherwise only see the environment's proxy settings
func (c Config) proxyClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(c.HTTPProxy, c.HTTPSProxy, c.NoProxy),
		},
	}
}

func loggerOrNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
