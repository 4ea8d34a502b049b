package llm

import (
	"context"
	"fmt"

	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/worker"
)

// Throttled wraps a Provider so completions share a request rate
type Throttled struct {
	Provider
	limiter *worker.Limiter
}

// NewThrottled limits p to requestsPerSecond. Burst defaults to the
// limiter's default when <= 0.
func NewThrottled(p Provider, requestsPerSecond float64, burst int) *Throttled {
	return &Throttled{
		Provider: p,
		limiter:  worker.NewLimiter(requestsPerSecond, burst),
	}
}

// Complete waits for a token and then delegates
func (t *Throttled) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := t.limiter.Wait(ctx, t.Name()); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return t.Provider.Complete(ctx, req)
}
