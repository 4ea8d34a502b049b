package humanize

import (
	"context"
	"strings"

	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/llm"
	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/model"
)

// Instruction asks the provider for a casual rewrite
const Instruction = `Rewrite the user's text so it sounds like a real person wrote it casually.
Keep the original meaning and roughly the same length.
Vary sentence length, use contractions and plain everyday words.
Do not add explanations, questions, headings, lists, quotes or any formatting.
Reply with the rewritten text only.`

// Sampling favors variety over determinism
var Sampling = llm.Sampling{
	Temperature:      1.0,
	TopP:             0.9,
	PresencePenalty:  0.4,
	FrequencyPenalty: 0.5,
}

// Rewriter makes the single provider call of the humanize pipeline
type Rewriter struct {
	provider  llm.Provider
	maxTokens int
}

// NewRewriter creates a Rewriter. maxTokens <= 0 uses the provider default.
func NewRewriter(provider llm.Provider, maxTokens int) *Rewriter {
	return &Rewriter{provider: provider, maxTokens: maxTokens}
}

// Rewrite returns the provider's casual rewrite of text. Failures are
// returned as *model.UpstreamError; blank output wraps model.ErrEmptyGeneration.
func (r *Rewriter) Rewrite(ctx context.Context, text string) (string, error) {
	resp, err := r.provider.Complete(ctx, llm.CompletionRequest{
		System:    Instruction,
		Prompt:    text,
		MaxTokens: r.maxTokens,
		Sampling:  Sampling,
	})
	if err != nil {
		return "", &model.UpstreamError{Op: "generate", Err: err}
	}

	out := strings.TrimSpace(resp.Text)
	if out == "" {
		return "", &model.UpstreamError{Op: "generate", Err: model.ErrEmptyGeneration}
	}
	return out, nil
}
