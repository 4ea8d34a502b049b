// Package humanize rewrites text so it reads as casually human-written.
package humanize

import (
	"context"

	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/model"
	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/validate"
	"go.uber.org/zap"
)

// DefaultMaxWords is the humanize word limit
const DefaultMaxWords = 200

// Humanizer runs the humanize pipeline
type Humanizer struct {
	rewriter *Rewriter
	noise    *Noise
	maxWords int
	log      *zap.Logger
}

// New creates a Humanizer. A nil noise uses NewNoise(nil).
func New(rewriter *Rewriter, noise *Noise, maxWords int, log *zap.Logger) *Humanizer {
	if noise == nil {
		noise = NewNoise(nil)
	}
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Humanizer{rewriter: rewriter, noise: noise, maxWords: maxWords, log: log}
}

// MaxWords returns the configured word limit
func (h *Humanizer) MaxWords() int {
	return h.maxWords
}

// Humanize validates, rewrites and perturbs the request text
func (h *Humanizer) Humanize(ctx context.Context, req model.HumanizeRequest) (*model.HumanizeResult, error) {
	input, err := validate.Text(req.Text, h.maxWords)
	if err != nil {
		return nil, err
	}

	rewritten, err := h.rewriter.Rewrite(ctx, input.Text)
	if err != nil {
		return nil, err
	}

	out := h.noise.Apply(rewritten)
	h.log.Debug("humanized text",
		zap.Int("words_in", input.Words),
		zap.Int("chars_rewritten", len(rewritten)),
		zap.Bool("perturbed", out != rewritten))

	return &model.HumanizeResult{
		HumanizedText: out,
		WordsUsed:     input.Words,
		WordsLeft:     h.maxWords - input.Words,
		TrustedHuman:  true,
	}, nil
}
