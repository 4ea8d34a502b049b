package detect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/llm"
	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/model"
	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/score"
)

// Classifier judges a single sentence
type Classifier interface {
	Classify(ctx context.Context, sentence string) (score.Judgment, error)
}

// classifySampling keeps classification output stable and short
var classifySampling = llm.Sampling{Temperature: 0.2}

const classifyMaxTokens = 120

// LLMClassifier classifies sentences with a completion provider
type LLMClassifier struct {
	provider llm.Provider
}

// NewLLMClassifier creates a classifier backed by provider
func NewLLMClassifier(provider llm.Provider) *LLMClassifier {
	return &LLMClassifier{provider: provider}
}

// Classify asks the provider for a judgment. Provider failures and
// unparsable output are returned as *model.UpstreamError.
func (c *LLMClassifier) Classify(ctx context.Context, sentence string) (score.Judgment, error) {
	resp, err := c.provider.Complete(ctx, llm.CompletionRequest{
		System:    Instruction,
		Prompt:    SentencePrompt(sentence),
		MaxTokens: classifyMaxTokens,
		Sampling:  classifySampling,
	})
	if err != nil {
		return score.Judgment{}, &model.UpstreamError{Op: "classify", Err: err}
	}

	j, err := ParseJudgment(resp.Text)
	if err != nil {
		return score.Judgment{}, &model.UpstreamError{Op: "classify", Err: err}
	}
	return j, nil
}

type rawJudgment struct {
	AI     *float64 `json:"ai"`
	Human  *float64 `json:"human"`
	Reason string   `json:"reason"`
}

// ParseJudgment decodes a provider reply. Scores are clamped to [0,100];
// human is derived as 100-ai when the pair does not add up.
func ParseJudgment(text string) (score.Judgment, error) {
	var raw rawJudgment
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(text)), &raw); err != nil {
		return score.Judgment{}, fmt.Errorf("parse judgment: %w", err)
	}
	if raw.AI == nil {
		return score.Judgment{}, errors.New("parse judgment: missing ai score")
	}

	ai := clampScore(*raw.AI)
	human := 100 - ai
	if raw.Human != nil {
		if h := clampScore(*raw.Human); h+ai == 100 {
			human = h
		}
	}

	return score.Judgment{
		AI:     ai,
		Human:  human,
		Reason: strings.TrimSpace(raw.Reason),
	}, nil
}

func clampScore(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(100, v))))
}
