// Package score turns per-sentence AI judgments into a document verdict.
package score

import (
	"math"

	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/model"
)

// Judgment is a fixed per-sentence score used for fallback and trusted results
type Judgment struct {
	AI     int
	Human  int
	Reason string
}

// Policy holds the thresholds and weights of the aggregation
type Policy struct {
	AIHeavyMin int // ai >= AIHeavyMin is ai_heavy
	MixedMin   int // MixedMin <= ai < AIHeavyMin is mixed

	HumanDominantRatio float64 // human/total at or above this suppresses the score
	HumanDominantCap   int

	AIDominantRatio float64 // ai_heavy/total at or above this escalates the score
	AIDominantBase  float64
	AIDominantSpan  float64
	AIDominantCap   int

	WeightAIHeavy float64
	WeightMixed   float64
	WeightHuman   float64

	VerdictAIMin       int
	VerdictPossibleMin int

	TrustedFloor    int
	TrustedSentence Judgment
	Fallback        Judgment
}

// DefaultPolicy returns the canonical policy
func DefaultPolicy() Policy {
	return Policy{
		AIHeavyMin:         70,
		MixedMin:           40,
		HumanDominantRatio: 0.8,
		HumanDominantCap:   5,
		AIDominantRatio:    0.6,
		AIDominantBase:     70,
		AIDominantSpan:     30,
		AIDominantCap:      95,
		WeightAIHeavy:      80,
		WeightMixed:        50,
		WeightHuman:        20,
		VerdictAIMin:       70,
		VerdictPossibleMin: 35,
		TrustedFloor:       2,
		TrustedSentence:    Judgment{AI: 5, Human: 95, Reason: "Verified human-written source"},
		Fallback:           Judgment{AI: 70, Human: 30, Reason: "Neutral structured sentence"},
	}
}

// Branch names which rule produced the overall score
type Branch string

const (
	BranchHumanDominant Branch = "human_dominant"
	BranchAIDominant    Branch = "ai_dominant"
	BranchBlend         Branch = "blend"
	BranchTrusted       Branch = "trusted"
)

// Breakdown exposes the inputs and rule behind an overall score
type Breakdown struct {
	Total      int     // Judged sentences, at least 1
	AIHeavy    int
	Mixed      int
	Human      int
	HumanRatio float64
	HeavyRatio float64
	Branch     Branch
	Formula    string
}

// Aggregator computes document-level verdicts
type Aggregator struct {
	policy Policy
}

// NewAggregator creates an aggregator with the given policy
func NewAggregator(policy Policy) *Aggregator {
	return &Aggregator{policy: policy}
}

// Policy returns the aggregator's policy
func (a *Aggregator) Policy() Policy {
	return a.policy
}

// Aggregate computes the overall AI probability and verdict
func (a *Aggregator) Aggregate(judgments []model.SentenceJudgment) (model.Overall, Breakdown) {
	p := a.policy
	b := Breakdown{}

	for _, j := range judgments {
		switch {
		case j.AI >= p.AIHeavyMin:
			b.AIHeavy++
		case j.AI >= p.MixedMin:
			b.Mixed++
		default:
			b.Human++
		}
	}

	b.Total = len(judgments)
	if b.Total < 1 {
		b.Total = 1
	}
	total := float64(b.Total)
	b.HumanRatio = float64(b.Human) / total
	b.HeavyRatio = float64(b.AIHeavy) / total

	var overall int
	switch {
	case b.HumanRatio >= p.HumanDominantRatio:
		overall = min(p.HumanDominantCap, round(b.HeavyRatio*10))
		b.Branch = BranchHumanDominant
		b.Formula = "min(cap, round(ai_heavy/total * 10))"
	case b.HeavyRatio >= p.AIDominantRatio:
		overall = min(p.AIDominantCap, round(p.AIDominantBase+b.HeavyRatio*p.AIDominantSpan))
		b.Branch = BranchAIDominant
		b.Formula = "min(cap, round(base + ai_heavy/total * span))"
	default:
		weighted := float64(b.AIHeavy)*p.WeightAIHeavy + float64(b.Mixed)*p.WeightMixed + float64(b.Human)*p.WeightHuman
		overall = round(weighted / total)
		b.Branch = BranchBlend
		b.Formula = "round((ai_heavy*w_heavy + mixed*w_mixed + human*w_human) / total)"
	}

	overall = clamp(overall)
	return model.Overall{
		AIProbability:    overall,
		HumanProbability: 100 - overall,
		Verdict:          a.Verdict(overall),
	}, b
}

// Verdict labels an overall AI probability
func (a *Aggregator) Verdict(overall int) model.Verdict {
	switch {
	case overall >= a.policy.VerdictAIMin:
		return model.VerdictLikelyAI
	case overall >= a.policy.VerdictPossibleMin:
		return model.VerdictPossiblyAI
	default:
		return model.VerdictLikelyHuman
	}
}

// Highlight buckets a sentence score with the same thresholds as Aggregate
func (a *Aggregator) Highlight(ai int) model.Highlight {
	switch {
	case ai >= a.policy.AIHeavyMin:
		return model.HighlightHigh
	case ai >= a.policy.MixedMin:
		return model.HighlightMedium
	default:
		return model.HighlightLow
	}
}

// Fallback returns the default judgment for a sentence whose classification failed
func (a *Aggregator) Fallback(sentence string) model.SentenceJudgment {
	return a.Sentence(sentence, a.policy.Fallback)
}

// Trusted reports every sentence as human-written and forces the overall
// score to the trusted floor. The trust flag is caller-asserted and unauthenticated.
func (a *Aggregator) Trusted(sentences []string) (model.Overall, []model.SentenceJudgment, Breakdown) {
	judgments := make([]model.SentenceJudgment, len(sentences))
	for i, s := range sentences {
		judgments[i] = a.Sentence(s, a.policy.TrustedSentence)
	}

	floor := clamp(a.policy.TrustedFloor)
	overall := model.Overall{
		AIProbability:    floor,
		HumanProbability: 100 - floor,
		Verdict:          model.VerdictVerifiedHuman,
	}

	total := len(sentences)
	if total < 1 {
		total = 1
	}
	return overall, judgments, Breakdown{
		Total:      total,
		Human:      len(sentences),
		HumanRatio: float64(len(sentences)) / float64(total),
		Branch:     BranchTrusted,
		Formula:    "trusted_floor",
	}
}

// Sentence builds the reported judgment for one sentence, deriving its highlight
func (a *Aggregator) Sentence(sentence string, j Judgment) model.SentenceJudgment {
	return model.SentenceJudgment{
		Sentence:  sentence,
		AI:        j.AI,
		Human:     j.Human,
		Reason:    j.Reason,
		Highlight: a.Highlight(j.AI),
	}
}

func round(v float64) int {
	return int(math.Round(v))
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
