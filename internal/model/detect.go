package model

// DetectRequest is the input of the detect pipeline
type DetectRequest struct {
	Text         string `json:"text" validate:"required"`
	TrustedHuman bool   `json:"trusted_human,omitempty"` // Caller-asserted, unauthenticated
}

// SentenceJudgment is one sentence's classification
type SentenceJudgment struct {
	Sentence  string    `json:"sentence"`
	AI        int       `json:"ai"`    // 0-100
	Human     int       `json:"human"` // 0-100, normally 100-AI
	Reason    string    `json:"reason"`
	Highlight Highlight `json:"highlight"`
}

// Highlight buckets a sentence by its AI score for display
type Highlight string

const (
	HighlightHigh   Highlight = "high"   // ai >= 70
	HighlightMedium Highlight = "medium" // 40 <= ai < 70
	HighlightLow    Highlight = "low"    // ai < 40
)

// Verdict is the human-readable label of the overall AI probability
type Verdict string

const (
	VerdictLikelyAI      Verdict = "Likely AI-generated"
	VerdictPossiblyAI    Verdict = "Possibly AI-generated"
	VerdictLikelyHuman   Verdict = "Likely Human-written"
	VerdictVerifiedHuman Verdict = "Human-written (Verified)"
)

// Overall is the document-level summary
type Overall struct {
	AIProbability    int     `json:"ai_probability"`
	HumanProbability int     `json:"human_probability"` // Always 100 - AIProbability
	Verdict          Verdict `json:"verdict"`
}

// DetectResult is the output of the detect pipeline
type DetectResult struct {
	WordsUsed int                `json:"words_used"`
	WordsLeft int                `json:"words_left"`
	Overall   Overall            `json:"overall"`
	Sentences []SentenceJudgment `json:"sentences"`
}
