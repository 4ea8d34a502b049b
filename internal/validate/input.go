// Package validate checks request input before it reaches a pipeline.
package validate

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/model"
)

// Messages returned to callers
const (
	MsgTextRequired      = "text required"
	MsgWordLimitExceeded = "word limit exceeded"
)

var structValidator = validator.New()

// Input is normalized request text
type Input struct {
	Text  string // Trimmed text
	Words int    // Whitespace-delimited tokens in Text
}

// Request validates a request struct against its `validate` tags.
// Any tag failure on a text field is reported as "text required".
func Request(req any) error {
	if err := structValidator.Struct(req); err != nil {
		return &model.ValidationError{Message: MsgTextRequired}
	}
	return nil
}

// Text trims text, counts its words and enforces maxWords
func Text(text string, maxWords int) (Input, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Input{}, &model.ValidationError{Message: MsgTextRequired}
	}

	words := CountWords(trimmed)
	if maxWords > 0 && words > maxWords {
		return Input{}, &model.ValidationError{Message: MsgWordLimitExceeded, Limit: maxWords}
	}

	return Input{Text: trimmed, Words: words}, nil
}

// CountWords counts whitespace-delimited tokens
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// TruncateWords keeps at most maxWords whitespace-delimited tokens.
// Used by the CLI when detecting fetched pages longer than the limit.
func TruncateWords(text string, maxWords int) string {
	words := strings.Fields(text)
	if maxWords <= 0 || len(words) <= maxWords {
		return strings.TrimSpace(text)
	}
	return strings.Join(words[:maxWords], " ")
}
