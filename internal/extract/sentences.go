package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMinSentenceLength drops fragments too short to classify
const DefaultMinSentenceLength = 10

// SplitSentences splits text into sentences for independent classification.
// A boundary is a '.', '!' or '?' followed by whitespace; the punctuation stays
// with the sentence and the whitespace run is consumed. Segments are trimmed and
// those shorter than minLen runes are dropped.
func SplitSentences(text string, minLen int) []string {
	sentences := []string{}

	var current strings.Builder
	runes := []rune(text)

	flush := func() {
		sentence := strings.TrimSpace(current.String())
		if sentence != "" && utf8.RuneCountInString(sentence) >= minLen {
			sentences = append(sentences, sentence)
		}
		current.Reset()
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		current.WriteRune(r)

		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
			continue
		}

		flush()
		for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			i++
		}
	}

	if current.Len() > 0 {
		flush()
	}

	return sentences
}
