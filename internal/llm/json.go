package llm

import "strings"

// CleanJSONBlock strips markdown code fences a model may wrap around JSON
// and, failing that, cuts the text down to its outermost object.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Drop a language tag such as "json" on the fence line
		if idx := strings.IndexByte(text, '\n'); idx >= 0 {
			tag := strings.TrimSpace(text[:idx])
			if !strings.ContainsAny(tag, "{ ") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "{") {
		return text
	}

	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}
