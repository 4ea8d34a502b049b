package model

// HumanizeRequest is the input of the humanize pipeline
type HumanizeRequest struct {
	Text string `json:"text" validate:"required"`
}

// HumanizeResult is the output of the humanize pipeline
type HumanizeResult struct {
	HumanizedText string `json:"humanized_text"`
	WordsUsed     int    `json:"words_used"` // Words in the submitted text
	WordsLeft     int    `json:"words_left"` // MaxWords - WordsUsed

	// TrustedHuman hints that the text came from this service and may be sent
	// back to /detect with trusted_human set. It is advisory only.
	TrustedHuman bool `json:"trusted_human"`
}
