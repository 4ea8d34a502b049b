package model

import (
	"errors"
	"fmt"
)

// ErrEmptyGeneration is returned when the provider produced no usable text
var ErrEmptyGeneration = errors.New("provider returned no text")

// ValidationError reports bad, missing or oversized input (HTTP 400)
type ValidationError struct {
	Message string
	Limit   int // Word limit, set only for "word limit exceeded"
}

func (e *ValidationError) Error() string {
	if e.Limit > 0 {
		return fmt.Sprintf("%s (limit %d)", e.Message, e.Limit)
	}
	return e.Message
}

// UpstreamError reports a failed or unparsable provider call
type UpstreamError struct {
	Op  string // "generate", "classify"
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// IsUpstream reports whether err is (or wraps) an UpstreamError
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
