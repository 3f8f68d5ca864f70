package constant

import "errors"

var (
	ErrInvalidRequest    = errors.New("invalid request body")
	ErrEmptyMessage      = errors.New("message must not be empty")
	ErrSessionNotFound   = errors.New("session not found")
	ErrGenerationFailed  = errors.New("answer generation failed")
	ErrTooManyRequests   = errors.New("too many requests")
	ErrUpstreamExhausted = errors.New("answer generation failed after minimal-context retry")
)

const (
	// GenerationFailureReply is what the user sees when even the
	// minimal-context retry fails.
	GenerationFailureReply = "I'm having trouble answering right now because our conversation has grown too long. Please start a new conversation and ask again."
)
