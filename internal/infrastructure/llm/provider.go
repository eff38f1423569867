package llm

import (
	"context"
	"errors"
)

var (
	// ErrRateLimited marks failures worth retrying after a pause.
	ErrRateLimited = errors.New("llm rate limited")
	// ErrEmptyDigest is returned when the provider answers with no text.
	ErrEmptyDigest = errors.New("llm returned an empty digest")
)

// Provider is a single LLM backend able to complete a system + user prompt.
type Provider interface {
	Name() string
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// rateLimited wraps err so that errors.Is(err, ErrRateLimited) holds.
func rateLimited(err error) error {
	return &rateLimitError{err: err}
}

type rateLimitError struct {
	err error
}

func (e *rateLimitError) Error() string {
	return "rate limited: " + e.err.Error()
}

func (e *rateLimitError) Unwrap() []error {
	return []error{ErrRateLimited, e.err}
}
