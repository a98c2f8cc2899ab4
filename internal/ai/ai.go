package ai

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable means the text-generation service could not be
	// reached or is not configured. Callers degrade to a fallback
	// insight instead of failing the request.
	ErrUnavailable = errors.New("text generation service unavailable")

	// ErrTimeout means the call exceeded its deadline. There is no
	// retry: the round is persisted with the fallback insight.
	ErrTimeout = errors.New("text generation timed out")
)

// Generator is the text-generation capability the orchestrator depends
// on. Implementations are synchronous and bounded by the caller's
// context deadline.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}
