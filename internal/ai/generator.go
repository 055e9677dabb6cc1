package ai

import (
	"context"
	"errors"
	"fmt"
)

// Generator produces free-form text for a prompt. Implementations are expected
// to be safe for sequential reuse within a single interview session.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// GenerationError marks any failure of the generation backend: transport,
// quota, safety block or an unusable response. Callers recover from all of
// them the same way, so no sub-cause is exposed.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// NewGenerationError wraps err so it matches IsGenerationError.
func NewGenerationError(err error) error {
	if err == nil {
		return nil
	}
	return &GenerationError{Err: err}
}

// IsGenerationError reports whether err is a backend generation failure.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}

// Unavailable is a Generator with no backend behind it. Every call fails with
// a GenerationError, which drives callers onto their deterministic fallbacks.
// It is used when no API key is configured, and in tests.
type Unavailable struct{}

func (Unavailable) GenerateContent(_ context.Context, _ string) (string, error) {
	return "", &GenerationError{Err: errors.New("no generation backend configured")}
}
