package ai

import (
	"context"
	"errors"
	"testing"
)

func TestUnavailableAlwaysFails(t *testing.T) {
	_, err := Unavailable{}.GenerateContent(context.Background(), "anything")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !IsGenerationError(err) {
		t.Fatalf("expected a GenerationError, got %v", err)
	}
}

func TestGenerationErrorWrapping(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := NewGenerationError(cause)

	if !IsGenerationError(err) {
		t.Fatalf("expected a GenerationError, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected the cause to be reachable via errors.Is")
	}
	if IsGenerationError(cause) {
		t.Fatal("a bare error must not match")
	}
	if NewGenerationError(nil) != nil {
		t.Fatal("wrapping nil must stay nil")
	}
}
