package interview

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/talentscout/screener/internal/ai"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
	calls      int
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestQuestionGeneratorParsesNumberedLines(t *testing.T) {
	stub := &stubGenerator{response: "Here are some questions for you:\n\n1. What is a goroutine?\nSome commentary in between.\n2. Explain MVCC in Postgres.\n3. How do channels differ from mutexes?\n\nGood luck!"}
	generator := NewQuestionGenerator(stub, zap.NewNop())

	questions := generator.Generate(context.Background(), []string{"Go", "Postgres"}, "Backend Engineer", "")
	if len(questions) != 3 {
		t.Fatalf("expected 3 questions, got %d: %v", len(questions), questions)
	}
	if questions[0].Text != "1. What is a goroutine?" {
		t.Fatalf("unexpected first question: %q", questions[0].Text)
	}
	for i, q := range questions {
		if q.Answer != "" {
			t.Fatalf("question %d should start unanswered, got %q", i, q.Answer)
		}
	}

	if !strings.Contains(stub.lastPrompt, "Go, Postgres") {
		t.Fatalf("expected tech stack in prompt, got: %s", stub.lastPrompt)
	}
	if !strings.Contains(stub.lastPrompt, "Backend Engineer") {
		t.Fatalf("expected position in prompt, got: %s", stub.lastPrompt)
	}
}

func TestQuestionGeneratorFallbackOnError(t *testing.T) {
	stub := &stubGenerator{err: ai.NewGenerationError(errors.New("quota exceeded"))}
	generator := NewQuestionGenerator(stub, zap.NewNop())

	questions := generator.Generate(context.Background(), []string{"Go"}, "Backend Engineer", "")
	if len(questions) < 3 {
		t.Fatalf("fallback must produce at least 3 questions, got %d", len(questions))
	}
	if !strings.Contains(questions[0].Text, "Go") {
		t.Fatalf("first fallback question should mention the technology: %q", questions[0].Text)
	}
	for i, q := range questions {
		if q.Answer != "" {
			t.Fatalf("fallback question %d should start unanswered", i)
		}
	}
}

func TestQuestionGeneratorFallbackOnUnusableOutput(t *testing.T) {
	stub := &stubGenerator{response: "I'm sorry, I can't produce a list right now."}
	generator := NewQuestionGenerator(stub, zap.NewNop())

	questions := generator.Generate(context.Background(), []string{"Go", "Postgres"}, "", "")
	if len(questions) < 3 {
		t.Fatalf("fallback must produce at least 3 questions, got %d", len(questions))
	}
}

func TestQuestionGeneratorFallbackCapsTechQuestions(t *testing.T) {
	stub := &stubGenerator{err: ai.NewGenerationError(errors.New("down"))}
	generator := NewQuestionGenerator(stub, zap.NewNop())

	stack := []string{"Go", "Postgres", "Redis", "Kafka", "Docker", "Kubernetes", "Terraform"}
	questions := generator.Generate(context.Background(), stack, "", "")
	if len(questions) != 5 {
		t.Fatalf("expected 5 fallback questions for a large stack, got %d", len(questions))
	}
	if !strings.HasPrefix(questions[4].Text, "5.") {
		t.Fatalf("fallback questions must be numbered sequentially, got %q", questions[4].Text)
	}
}

func TestQuestionGeneratorIncludesResumeContext(t *testing.T) {
	stub := &stubGenerator{response: "1. ok\n2. ok\n3. ok"}
	generator := NewQuestionGenerator(stub, zap.NewNop())

	longResume := strings.Repeat("x", resumeContextLimit+500)
	generator.Generate(context.Background(), []string{"Go"}, "SRE", longResume)

	if !strings.Contains(stub.lastPrompt, "resume") {
		t.Fatalf("expected resume context marker in prompt")
	}
	if strings.Count(stub.lastPrompt, "x") > resumeContextLimit {
		t.Fatalf("resume context must be truncated to %d characters", resumeContextLimit)
	}
}
