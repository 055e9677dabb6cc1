package interview

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/talentscout/screener/internal/ai"
	"github.com/talentscout/screener/internal/logger"
)

//go:embed questions_prompt.md
var questionsPromptTemplate string

// maxFallbackTechQuestions caps the per-technology fallback set.
const maxFallbackTechQuestions = 5

var numberedLinePattern = regexp.MustCompile(`^\d+\.`)

// QuestionItem is one generated interview question. Answer stays empty until
// the candidate responds to it; it is written at most once.
type QuestionItem struct {
	Text   string `json:"question"`
	Answer string `json:"answer,omitempty"`
}

// AskedQuestion is a question that has been presented to the candidate. The
// length of the asked list is the authoritative count of questions shown.
type AskedQuestion struct {
	Text   string `json:"question"`
	Answer string `json:"answer,omitempty"`
}

// QuestionGenerator turns a tech stack into an ordered interview question
// list, degrading to a deterministic fallback set when the backend fails or
// returns nothing usable.
type QuestionGenerator struct {
	generator ai.Generator
	logger    *zap.Logger
	maxLogLen int
}

func NewQuestionGenerator(generator ai.Generator, log *zap.Logger) *QuestionGenerator {
	if log == nil {
		log = zap.NewNop()
	}
	return &QuestionGenerator{generator: generator, logger: log, maxLogLen: 200}
}

// Generate returns 3-5 questions spanning the given tech stack. The result is
// never empty for a non-empty stack.
func (q *QuestionGenerator) Generate(ctx context.Context, techStack []string, position, resumeText string) []QuestionItem {
	prompt := buildQuestionPrompt(techStack, position, resumeText)

	q.logger.Debug("question generation request",
		zap.Strings("tech_stack", techStack),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, q.maxLogLen)),
	)

	raw, err := q.generator.GenerateContent(ctx, prompt)
	if err != nil {
		q.logger.Warn("question generation failed, using fallback questions", zap.Error(err))
		return fallbackQuestions(techStack)
	}

	questions := parseNumberedQuestions(raw)
	if len(questions) == 0 {
		q.logger.Warn("no numbered questions in backend response, using fallback questions",
			zap.String("response_preview", logger.TruncateForLog(raw, q.maxLogLen)),
		)
		return fallbackQuestions(techStack)
	}

	q.logger.Debug("question generation response", zap.Int("questions", len(questions)))
	return questions
}

func buildQuestionPrompt(techStack []string, position, resumeText string) string {
	if position = strings.TrimSpace(position); position == "" {
		position = "technology"
	}

	resumeContext := ""
	if resumeText = strings.TrimSpace(resumeText); resumeText != "" {
		resumeContext = "\nUse the candidate's resume below as additional context when picking question topics:\n\n" +
			truncateRunes(resumeText, resumeContextLimit)
	}

	prompt := strings.ReplaceAll(questionsPromptTemplate, "{{POSITION}}", position)
	prompt = strings.ReplaceAll(prompt, "{{TECH_STACK}}", strings.Join(techStack, ", "))
	prompt = strings.ReplaceAll(prompt, "{{RESUME_CONTEXT}}", resumeContext)
	return prompt
}

// parseNumberedQuestions keeps only the lines that look like "N. ...",
// discarding any preamble or commentary around the list.
func parseNumberedQuestions(raw string) []QuestionItem {
	var questions []QuestionItem
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		line = strings.TrimSpace(line)
		if numberedLinePattern.MatchString(line) {
			questions = append(questions, QuestionItem{Text: line})
		}
	}
	return questions
}

// fallbackQuestions synthesizes one question per technology (up to five) and
// pads with generic closers so the set always holds at least three entries.
func fallbackQuestions(techStack []string) []QuestionItem {
	var questions []QuestionItem
	for i, tech := range techStack {
		if i == maxFallbackTechQuestions {
			break
		}
		questions = append(questions, QuestionItem{
			Text: fmt.Sprintf("%d. What is your experience level with %s?", i+1, tech),
		})
	}

	if len(questions) < 3 {
		questions = append(questions, QuestionItem{
			Text: fmt.Sprintf("%d. Describe a challenging project you've worked on using any of these technologies.", len(questions)+1),
		})
		questions = append(questions, QuestionItem{
			Text: fmt.Sprintf("%d. How do you stay updated with the latest developments in your tech stack?", len(questions)+1),
		})
	}

	return questions
}
