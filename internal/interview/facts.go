package interview

import (
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/talentscout/screener/internal/ai"
	"github.com/talentscout/screener/internal/logger"
)

//go:embed facts_prompt.md
var factsPromptTemplate string

// resumeContextLimit bounds how much resume text is sent to the backend.
const resumeContextLimit = 5000

// FactExtractor asks the generation backend for a structured fact record
// derived from resume plain text.
type FactExtractor struct {
	generator ai.Generator
	logger    *zap.Logger
	maxLogLen int
}

func NewFactExtractor(generator ai.Generator, log *zap.Logger) *FactExtractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &FactExtractor{generator: generator, logger: log, maxLogLen: 200}
}

// Extract returns the facts recovered from resumeText, or nil when nothing
// usable came back. Backend failures and malformed output both degrade to nil
// so the interview continues as if no resume had been processed.
func (e *FactExtractor) Extract(ctx context.Context, resumeText string) *FactRecord {
	resumeText = strings.TrimSpace(resumeText)
	if resumeText == "" {
		return nil
	}

	prompt := strings.ReplaceAll(factsPromptTemplate, "{{RESUME_TEXT}}", truncateRunes(resumeText, resumeContextLimit))

	e.logger.Debug("resume fact extraction request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, prompt)
	if err != nil {
		e.logger.Debug("resume fact extraction failed, continuing without facts", zap.Error(err))
		return nil
	}

	e.logger.Debug("resume fact extraction response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, e.maxLogLen)),
	)

	facts := parseFactResponse(raw)
	if facts == nil {
		e.logger.Debug("resume fact response was not parseable, continuing without facts")
	}
	return facts
}

// parseFactResponse is the parse-or-none adapter between the model output and
// the typed record. It tolerates markdown fences and loosely-typed values and
// never reports an error: anything unusable yields nil.
func parseFactResponse(raw string) *FactRecord {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil
	}

	var facts FactRecord
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &facts,
	})
	if err != nil {
		return nil
	}
	if err := decoder.Decode(data); err != nil {
		return nil
	}

	facts.Name = strings.TrimSpace(facts.Name)
	facts.Email = strings.TrimSpace(facts.Email)
	facts.Phone = strings.TrimSpace(facts.Phone)
	facts.Experience = strings.TrimSpace(facts.Experience)
	facts.Position = strings.TrimSpace(facts.Position)
	facts.Location = strings.TrimSpace(facts.Location)
	facts.TechStack = coerceTechStack(data["tech_stack"])

	return &facts
}

// coerceTechStack accepts the stack as either a JSON list or a delimited
// string, since models alternate between the two.
func coerceTechStack(v any) []string {
	switch val := v.(type) {
	case string:
		return ParseTechStack(val)
	case []any:
		var flattened []string
		for _, item := range val {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				flattened = append(flattened, strings.TrimSpace(s))
			}
		}
		return MergeTechStacks(nil, flattened)
	case []string:
		return MergeTechStacks(nil, val)
	default:
		return nil
	}
}

// extractJSON strips markdown code-fence wrapping from a model response.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	raw = strings.TrimSpace(raw)

	// Models sometimes wrap the object in prose despite instructions. Cut to
	// the outermost braces when the payload does not already start with one.
	if !strings.HasPrefix(raw, "{") {
		start := strings.Index(raw, "{")
		end := strings.LastIndex(raw, "}")
		if start != -1 && end > start {
			raw = raw[start : end+1]
		}
	}
	return strings.TrimSpace(raw)
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
