package interview

import (
	"regexp"
	"strings"
)

// Token boundaries are commas, semicolons and the standalone word "and". The
// word boundaries matter: "android" must survive intact.
var techSplitPattern = regexp.MustCompile(`(?i)[,;]|\band\b`)

var confirmationPhrases = map[string]struct{}{
	"yes":             {},
	"correct":         {},
	"that's right":    {},
	"that is correct": {},
	"confirmed":       {},
	"looks good":      {},
}

// ParseTechStack splits a free-text technology list into distinct tokens,
// preserving first-seen order. Token identity is case-sensitive.
func ParseTechStack(freeText string) []string {
	var stack []string
	seen := make(map[string]struct{})
	for _, part := range techSplitPattern.Split(freeText, -1) {
		token := strings.TrimSpace(part)
		if token == "" {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		stack = append(stack, token)
	}
	return stack
}

// MergeTechStacks unions incoming into existing without duplicates, keeping
// first-seen order. Merging is idempotent.
func MergeTechStacks(existing, incoming []string) []string {
	merged := make([]string, 0, len(existing)+len(incoming))
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	for _, tokens := range [][]string{existing, incoming} {
		for _, token := range tokens {
			if _, ok := seen[token]; ok {
				continue
			}
			seen[token] = struct{}{}
			merged = append(merged, token)
		}
	}
	return merged
}

// IsConfirmation reports whether the utterance is one of the recognized
// keep-as-is phrases. The match is case-insensitive and exact, not substring:
// "yes, and also Rust" is a correction, not a confirmation.
func IsConfirmation(utterance string) bool {
	_, ok := confirmationPhrases[strings.ToLower(strings.TrimSpace(utterance))]
	return ok
}
