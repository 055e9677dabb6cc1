// Package transcript persists finished interview sessions.
package transcript

import (
	"time"

	"github.com/talentscout/screener/internal/interview"
)

// keyLayout yields storage keys like 20240131_154503. One-second granularity;
// two sessions finishing within the same second is an accepted collision.
const keyLayout = "20060102_150405"

// Record is the durable shape of one finished interview.
type Record struct {
	CandidateInfo       interview.Candidate       `json:"candidate_info"`
	ConversationHistory []interview.Message       `json:"conversation_history"`
	GeneratedQuestions  []interview.QuestionItem  `json:"technical_questions"`
	AnsweredQuestions   []interview.AskedQuestion `json:"answers"`
}

// NewRecord projects a session into its durable shape. Only asked questions
// that actually received an answer land in AnsweredQuestions.
func NewRecord(s *interview.Session) *Record {
	answered := make([]interview.AskedQuestion, 0, len(s.Asked))
	for _, q := range s.Asked {
		if q.Answer != "" {
			answered = append(answered, q)
		}
	}

	return &Record{
		CandidateInfo:       s.Candidate,
		ConversationHistory: s.Log,
		GeneratedQuestions:  s.Questions,
		AnsweredQuestions:   answered,
	}
}

func storageKey(now time.Time) string {
	return now.Format(keyLayout)
}
