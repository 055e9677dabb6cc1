package interview

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/talentscout/screener/internal/ai"
)

//go:embed conclusion_prompt.md
var conclusionPromptTemplate string

// Speaker identifies who produced a conversation log entry.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// Message is one conversation log entry. The log is append-only and purely
// observational: nothing in the machine reads it back.
type Message struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

// TranscriptSink persists a finished session. Implementations must treat the
// session as read-only.
type TranscriptSink interface {
	Persist(ctx context.Context, s *Session) (string, error)
}

// Session is the complete state of one screening interview. It is owned by
// the caller and mutated only through Machine methods; replacing the value
// returned by NewSession is the reset operation.
type Session struct {
	Candidate Candidate
	Stage     Stage
	Questions []QuestionItem
	Asked     []AskedQuestion
	Log       []Message

	persisted bool
}

// NewSession returns a fresh session at the greeting stage.
func NewSession() *Session {
	return &Session{Stage: StageGreeting}
}

// Persisted reports whether this session's transcript has been handed to the
// sink.
func (s *Session) Persisted() bool {
	return s.persisted
}

var exitKeywords = []string{"quit", "exit", "bye", "goodbye", "end interview", "stop"}

func containsExitIntent(utterance string) bool {
	lower := strings.ToLower(utterance)
	for _, keyword := range exitKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

const (
	openingMessage = "Hello! I'm the TalentScout Hiring Assistant. I'll be conducting your initial screening interview.\n\n" +
		"I'll collect some basic information and ask a few technical questions to assess your experience with various technologies.\n\n" +
		"Let's start with your name. What is your full name?"

	techStackPrompt = "Now, please list your tech stack - all programming languages, frameworks, databases, and tools you're proficient with."

	cannedConclusionReply = "Thank you for your question. A recruiter will review your application and contact you within 3-5 business days " +
		"to discuss the next steps in the hiring process."

	completionMessage = "Thank you for answering all our technical questions! Your application has been recorded. " +
		"A TalentScout recruiter will contact you soon to discuss the next steps. Do you have any questions about the process?"

	apologyMessage = "I'm sorry - something went wrong while preparing your technical questions, so we'll stop here. " +
		"Your application has been recorded and a TalentScout recruiter will contact you within 3-5 business days."
)

// Machine drives sessions through the interview stages. It holds only
// collaborators, never session state, so one Machine can serve consecutive
// sessions.
type Machine struct {
	generator ai.Generator
	questions *QuestionGenerator
	facts     *FactExtractor
	sink      TranscriptSink
	logger    *zap.Logger

	resumeEnabled bool
}

// MachineDeps aggregates the collaborators a Machine needs.
type MachineDeps struct {
	Generator     ai.Generator
	Sink          TranscriptSink
	Logger        *zap.Logger
	ResumeEnabled bool
}

func NewMachine(deps MachineDeps) *Machine {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	generator := deps.Generator
	if generator == nil {
		generator = ai.Unavailable{}
	}

	return &Machine{
		generator:     generator,
		questions:     NewQuestionGenerator(generator, log),
		facts:         NewFactExtractor(generator, log),
		sink:          deps.Sink,
		logger:        log,
		resumeEnabled: deps.ResumeEnabled,
	}
}

// Opening seeds the conversation log with the assistant greeting and returns
// it for display.
func (m *Machine) Opening(s *Session) string {
	s.Log = append(s.Log, Message{Speaker: SpeakerAssistant, Text: openingMessage})
	return openingMessage
}

// HandleTurn consumes one candidate utterance, advances the session, and
// returns the next prompt to show. It always returns a prompt; no failure in
// a collaborator escapes as an error.
func (m *Machine) HandleTurn(ctx context.Context, s *Session, utterance string) string {
	before := s.Stage
	reply := m.process(ctx, s, utterance)

	if s.Stage != before {
		m.logger.Debug("stage transition",
			zap.Stringer("from", before),
			zap.Stringer("to", s.Stage),
		)
	}

	s.Log = append(s.Log,
		Message{Speaker: SpeakerUser, Text: utterance},
		Message{Speaker: SpeakerAssistant, Text: reply},
	)
	return reply
}

func (m *Machine) process(ctx context.Context, s *Session, utterance string) string {
	// Exit intent short-circuits every stage except the already-terminal one.
	if s.Stage != StageConclusion && containsExitIntent(utterance) {
		m.conclude(ctx, s)
		return "I understand you'd like to end our conversation. Thank you for your time! " +
			"A TalentScout recruiter will review what we covered and contact you within 3-5 business days."
	}

	switch s.Stage {
	case StageGreeting:
		return m.handleGreeting(s, utterance)
	case StageCollectingInfo:
		return m.handleCollectingInfo(s, utterance)
	case StageResumeUpload:
		return m.handleResumeUpload(s)
	case StageTechStack:
		return m.handleTechStack(ctx, s, utterance)
	case StageAskQuestions:
		return m.handleAnswer(ctx, s, utterance)
	default:
		return m.handleConclusion(ctx, s, utterance)
	}
}

func (m *Machine) handleGreeting(s *Session, utterance string) string {
	s.Candidate.Name = strings.TrimSpace(utterance)
	s.Stage = StageCollectingInfo
	return fmt.Sprintf("Nice to meet you, %s! Could you please provide your email address?", s.Candidate.Name)
}

// handleCollectingInfo fills fields strictly in order email, phone,
// experience, position, location. Invalid email or phone keeps the stage and
// the field and re-prompts.
func (m *Machine) handleCollectingInfo(s *Session, utterance string) string {
	switch {
	case s.Candidate.Email == "":
		email := strings.TrimSpace(utterance)
		if !IsValidEmail(email) {
			return "That doesn't look like a valid email address. Please enter a valid email (e.g., example@domain.com)."
		}
		s.Candidate.Email = email
		return "Thank you! Now, could you please provide your phone number?"

	case s.Candidate.Phone == "":
		digits := StripNonDigits(utterance)
		if !IsValidPhone(digits) {
			return "That doesn't look like a valid phone number. Please enter a valid phone number (10-15 digits)."
		}
		s.Candidate.Phone = digits
		return "Thanks! How many years of experience do you have in the technology field?"

	case s.Candidate.ExperienceYears == "":
		s.Candidate.ExperienceYears = strings.TrimSpace(utterance)
		return "Great! What position are you applying for?"

	case s.Candidate.DesiredPosition == "":
		s.Candidate.DesiredPosition = strings.TrimSpace(utterance)
		return "Thank you! What is your current location?"

	default:
		s.Candidate.Location = strings.TrimSpace(utterance)
		if m.resumeEnabled {
			s.Stage = StageResumeUpload
			return "Almost done with the basics! If you have a resume, you can upload it now (PDF, DOCX or plain text). " +
				"Once that's done - or if you'd rather skip it - just send any message and we'll continue."
		}
		s.Stage = StageTechStack
		return "Almost done with the basics! " + techStackPrompt
	}
}

// handleResumeUpload treats the utterance purely as a continuation trigger:
// the upload itself happens out of band via AttachResume.
func (m *Machine) handleResumeUpload(s *Session) string {
	s.Stage = StageTechStack
	if len(s.Candidate.TechStack) > 0 {
		return fmt.Sprintf("From your resume I gathered this tech stack: %s. Is that right? "+
			"Reply \"yes\" to confirm, or list anything to add or correct.",
			strings.Join(s.Candidate.TechStack, ", "))
	}
	return techStackPrompt
}

func (m *Machine) handleTechStack(ctx context.Context, s *Session, utterance string) string {
	// A confirmation keeps the resume-derived stack as is; anything else is
	// parsed and merged in.
	if !IsConfirmation(utterance) {
		s.Candidate.TechStack = MergeTechStacks(s.Candidate.TechStack, ParseTechStack(utterance))
	}

	// An empty stack must never reach question generation; this also catches a
	// confirmation of a resume that yielded no stack at all.
	if len(s.Candidate.TechStack) == 0 {
		return "I didn't catch any technologies there. Please list the programming languages, frameworks, databases, and tools you're proficient with."
	}

	s.Questions = m.questions.Generate(ctx, s.Candidate.TechStack, s.Candidate.DesiredPosition, s.Candidate.ResumeText)
	if len(s.Questions) == 0 {
		// The generator's fallback guarantees a non-empty set; ending up here
		// means the session cannot continue meaningfully.
		m.logger.Error("no questions generated for non-empty tech stack",
			zap.Strings("tech_stack", s.Candidate.TechStack),
		)
		m.conclude(ctx, s)
		return apologyMessage
	}

	s.Stage = StageAskQuestions
	s.Asked = append(s.Asked, AskedQuestion{Text: s.Questions[0].Text})
	return "Thank you for sharing your tech stack. I'll now ask you a few technical questions based on your experience. " +
		"Here's the first question:\n\n" + s.Questions[0].Text
}

func (m *Machine) handleAnswer(ctx context.Context, s *Session, utterance string) string {
	if len(s.Questions) == 0 {
		m.logger.Error("answer received but no questions were generated")
		m.conclude(ctx, s)
		return apologyMessage
	}

	// Attribute the answer to the most recently asked unanswered question.
	if last := len(s.Asked) - 1; last >= 0 && s.Asked[last].Answer == "" {
		s.Asked[last].Answer = utterance
	} else {
		s.Asked = append(s.Asked, AskedQuestion{Text: s.Questions[0].Text, Answer: utterance})
	}
	if idx := len(s.Asked) - 1; idx < len(s.Questions) {
		s.Questions[idx].Answer = utterance
	}

	if len(s.Asked) >= len(s.Questions) {
		m.conclude(ctx, s)
		return completionMessage
	}

	next := s.Questions[len(s.Asked)]
	s.Asked = append(s.Asked, AskedQuestion{Text: next.Text})
	return "Thank you for your answer. Let's move on to the next question:\n\n" + next.Text
}

// handleConclusion forwards candidate questions to the backend, falling back
// to a canned reply on any generation failure. The stage never advances.
func (m *Machine) handleConclusion(ctx context.Context, s *Session, utterance string) string {
	prompt := strings.ReplaceAll(conclusionPromptTemplate, "{{QUESTION}}", strings.TrimSpace(utterance))

	reply, err := m.generator.GenerateContent(ctx, prompt)
	if err != nil {
		m.logger.Debug("conclusion reply generation failed, using canned reply", zap.Error(err))
		return cannedConclusionReply
	}
	return reply
}

// AttachResume ingests extracted resume text: it records the text and
// filename, asks the backend for structured facts, and merges whatever came
// back into the candidate. Extraction failure is silent; the interview
// continues as if no resume had been processed.
func (m *Machine) AttachResume(ctx context.Context, s *Session, filename, text string) string {
	s.Candidate.ResumeText = text
	s.Candidate.ResumeFilename = filename

	m.logger.Debug("resume attached",
		zap.String("filename", filename),
		zap.Int("text_length", utf8.RuneCountInString(text)),
	)

	mergeFacts(&s.Candidate, m.facts.Extract(ctx, text))

	if len(s.Candidate.TechStack) > 0 {
		return fmt.Sprintf("Thanks, I've received your resume and noted this tech stack: %s.",
			strings.Join(s.Candidate.TechStack, ", "))
	}
	return "Thanks, I've received your resume."
}

// conclude moves the session to the terminal stage and persists the
// transcript. The sink is invoked at most once per session, even when it
// fails.
func (m *Machine) conclude(ctx context.Context, s *Session) {
	s.Stage = StageConclusion

	if s.persisted || m.sink == nil {
		return
	}
	s.persisted = true

	key, err := m.sink.Persist(ctx, s)
	if err != nil {
		m.logger.Warn("persisting transcript", zap.Error(err))
		return
	}
	m.logger.Info("transcript persisted", zap.String("key", key))
}
