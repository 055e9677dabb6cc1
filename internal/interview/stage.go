package interview

// Stage identifies where a screening session currently is. Transitions are
// forward only, except that any stage may jump straight to StageConclusion
// when the candidate signals exit intent. StageConclusion is absorbing.
type Stage int

const (
	StageGreeting Stage = iota
	StageCollectingInfo
	StageResumeUpload
	StageTechStack
	StageAskQuestions
	StageConclusion
)

func (s Stage) String() string {
	switch s {
	case StageGreeting:
		return "greeting"
	case StageCollectingInfo:
		return "collecting_info"
	case StageResumeUpload:
		return "resume_upload"
	case StageTechStack:
		return "tech_stack"
	case StageAskQuestions:
		return "ask_questions"
	case StageConclusion:
		return "conclusion"
	}
	return "unknown"
}
