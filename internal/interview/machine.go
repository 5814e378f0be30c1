package interview

// DefaultQuestionCeiling is the number of non-greeting questions after which the interview wraps up.
const DefaultQuestionCeiling = 18

// QuestionCounter reports how many bank questions a phase holds.
type QuestionCounter interface {
	Count(phase Phase) int
}

// Machine decides whether a session stays in its phase or moves on.
type Machine struct {
	questions QuestionCounter
	ceiling   int
}

// NewMachine builds a phase machine. A non-positive ceiling falls back to DefaultQuestionCeiling.
func NewMachine(questions QuestionCounter, ceiling int) *Machine {
	if ceiling <= 0 {
		ceiling = DefaultQuestionCeiling
	}
	return &Machine{questions: questions, ceiling: ceiling}
}

func (m *Machine) Ceiling() int {
	return m.ceiling
}

// CeilingReached reports whether the session asked as many non-greeting questions as allowed.
func (m *Machine) CeilingReached(s *Session) bool {
	return s.TotalQuestionsAsked() >= m.ceiling
}

// Next returns the phase the session should be in after the current turn.
// It does not mutate the session.
func (m *Machine) Next(s *Session) Phase {
	current := s.Phase
	if current == PhaseWrapup {
		return PhaseWrapup
	}

	if m.CeilingReached(s) {
		if s.Pending == nil {
			return PhaseWrapup
		}
		return current
	}

	total := 0
	if m.questions != nil {
		total = m.questions.Count(current)
	}
	if total == 0 || s.QuestionsAsked(current) < total {
		return current
	}

	next := current.Next()
	// the report is the last message, so the final answer has to come in first
	if next == PhaseWrapup && s.Pending != nil {
		return current
	}
	return next
}
