package interview

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleInterviewer Role = "interviewer"
	RoleCandidate   Role = "candidate"
)

type Question struct {
	ID    string `json:"id" yaml:"id"`
	Phase Phase  `json:"phase" yaml:"phase"`
	Text  string `json:"question" yaml:"question"`
	Type  string `json:"type,omitempty" yaml:"type,omitempty"`
}

type EvaluationResult struct {
	QuestionID   string   `json:"question_id"`
	Phase        Phase    `json:"phase"`
	Score        float64  `json:"score"`
	Reasoning    string   `json:"reasoning"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"areas_for_improvement"`
}

type Message struct {
	Role       Role              `json:"role"`
	Text       string            `json:"content"`
	Timestamp  time.Time         `json:"timestamp"`
	Phase      Phase             `json:"phase"`
	QuestionID string            `json:"question_id,omitempty"`
	Evaluation *EvaluationResult `json:"evaluation,omitempty"`
}

// IsQuestion reports whether the message is an interviewer question linked to the bank.
func (m Message) IsQuestion() bool {
	return m.Role == RoleInterviewer && m.QuestionID != ""
}

// Session is the single mutable aggregate of one interview. It is owned by one caller at a time.
type Session struct {
	ID            string             `json:"id"`
	CandidateName string             `json:"candidate_name"`
	Phase         Phase              `json:"phase"`
	Transcript    []Message          `json:"transcript"`
	Pending       *Question          `json:"pending_question,omitempty"`
	Evaluations   []EvaluationResult `json:"evaluations"`
	StartedAt     time.Time          `json:"started_at"`
	EndedAt       *time.Time         `json:"ended_at,omitempty"`
}

func NewSession(candidateName string, startedAt time.Time) *Session {
	return &Session{
		ID:            uuid.New().String(),
		CandidateName: candidateName,
		Phase:         PhaseGreeting,
		Transcript:    make([]Message, 0),
		Evaluations:   make([]EvaluationResult, 0),
		StartedAt:     startedAt,
	}
}

// Append adds a message to the transcript. Messages are never edited afterwards.
func (s *Session) Append(m Message) {
	s.Transcript = append(s.Transcript, m)
}

// QuestionsAsked counts interviewer questions tagged with the given phase.
func (s *Session) QuestionsAsked(phase Phase) int {
	count := 0
	for _, m := range s.Transcript {
		if m.IsQuestion() && m.Phase == phase {
			count++
		}
	}
	return count
}

// TotalQuestionsAsked counts interviewer questions outside of the greeting phase.
func (s *Session) TotalQuestionsAsked() int {
	count := 0
	for _, m := range s.Transcript {
		if m.IsQuestion() && m.Phase != PhaseGreeting {
			count++
		}
	}
	return count
}

func (s *Session) Completed() bool {
	return s.Phase == PhaseWrapup
}

func (s *Session) Ended() bool {
	return s.EndedAt != nil
}

func (s *Session) Elapsed(now time.Time) time.Duration {
	if s.StartedAt.IsZero() {
		return 0
	}
	end := now
	if s.EndedAt != nil {
		end = *s.EndedAt
	}
	return end.Sub(s.StartedAt)
}

// ScoresByPhase groups evaluation scores by the phase they were recorded in.
func (s *Session) ScoresByPhase() map[Phase][]float64 {
	scores := make(map[Phase][]float64)
	for _, e := range s.Evaluations {
		scores[e.Phase] = append(scores[e.Phase], e.Score)
	}
	return scores
}

// Scores returns all evaluation scores in answer order.
func (s *Session) Scores() []float64 {
	scores := make([]float64, 0, len(s.Evaluations))
	for _, e := range s.Evaluations {
		scores = append(scores, e.Score)
	}
	return scores
}

// CandidateAnswers returns the texts of the last n candidate messages, oldest first.
func (s *Session) CandidateAnswers(n int) []string {
	var answers []string
	for i := len(s.Transcript) - 1; i >= 0 && len(answers) < n; i-- {
		if s.Transcript[i].Role == RoleCandidate {
			answers = append(answers, s.Transcript[i].Text)
		}
	}
	for i, j := 0, len(answers)-1; i < j; i, j = i+1, j-1 {
		answers[i], answers[j] = answers[j], answers[i]
	}
	return answers
}

// DumpToTmpFile writes the session as indented JSON into a temporary file and returns its name.
func (s *Session) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "interview_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return "", err
	}
	return file.Name(), nil
}
