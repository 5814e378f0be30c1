package interviewer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/excel-interviewer/internal/ai"
	"github.com/spigell/excel-interviewer/internal/interview"
	"github.com/spigell/excel-interviewer/internal/logger"
	"github.com/spigell/excel-interviewer/internal/report"
)

const (
	DefaultInterviewer = "Sarah Chen"

	minReportLength = 50
)

var (
	ErrEmptyName         = errors.New("candidate name is required")
	ErrEmptyAnswer       = errors.New("answer must not be empty")
	ErrInterviewComplete = errors.New("interview is already complete")
	ErrSessionEnded      = errors.New("session has ended")
)

// Bank is the question source the driver asks from.
type Bank interface {
	interview.QuestionCounter
	Question(phase interview.Phase, index int) (interview.Question, bool)
}

// Evaluator scores a single answer.
type Evaluator interface {
	Evaluate(q interview.Question, answer string, phase interview.Phase) interview.EvaluationResult
}

type Config struct {
	// Interviewer is the persona name used in greetings and prompts.
	Interviewer string
	// MaxQuestions is the question ceiling. Zero means interview.DefaultQuestionCeiling.
	MaxQuestions int
}

type Deps struct {
	Bank      Bank
	Scorer    Evaluator
	Assistant ai.Assistant
	Logger    *zap.Logger
	Now       func() time.Time
}

// Driver runs the interview turn by turn. It holds no session state itself.
type Driver struct {
	interviewer string
	bank        Bank
	scorer      Evaluator
	assistant   ai.Assistant
	machine     *interview.Machine
	logger      *zap.Logger
	now         func() time.Time
}

// Status is the snapshot shown to the candidate.
type Status struct {
	Phase          interview.Phase
	Elapsed        time.Duration
	Duration       string
	QuestionsAsked int
	Answered       int
	Ceiling        int
	Completed      bool
	Ended          bool
}

func New(cfg Config, deps Deps) (*Driver, error) {
	if deps.Bank == nil {
		return nil, errors.New("question bank is required")
	}
	if deps.Scorer == nil {
		return nil, errors.New("scorer is required")
	}

	interviewer := strings.TrimSpace(cfg.Interviewer)
	if interviewer == "" {
		interviewer = DefaultInterviewer
	}

	d := &Driver{
		interviewer: interviewer,
		bank:        deps.Bank,
		scorer:      deps.Scorer,
		assistant:   deps.Assistant,
		machine:     interview.NewMachine(deps.Bank, cfg.MaxQuestions),
		logger:      deps.Logger,
		now:         deps.Now,
	}
	if d.assistant == nil {
		d.assistant = ai.Disabled{}
	}
	if d.logger == nil {
		d.logger = zap.NewNop()
	}
	if d.now == nil {
		d.now = time.Now
	}

	return d, nil
}

func (d *Driver) Interviewer() string {
	return d.interviewer
}

// Start opens a session for the candidate and greets them.
func (d *Driver) Start(candidateName string) (*interview.Session, error) {
	name := strings.TrimSpace(candidateName)
	if name == "" {
		return nil, ErrEmptyName
	}

	now := d.now()
	s := interview.NewSession(name, now)
	s.Append(interview.Message{
		Role:      interview.RoleInterviewer,
		Text:      d.greeting(name),
		Timestamp: now,
		Phase:     interview.PhaseGreeting,
	})

	d.sessionLogger(s).Info("interview started", zap.String("candidate", name))

	return s, nil
}

func (d *Driver) greeting(name string) string {
	first := strings.Fields(d.interviewer)[0]
	return fmt.Sprintf("Hello %s! It's great to meet you. I'm %s, and I'll be conducting your Excel technical interview today. "+
		"We'll go through about %d Excel questions covering different skill levels. Are you ready to begin?",
		name, first, d.plannedQuestions())
}

func (d *Driver) plannedQuestions() int {
	total := 0
	for _, phase := range interview.QuestionPhases() {
		total += d.bank.Count(phase)
	}
	if ceiling := d.machine.Ceiling(); total > ceiling {
		return ceiling
	}
	return total
}

// AdvanceTurn records the candidate's answer and moves the interview forward.
// Rejected turns leave the session untouched.
func (d *Driver) AdvanceTurn(ctx context.Context, s *interview.Session, answer string) (*interview.Session, error) {
	if s == nil {
		return nil, errors.New("session is required")
	}

	answer = strings.TrimSpace(answer)
	switch {
	case answer == "":
		return s, ErrEmptyAnswer
	case s.Ended():
		return s, ErrSessionEnded
	case s.Completed():
		return s, ErrInterviewComplete
	}

	log := d.sessionLogger(s)
	now := d.now()

	msg := interview.Message{
		Role:      interview.RoleCandidate,
		Text:      answer,
		Timestamp: now,
		Phase:     s.Phase,
	}
	if s.Pending != nil {
		evaluation := d.scorer.Evaluate(*s.Pending, answer, s.Phase)
		s.Evaluations = append(s.Evaluations, evaluation)
		msg.QuestionID = s.Pending.ID
		msg.Evaluation = &evaluation
		s.Pending = nil

		log.Debug("answer evaluated",
			zap.String("question_id", evaluation.QuestionID),
			zap.Float64("score", evaluation.Score),
		)
	}
	s.Append(msg)

	if s.Phase == interview.PhaseGreeting {
		d.moveTo(s, interview.PhaseWarmup)
	}

	if s.Phase != interview.PhaseWrapup {
		d.askNext(s, now)
	}

	if next := d.machine.Next(s); next != s.Phase {
		d.moveTo(s, next)
		if next == interview.PhaseWrapup {
			d.finish(ctx, s, now)
		}
	}

	return s, nil
}

// askNext asks the first question of the current phase that was not asked yet.
func (d *Driver) askNext(s *interview.Session, now time.Time) {
	q, ok := d.bank.Question(s.Phase, s.QuestionsAsked(s.Phase))
	if !ok {
		return
	}

	s.Pending = &q
	s.Append(interview.Message{
		Role:       interview.RoleInterviewer,
		Text:       q.Text,
		Timestamp:  now,
		Phase:      s.Phase,
		QuestionID: q.ID,
	})

	d.sessionLogger(s).Debug("question asked", zap.String("question_id", q.ID))
}

func (d *Driver) moveTo(s *interview.Session, phase interview.Phase) {
	d.sessionLogger(s).Info("phase changed", zap.String("next_phase", string(phase)))
	s.Phase = phase
}

// finish appends the final report. It runs once, on entering wrapup.
func (d *Driver) finish(ctx context.Context, s *interview.Session, now time.Time) {
	summary := report.Summarize(s.Evaluations)
	text := report.BuildSummary(summary)

	if enriched, ok := d.assistant.TryEnrich(ctx, buildReportPrompt(d.interviewer, s, summary)); ok && len(enriched) > minReportLength {
		text = enriched
	}

	s.Append(interview.Message{
		Role:      interview.RoleInterviewer,
		Text:      text,
		Timestamp: now,
		Phase:     interview.PhaseWrapup,
	})

	d.sessionLogger(s).Info("interview complete",
		zap.Float64("average_score", summary.Average),
		zap.Int("questions_answered", summary.QuestionCount),
	)
}

// End closes the session. Further turns are rejected.
func (d *Driver) End(s *interview.Session) {
	if s == nil || s.Ended() {
		return
	}
	now := d.now()
	s.EndedAt = &now
	d.sessionLogger(s).Info("session ended", zap.Duration("elapsed", s.Elapsed(now)))
}

func (d *Driver) Status(s *interview.Session) Status {
	elapsed := s.Elapsed(d.now())
	return Status{
		Phase:          s.Phase,
		Elapsed:        elapsed,
		Duration:       interview.FormatDuration(elapsed),
		QuestionsAsked: s.TotalQuestionsAsked(),
		Answered:       len(s.Evaluations),
		Ceiling:        d.machine.Ceiling(),
		Completed:      s.Completed(),
		Ended:          s.Ended(),
	}
}

// Report returns the final report text, if the interview produced one.
func (d *Driver) Report(s *interview.Session) (string, bool) {
	if !s.Completed() || len(s.Transcript) == 0 {
		return "", false
	}
	last := s.Transcript[len(s.Transcript)-1]
	if last.Phase != interview.PhaseWrapup || last.Role != interview.RoleInterviewer {
		return "", false
	}
	return last.Text, true
}

func (d *Driver) sessionLogger(s *interview.Session) *zap.Logger {
	return logger.WithSession(d.logger, s.ID, string(s.Phase))
}
