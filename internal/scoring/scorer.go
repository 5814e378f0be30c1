package scoring

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/spigell/excel-interviewer/internal/interview"
)

const (
	minScore = 1.0
	maxScore = 10.0
)

// Scorer rates free-text answers with an ordered set of keyword rules.
type Scorer struct {
	rules  []Rule
	logger *zap.Logger
}

// New creates a scorer with the default rule set.
func New(logger *zap.Logger) *Scorer {
	return NewWithRules(logger, DefaultRules()...)
}

func NewWithRules(logger *zap.Logger, rules ...Rule) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{rules: rules, logger: logger}
}

// Evaluate scores the answer given to q while the session was in phase.
// It never fails: a broken rule yields the neutral result.
func (s *Scorer) Evaluate(q interview.Question, answer string, phase interview.Phase) (result interview.EvaluationResult) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scoring failed; using neutral evaluation",
				zap.String("question_id", q.ID),
				zap.String("panic", fmt.Sprint(r)),
			)
			result = Neutral(q.ID, phase)
		}
	}()

	a := newAnswer(answer, phase)
	totals := make(map[Dimension]int, 4)
	var strengths, improvements []string

	for _, rule := range s.rules {
		out := rule.Apply(a)
		totals[rule.Dimension()] += out.Points
		if out.Strength != "" {
			strengths = append(strengths, out.Strength)
		}
		if out.Improvement != "" {
			improvements = append(improvements, out.Improvement)
		}

		s.logger.Debug("scoring rule",
			zap.String("rule", rule.Name()),
			zap.String("dimension", string(rule.Dimension())),
			zap.Int("points", out.Points),
		)
	}

	sum := 0
	for _, d := range dimensions() {
		sum += totals[d]
	}

	score := round(clamp(float64(sum) / 4))
	reasoning := reasoningFor(score)
	if score < 4 {
		improvements = append(improvements, "Focus on Excel-specific terminology and examples")
	}

	if len(strengths) == 0 {
		strengths = []string{"Attempted to answer"}
	}
	if len(improvements) == 0 {
		improvements = []string{"Provide more technical detail"}
	}

	s.logger.Debug("answer scored",
		zap.String("question_id", q.ID),
		zap.String("phase", string(phase)),
		zap.Int("technical_accuracy", totals[DimensionTechnical]),
		zap.Int("completeness", totals[DimensionCompleteness]),
		zap.Int("clarity", totals[DimensionClarity]),
		zap.Int("excel_knowledge", totals[DimensionKnowledge]),
		zap.Float64("score", score),
	)

	return interview.EvaluationResult{
		QuestionID:   q.ID,
		Phase:        phase,
		Score:        score,
		Reasoning:    reasoning,
		Strengths:    strengths,
		Improvements: improvements,
	}
}

// Describe lists the configured rules in evaluation order.
func (s *Scorer) Describe() []Status {
	out := make([]Status, 0, len(s.rules))
	for _, rule := range s.rules {
		out = append(out, rule.Status())
	}
	return out
}

// Neutral is the evaluation recorded when scoring itself fails.
func Neutral(questionID string, phase interview.Phase) interview.EvaluationResult {
	return interview.EvaluationResult{
		QuestionID:   questionID,
		Phase:        phase,
		Score:        5.0,
		Reasoning:    "Basic response evaluation",
		Strengths:    []string{"Responded to question"},
		Improvements: []string{"Could provide more technical detail"},
	}
}

func reasoningFor(score float64) string {
	switch {
	case score >= 8:
		return "Excellent response demonstrating strong Excel knowledge"
	case score >= 6:
		return "Good response with solid Excel understanding"
	case score >= 4:
		return "Basic response showing some Excel knowledge"
	default:
		return "Response needs improvement in technical detail"
	}
}

func clamp(v float64) float64 {
	return math.Min(maxScore, math.Max(minScore, v))
}

// round keeps one decimal, halves go to the even digit.
func round(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}
