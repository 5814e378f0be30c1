package scoring

import (
	"strconv"
	"strings"

	"github.com/spigell/excel-interviewer/internal/interview"
)

// Dimension is one of the four sub-scores an answer is rated on.
type Dimension string

const (
	DimensionTechnical    Dimension = "technical_accuracy"
	DimensionCompleteness Dimension = "completeness"
	DimensionClarity      Dimension = "clarity"
	DimensionKnowledge    Dimension = "excel_knowledge"
)

func dimensions() []Dimension {
	return []Dimension{DimensionTechnical, DimensionCompleteness, DimensionClarity, DimensionKnowledge}
}

// Answer is the normalized candidate answer handed to every rule.
type Answer struct {
	Text  string
	Words int
	Phase interview.Phase
}

func newAnswer(text string, phase interview.Phase) Answer {
	return Answer{
		Text:  strings.ToLower(text),
		Words: len(strings.Fields(text)),
		Phase: phase,
	}
}

// Outcome is the contribution of a single rule.
type Outcome struct {
	Points      int
	Strength    string
	Improvement string
}

// Rule is a single scoring step applied to an answer.
type Rule interface {
	Name() string
	Dimension() Dimension
	Apply(a Answer) Outcome
	Status() Status
}

// Status describes a rule for diagnostics.
type Status struct {
	Name      string
	Dimension Dimension
	Details   map[string]string
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

type keywordRule struct {
	name      string
	dimension Dimension
	terms     []string
	points    int
	strength  string
}

func (r *keywordRule) Name() string { return r.name }

func (r *keywordRule) Dimension() Dimension { return r.dimension }

func (r *keywordRule) Apply(a Answer) Outcome {
	if !containsAny(a.Text, r.terms) {
		return Outcome{}
	}
	return Outcome{Points: r.points, Strength: r.strength}
}

func (r *keywordRule) Status() Status {
	return Status{
		Name:      r.name,
		Dimension: r.dimension,
		Details: map[string]string{
			"terms":  strings.Join(r.terms, ","),
			"points": strconv.Itoa(r.points),
		},
	}
}

type phaseBonus struct {
	terms  []string
	points int
}

// phaseBonusRule rewards terms that matter for the phase the answer was given in.
type phaseBonusRule struct {
	bonuses map[interview.Phase]phaseBonus
}

func (r *phaseBonusRule) Name() string { return "phase_bonus" }

func (r *phaseBonusRule) Dimension() Dimension { return DimensionTechnical }

func (r *phaseBonusRule) Apply(a Answer) Outcome {
	bonus, ok := r.bonuses[a.Phase]
	if !ok || !containsAny(a.Text, bonus.terms) {
		return Outcome{}
	}
	return Outcome{Points: bonus.points}
}

func (r *phaseBonusRule) Status() Status {
	details := make(map[string]string, len(r.bonuses))
	for _, phase := range interview.QuestionPhases() {
		if bonus, ok := r.bonuses[phase]; ok {
			details[string(phase)] = "+" + strconv.Itoa(bonus.points) + " " + strings.Join(bonus.terms, ",")
		}
	}
	return Status{Name: r.Name(), Dimension: r.Dimension(), Details: details}
}

type lengthRule struct {
	long   int
	medium int
}

func (r *lengthRule) Name() string { return "answer_length" }

func (r *lengthRule) Dimension() Dimension { return DimensionCompleteness }

func (r *lengthRule) Apply(a Answer) Outcome {
	switch {
	case a.Words > r.long:
		return Outcome{Points: 4, Strength: "Provides comprehensive answer"}
	case a.Words > r.medium:
		return Outcome{Points: 2}
	default:
		return Outcome{Points: 1, Improvement: "Could provide more detail"}
	}
}

func (r *lengthRule) Status() Status {
	return Status{
		Name:      r.Name(),
		Dimension: r.Dimension(),
		Details: map[string]string{
			"long_words":   strconv.Itoa(r.long),
			"medium_words": strconv.Itoa(r.medium),
		},
	}
}

type structureRule struct{}

func (r *structureRule) Name() string { return "structure" }

func (r *structureRule) Dimension() Dimension { return DimensionClarity }

func (r *structureRule) Apply(a Answer) Outcome {
	if strings.Count(a.Text, ".") > 1 {
		return Outcome{Points: 2, Strength: "Well-structured response"}
	}
	return Outcome{}
}

func (r *structureRule) Status() Status {
	return Status{Name: r.Name(), Dimension: r.Dimension(), Details: map[string]string{"sentences": ">1"}}
}

// termCountRule awards a point per distinct term found, up to a cap.
type termCountRule struct {
	name      string
	dimension Dimension
	terms     []string
	cap       int
	threshold int
	strength  string
}

func (r *termCountRule) Name() string { return r.name }

func (r *termCountRule) Dimension() Dimension { return r.dimension }

func (r *termCountRule) Apply(a Answer) Outcome {
	count := 0
	for _, term := range r.terms {
		if strings.Contains(a.Text, term) {
			count++
		}
	}
	if count > r.cap {
		count = r.cap
	}

	out := Outcome{Points: count}
	if count > r.threshold {
		out.Strength = r.strength
	}
	return out
}

func (r *termCountRule) Status() Status {
	return Status{
		Name:      r.name,
		Dimension: r.dimension,
		Details: map[string]string{
			"terms": strings.Join(r.terms, ","),
			"cap":   strconv.Itoa(r.cap),
		},
	}
}

// DefaultRules returns the rule set in evaluation order. Strength notes follow this order.
func DefaultRules() []Rule {
	return []Rule{
		&keywordRule{
			name:      "core_terms",
			dimension: DimensionTechnical,
			terms:     []string{"function", "formula", "cell", "range", "data"},
			points:    3,
			strength:  "Uses Excel terminology correctly",
		},
		&keywordRule{
			name:      "formula_names",
			dimension: DimensionTechnical,
			terms:     []string{"=", "sum", "count", "average", "vlookup", "index", "match"},
			points:    4,
			strength:  "Demonstrates knowledge of Excel functions",
		},
		&keywordRule{
			name:      "analysis_tools",
			dimension: DimensionTechnical,
			terms:     []string{"pivot", "table"},
			points:    2,
			strength:  "Shows understanding of data analysis tools",
		},
		&phaseBonusRule{
			bonuses: map[interview.Phase]phaseBonus{
				interview.PhaseWarmup:          {terms: []string{"experience", "years", "used", "familiar"}, points: 2},
				interview.PhaseCoreSkills:      {terms: []string{"vlookup", "index", "match", "sumif", "countif"}, points: 3},
				interview.PhaseScenarioBased:   {terms: []string{"analyze", "pivot", "filter", "sort"}, points: 3},
				interview.PhaseTroubleshooting: {terms: []string{"error", "fix", "debug", "check"}, points: 3},
			},
		},
		&lengthRule{long: 50, medium: 20},
		&structureRule{},
		&keywordRule{
			name:      "examples",
			dimension: DimensionClarity,
			terms:     []string{"example", "for instance", "such as"},
			points:    2,
			strength:  "Provides examples",
		},
		&termCountRule{
			name:      "excel_terms",
			dimension: DimensionKnowledge,
			terms:     []string{"excel", "spreadsheet", "worksheet", "workbook", "formula", "function"},
			cap:       5,
			threshold: 2,
			strength:  "Demonstrates Excel expertise",
		},
	}
}
