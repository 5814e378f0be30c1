package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spigell/excel-interviewer/internal/interview"
)

// Summary holds the aggregates the final report is built from.
type Summary struct {
	Average       float64
	PhaseScores   map[interview.Phase][]float64
	QuestionCount int
}

// Summarize aggregates evaluations into report inputs.
func Summarize(evaluations []interview.EvaluationResult) Summary {
	scores := make([]float64, 0, len(evaluations))
	byPhase := make(map[interview.Phase][]float64)
	for _, e := range evaluations {
		scores = append(scores, e.Score)
		byPhase[e.Phase] = append(byPhase[e.Phase], e.Score)
	}

	return Summary{
		Average:       Average(scores),
		PhaseScores:   byPhase,
		QuestionCount: len(evaluations),
	}
}

// Average returns the arithmetic mean, or 0 for no scores.
func Average(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	total := 0.0
	for _, s := range scores {
		total += s
	}
	return total / float64(len(scores))
}

// Build renders the deterministic end-of-interview report.
func Build(average float64, phaseScores map[interview.Phase][]float64, questionCount int) string {
	var b strings.Builder

	b.WriteString("**Interview Complete!**\n\n")
	fmt.Fprintf(&b, "**Overall Score: %.1f/10**\n\n", average)
	fmt.Fprintf(&b, "**Questions Answered: %d**\n\n", questionCount)

	if len(phaseScores) > 0 {
		b.WriteString("**Performance by Category:**\n")
		for _, phase := range orderedPhases(phaseScores) {
			phaseAverage := Average(phaseScores[phase])
			title := phase.Title()
			fmt.Fprintf(&b, "• %s: %.1f/10\n", title, phaseAverage)
			fmt.Fprintf(&b, "  %s %s\n", categoryNote(phaseAverage), strings.ToLower(title))
		}
	}

	b.WriteString("\n**Detailed Assessment:**\n")
	heading, bullets := assessment(average)
	b.WriteString(heading + "\n")
	writeBullets(&b, bullets)

	b.WriteString("\n**Next Steps:**\n")
	writeBullets(&b, nextSteps(average))

	return b.String()
}

// BuildSummary is Build over a Summary.
func BuildSummary(s Summary) string {
	return Build(s.Average, s.PhaseScores, s.QuestionCount)
}

// orderedPhases returns known phases in interview order followed by unknown ones sorted by name.
func orderedPhases(phaseScores map[interview.Phase][]float64) []interview.Phase {
	out := make([]interview.Phase, 0, len(phaseScores))
	for _, phase := range interview.Phases() {
		if _, ok := phaseScores[phase]; ok {
			out = append(out, phase)
		}
	}

	var unknown []interview.Phase
	for phase := range phaseScores {
		if !phase.IsValid() {
			unknown = append(unknown, phase)
		}
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })

	return append(out, unknown...)
}

func categoryNote(score float64) string {
	switch {
	case score >= 8:
		return "Excellent performance in"
	case score >= 6:
		return "Good performance in"
	default:
		return "Needs improvement in"
	}
}

func assessment(score float64) (string, []string) {
	switch {
	case score >= 8:
		return "**Excellent Performance!**", []string{
			"You demonstrate advanced Excel proficiency",
			"Strong technical knowledge and practical application",
			"Ready for senior-level Excel roles",
			"Consider pursuing Excel certification",
		}
	case score >= 6:
		return "**Good Performance**", []string{
			"Solid foundation in Excel fundamentals",
			"Shows understanding of core functions",
			"Focus on advanced features (VLOOKUP, PivotTables, macros)",
			"Practice with real-world datasets",
		}
	case score >= 4:
		return "**Developing Skills**", []string{
			"Basic Excel knowledge demonstrated",
			"Focus on fundamental functions (SUM, COUNT, AVERAGE)",
			"Practice with Excel tutorials and exercises",
			"Consider Excel beginner courses",
		}
	default:
		return "**Needs Focused Learning**", []string{
			"Start with Excel basics and fundamentals",
			"Practice with simple formulas and functions",
			"Take structured Excel training courses",
			"Build confidence with hands-on practice",
		}
	}
}

func nextSteps(score float64) []string {
	if score >= 6 {
		return []string{
			"Practice advanced Excel features",
			"Work with complex datasets",
			"Learn Power Query and Power Pivot",
		}
	}
	return []string{
		"Complete Excel fundamentals training",
		"Practice with sample datasets",
		"Focus on basic formulas and functions",
	}
}

func writeBullets(b *strings.Builder, bullets []string) {
	for _, line := range bullets {
		b.WriteString("• " + line + "\n")
	}
}
