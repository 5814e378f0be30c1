package report

import (
	"strings"
	"testing"

	"github.com/spigell/excel-interviewer/internal/interview"
)

func TestBuild(t *testing.T) {
	got := Build(6.5, map[interview.Phase][]float64{
		interview.PhaseCoreSkills: {5},
		interview.PhaseWarmup:     {8, 9},
	}, 3)

	expected := "**Interview Complete!**\n\n" +
		"**Overall Score: 6.5/10**\n\n" +
		"**Questions Answered: 3**\n\n" +
		"**Performance by Category:**\n" +
		"• Warmup: 8.5/10\n" +
		"  Excellent performance in warmup\n" +
		"• Core Skills: 5.0/10\n" +
		"  Needs improvement in core skills\n" +
		"\n**Detailed Assessment:**\n" +
		"**Good Performance**\n" +
		"• Solid foundation in Excel fundamentals\n" +
		"• Shows understanding of core functions\n" +
		"• Focus on advanced features (VLOOKUP, PivotTables, macros)\n" +
		"• Practice with real-world datasets\n" +
		"\n**Next Steps:**\n" +
		"• Practice advanced Excel features\n" +
		"• Work with complex datasets\n" +
		"• Learn Power Query and Power Pivot\n"

	if got != expected {
		t.Fatalf("unexpected report:\n%s\nexpected:\n%s", got, expected)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	scores := map[interview.Phase][]float64{
		interview.PhaseWarmup:          {4.2},
		interview.PhaseCoreSkills:      {3.3, 6.1},
		interview.PhaseScenarioBased:   {7},
		interview.PhaseTroubleshooting: {2.5},
		interview.Phase("bonus"):       {9},
	}

	first := Build(4.6, scores, 5)
	for i := 0; i < 50; i++ {
		if got := Build(4.6, scores, 5); got != first {
			t.Fatalf("report changed between runs:\n%s\n---\n%s", first, got)
		}
	}

	if strings.Index(first, "Troubleshooting") > strings.Index(first, "Bonus") {
		t.Fatalf("unknown phases must follow known ones")
	}
}

func TestBuildBands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		average  float64
		heading  string
		nextStep string
	}{
		{name: "excellent", average: 8, heading: "**Excellent Performance!**", nextStep: "• Learn Power Query and Power Pivot"},
		{name: "good", average: 6, heading: "**Good Performance**", nextStep: "• Work with complex datasets"},
		{name: "developing", average: 4, heading: "**Developing Skills**", nextStep: "• Complete Excel fundamentals training"},
		{name: "needs learning", average: 3.9, heading: "**Needs Focused Learning**", nextStep: "• Focus on basic formulas and functions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Build(tt.average, nil, 1)
			if !strings.Contains(got, "**Detailed Assessment:**\n"+tt.heading+"\n") {
				t.Fatalf("expected heading %q in:\n%s", tt.heading, got)
			}
			if !strings.Contains(got, tt.nextStep) {
				t.Fatalf("expected next step %q in:\n%s", tt.nextStep, got)
			}
		})
	}
}

func TestBuildWithoutPhaseScores(t *testing.T) {
	got := Build(0, nil, 0)
	if strings.Contains(got, "Performance by Category") {
		t.Fatalf("category section must be omitted without phase scores")
	}
	if !strings.HasPrefix(got, "**Interview Complete!**\n\n**Overall Score: 0.0/10**\n\n**Questions Answered: 0**\n\n") {
		t.Fatalf("unexpected header:\n%s", got)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]interview.EvaluationResult{
		{QuestionID: "w1", Phase: interview.PhaseWarmup, Score: 4},
		{QuestionID: "c1", Phase: interview.PhaseCoreSkills, Score: 6},
		{QuestionID: "c2", Phase: interview.PhaseCoreSkills, Score: 8},
	})

	if s.QuestionCount != 3 {
		t.Fatalf("expected 3 questions, got %d", s.QuestionCount)
	}
	if s.Average != 6 {
		t.Fatalf("expected average 6, got %v", s.Average)
	}
	if got := s.PhaseScores[interview.PhaseCoreSkills]; len(got) != 2 || got[1] != 8 {
		t.Fatalf("unexpected core scores: %v", got)
	}
	if BuildSummary(s) != Build(6, s.PhaseScores, 3) {
		t.Fatalf("BuildSummary must match Build")
	}
}
