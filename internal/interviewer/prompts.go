package interviewer

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/spigell/excel-interviewer/internal/interview"
	"github.com/spigell/excel-interviewer/internal/report"
	"github.com/spigell/excel-interviewer/internal/utils"
)

//go:embed prompts/report.md
var reportTemplate string

//go:embed prompts/followup.md
var followUpTemplate string

const (
	recentMessages   = 10
	answerPreviewLen = 100
)

func buildReportPrompt(interviewer string, s *interview.Session, summary report.Summary) string {
	var conversation strings.Builder
	start := len(s.Transcript) - recentMessages
	if start < 0 {
		start = 0
	}
	for _, m := range s.Transcript[start:] {
		if m.Role == interview.RoleCandidate {
			fmt.Fprintf(&conversation, "Candidate: %s\n", utils.TruncateForLog(m.Text, answerPreviewLen))
		}
	}

	phases := make([]string, 0, len(summary.PhaseScores))
	for _, phase := range interview.Phases() {
		if scores, ok := summary.PhaseScores[phase]; ok {
			phases = append(phases, fmt.Sprintf("%s: %.1f/10", phase.Title(), report.Average(scores)))
		}
	}

	return strings.NewReplacer(
		"{{INTERVIEWER}}", interviewer,
		"{{CANDIDATE}}", s.CandidateName,
		"{{SCORE}}", fmt.Sprintf("%.1f", summary.Average),
		"{{COUNT}}", fmt.Sprintf("%d", summary.QuestionCount),
		"{{PHASE_SCORES}}", strings.Join(phases, ", "),
		"{{CONVERSATION}}", strings.TrimSpace(conversation.String()),
	).Replace(reportTemplate)
}

func buildFollowUpPrompt(interviewer string, q *interview.Question, answer string, phase interview.Phase) string {
	question := ""
	if q != nil {
		question = q.Text
	}

	return strings.NewReplacer(
		"{{INTERVIEWER}}", interviewer,
		"{{QUESTION}}", question,
		"{{ANSWER}}", answer,
		"{{PHASE}}", string(phase),
	).Replace(followUpTemplate)
}
