package interviewer

import (
	"context"
	"strings"
	"unicode"

	"github.com/spigell/excel-interviewer/internal/interview"
)

const (
	minFollowUpLength = 10
	shortAnswerLength = 10

	labelNervous = "nervous"
)

var moodLabels = []string{labelNervous, "confident", "neutral"}

const (
	nervousFollowUp  = "I completely understand! It's totally normal to feel nervous in interviews. Don't worry, we'll take this step by step. Let's start with some basic Excel questions to get you comfortable."
	greetingFollowUp = "Great to meet you! Let's dive right into some Excel questions. I'll start with some basics and we'll work our way up."
	shortFollowUp    = "No worries! Let's continue with the Excel questions. Take your time with each one."
	defaultFollowUp  = "That's interesting! Let's continue with the next question."
)

var phaseFollowUps = map[interview.Phase]string{
	interview.PhaseGreeting:        "Perfect! Let's start with some Excel questions. I'll begin with the basics.",
	interview.PhaseWarmup:          "Good! Can you walk me through how you would approach that?",
	interview.PhaseCoreSkills:      "Excellent! What challenges have you faced with that?",
	interview.PhaseScenarioBased:   "That's a great approach! How would you handle edge cases?",
	interview.PhaseTroubleshooting: "Good thinking! What would you do if that didn't work?",
}

// Acknowledge phrases a short reaction to the candidate's answer. It is shown to the
// candidate and never recorded in the transcript.
func (d *Driver) Acknowledge(ctx context.Context, q *interview.Question, answer string, phase interview.Phase) string {
	if text, ok := d.assistant.TryEnrich(ctx, buildFollowUpPrompt(d.interviewer, q, answer, phase)); ok && len(text) > minFollowUpLength {
		return text
	}

	if label, ok := d.assistant.TryClassify(ctx, answer, moodLabels); ok && label == labelNervous {
		return nervousFollowUp
	}

	return FollowUp(answer, phase)
}

// FollowUp is the deterministic reaction used when no assistant text is available.
func FollowUp(answer string, phase interview.Phase) string {
	lower := strings.ToLower(answer)
	if strings.Contains(lower, "nervous") || strings.Contains(lower, "anxious") {
		return nervousFollowUp
	}

	if hasWord(lower, "hello", "hi") {
		return greetingFollowUp
	}

	if len(strings.TrimSpace(answer)) < shortAnswerLength {
		return shortFollowUp
	}

	if text, ok := phaseFollowUps[phase]; ok {
		return text
	}
	return defaultFollowUp
}

func hasWord(text string, words ...string) bool {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, field := range fields {
		for _, w := range words {
			if field == w {
				return true
			}
		}
	}
	return false
}
