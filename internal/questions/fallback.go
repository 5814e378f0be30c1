package questions

import "github.com/spigell/excel-interviewer/internal/interview"

// Fallback returns the built-in question set: one question per questioned phase.
func Fallback() *Bank {
	questions := []interview.Question{
		{
			ID:    "w1",
			Phase: interview.PhaseWarmup,
			Text:  "What's your experience with Excel? How long have you been using it?",
			Type:  "experience",
		},
		{
			ID:    "c1",
			Phase: interview.PhaseCoreSkills,
			Text:  "How would you use VLOOKUP to find data in a table?",
			Type:  "lookup",
		},
		{
			ID:    "s1",
			Phase: interview.PhaseScenarioBased,
			Text:  "You have a dataset with 10,000 rows of sales data. How would you analyze it to find the top 10 customers?",
			Type:  "analysis",
		},
		{
			ID:    "t1",
			Phase: interview.PhaseTroubleshooting,
			Text:  "A VLOOKUP formula is returning #N/A. What could be causing this?",
			Type:  "debugging",
		},
	}

	return newBank(questions, builtinSource, true)
}
