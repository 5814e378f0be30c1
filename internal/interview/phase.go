package interview

import (
	"fmt"
	"strings"
)

// Phase is a named stage of the interview.
type Phase string

const (
	PhaseGreeting        Phase = "greeting"
	PhaseWarmup          Phase = "warmup"
	PhaseCoreSkills      Phase = "core_skills"
	PhaseScenarioBased   Phase = "scenario_based"
	PhaseTroubleshooting Phase = "troubleshooting"
	PhaseWrapup          Phase = "wrapup"
)

var phaseOrder = []Phase{
	PhaseGreeting,
	PhaseWarmup,
	PhaseCoreSkills,
	PhaseScenarioBased,
	PhaseTroubleshooting,
	PhaseWrapup,
}

// successors maps every phase to the one that follows it. Wrapup is terminal.
var successors = map[Phase]Phase{
	PhaseGreeting:        PhaseWarmup,
	PhaseWarmup:          PhaseCoreSkills,
	PhaseCoreSkills:      PhaseScenarioBased,
	PhaseScenarioBased:   PhaseTroubleshooting,
	PhaseTroubleshooting: PhaseWrapup,
	PhaseWrapup:          PhaseWrapup,
}

// Phases returns all phases in interview order.
func Phases() []Phase {
	out := make([]Phase, len(phaseOrder))
	copy(out, phaseOrder)
	return out
}

// QuestionPhases returns the phases that carry bank questions.
func QuestionPhases() []Phase {
	return []Phase{PhaseWarmup, PhaseCoreSkills, PhaseScenarioBased, PhaseTroubleshooting}
}

// Next returns the successor phase. Unknown phases go straight to wrapup.
func (p Phase) Next() Phase {
	if next, ok := successors[p]; ok {
		return next
	}
	return PhaseWrapup
}

// Index is the position of the phase in interview order, or -1 for unknown phases.
func (p Phase) Index() int {
	for i, phase := range phaseOrder {
		if phase == p {
			return i
		}
	}
	return -1
}

func (p Phase) IsValid() bool {
	return p.Index() >= 0
}

// Title renders the phase for humans: "core_skills" becomes "Core Skills".
func (p Phase) Title() string {
	words := strings.Split(string(p), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

func (p Phase) String() string {
	return string(p)
}

// ParsePhase accepts both phase names and the short section tags used by question documents.
func ParsePhase(s string) (Phase, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "greeting":
		return PhaseGreeting, nil
	case "warmup":
		return PhaseWarmup, nil
	case "core", "core_skills":
		return PhaseCoreSkills, nil
	case "scenario", "scenario_based":
		return PhaseScenarioBased, nil
	case "troubleshoot", "troubleshooting":
		return PhaseTroubleshooting, nil
	case "wrapup":
		return PhaseWrapup, nil
	default:
		return "", fmt.Errorf("unknown phase: %q", s)
	}
}
