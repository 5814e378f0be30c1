package interview

import (
	"testing"
	"time"
)

func TestPhaseSuccessors(t *testing.T) {
	phases := Phases()
	for i, phase := range phases[:len(phases)-1] {
		if got := phase.Next(); got != phases[i+1] {
			t.Fatalf("expected %s after %s, got %s", phases[i+1], phase, got)
		}
	}

	if got := PhaseWrapup.Next(); got != PhaseWrapup {
		t.Fatalf("wrapup must be terminal, got %s", got)
	}
}

func TestParsePhase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		expect  Phase
		wantErr bool
	}{
		{input: "warmup", expect: PhaseWarmup},
		{input: "core", expect: PhaseCoreSkills},
		{input: "core_skills", expect: PhaseCoreSkills},
		{input: " Scenario ", expect: PhaseScenarioBased},
		{input: "troubleshoot", expect: PhaseTroubleshooting},
		{input: "feedback", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParsePhase(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expect {
				t.Fatalf("expected %s, got %s", tt.expect, got)
			}
		})
	}
}

func TestPhaseTitle(t *testing.T) {
	if got := PhaseCoreSkills.Title(); got != "Core Skills" {
		t.Fatalf("unexpected title: %q", got)
	}
	if got := PhaseWarmup.Title(); got != "Warmup" {
		t.Fatalf("unexpected title: %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  time.Duration
		expect string
	}{
		{name: "zero", input: 0, expect: "0:00"},
		{name: "seconds", input: 7 * time.Second, expect: "0:07"},
		{name: "minutes", input: 12*time.Minute + 5*time.Second, expect: "12:05"},
		{name: "hours", input: time.Hour + 2*time.Minute + 3*time.Second, expect: "1:02:03"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatDuration(tt.input); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestSessionCandidateAnswers(t *testing.T) {
	s := NewSession("Ada", time.Unix(0, 0))
	s.Append(Message{Role: RoleInterviewer, Text: "hello"})
	s.Append(Message{Role: RoleCandidate, Text: "one"})
	s.Append(Message{Role: RoleInterviewer, Text: "q", QuestionID: "w1"})
	s.Append(Message{Role: RoleCandidate, Text: "two"})
	s.Append(Message{Role: RoleCandidate, Text: "three"})

	got := s.CandidateAnswers(2)
	if len(got) != 2 || got[0] != "two" || got[1] != "three" {
		t.Fatalf("unexpected answers: %v", got)
	}

	if s.ID == "" {
		t.Fatalf("expected session id to be generated")
	}
}
