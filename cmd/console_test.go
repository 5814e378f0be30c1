package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/manifoldco/promptui"
	"go.uber.org/zap"

	"github.com/spigell/excel-interviewer/internal/interview"
	"github.com/spigell/excel-interviewer/internal/interviewer"
	"github.com/spigell/excel-interviewer/internal/questions"
	"github.com/spigell/excel-interviewer/internal/scoring"
)

func scripted(lines ...string) func(string) (string, error) {
	return func(string) (string, error) {
		if len(lines) == 0 {
			return "", promptui.ErrEOF
		}
		line := lines[0]
		lines = lines[1:]
		return line, nil
	}
}

func newConsole(t *testing.T, read func(string) (string, error)) (*console, *bytes.Buffer) {
	t.Helper()

	driver, err := interviewer.New(interviewer.Config{}, interviewer.Deps{
		Bank:   questions.Fallback(),
		Scorer: scoring.New(zap.NewNop()),
	})
	if err != nil {
		t.Fatalf("new driver: %v", err)
	}

	out := &bytes.Buffer{}
	return &console{
		driver: driver,
		out:    out,
		read:   read,
		logger: zap.NewNop(),
	}, out
}

func TestConsoleInterview(t *testing.T) {
	c, out := newConsole(t, scripted(
		"/help",
		"Yes, I'm ready",
		"/status",
		"I have used Excel for five years for budgeting and reports.",
		"",
		"VLOOKUP takes a lookup value, a table array and a column index. For example =VLOOKUP(A2,B:D,3,FALSE).",
		"I would use a pivot table to sum sales by customer and then sort descending.",
		"Check for extra spaces, data types and whether the lookup value exists.",
	))

	if err := c.interview(context.Background(), "Alex"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !c.session.Completed() {
		t.Fatalf("expected a completed session, got phase %s", c.session.Phase)
	}

	text := out.String()
	for _, want := range []string{
		"Hello Alex!",
		"Commands:",
		"Phase: Warmup",
		"Please type an answer",
		"How would you use VLOOKUP",
		"Interview Evaluation",
		"**Interview Complete!**",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output:\n%s", want, text)
		}
	}

	if strings.Contains(text, "Sarah Chen: Yes, I'm ready") {
		t.Fatalf("candidate answers must not be echoed")
	}
}

func TestConsoleEndCommand(t *testing.T) {
	c, out := newConsole(t, scripted("Yes", "/end"))

	err := c.interview(context.Background(), "Alex")
	if !errors.Is(err, errExit) {
		t.Fatalf("expected errExit, got %v", err)
	}
	if !c.session.Ended() {
		t.Fatalf("expected the session to be ended")
	}
	if c.session.Completed() {
		t.Fatalf("ended session must not be completed")
	}
	if !strings.Contains(out.String(), "Phase: Warmup") {
		t.Fatalf("expected a status line on exit:\n%s", out.String())
	}
}

func TestConsoleInterrupt(t *testing.T) {
	c, _ := newConsole(t, func(string) (string, error) {
		return "", promptui.ErrInterrupt
	})

	if err := c.interview(context.Background(), "Alex"); !errors.Is(err, errExit) {
		t.Fatalf("expected errExit, got %v", err)
	}
	if !c.session.Ended() {
		t.Fatalf("expected the session to be ended")
	}
}

func TestConsoleReadError(t *testing.T) {
	boom := errors.New("terminal gone")
	c, _ := newConsole(t, func(string) (string, error) { return "", boom })

	if err := c.interview(context.Background(), "Alex"); !errors.Is(err, boom) {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestConsoleUnknownCommand(t *testing.T) {
	c, out := newConsole(t, scripted("/nope", "/end"))

	if err := c.interview(context.Background(), "Alex"); !errors.Is(err, errExit) {
		t.Fatalf("expected errExit, got %v", err)
	}
	if !strings.Contains(out.String(), `Unknown command "/nope"`) {
		t.Fatalf("expected unknown command notice:\n%s", out.String())
	}
	if len(c.session.Transcript) != 1 {
		t.Fatalf("commands must not touch the transcript, got %d messages", len(c.session.Transcript))
	}
}

func TestConsoleHandleAction(t *testing.T) {
	c, out := newConsole(t, scripted("Yes", "a", "b", "c", "d"))
	if err := c.interview(context.Background(), "Alex"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out.Reset()

	if err := c.handleAction(PromptShowTranscript); err != nil {
		t.Fatalf("show transcript: %v", err)
	}
	transcript := out.String()
	if !strings.Contains(transcript, "You: Yes") || !strings.Contains(transcript, "score ") {
		t.Fatalf("unexpected transcript:\n%s", transcript)
	}

	if err := c.handleAction("Dance"); err == nil {
		t.Fatalf("expected an error for an unknown action")
	}

	if err := c.handleAction(PromptExit); !errors.Is(err, errExit) {
		t.Fatalf("expected errExit, got %v", err)
	}
	if !c.session.Ended() {
		t.Fatalf("exit must end the session")
	}
}

func TestConsolePrintsReportOnce(t *testing.T) {
	c, out := newConsole(t, scripted("Yes", "a", "b", "c", "d"))
	if err := c.interview(context.Background(), "Alex"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n := strings.Count(out.String(), "Interview Evaluation"); n != 1 {
		t.Fatalf("expected the report once, got %d", n)
	}
	report, ok := c.driver.Report(c.session)
	if !ok || !strings.Contains(out.String(), report) {
		t.Fatalf("expected the report in the output")
	}
	if last := c.session.Transcript[len(c.session.Transcript)-1]; last.Phase != interview.PhaseWrapup {
		t.Fatalf("expected the wrapup message last, got %s", last.Phase)
	}
}

func TestPrintBank(t *testing.T) {
	out := &bytes.Buffer{}
	printBank(out, questions.Fallback())

	text := out.String()
	if !strings.HasPrefix(text, "Source: built-in (4 questions)\n") {
		t.Fatalf("unexpected header:\n%s", text)
	}
	for _, want := range []string{"\nWarmup\n", "\nCore Skills\n", "[c1] How would you use VLOOKUP", "(debugging)"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in:\n%s", want, text)
		}
	}
	if strings.Index(text, "Scenario Based") > strings.Index(text, "Troubleshooting") {
		t.Fatalf("phases must be printed in interview order")
	}
}

func TestVersionCommand(t *testing.T) {
	out := &bytes.Buffer{}
	versionCmd.SetOut(out)
	defer versionCmd.SetOut(nil)

	versionCmd.Run(versionCmd, nil)

	if got := out.String(); got != "excel-interviewer unknown\n" {
		t.Fatalf("unexpected version output %q", got)
	}
}

func TestConsoleDump(t *testing.T) {
	c, out := newConsole(t, scripted("Yes", "/dump", "/end"))

	if err := c.interview(context.Background(), "Alex"); !errors.Is(err, errExit) {
		t.Fatalf("expected errExit, got %v", err)
	}

	_, rest, ok := strings.Cut(out.String(), "Transcript saved to ")
	if !ok {
		t.Fatalf("expected a dump notice:\n%s", out.String())
	}
	filename := strings.TrimSpace(strings.SplitN(rest, "\n", 2)[0])
	defer os.Remove(filename)

	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("read dump: %v", err)
	}

	var dumped interview.Session
	if err := json.Unmarshal(data, &dumped); err != nil {
		t.Fatalf("decode dump: %v", err)
	}
	if dumped.ID != c.session.ID || dumped.CandidateName != "Alex" {
		t.Fatalf("unexpected dump: %+v", dumped)
	}
	if dumped.Pending == nil || dumped.Pending.ID != "w1" {
		t.Fatalf("expected pending w1 in dump, got %+v", dumped.Pending)
	}
	if len(dumped.Transcript) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(dumped.Transcript))
	}
}
