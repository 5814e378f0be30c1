package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"go.uber.org/zap"

	"github.com/spigell/excel-interviewer/internal/interview"
	"github.com/spigell/excel-interviewer/internal/interviewer"
)

const (
	commandStatus     = "/status"
	commandTranscript = "/transcript"
	commandDump       = "/dump"
	commandEnd        = "/end"
	commandHelp       = "/help"

	answerLabel = "You"
)

const helpText = `Commands:
  /status      show the current phase and elapsed time
  /transcript  print the conversation so far
  /dump        write the session to a temporary JSON file
  /end         end the interview now
  /help        show this help
`

// console runs one interview session against the terminal.
type console struct {
	driver  *interviewer.Driver
	session *interview.Session
	out     io.Writer
	read    func(label string) (string, error)
	logger  *zap.Logger
}

// interview greets the candidate and reads answers until wrapup.
// errExit is returned when the candidate ends the session early.
func (c *console) interview(ctx context.Context, name string) error {
	s, err := c.driver.Start(name)
	if err != nil {
		return err
	}
	c.session = s
	c.printFrom(0)
	fmt.Fprint(c.out, "Type /help for commands.\n\n")

	for !s.Completed() {
		line, err := c.read(answerLabel)
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, io.EOF) {
				c.end()
				return errExit
			}
			return err
		}

		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "/") {
			if err := c.command(line); err != nil {
				return err
			}
			continue
		}

		if err := c.turn(ctx, line); err != nil {
			return err
		}
	}

	return nil
}

func (c *console) turn(ctx context.Context, answer string) error {
	s := c.session
	answered := s.Pending
	phase := s.Phase
	before := len(s.Transcript)

	if _, err := c.driver.AdvanceTurn(ctx, s, answer); err != nil {
		if errors.Is(err, interviewer.ErrEmptyAnswer) {
			fmt.Fprint(c.out, "Please type an answer, or /help for commands.\n")
			return nil
		}
		return err
	}

	if !s.Completed() {
		fmt.Fprintf(c.out, "\n%s: %s\n", c.driver.Interviewer(), c.driver.Acknowledge(ctx, answered, answer, phase))
	}

	// the candidate's own message is not echoed
	c.printFrom(before + 1)
	return nil
}

func (c *console) command(line string) error {
	switch strings.ToLower(strings.Fields(line)[0]) {
	case commandStatus:
		c.printStatus()
	case commandTranscript:
		c.printTranscript()
	case commandDump:
		return c.dump()
	case commandEnd:
		c.end()
		c.printStatus()
		return errExit
	case commandHelp:
		fmt.Fprint(c.out, helpText)
	default:
		fmt.Fprintf(c.out, "Unknown command %q.\n%s", line, helpText)
	}
	return nil
}

// handleAction serves the menu shown after the final report.
func (c *console) handleAction(action string) error {
	switch action {
	case PromptShowTranscript:
		c.printTranscript()
		return nil
	case PromptDumpTranscript:
		return c.dump()
	case PromptExit:
		c.end()
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func (c *console) end() {
	if c.session != nil {
		c.driver.End(c.session)
	}
}

func (c *console) dump() error {
	filename, err := c.session.DumpToTmpFile()
	if err != nil {
		return fmt.Errorf("dump transcript to file: %w", err)
	}
	c.logger.Info("dumping transcript to file", zap.String("filename", filename))
	fmt.Fprintf(c.out, "Transcript saved to %s\n", filename)
	return nil
}

func (c *console) printFrom(index int) {
	for _, m := range c.session.Transcript[index:] {
		if m.Role != interview.RoleInterviewer {
			continue
		}
		if m.Phase == interview.PhaseWrapup {
			fmt.Fprintf(c.out, "\n---\nInterview Evaluation\nFrom: %s (Interviewer)\n\n%s\n---\n\n", c.driver.Interviewer(), m.Text)
			continue
		}
		fmt.Fprintf(c.out, "\n%s: %s\n\n", c.driver.Interviewer(), m.Text)
	}
}

func (c *console) printStatus() {
	st := c.driver.Status(c.session)
	fmt.Fprintf(c.out, "Phase: %s | Elapsed: %s | Questions: %d/%d | Answered: %d\n",
		st.Phase.Title(), st.Duration, st.QuestionsAsked, st.Ceiling, st.Answered)
}

func (c *console) printTranscript() {
	for _, m := range c.session.Transcript {
		speaker := "You"
		if m.Role == interview.RoleInterviewer {
			speaker = c.driver.Interviewer() + " (Interviewer)"
		}
		fmt.Fprintf(c.out, "[%s] %s: %s\n", m.Timestamp.Format("15:04:05"), speaker, m.Text)
		if m.Evaluation != nil && c.session.Completed() {
			fmt.Fprintf(c.out, "    score %.1f/10: %s\n", m.Evaluation.Score, m.Evaluation.Reasoning)
		}
	}
}
