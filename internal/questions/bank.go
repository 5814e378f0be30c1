package questions

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spigell/excel-interviewer/internal/interview"
)

const builtinSource = "built-in"

var errEmptyPhase = errors.New("phase has no questions")

// Bank holds the immutable question set grouped by phase.
type Bank struct {
	byPhase  map[interview.Phase][]interview.Question
	all      []interview.Question
	source   string
	fallback bool
}

type document struct {
	Questions []map[string]any `json:"questions" yaml:"questions"`
}

type entry struct {
	ID       string `mapstructure:"id"`
	Section  string `mapstructure:"section"`
	Question string `mapstructure:"question"`
	Type     string `mapstructure:"type"`
}

// Load reads the question document at path. Any problem with the document is logged
// and the built-in question set is returned instead, so Load never fails.
func Load(path string, logger *zap.Logger) *Bank {
	if logger == nil {
		logger = zap.NewNop()
	}

	path = strings.TrimSpace(path)
	if path == "" {
		logger.Info("questions file is not configured; using built-in questions")
		return Fallback()
	}

	bank, err := load(path, logger)
	if err != nil {
		logger.Warn("question document is unusable; using built-in questions",
			zap.String("path", path),
			zap.Error(err),
		)
		return Fallback()
	}

	logger.Debug("questions loaded",
		zap.String("path", path),
		zap.Int("questions", bank.Len()),
	)

	return bank
}

func load(path string, logger *zap.Logger) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading questions file: %w", err)
	}

	doc, err := parse(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}

	questions := make([]interview.Question, 0, len(doc.Questions))
	for i, raw := range doc.Questions {
		q, err := decodeEntry(raw)
		if err != nil {
			logger.Warn("skipping question entry", zap.Int("index", i), zap.Error(err))
			continue
		}
		questions = append(questions, q)
	}

	bank := newBank(questions, path, false)
	for _, phase := range interview.QuestionPhases() {
		if bank.Count(phase) == 0 {
			return nil, fmt.Errorf("%s: %w", phase, errEmptyPhase)
		}
	}

	return bank, nil
}

func parse(data []byte, ext string) (*document, error) {
	doc := &document{}

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, doc); err != nil {
			return nil, fmt.Errorf("parsing yaml questions: %w", err)
		}
	default:
		if err := json.Unmarshal(data, doc); err != nil {
			return nil, fmt.Errorf("parsing json questions: %w", err)
		}
	}

	return doc, nil
}

func decodeEntry(raw map[string]any) (interview.Question, error) {
	var e entry

	cfg := &mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &e,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return interview.Question{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return interview.Question{}, fmt.Errorf("decoding entry: %w", err)
	}

	e.ID = strings.TrimSpace(e.ID)
	e.Question = strings.TrimSpace(e.Question)
	if e.ID == "" {
		return interview.Question{}, errors.New("question id is empty")
	}
	if e.Question == "" {
		return interview.Question{}, fmt.Errorf("question %q has no text", e.ID)
	}

	section := strings.TrimSpace(e.Section)
	if section == "" {
		section = string(interview.PhaseWarmup)
	}

	phase, err := interview.ParsePhase(section)
	if err != nil {
		return interview.Question{}, fmt.Errorf("question %q: %w", e.ID, err)
	}
	if phase == interview.PhaseGreeting || phase == interview.PhaseWrapup {
		return interview.Question{}, fmt.Errorf("question %q: phase %s does not take questions", e.ID, phase)
	}

	return interview.Question{
		ID:    e.ID,
		Phase: phase,
		Text:  e.Question,
		Type:  strings.TrimSpace(e.Type),
	}, nil
}

func newBank(questions []interview.Question, source string, fallback bool) *Bank {
	b := &Bank{
		byPhase:  make(map[interview.Phase][]interview.Question),
		all:      questions,
		source:   source,
		fallback: fallback,
	}
	for _, q := range questions {
		b.byPhase[q.Phase] = append(b.byPhase[q.Phase], q)
	}
	return b
}

// Count returns how many questions the phase holds.
func (b *Bank) Count(phase interview.Phase) int {
	return len(b.byPhase[phase])
}

// Question returns the question at index within the phase.
func (b *Bank) Question(phase interview.Phase, index int) (interview.Question, bool) {
	list := b.byPhase[phase]
	if index < 0 || index >= len(list) {
		return interview.Question{}, false
	}
	return list[index], true
}

// Phase returns a copy of the questions of the phase in document order.
func (b *Bank) Phase(phase interview.Phase) []interview.Question {
	list := b.byPhase[phase]
	out := make([]interview.Question, len(list))
	copy(out, list)
	return out
}

func (b *Bank) All() []interview.Question {
	out := make([]interview.Question, len(b.all))
	copy(out, b.all)
	return out
}

func (b *Bank) Len() int {
	return len(b.all)
}

// Source is the path the bank was loaded from, or "built-in".
func (b *Bank) Source() string {
	return b.source
}

func (b *Bank) IsFallback() bool {
	return b.fallback
}
