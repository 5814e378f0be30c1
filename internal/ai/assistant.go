package ai

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/excel-interviewer/internal/logger"
	"github.com/spigell/excel-interviewer/internal/utils"
)

const (
	defaultTimeout      = 10 * time.Second
	defaultMaxLogLength = 200
)

// Assistant optionally enriches interviewer text. A false result means the caller
// uses its deterministic text instead.
type Assistant interface {
	TryEnrich(ctx context.Context, prompt string) (string, bool)
	TryClassify(ctx context.Context, text string, labels []string) (string, bool)
}

// Provider is a remote text model.
type Provider interface {
	Name() string
	Model() string
	Generate(ctx context.Context, prompt string) (string, error)
	Classify(ctx context.Context, text string, labels []string) (string, error)
}

// Disabled never enriches anything.
type Disabled struct{}

func (Disabled) TryEnrich(context.Context, string) (string, bool) { return "", false }

func (Disabled) TryClassify(context.Context, string, []string) (string, bool) { return "", false }

// BestEffort turns provider failures into a false result and a warning.
type BestEffort struct {
	provider  Provider
	timeout   time.Duration
	logger    *zap.Logger
	maxLogLen int
}

func NewBestEffort(provider Provider, log *zap.Logger, timeout time.Duration, maxLogLength int) *BestEffort {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &BestEffort{
		provider:  provider,
		timeout:   timeout,
		logger:    logger.WithCommonFields(log, provider.Name(), provider.Model()),
		maxLogLen: maxLogLength,
	}
}

func (b *BestEffort) TryEnrich(ctx context.Context, prompt string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	b.logger.Debug("enrichment request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, b.maxLogLen)),
	)

	out, err := b.provider.Generate(ctx, prompt)
	if err != nil {
		b.logger.Warn("enrichment failed; using built-in text", zap.Error(err))
		return "", false
	}

	out = strings.TrimSpace(out)
	b.logger.Debug("enrichment response",
		zap.Int("response_length", utf8.RuneCountInString(out)),
		zap.String("response_preview", utils.TruncateForLog(out, b.maxLogLen)),
	)

	return out, out != ""
}

func (b *BestEffort) TryClassify(ctx context.Context, text string, labels []string) (string, bool) {
	if len(labels) == 0 {
		return "", false
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	label, err := b.provider.Classify(ctx, text, labels)
	if err != nil {
		b.logger.Warn("classification failed", zap.Error(err))
		return "", false
	}

	label = strings.TrimSpace(label)
	for _, candidate := range labels {
		if strings.EqualFold(candidate, label) {
			b.logger.Debug("text classified", zap.String("label", candidate))
			return candidate, true
		}
	}

	b.logger.Warn("classifier returned an unknown label", zap.String("label", label))
	return "", false
}
