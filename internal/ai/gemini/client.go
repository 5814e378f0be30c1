package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/excel-interviewer/internal/utils"
)

const (
	providerName = "gemini"
	defaultModel = "gemini-2.5-flash"

	defaultMaxRetries = 2
	maxRetryDelay     = 20 * time.Second
)

var (
	wait = utils.WaitFor

	retryDelayPattern = regexp.MustCompile(`(?i)retry (?:after|in) ([0-9]+(?:\.[0-9]+)?)\s*s`)
)

// modelClient is the part of genai.Models the generator needs.
type modelClient interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Options tune a Generator.
type Options struct {
	Model             string
	SystemInstruction string
	Temperature       float32
	MaxRetries        int
}

// Generator wraps the Google GenAI client to provide simple prompt-based interactions.
type Generator struct {
	models      modelClient
	model       string
	system      string
	temperature float32
	maxRetries  int
	logger      *zap.Logger
}

// NewGenerator creates a Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey string, opts Options, logger *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newGenerator(client.Models, opts, logger), nil
}

func newGenerator(models modelClient, opts Options, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}

	retries := opts.MaxRetries
	if retries <= 0 {
		retries = defaultMaxRetries
	}

	return &Generator{
		models:      models,
		model:       model,
		system:      strings.TrimSpace(opts.SystemInstruction),
		temperature: opts.Temperature,
		maxRetries:  retries,
		logger:      logger,
	}
}

func (g *Generator) Name() string { return providerName }

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

// Generate sends the prompt to Gemini and returns the textual answer without markdown fences.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := g.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return stripFences(out), nil
}

func (g *Generator) generate(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.models == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	var lastErr error
	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), g.config())
		if err == nil {
			return responseText(resp)
		}
		lastErr = err

		delay, retry := retryable(err, attempt)
		if !retry || attempt == g.maxRetries {
			break
		}

		g.logger.Debug("gemini request failed; retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if err := wait(ctx, delay); err != nil {
			return "", err
		}
	}

	return "", fmt.Errorf("generate content: %w", lastErr)
}

func (g *Generator) config() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if g.system != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: g.system}}}
	}
	if g.temperature > 0 {
		temperature := g.temperature
		cfg.Temperature = &temperature
	}
	return cfg
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("gemini api returned no response")
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

// retryable reports whether err is temporary and how long to wait before the next attempt.
func retryable(err error, attempt int) (time.Duration, bool) {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return 0, false
	}

	backoff := time.Duration(attempt) * time.Second

	switch apiErr.Code {
	case http.StatusTooManyRequests:
		if delay, ok := parseRetryDelay(apiErr.Message); ok {
			if delay > maxRetryDelay {
				return 0, false
			}
			return delay, true
		}
		return backoff, true
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return backoff, true
	default:
		return 0, false
	}
}

func parseRetryDelay(message string) (time.Duration, bool) {
	match := retryDelayPattern.FindStringSubmatch(message)
	if len(match) != 2 {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}
	return time.Duration(seconds * float64(time.Second)), true
}

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}

	if nl := strings.Index(raw, "\n"); nl != -1 {
		raw = raw[nl+1:]
	} else {
		raw = strings.TrimPrefix(raw, "```")
	}
	if idx := strings.LastIndex(raw, "```"); idx != -1 {
		raw = raw[:idx]
	}
	return strings.TrimSpace(raw)
}
