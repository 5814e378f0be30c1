package huggingface

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/excel-interviewer/internal/utils"
)

const (
	DefaultGenerationURL     = "https://api-inference.huggingface.co/models/microsoft/DialoGPT-medium"
	DefaultClassificationURL = "https://api-inference.huggingface.co/models/facebook/bart-large-mnli"

	providerName    = "huggingface"
	userAgent       = "excel-interviewer"
	contentType     = "application/json"
	contentEncoding = "gzip"

	maxLength   = 200
	temperature = 0.7

	// maxLoadingWait caps how long we wait for a cold model before the single retry.
	maxLoadingWait = 20 * time.Second
)

// Client talks to the Hugging Face inference API.
type Client struct {
	token             string
	logger            *zap.Logger
	HTTPClient        *http.Client
	UserAgent         string
	GenerationURL     string
	ClassificationURL string
}

func New(logger *zap.Logger, token string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		token:  token,
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		UserAgent:         userAgent,
		GenerationURL:     DefaultGenerationURL,
		ClassificationURL: DefaultClassificationURL,
	}
}

func (c *Client) Name() string { return providerName }

// Model is the model path of the generation endpoint, e.g. "microsoft/DialoGPT-medium".
func (c *Client) Model() string {
	if idx := strings.Index(c.GenerationURL, "/models/"); idx != -1 {
		return strings.TrimSuffix(c.GenerationURL[idx+len("/models/"):], "/")
	}
	return c.GenerationURL
}

type generated struct {
	GeneratedText string `mapstructure:"generated_text"`
}

type classification struct {
	Labels []string  `mapstructure:"labels"`
	Scores []float64 `mapstructure:"scores"`
}

type apiError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time"`
}

// Generate runs text generation and returns the generated text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"inputs": prompt,
		"parameters": map[string]any{
			"max_length":  maxLength,
			"temperature": temperature,
		},
	}

	raw, err := c.post(ctx, c.GenerationURL, payload)
	if err != nil {
		return "", err
	}

	var out generated
	if err := mapstructure.Decode(first(raw), &out); err != nil {
		return "", fmt.Errorf("decoding generation response: %w", err)
	}

	text := strings.TrimSpace(out.GeneratedText)
	if text == "" {
		return "", errors.New("inference api returned empty text")
	}
	return text, nil
}

// Classify runs zero-shot classification and returns the best scoring label.
func (c *Client) Classify(ctx context.Context, text string, labels []string) (string, error) {
	if len(labels) == 0 {
		return "", errors.New("at least one label is required")
	}

	payload := map[string]any{
		"inputs": text,
		"parameters": map[string]any{
			"candidate_labels": labels,
		},
	}

	raw, err := c.post(ctx, c.ClassificationURL, payload)
	if err != nil {
		return "", err
	}

	var out classification
	if err := mapstructure.Decode(first(raw), &out); err != nil {
		return "", fmt.Errorf("decoding classification response: %w", err)
	}

	if len(out.Labels) == 0 {
		return "", errors.New("inference api returned no labels")
	}

	best := 0
	for i := range out.Scores {
		if i < len(out.Labels) && out.Scores[i] > out.Scores[best] {
			best = i
		}
	}
	return out.Labels[best], nil
}

// first unwraps list responses; the API answers with either an object or a list of objects.
func first(raw any) any {
	if list, ok := raw.([]any); ok {
		if len(list) == 0 {
			return nil
		}
		return list[0]
	}
	return raw
}

func (c *Client) post(ctx context.Context, url string, payload any) (any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	data, status, err := c.do(ctx, url, body)
	if err != nil {
		return nil, err
	}

	if status == http.StatusServiceUnavailable {
		apiErr := parseError(data)
		if apiErr.EstimatedTime <= 0 {
			return nil, fmt.Errorf("bad status: %d: %s", status, apiErr.Error)
		}

		wait := time.Duration(apiErr.EstimatedTime * float64(time.Second))
		if wait > maxLoadingWait {
			wait = maxLoadingWait
		}
		c.logger.Debug("model is loading; waiting before retry",
			zap.String("url", url),
			zap.Duration("wait", wait),
		)
		if err := utils.WaitFor(ctx, wait); err != nil {
			return nil, err
		}

		data, status, err = c.do(ctx, url, body)
		if err != nil {
			return nil, err
		}
	}

	if status != http.StatusOK {
		return nil, fmt.Errorf("bad status: %d: %s", status, parseError(data).Error)
	}

	var result any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parsing inference response: %w", err)
	}
	return result, nil
}

func (c *Client) do(ctx context.Context, url string, body []byte) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, 0, err
	}
	c.setHeaders(req)

	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, 0, err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, 0, err
	}

	return data, resp.StatusCode, nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept-Encoding", contentEncoding)
}

func parseError(data []byte) apiError {
	var e apiError
	if err := json.Unmarshal(data, &e); err != nil || e.Error == "" {
		e.Error = utils.TruncateForLog(string(data), 200)
	}
	return e
}
