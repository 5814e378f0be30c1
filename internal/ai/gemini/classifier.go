package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const classifyPrompt = `Classify the candidate's message into exactly one of these labels: %s.
Reply with JSON only: {"label": "<one of the labels>"}.

Message:
%s`

// Classify asks the model to pick one of labels for text.
func (g *Generator) Classify(ctx context.Context, text string, labels []string) (string, error) {
	if len(labels) == 0 {
		return "", errors.New("at least one label is required")
	}

	raw, err := g.generate(ctx, fmt.Sprintf(classifyPrompt, strings.Join(labels, ", "), strings.TrimSpace(text)))
	if err != nil {
		return "", err
	}

	return parseLabel(raw)
}

// parseLabel accepts either the requested JSON object or a bare label.
func parseLabel(raw string) (string, error) {
	cleaned := stripFences(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err == nil {
		label, _ := data["label"].(string)
		label = strings.TrimSpace(label)
		if label == "" {
			return "", errors.New("gemini response has no label")
		}
		return label, nil
	}

	label := strings.Trim(strings.TrimSpace(cleaned), `"'.`)
	if label == "" || strings.ContainsAny(label, "{}\n") {
		return "", fmt.Errorf("unexpected classification response: %q", raw)
	}
	return label, nil
}
