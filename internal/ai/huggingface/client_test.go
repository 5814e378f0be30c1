package huggingface

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
)

func newTestClient(url string) *Client {
	c := New(zap.NewNop(), "hf_test")
	c.GenerationURL = url + "/models/microsoft/DialoGPT-medium"
	c.ClassificationURL = url + "/models/facebook/bart-large-mnli"
	return c
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		gzip bool
	}{
		{name: "list response", body: `[{"generated_text": " Nice answer! "}]`},
		{name: "object response", body: `{"generated_text": "Nice answer!"}`},
		{name: "gzip response", body: `[{"generated_text": "Nice answer!"}]`, gzip: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var payload map[string]any
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Authorization") != "Bearer hf_test" {
					t.Errorf("unexpected authorization header: %q", r.Header.Get("Authorization"))
				}
				if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
					t.Errorf("decode payload: %v", err)
				}
				if tt.gzip {
					w.Header().Set("Content-Encoding", "gzip")
					gz := gzip.NewWriter(w)
					defer gz.Close()
					_, _ = gz.Write([]byte(tt.body))
					return
				}
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			got, err := newTestClient(srv.URL).Generate(context.Background(), "Say something nice")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != "Nice answer!" {
				t.Fatalf("unexpected text: %q", got)
			}

			if payload["inputs"] != "Say something nice" {
				t.Fatalf("unexpected inputs: %v", payload["inputs"])
			}
			params, _ := payload["parameters"].(map[string]any)
			if params["max_length"] != float64(200) || params["temperature"] != 0.7 {
				t.Fatalf("unexpected parameters: %v", params)
			}
		})
	}
}

func TestGenerateRetriesWhileModelLoads(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error": "Model is currently loading", "estimated_time": 0.01}`))
			return
		}
		_, _ = w.Write([]byte(`[{"generated_text": "ready"}]`))
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ready" || calls.Load() != 2 {
		t.Fatalf("expected retry to succeed, got %q after %d calls", got, calls.Load())
	}
}

func TestGenerateErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error": "Invalid token"}`, wantErr: "Invalid token"},
		{name: "unavailable without estimate", status: http.StatusServiceUnavailable, body: `{"error": "down"}`, wantErr: "down"},
		{name: "empty text", status: http.StatusOK, body: `[{"generated_text": ""}]`, wantErr: "empty text"},
		{name: "not json", status: http.StatusOK, body: `<html>`, wantErr: "parsing inference response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL).Generate(context.Background(), "prompt")
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	var payload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/facebook/bart-large-mnli") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		_, _ = w.Write([]byte(`{"sequence": "I'm nervous", "labels": ["confident", "nervous"], "scores": [0.2, 0.8]}`))
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).Classify(context.Background(), "I'm nervous", []string{"nervous", "confident"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "nervous" {
		t.Fatalf("expected highest scoring label, got %q", got)
	}

	params, _ := payload["parameters"].(map[string]any)
	labels, _ := params["candidate_labels"].([]any)
	if len(labels) != 2 {
		t.Fatalf("expected candidate labels in payload, got %v", params)
	}
}

func TestModel(t *testing.T) {
	c := New(nil, "")
	if got := c.Model(); got != "microsoft/DialoGPT-medium" {
		t.Fatalf("unexpected model: %q", got)
	}
	if c.Name() != "huggingface" {
		t.Fatalf("unexpected name: %q", c.Name())
	}
}
