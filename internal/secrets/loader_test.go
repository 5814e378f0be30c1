package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	keyFile := filepath.Join(dir, "key")
	if err := os.WriteFile(keyFile, []byte("  from-file\n"), 0o600); err != nil {
		t.Fatalf("write key file: %v", err)
	}
	emptyFile := filepath.Join(dir, "empty")
	if err := os.WriteFile(emptyFile, []byte("\n"), 0o600); err != nil {
		t.Fatalf("write empty file: %v", err)
	}

	t.Setenv("INTERVIEWER_TEST_TOKEN", " from-env ")

	tests := []struct {
		name    string
		src     Source
		expect  string
		wantErr string
	}{
		{name: "file wins", src: Source{Name: "token", File: keyFile, Value: "inline", Env: "INTERVIEWER_TEST_TOKEN"}, expect: "from-file"},
		{name: "value before env", src: Source{Name: "token", Value: " inline ", Env: "INTERVIEWER_TEST_TOKEN"}, expect: "inline"},
		{name: "env", src: Source{Name: "token", Env: "INTERVIEWER_TEST_TOKEN"}, expect: "from-env"},
		{name: "empty file", src: Source{Name: "token", File: emptyFile}, wantErr: "is empty"},
		{name: "missing file", src: Source{Name: "token", File: filepath.Join(dir, "absent")}, wantErr: "reading token"},
		{name: "unset env", src: Source{Name: "token", Env: "INTERVIEWER_TEST_UNSET"}, wantErr: "set INTERVIEWER_TEST_UNSET"},
		{name: "nothing", src: Source{}, wantErr: "secret is not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.src)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
