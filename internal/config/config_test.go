package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("expected defaults (-want +got):\n%s", diff)
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
prompt: "dj> "
policy: Cut-At-Cursor
interrupt: abort
interrupt_exit_code: 101
history:
  backend: bolt
  path: /tmp/dj.bolt
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Default()
	want.Prompt = "dj> "
	want.Policy = PolicyCutAtCursor
	want.Interrupt = InterruptAbort
	want.InterruptExitCode = 101
	want.History.Backend = "bolt"
	want.History.Path = "/tmp/dj.bolt"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []string{
		"max_width: 0",
		"margin: 50",
		"policy: sometimes",
		"interrupt: ignore",
		"history:\n  backend: redis",
		"history:\n  limit: -1",
		"log_level: loud",
		"prompt: [unterminated",
	}
	for _, content := range tests {
		if _, err := Load(writeConfig(t, content)); err == nil {
			t.Errorf("Load(%q): expected error", content)
		}
	}
}
