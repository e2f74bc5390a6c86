package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/valpere/reword/internal/provider"
	"github.com/valpere/reword/internal/store"
)

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestLoad_Defaults(t *testing.T) {
	home := isolateHome(t)

	s, err := Load(New(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Claude.Endpoint != provider.DefaultClaudeEndpoint {
		t.Errorf("unexpected claude endpoint %q", s.Claude.Endpoint)
	}
	if s.OpenAI.Model != provider.DefaultOpenAIModel {
		t.Errorf("unexpected openai model %q", s.OpenAI.Model)
	}
	if s.MaxTokens != 1000 {
		t.Errorf("expected max_tokens 1000, got %d", s.MaxTokens)
	}
	if s.Timeout != 2*time.Minute {
		t.Errorf("expected 2m timeout, got %s", s.Timeout)
	}
	if s.Relay.Prefix != "" {
		t.Errorf("expected no relay by default, got %q", s.Relay.Prefix)
	}
	if s.Store.Driver != store.DriverSQLite {
		t.Errorf("unexpected store driver %q", s.Store.Driver)
	}
	if want := filepath.Join(home, ".config", "reword", "settings.db"); s.Store.Path != want {
		t.Errorf("expected store path %q, got %q", want, s.Store.Path)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	isolateHome(t)

	path := filepath.Join(t.TempDir(), "reword.yaml")
	content := `
relay:
  prefix: "https://relay.example/?"
claude:
  model: claude-test
timeout: 15s
store:
  driver: file
  path: /tmp/reword-test.json
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	s, err := Load(New(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Relay.Prefix != "https://relay.example/?" {
		t.Errorf("unexpected relay prefix %q", s.Relay.Prefix)
	}
	if s.Claude.Model != "claude-test" {
		t.Errorf("unexpected claude model %q", s.Claude.Model)
	}
	if s.Claude.APIVersion != provider.DefaultClaudeAPIVersion {
		t.Errorf("unset keys should keep defaults, got %q", s.Claude.APIVersion)
	}
	if s.Timeout != 15*time.Second {
		t.Errorf("expected 15s timeout, got %s", s.Timeout)
	}
	if s.Store.Driver != store.DriverFile || s.Store.Path != "/tmp/reword-test.json" {
		t.Errorf("unexpected store settings %+v", s.Store)
	}
	if s.Log.Level != "debug" {
		t.Errorf("unexpected log level %q", s.Log.Level)
	}
}

func TestLoad_DefaultPathIsRead(t *testing.T) {
	home := isolateHome(t)

	dir := filepath.Join(home, ".config", "reword")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("openai:\n  model: gpt-test\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := Load(New(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.OpenAI.Model != "gpt-test" {
		t.Errorf("expected model from default path, got %q", s.OpenAI.Model)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolateHome(t)

	_, err := Load(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	isolateHome(t)
	t.Setenv("REWORD_CLAUDE_MODEL", "claude-env")
	t.Setenv("REWORD_TIMEOUT", "0s")
	t.Setenv("REWORD_RELAY_PREFIX", "https://env-relay/?u=")

	s, err := Load(New(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Claude.Model != "claude-env" {
		t.Errorf("expected env model, got %q", s.Claude.Model)
	}
	if s.Timeout != 0 {
		t.Errorf("expected timeout disabled, got %s", s.Timeout)
	}
	if s.Relay.Prefix != "https://env-relay/?u=" {
		t.Errorf("expected env relay, got %q", s.Relay.Prefix)
	}
}

func TestSettings_Validate(t *testing.T) {
	isolateHome(t)

	base := func() *Settings {
		s, err := Load(New(), "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return s
	}

	tests := []struct {
		name   string
		mutate func(s *Settings)
		want   string
	}{
		{"bad driver", func(s *Settings) { s.Store.Driver = "redis" }, "store.driver"},
		{"missing path", func(s *Settings) { s.Store.Path = "" }, "store.path"},
		{"bad level", func(s *Settings) { s.Log.Level = "loud" }, "log.level"},
		{"zero tokens", func(s *Settings) { s.MaxTokens = 0 }, "max_tokens"},
		{"negative timeout", func(s *Settings) { s.Timeout = -time.Second }, "timeout"},
		{"empty endpoint", func(s *Settings) { s.OpenAI.Endpoint = "" }, "endpoints"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			tt.mutate(s)
			err := s.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}

	memory := base()
	memory.Store.Driver = store.DriverMemory
	memory.Store.Path = ""
	if err := memory.Validate(); err != nil {
		t.Errorf("memory store needs no path: %v", err)
	}

	var nilSettings *Settings
	if err := nilSettings.Validate(); err == nil {
		t.Error("expected error for nil settings")
	}
}

func TestExpandPath(t *testing.T) {
	home := isolateHome(t)

	if got := expandPath("~/x/y"); got != filepath.Join(home, "x", "y") {
		t.Errorf("unexpected expansion %q", got)
	}
	if got := expandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("absolute path should be unchanged, got %q", got)
	}
}
