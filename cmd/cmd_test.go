package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/valpere/reword/internal"
	"github.com/valpere/reword/internal/config"
	"github.com/valpere/reword/internal/orchestrator"
	"github.com/valpere/reword/internal/provider"
)

// run executes the root command with args and returns stdout and the error.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)

		inputFile, outputFile, promptInputFile = "", "", ""
		copyResult, resetYes = false, false
		rewriteOverrides, promptOverrides = overrides{}, overrides{}
	})

	err := rootCmd.Execute()
	return out.String(), err
}

// isolate points settings and the store at temporary locations.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("REWORD_STORE_DRIVER", "file")
	t.Setenv("REWORD_STORE_PATH", filepath.Join(home, "config.json"))
	return home
}

func TestRewriteCommand(t *testing.T) {
	isolate(t)

	var gotKey, gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		var body struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Messages) != 1 {
			t.Errorf("unexpected request body: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		gotPrompt = body.Messages[0].Content
		w.Write([]byte(`{"content":[{"type":"text","text":"Fixed the login issue."}]}`))
	}))
	defer server.Close()
	t.Setenv("REWORD_CLAUDE_ENDPOINT", server.URL)

	_, err := run(t, "config", "set", "claude-key", "sk-ant-test")
	require.NoError(t, err)
	_, err = run(t, "config", "set", "style", "Concise")
	require.NoError(t, err)

	out, err := run(t, "rewrite", "fix", "the", "login", "bug")
	require.NoError(t, err)
	require.Equal(t, "Fixed the login issue.\n", out)
	require.Equal(t, "sk-ant-test", gotKey)
	require.Contains(t, gotPrompt, "\"fix the login bug\"")
}

func TestRewriteCommand_ProviderError(t *testing.T) {
	isolate(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()
	t.Setenv("REWORD_CLAUDE_ENDPOINT", server.URL)

	_, err := run(t, "config", "set", "claude-key", "sk-bad")
	require.NoError(t, err)

	_, err = run(t, "rewrite", "hello")
	require.EqualError(t, err, "Claude API error: 401")

	var failure *orchestrator.Failure
	require.ErrorAs(t, err, &failure)
	require.Equal(t, orchestrator.KindProviderStatus, failure.Kind)
}

func TestRewriteCommand_MissingKey(t *testing.T) {
	isolate(t)

	_, err := run(t, "rewrite", "--provider", "openai", "hello")
	require.ErrorIs(t, err, orchestrator.ErrMissingCredential)
	require.Contains(t, err.Error(), "OpenAI")
}

func TestConfigCommands(t *testing.T) {
	isolate(t)

	_, err := run(t, "config", "set", "openai-key", "sk-openai-1234")
	require.NoError(t, err)
	_, err = run(t, "config", "set", "instruction", "Make it a haiku")
	require.NoError(t, err)

	out, err := run(t, "config", "show")
	require.NoError(t, err)
	require.Contains(t, out, "**********1234")
	require.NotContains(t, out, "sk-openai-1234")
	require.Contains(t, out, "Make it a haiku")

	_, err = run(t, "config", "set", "style", "pirate")
	require.Error(t, err)

	_, err = run(t, "config", "unset", "instruction")
	require.NoError(t, err)
	out, err = run(t, "config", "show")
	require.NoError(t, err)
	require.NotContains(t, out, "haiku")

	_, err = run(t, "config", "reset", "--yes")
	require.NoError(t, err)
	out, err = run(t, "config", "show")
	require.NoError(t, err)
	require.NotContains(t, out, "1234")
}

func TestPromptCommand(t *testing.T) {
	isolate(t)

	out, err := run(t, "prompt", "--style", "update", "--instruction", "", "shipped the fix")
	require.NoError(t, err)

	want := "Rewrite the following text"
	require.True(t, strings.HasPrefix(out, want), "unexpected prompt: %q", out)
	require.Contains(t, out, "\"shipped the fix\"")
}

func TestStylesCommand(t *testing.T) {
	isolate(t)

	out, err := run(t, "styles")
	require.NoError(t, err)
	for _, s := range internal.Styles {
		require.Contains(t, out, string(s))
	}
	require.Contains(t, out, "Professional")
}

func TestReadInput(t *testing.T) {
	got, err := readInput([]string{"a", "b"}, "", nil)
	require.NoError(t, err)
	require.Equal(t, "a b", got)

	path := filepath.Join(t.TempDir(), "draft.txt")
	require.NoError(t, os.WriteFile(path, []byte("line one\nline two\n\n"), 0o600))
	got, err = readInput(nil, path, nil)
	require.NoError(t, err)
	require.Equal(t, "line one\nline two", got)

	r, w, err := os.Pipe()
	require.NoError(t, err)
	_, err = w.WriteString("piped text\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())
	defer r.Close()

	got, err = readInput(nil, "", r)
	require.NoError(t, err)
	require.Equal(t, "piped text", got)

	_, err = readInput(nil, filepath.Join(t.TempDir(), "missing.txt"), nil)
	require.Error(t, err)
}

func TestOverridesApply(t *testing.T) {
	base := internal.DefaultConfiguration()
	base.CustomInstruction = "stored"

	got, err := overrides{provider: "OpenAI", style: "friendly"}.apply(base)
	require.NoError(t, err)
	require.Equal(t, internal.ProviderOpenAI, got.SelectedProvider)
	require.Equal(t, internal.StyleFriendly, got.SelectedStyle)
	require.Equal(t, "stored", got.CustomInstruction)

	got, err = overrides{instructionSet: true}.apply(base)
	require.NoError(t, err)
	require.Empty(t, got.CustomInstruction)

	_, err = overrides{provider: "gemini"}.apply(base)
	require.Error(t, err)
}

func TestBuildRegistry(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	s, err := config.Load(config.New(), "")
	require.NoError(t, err)

	registry := buildRegistry(s, nil)
	for _, p := range internal.Providers {
		client, err := registry.Lookup(p)
		require.NoError(t, err)
		require.Equal(t, p.DisplayName(), client.Name())
	}

	var _ provider.Client = registry[internal.ProviderClaude]
}
