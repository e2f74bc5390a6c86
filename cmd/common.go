/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/valpere/reword/internal"
	"github.com/valpere/reword/internal/config"
	"github.com/valpere/reword/internal/provider"
	"github.com/valpere/reword/internal/store"
)

// buildRegistry constructs one client per provider from the settings.
func buildRegistry(s *config.Settings, log *zap.Logger) provider.Registry {
	relay := provider.Relay{Prefix: s.Relay.Prefix}

	return provider.Registry{
		internal.ProviderClaude: provider.NewClaudeProvider(provider.ClaudeConfig{
			Endpoint:   s.Claude.Endpoint,
			Model:      s.Claude.Model,
			APIVersion: s.Claude.APIVersion,
			MaxTokens:  s.MaxTokens,
			Relay:      relay,
			Logger:     log,
		}),
		internal.ProviderOpenAI: provider.NewOpenAIProvider(provider.OpenAIConfig{
			Endpoint:  s.OpenAI.Endpoint,
			Model:     s.OpenAI.Model,
			MaxTokens: s.MaxTokens,
			Relay:     relay,
			Logger:    log,
		}),
	}
}

// openStore opens the configured store. When the durable store cannot be
// opened the session continues on an in-memory store.
func openStore(ctx context.Context, s *config.Settings, log *zap.Logger) (store.ConfigStore, func() error) {
	cs, closeFn, err := store.Open(ctx, s.Store.Driver, s.Store.Path, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, settings will not be saved\n", err)
		return store.NewMemory(), func() error { return nil }
	}
	return cs, closeFn
}

func isInteractive(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// readInput returns the text to work on: the joined arguments, the input
// file, piped stdin, or an interactive multiline prompt. Trailing newlines
// of file and piped input are dropped.
func readInput(args []string, inputPath string, stdin *os.File) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	if inputPath != "" {
		data, err := os.ReadFile(inputPath)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}

	if !isInteractive(stdin) {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}

	var text string
	prompt := &survey.Multiline{
		Message: "Text to rewrite:",
		Help:    "Finish with an empty line. Press Ctrl+C to cancel.",
	}
	if err := survey.AskOne(prompt, &text); err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return text, nil
}

// overrides are per-invocation changes to the stored configuration. They
// are never written back.
type overrides struct {
	provider    string
	style       string
	instruction string

	instructionSet bool
}

func (o overrides) apply(c internal.Configuration) (internal.Configuration, error) {
	var err error
	if o.provider != "" {
		if c, err = c.Set(internal.FieldProvider, o.provider); err != nil {
			return c, err
		}
	}
	if o.style != "" {
		if c, err = c.Set(internal.FieldStyle, o.style); err != nil {
			return c, err
		}
	}
	if o.instructionSet {
		if c, err = c.Set(internal.FieldInstruction, o.instruction); err != nil {
			return c, err
		}
	}
	return c, nil
}
