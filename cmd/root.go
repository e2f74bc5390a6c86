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
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/valpere/reword/internal/config"
	"github.com/valpere/reword/internal/logging"
)

var version = "0.1.0"

var (
	cfgFile string
	verbose bool

	settings *config.Settings
	logger   = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "reword",
	Short: "Rewrite text for Jira comments with an LLM",
	Long: `A CLI application that rewrites a draft in a chosen style or with a custom
instruction, using Claude or OpenAI, and returns text formatted for Jira
comments.

Styles: professional, friendly, concise, detailed, update

Use "reword config set claude-key" to store an API key.
Use "reword rewrite --help" for rewrite options.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func Execute() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// setup resolves settings and the logger before any subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	s, err := config.Load(config.New(), cfgFile)
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	level := s.Log.Level
	if verbose {
		level = "debug"
	}
	l, err := logging.New(level)
	if err != nil {
		return err
	}

	settings = s
	logger = l
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Settings file (default $HOME/.config/reword/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
