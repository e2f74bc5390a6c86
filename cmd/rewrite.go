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
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/valpere/reword/internal/orchestrator"
)

var (
	inputFile  string
	outputFile string
	copyResult bool

	rewriteOverrides overrides
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite [text]",
	Short: "Rewrite text with the selected provider",
	Long: `Rewrite a draft using the stored provider, style and custom instruction.

The text is taken from the arguments, from --input, from piped stdin, or
from an interactive prompt when stdin is a terminal.

Override the stored configuration for one invocation:
  --provider    claude or openai
  --style       professional, friendly, concise, detailed or update
  --instruction custom instruction (empty string uses the style preset)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rewriteOverrides.instructionSet = cmd.Flags().Changed("instruction")

		text, err := readInput(args, inputFile, os.Stdin)
		if err != nil {
			return err
		}

		ctx := cmd.Context()

		cs, closeStore := openStore(ctx, settings, logger)
		defer closeStore()

		cfg, err := rewriteOverrides.apply(cs.Load(ctx))
		if err != nil {
			return err
		}

		orch := orchestrator.New(buildRegistry(settings, logger), orchestrator.OrchestratorConfig{
			Timeout: settings.Timeout,
			Logger:  logger,
		})

		out := orch.Rewrite(ctx, text, cfg)
		if !out.Succeeded() {
			return out.Err()
		}

		if copyResult {
			if err := clipboard.WriteAll(out.Text); err != nil {
				return fmt.Errorf("failed to copy to clipboard: %w", err)
			}
			fmt.Fprintln(os.Stderr, "Copied to clipboard")
		}

		if outputFile != "" {
			if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			if err := os.WriteFile(outputFile, []byte(out.Text), 0644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			return nil
		}

		if !copyResult {
			fmt.Fprintln(cmd.OutOrStdout(), out.Text)
		}
		return nil
	},
}

func addOverrideFlags(cmd *cobra.Command, o *overrides) {
	cmd.Flags().StringVarP(&o.provider, "provider", "p", "", "Provider for this invocation (claude, openai)")
	cmd.Flags().StringVarP(&o.style, "style", "s", "", "Style for this invocation")
	cmd.Flags().StringVar(&o.instruction, "instruction", "", "Custom instruction for this invocation")
}

func init() {
	rootCmd.AddCommand(rewriteCmd)

	rewriteCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input file to rewrite")
	rewriteCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file for the rewrite")
	rewriteCmd.Flags().BoolVarP(&copyResult, "copy", "c", false, "Copy the rewrite to the clipboard")
	addOverrideFlags(rewriteCmd, &rewriteOverrides)
}
