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

	"github.com/valpere/reword/internal/prompt"
)

var (
	promptInputFile string
	promptOverrides overrides
)

var promptCmd = &cobra.Command{
	Use:   "prompt [text]",
	Short: "Print the prompt a rewrite would send",
	Long:  `Build the full prompt from the stored configuration and print it without calling a provider.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		promptOverrides.instructionSet = cmd.Flags().Changed("instruction")

		text, err := readInput(args, promptInputFile, os.Stdin)
		if err != nil {
			return err
		}

		ctx := cmd.Context()

		cs, closeStore := openStore(ctx, settings, logger)
		defer closeStore()

		cfg, err := promptOverrides.apply(cs.Load(ctx))
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), prompt.NewRequest(text, cfg).FullPrompt)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(promptCmd)

	promptCmd.Flags().StringVarP(&promptInputFile, "input", "i", "", "Input file")
	addOverrideFlags(promptCmd, &promptOverrides)
}
