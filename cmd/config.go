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
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/valpere/reword/internal"
	"github.com/valpere/reword/internal/config"
	"github.com/valpere/reword/internal/store"
)

var resetYes bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the stored configuration",
	Long: `Show and edit the stored configuration: API keys, provider, style and
custom instruction.

Fields: ` + strings.Join(internal.Fields, ", "),
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cs, closeStore := openStore(ctx, settings, logger)
		defer closeStore()

		c := cs.Load(ctx)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "FIELD\tVALUE")
		for _, field := range internal.Fields {
			value, err := c.Get(field)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%s\n", field, displayValue(field, value))
		}
		return w.Flush()
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <field> [value]",
	Short: "Set a configuration field",
	Long: `Set a configuration field. When the value of an API key is omitted it is
read from a hidden prompt.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		field := args[0]

		value, err := fieldValue(field, args[1:])
		if err != nil {
			return err
		}

		ctx := cmd.Context()

		cs, closeStore := openStore(ctx, settings, logger)
		defer closeStore()

		c, err := store.Update(ctx, cs, func(c *internal.Configuration) error {
			next, err := c.Set(field, value)
			if err != nil {
				return err
			}
			*c = next
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to set %s: %w", field, err)
		}

		current, _ := c.Get(field)
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s: %s\n", field, displayValue(field, current))
		return nil
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <field>",
	Short: "Restore a configuration field to its default",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		field := args[0]
		ctx := cmd.Context()

		cs, closeStore := openStore(ctx, settings, logger)
		defer closeStore()

		_, err := store.Update(ctx, cs, func(c *internal.Configuration) error {
			next, err := c.Unset(field)
			if err != nil {
				return err
			}
			*c = next
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to unset %s: %w", field, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", field)
		return nil
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the whole configuration to its defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetYes && isInteractive(os.Stdin) {
			confirmed := false
			confirm := &survey.Confirm{
				Message: "Remove stored API keys and restore defaults?",
				Default: false,
			}
			if err := survey.AskOne(confirm, &confirmed); err != nil {
				return fmt.Errorf("failed to read confirmation: %w", err)
			}
			if !confirmed {
				fmt.Fprintln(cmd.OutOrStdout(), "Reset cancelled.")
				return nil
			}
		}

		ctx := cmd.Context()

		cs, closeStore := openStore(ctx, settings, logger)
		defer closeStore()

		cs.Save(ctx, internal.DefaultConfiguration())
		fmt.Fprintln(cmd.OutOrStdout(), "Configuration reset to defaults.")
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show where settings and configuration are read from",
	RunE: func(cmd *cobra.Command, args []string) error {
		settingsPath := cfgFile
		if settingsPath == "" {
			p, err := config.DefaultPath()
			if err != nil {
				return err
			}
			settingsPath = p
		}

		storePath := settings.Store.Path
		if settings.Store.Driver == store.DriverMemory {
			storePath = "(not persisted)"
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Settings: %s\n", settingsPath)
		fmt.Fprintf(cmd.OutOrStdout(), "Store:    %s (%s)\n", storePath, settings.Store.Driver)
		return nil
	},
}

// fieldValue returns the value for set. Omitted API keys are read from a
// password prompt; other fields require the value argument.
func fieldValue(field string, rest []string) (string, error) {
	if len(rest) > 0 {
		return rest[0], nil
	}
	if !internal.IsSecretField(field) {
		return "", fmt.Errorf("a value is required for %s", field)
	}
	if !isInteractive(os.Stdin) {
		return "", errors.New("no value given and stdin is not a terminal")
	}

	var value string
	password := &survey.Password{
		Message: fmt.Sprintf("%s:", field),
	}
	if err := survey.AskOne(password, &value); err != nil {
		return "", fmt.Errorf("failed to read %s: %w", field, err)
	}
	return value, nil
}

func displayValue(field, value string) string {
	if internal.IsSecretField(field) {
		return internal.MaskSecret(value)
	}
	if value == "" {
		return "(unset)"
	}
	return value
}

func init() {
	rootCmd.AddCommand(configCmd)

	configResetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "Do not ask for confirmation")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(configResetCmd)
	configCmd.AddCommand(configPathCmd)
}
