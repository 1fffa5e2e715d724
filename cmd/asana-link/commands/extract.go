// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-06
// Last Modified: 2026-03-09

package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/similigh/asana-link/internal/extract"
)

var (
	extractBody    string
	extractTrigger string
	extractPattern bool
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Print the Asana task ids found in a pull request body",
	Long: `Print the Asana task ids found in a pull request body, one per line.
The body is read from --body or, when that is empty, from stdin.

Examples:
  asana-link extract --body "Fixes https://app.asana.com/0/123/456"
  gh pr view 42 --json body -q .body | asana-link extract --trigger-phrase "Asana:"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtract(cmd)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&extractBody, "body", "", "Pull request body (default: stdin)")
	extractCmd.Flags().StringVar(&extractTrigger, "trigger-phrase", "", "Literal phrase required before each link (default: from config)")
	extractCmd.Flags().BoolVar(&extractPattern, "pattern", false, "Print the regular expression instead")
}

func runExtract(cmd *cobra.Command) error {
	trigger := extractTrigger
	if !cmd.Flags().Changed("trigger-phrase") {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		trigger = cfg.TriggerPhrase
	}

	out := cmd.OutOrStdout()
	if extractPattern {
		fmt.Fprintln(out, extract.Pattern(trigger).String())
		return nil
	}

	body := extractBody
	if body == "" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read body: %w", err)
		}
		body = string(data)
	}

	ids, errs := extract.TaskReferences(body, trigger)
	for _, err := range errs {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
	}
	for _, id := range ids {
		fmt.Fprintln(out, id)
	}
	return nil
}
