// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-03-09

// Package commands holds the cobra commands of the asana-link CLI.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/similigh/asana-link/internal/core/config"
)

var (
	cfgFile  string
	logLevel string
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "asana-link",
	Short: "Link pull requests to Asana tasks",
	Long: `asana-link finds Asana task links in a pull request description and
runs one action against those tasks: assert-link, add-comment,
remove-comment, complete-task, move-section or update-fields.

Inputs are read from flags, from INPUT_* environment variables (as set by
GitHub Actions) and from .github/asana-link.yaml.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file (default: .github/asana-link.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Shorthand for --log-level=debug")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

// loadConfig reads the repository config file. A missing default file is
// not an error; a missing explicit --config is.
func loadConfig() (*config.Config, string, error) {
	path := config.FindConfigPath(cfgFile)
	if path == "" {
		if cfgFile != "" {
			return nil, "", fmt.Errorf("config file %s not found", cfgFile)
		}
		return config.Default(), "", nil
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}
