// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-03-09

// Package main is the entry point for the asana-link CLI.
package main

import (
	"os"

	"github.com/similigh/asana-link/cmd/asana-link/commands"
	"github.com/similigh/asana-link/internal/integrations/github"
)

func main() {
	if err := commands.Execute(); err != nil {
		github.WorkflowFromEnv().SetFailed(err.Error())
		os.Exit(1)
	}
}
