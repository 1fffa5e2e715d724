// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-05
// Last Modified: 2026-03-09

package github

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
)

// IsActions reports whether the process runs inside GitHub Actions.
func IsActions() bool {
	return os.Getenv("GITHUB_ACTIONS") == "true"
}

// EscapeData escapes a workflow command message.
func EscapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}

// FormatCommand renders a workflow command such as "::error::message".
func FormatCommand(command, message string) string {
	return fmt.Sprintf("::%s::%s", command, EscapeData(message))
}

// Workflow writes step outputs and workflow commands.
type Workflow struct {
	out        io.Writer
	outputPath string
}

// NewWorkflow creates a Workflow that prints commands to out and appends
// outputs to outputPath. An empty outputPath prints outputs to out.
func NewWorkflow(out io.Writer, outputPath string) *Workflow {
	return &Workflow{out: out, outputPath: outputPath}
}

// WorkflowFromEnv uses stdout and GITHUB_OUTPUT.
func WorkflowFromEnv() *Workflow {
	return NewWorkflow(os.Stdout, os.Getenv("GITHUB_OUTPUT"))
}

// SetOutput records a step output.
func (w *Workflow) SetOutput(name, value string) error {
	if w.outputPath == "" {
		_, err := fmt.Fprintf(w.out, "%s=%s\n", name, value)
		return err
	}

	f, err := os.OpenFile(w.outputPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer f.Close()

	delimiter := "ghadelimiter_" + uuid.NewString()
	if strings.Contains(name, delimiter) || strings.Contains(value, delimiter) {
		return fmt.Errorf("output %s contains the delimiter", name)
	}
	if _, err := fmt.Fprintf(f, "%s<<%s\n%s\n%s\n", name, delimiter, value, delimiter); err != nil {
		return fmt.Errorf("failed to write output %s: %w", name, err)
	}
	return nil
}

// SetFailed marks the step failed with message. The caller exits non-zero.
func (w *Workflow) SetFailed(message string) {
	fmt.Fprintln(w.out, FormatCommand("error", message))
}
