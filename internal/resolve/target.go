// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-03
// Last Modified: 2026-03-07

// Package resolve matches configured targets against a task's projects,
// sections and custom fields.
package resolve

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTarget marks a malformed targets configuration.
var ErrInvalidTarget = errors.New("invalid target")

// Target selects a project the task belongs to, by name or by id, and
// optionally a section and custom field updates within it.
type Target struct {
	Project   string        `json:"project,omitempty"`
	ProjectID string        `json:"project_id,omitempty"`
	Section   string        `json:"section,omitempty"`
	Fields    []FieldUpdate `json:"fields,omitempty"`
}

// FieldUpdate sets one custom field, selected by name or by id.
type FieldUpdate struct {
	Name  string          `json:"name,omitempty"`
	ID    string          `json:"id,omitempty"`
	Value json.RawMessage `json:"value"`
}

// Label identifies the target in log lines.
func (t Target) Label() string {
	project := t.Project
	if project == "" {
		project = "id:" + t.ProjectID
	}
	if t.Section == "" {
		return project
	}
	return project + "/" + t.Section
}

// Label identifies the field in log lines.
func (f FieldUpdate) Label() string {
	if f.Name != "" {
		return f.Name
	}
	return "id:" + f.ID
}

// Validate checks that exactly one project criterion is set and that every
// field update is well formed. requireSection is set by actions that move
// tasks.
func (t Target) Validate(requireSection bool) error {
	hasName := strings.TrimSpace(t.Project) != ""
	hasID := strings.TrimSpace(t.ProjectID) != ""
	switch {
	case !hasName && !hasID:
		return fmt.Errorf("%w: one of project or project_id is required", ErrInvalidTarget)
	case hasName && hasID:
		return fmt.Errorf("%w: project and project_id are mutually exclusive (%s)", ErrInvalidTarget, t.Label())
	}

	if requireSection && strings.TrimSpace(t.Section) == "" {
		return fmt.Errorf("%w: section is required for %s", ErrInvalidTarget, t.Label())
	}

	for i, f := range t.Fields {
		if (f.Name == "") == (f.ID == "") {
			return fmt.Errorf("%w: field %d of %s needs exactly one of name or id", ErrInvalidTarget, i, t.Label())
		}
		if len(bytes.TrimSpace(f.Value)) == 0 {
			return fmt.Errorf("%w: field %s of %s has no value", ErrInvalidTarget, f.Label(), t.Label())
		}
	}
	return nil
}

// ParseTargets decodes a JSON array of targets and validates each one.
func ParseTargets(data []byte, requireSection bool) ([]Target, error) {
	var targets []Target
	if err := json.Unmarshal(data, &targets); err != nil {
		return nil, fmt.Errorf("%w: parsing targets JSON: %v", ErrInvalidTarget, err)
	}
	for i, t := range targets {
		if err := t.Validate(requireSection); err != nil {
			return nil, fmt.Errorf("target %d: %w", i, err)
		}
	}
	return targets, nil
}
