// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-03
// Last Modified: 2026-03-07

package resolve

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/similigh/asana-link/internal/integrations/asana"
)

// ErrSectionNotFound is reported when a matched project has no section with
// the target's name.
var ErrSectionNotFound = errors.New("asana section not found")

// maxConcurrentTargets bounds the per-task fan-out over targets.
const maxConcurrentTargets = 4

// Catalog lists the per-project records the resolver needs.
type Catalog interface {
	ListSections(ctx context.Context, projectID string) ([]asana.Section, error)
	ListCustomFieldSettings(ctx context.Context, projectID string) ([]asana.CustomFieldSetting, error)
}

// MatchProject finds the membership selected by the target: by name when the
// target names a project, by id otherwise.
func MatchProject(memberships []asana.Project, target Target) (asana.Project, bool) {
	for _, p := range memberships {
		if target.Project != "" {
			if p.Name == target.Project {
				return p, true
			}
		} else if target.ProjectID != "" && p.GID == target.ProjectID {
			return p, true
		}
	}
	return asana.Project{}, false
}

// FindSection returns the section with the given name.
func FindSection(sections []asana.Section, name string) (asana.Section, bool) {
	for _, s := range sections {
		if s.Name == name {
			return s, true
		}
	}
	return asana.Section{}, false
}

// SectionResolution is the outcome of resolving one target for a move.
// Project is nil when the task is not in the target's project; that case is
// not an error.
type SectionResolution struct {
	Target  Target
	Project *asana.Project
	Section *asana.Section
	Err     error
}

// FieldResolution is the outcome of resolving one target's field updates.
// FieldErrs holds per-field problems; Err is set when the project's fields
// could not be listed at all.
type FieldResolution struct {
	Target    Target
	Project   *asana.Project
	Values    map[string]FieldValue
	FieldErrs []error
	Err       error
}

// Resolver resolves every target of a task concurrently and waits for all
// of them. A failing target never affects its siblings.
type Resolver struct {
	catalog Catalog
}

// NewResolver creates a resolver backed by the given catalog.
func NewResolver(catalog Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Sections resolves the destination section of each target. Results are in
// target order.
func (r *Resolver) Sections(ctx context.Context, task *asana.Task, targets []Target) []SectionResolution {
	results := make([]SectionResolution, len(targets))

	r.fanOut(len(targets), func(i int) {
		target := targets[i]
		res := SectionResolution{Target: target}
		defer func() { results[i] = res }()

		project, ok := MatchProject(task.Projects, target)
		if !ok {
			return
		}
		res.Project = &project

		sections, err := r.catalog.ListSections(ctx, project.GID)
		if err != nil {
			res.Err = err
			return
		}
		section, ok := FindSection(sections, target.Section)
		if !ok {
			res.Err = fmt.Errorf("%w: %s", ErrSectionNotFound, target.Section)
			return
		}
		res.Section = &section
	})

	return results
}

// Fields resolves the custom field values of each target. Results are in
// target order.
func (r *Resolver) Fields(ctx context.Context, task *asana.Task, targets []Target) []FieldResolution {
	results := make([]FieldResolution, len(targets))

	r.fanOut(len(targets), func(i int) {
		target := targets[i]
		res := FieldResolution{Target: target}
		defer func() { results[i] = res }()

		project, ok := MatchProject(task.Projects, target)
		if !ok {
			return
		}
		res.Project = &project

		if len(target.Fields) == 0 {
			return
		}

		settings, err := r.catalog.ListCustomFieldSettings(ctx, project.GID)
		if err != nil {
			res.Err = err
			return
		}
		res.Values, res.FieldErrs = ResolveFields(settings, target.Fields)
	})

	return results
}

func (r *Resolver) fanOut(n int, fn func(i int)) {
	var g errgroup.Group
	g.SetLimit(maxConcurrentTargets)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}
