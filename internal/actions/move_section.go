// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-05
// Last Modified: 2026-03-09

package actions

import (
	"errors"
	"fmt"
	"strings"

	"github.com/similigh/asana-link/internal/core/config"
	"github.com/similigh/asana-link/internal/core/dispatch"
	"github.com/similigh/asana-link/internal/resolve"
)

// MoveSection inserts every referenced task into the section named by each
// target whose project the task belongs to.
type MoveSection struct {
	asana    dispatch.TaskService
	resolver *resolve.Resolver
}

// NewMoveSection creates a new move-section action.
func NewMoveSection(deps *dispatch.Dependencies) *MoveSection {
	return &MoveSection{
		asana:    deps.Asana,
		resolver: resolve.NewResolver(deps.Asana),
	}
}

// Name returns the action name.
func (a *MoveSection) Name() string {
	return config.ActionMoveSection
}

// Run returns every task id. Targets are resolved concurrently per task and
// all of them finish before the next task starts.
func (a *MoveSection) Run(ctx *dispatch.Context) (*dispatch.Result, error) {
	result := &dispatch.Result{}

	for _, taskID := range ctx.TaskIDs {
		ctx.Start(taskID)
		result.Items = append(result.Items, taskID)

		task, err := a.asana.GetTask(ctx.Ctx, taskID)
		if err != nil {
			ctx.Logger.Error("failed to fetch task", "task", taskID, "error", err)
			ctx.Finish(result, taskID, dispatch.OutcomeFailed, "", err)
			continue
		}

		var moved []string
		var errs []error
		for _, res := range a.resolver.Sections(ctx.Ctx, task, ctx.Inputs.Targets) {
			switch {
			case res.Project == nil:
				ctx.Logger.Info("task is not in target project", "task", taskID, "target", res.Target.Label())
			case errors.Is(res.Err, resolve.ErrSectionNotFound):
				ctx.Logger.Error(res.Err.Error(), "task", taskID, "project", res.Project.Name)
			case res.Err != nil:
				ctx.Logger.Error("failed to list sections", "task", taskID, "project", res.Project.GID, "error", res.Err)
				errs = append(errs, res.Err)
			default:
				if err := a.asana.AddTaskToSection(ctx.Ctx, res.Section.GID, taskID); err != nil {
					ctx.Logger.Error("failed to move task", "task", taskID, "section", res.Section.GID, "error", err)
					errs = append(errs, err)
					continue
				}
				ctx.Logger.Info("moved task", "task", taskID, "project", res.Project.Name, "section", res.Section.Name)
				moved = append(moved, res.Target.Label())
			}
		}

		switch {
		case len(errs) > 0:
			ctx.Finish(result, taskID, dispatch.OutcomeFailed, strings.Join(moved, ", "), errors.Join(errs...))
		case len(moved) == 0:
			ctx.Finish(result, taskID, dispatch.OutcomeSkipped, "no target section matched", nil)
		default:
			ctx.Finish(result, taskID, dispatch.OutcomeOK, fmt.Sprintf("moved to %s", strings.Join(moved, ", ")), nil)
		}
	}

	return result, nil
}
