// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-05
// Last Modified: 2026-03-10

package actions

import (
	"errors"
	"fmt"

	"github.com/similigh/asana-link/internal/core/config"
	"github.com/similigh/asana-link/internal/core/dispatch"
	"github.com/similigh/asana-link/internal/integrations/asana"
	"github.com/similigh/asana-link/internal/resolve"
)

// UpdateFields sets the custom fields of every referenced task, and its
// completion flag when is-complete is supplied, in one update call.
type UpdateFields struct {
	asana    dispatch.TaskService
	resolver *resolve.Resolver
}

// NewUpdateFields creates a new update-fields action.
func NewUpdateFields(deps *dispatch.Dependencies) *UpdateFields {
	return &UpdateFields{
		asana:    deps.Asana,
		resolver: resolve.NewResolver(deps.Asana),
	}
}

// Name returns the action name.
func (a *UpdateFields) Name() string {
	return config.ActionUpdateFields
}

// Run returns every task id. Values from all matching targets are merged;
// a field that fails to resolve is logged and left out of the update.
func (a *UpdateFields) Run(ctx *dispatch.Context) (*dispatch.Result, error) {
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

		values := make(map[string]resolve.FieldValue)
		matched := 0
		var errs, fieldErrs []error
		for _, res := range a.resolver.Fields(ctx.Ctx, task, ctx.Inputs.Targets) {
			if res.Project == nil {
				ctx.Logger.Info("task is not in target project", "task", taskID, "target", res.Target.Label())
				continue
			}
			matched++
			if res.Err != nil {
				ctx.Logger.Error("failed to list custom fields", "task", taskID, "project", res.Project.GID, "error", res.Err)
				errs = append(errs, res.Err)
				continue
			}
			for _, fieldErr := range res.FieldErrs {
				ctx.Logger.Error(fieldErr.Error(), "task", taskID, "project", res.Project.Name)
			}
			fieldErrs = append(fieldErrs, res.FieldErrs...)
			for id, v := range res.Values {
				values[id] = v
			}
		}

		if matched == 0 {
			ctx.Finish(result, taskID, dispatch.OutcomeSkipped, "no target project matched", nil)
			continue
		}
		if len(values) == 0 && ctx.Inputs.IsComplete == nil {
			if all := append(errs, fieldErrs...); len(all) > 0 {
				ctx.Finish(result, taskID, dispatch.OutcomeFailed, "", errors.Join(all...))
			} else {
				ctx.Finish(result, taskID, dispatch.OutcomeSkipped, "nothing to update", nil)
			}
			continue
		}

		fields, err := resolve.EncodeFields(values)
		if err != nil {
			ctx.Finish(result, taskID, dispatch.OutcomeFailed, "", err)
			continue
		}
		if err := a.asana.UpdateTask(ctx.Ctx, taskID, asana.TaskUpdate{
			Completed:    ctx.Inputs.IsComplete,
			CustomFields: fields,
		}); err != nil {
			ctx.Logger.Error("failed to update task", "task", taskID, "error", err)
			errs = append(errs, err)
		}

		if len(errs) > 0 {
			ctx.Finish(result, taskID, dispatch.OutcomeFailed, "", errors.Join(errs...))
			continue
		}
		ctx.Logger.Info("updated task fields", "task", taskID, "fields", len(fields), "omitted", len(fieldErrs))
		message := fmt.Sprintf("%d fields", len(fields))
		if len(fieldErrs) > 0 {
			message += fmt.Sprintf(", %d omitted", len(fieldErrs))
		}
		ctx.Finish(result, taskID, dispatch.OutcomeOK, message, nil)
	}

	return result, nil
}
