// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-04
// Last Modified: 2026-03-08

package actions

import (
	"errors"
	"strconv"

	"github.com/similigh/asana-link/internal/core/config"
	"github.com/similigh/asana-link/internal/core/dispatch"
	"github.com/similigh/asana-link/internal/integrations/asana"
)

// CompleteTask sets the completion flag of every referenced task.
type CompleteTask struct {
	asana dispatch.TaskService
}

// NewCompleteTask creates a new complete-task action.
func NewCompleteTask(deps *dispatch.Dependencies) *CompleteTask {
	return &CompleteTask{asana: deps.Asana}
}

// Name returns the action name.
func (a *CompleteTask) Name() string {
	return config.ActionCompleteTask
}

// Run returns every task id, including those whose update failed.
func (a *CompleteTask) Run(ctx *dispatch.Context) (*dispatch.Result, error) {
	if ctx.Inputs.IsComplete == nil {
		return nil, errors.New("complete-task needs is-complete")
	}
	completed := *ctx.Inputs.IsComplete
	result := &dispatch.Result{}

	for _, taskID := range ctx.TaskIDs {
		ctx.Start(taskID)
		result.Items = append(result.Items, taskID)

		err := a.asana.UpdateTask(ctx.Ctx, taskID, asana.TaskUpdate{Completed: &completed})
		if err != nil {
			ctx.Logger.Error("failed to update task", "task", taskID, "error", err)
			ctx.Finish(result, taskID, dispatch.OutcomeFailed, "", err)
			continue
		}

		ctx.Logger.Info("updated task", "task", taskID, "completed", completed)
		ctx.Finish(result, taskID, dispatch.OutcomeOK, "completed="+strconv.FormatBool(completed), nil)
	}

	return result, nil
}
