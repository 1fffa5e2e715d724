// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-04
// Last Modified: 2026-03-08

package actions

import (
	"github.com/similigh/asana-link/internal/core/config"
	"github.com/similigh/asana-link/internal/core/dispatch"
)

// RemoveComment deletes the comment carrying the configured comment id from
// every referenced task.
type RemoveComment struct {
	asana dispatch.TaskService
}

// NewRemoveComment creates a new remove-comment action.
func NewRemoveComment(deps *dispatch.Dependencies) *RemoveComment {
	return &RemoveComment{asana: deps.Asana}
}

// Name returns the action name.
func (a *RemoveComment) Name() string {
	return config.ActionRemoveComment
}

// Run returns the ids of the comments it removed. An id whose delete call
// failed is still listed; its outcome records the failure.
func (a *RemoveComment) Run(ctx *dispatch.Context) (*dispatch.Result, error) {
	commentID := ctx.Inputs.CommentID
	result := &dispatch.Result{}

	for _, taskID := range ctx.TaskIDs {
		ctx.Start(taskID)

		stories, err := a.asana.ListStories(ctx.Ctx, taskID)
		if err != nil {
			ctx.Logger.Error("failed to list comments", "task", taskID, "error", err)
			ctx.Finish(result, taskID, dispatch.OutcomeFailed, "", err)
			continue
		}

		story := findComment(stories, commentID)
		if story == nil {
			ctx.Finish(result, taskID, dispatch.OutcomeSkipped, "no matching comment", nil)
			continue
		}

		result.Items = append(result.Items, story.GID)
		if err := a.asana.DeleteStory(ctx.Ctx, story.GID); err != nil {
			ctx.Logger.Error("failed to remove comment", "task", taskID, "story", story.GID, "error", err)
			ctx.Finish(result, taskID, dispatch.OutcomeFailed, "comment "+story.GID, err)
			continue
		}

		ctx.Logger.Info("removed comment", "task", taskID, "story", story.GID)
		ctx.Finish(result, taskID, dispatch.OutcomeOK, "comment "+story.GID, nil)
	}

	return result, nil
}
