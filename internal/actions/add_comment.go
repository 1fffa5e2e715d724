// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-04
// Last Modified: 2026-03-08

package actions

import (
	"github.com/similigh/asana-link/internal/core/config"
	"github.com/similigh/asana-link/internal/core/dispatch"
	"github.com/similigh/asana-link/internal/integrations/asana"
)

// AddComment posts a comment on every referenced task. With a comment id
// configured, tasks that already carry it are left alone.
type AddComment struct {
	asana dispatch.TaskService
}

// NewAddComment creates a new add-comment action.
func NewAddComment(deps *dispatch.Dependencies) *AddComment {
	return &AddComment{asana: deps.Asana}
}

// Name returns the action name.
func (a *AddComment) Name() string {
	return config.ActionAddComment
}

// Run returns the ids of the comments it created.
func (a *AddComment) Run(ctx *dispatch.Context) (*dispatch.Result, error) {
	in := ctx.Inputs
	result := &dispatch.Result{}

	for _, taskID := range ctx.TaskIDs {
		ctx.Start(taskID)

		if in.CommentID != "" {
			stories, err := a.asana.ListStories(ctx.Ctx, taskID)
			if err != nil {
				ctx.Logger.Error("failed to list comments", "task", taskID, "error", err)
				ctx.Finish(result, taskID, dispatch.OutcomeFailed, "", err)
				continue
			}
			if existing := findComment(stories, in.CommentID); existing != nil {
				ctx.Logger.Info("found existing comment", "task", taskID, "story", existing.GID)
				ctx.Finish(result, taskID, dispatch.OutcomeSkipped, "comment "+existing.GID+" exists", nil)
				continue
			}
		}

		story, err := a.asana.CreateStory(ctx.Ctx, taskID, asana.StoryRequest{
			Text:     commentBody(in.Text, in.CommentID),
			IsPinned: in.IsPinned,
		})
		if err != nil {
			ctx.Logger.Error("failed to add comment", "task", taskID, "error", err)
			ctx.Finish(result, taskID, dispatch.OutcomeFailed, "", err)
			continue
		}

		ctx.Logger.Info("added comment", "task", taskID, "story", story.GID)
		result.Items = append(result.Items, story.GID)
		ctx.Finish(result, taskID, dispatch.OutcomeOK, "comment "+story.GID, nil)
	}

	return result, nil
}
