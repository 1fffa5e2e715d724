// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-04
// Last Modified: 2026-03-08

// Package actions contains the operations selectable through the action
// input. Each action implements the dispatch.Action interface.
package actions

import (
	"errors"
	"fmt"

	"github.com/similigh/asana-link/internal/core/config"
	"github.com/similigh/asana-link/internal/core/dispatch"
	"github.com/similigh/asana-link/internal/integrations/github"
)

// AssertLink publishes a commit status telling whether the pull request
// references at least one task.
type AssertLink struct {
	github dispatch.StatusPublisher
}

// NewAssertLink creates a new assert-link action.
func NewAssertLink(deps *dispatch.Dependencies) (*AssertLink, error) {
	if deps.GitHub == nil {
		return nil, errors.New("assert-link needs a GitHub client")
	}
	return &AssertLink{github: deps.GitHub}, nil
}

// Name returns the action name.
func (a *AssertLink) Name() string {
	return config.ActionAssertLink
}

// Run reports "success" when a link was found or none is required, and
// "error" otherwise.
func (a *AssertLink) Run(ctx *dispatch.Context) (*dispatch.Result, error) {
	pr := ctx.PullRequest
	if pr == nil || pr.HeadSHA == "" {
		return nil, errors.New("assert-link must run on a pull request event")
	}

	state := linkState(len(ctx.TaskIDs), ctx.Inputs.LinkRequired)
	ctx.Logger.Info("setting commit status",
		"sha", pr.HeadSHA, "state", state, "links", len(ctx.TaskIDs), "required", ctx.Inputs.LinkRequired)

	err := a.github.CreateStatus(ctx.Ctx, pr.Owner, pr.Repo, pr.HeadSHA, github.Status{
		State:       state,
		Context:     ctx.Inputs.StatusContext,
		Description: ctx.Inputs.StatusDescription,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to report %s status: %w", state, err)
	}

	result := &dispatch.Result{Items: append([]string{}, ctx.TaskIDs...), Status: state}
	for _, id := range ctx.TaskIDs {
		ctx.Finish(result, id, dispatch.OutcomeOK, "linked", nil)
	}
	return result, nil
}

func linkState(found int, required bool) string {
	if found > 0 || !required {
		return github.StateSuccess
	}
	return github.StateError
}
