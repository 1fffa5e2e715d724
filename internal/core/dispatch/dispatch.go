// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-03-09

// Package dispatch runs one configured action against the task references
// found in a pull request.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/similigh/asana-link/internal/core/config"
	"github.com/similigh/asana-link/internal/extract"
)

var (
	// ErrAuthorization means the Asana token did not resolve to a user.
	ErrAuthorization = errors.New("client authorization failed")

	// ErrUnknownAction means no action is registered under the configured name.
	ErrUnknownAction = errors.New("unexpected action")
)

// Action defines the interface that all actions must implement.
type Action interface {
	// Name returns the action name used in the action input.
	Name() string

	// Run executes the action for every task reference in ctx.
	// Errors returned here are fatal to the invocation; per-task failures
	// belong in the result outcomes.
	Run(ctx *Context) (*Result, error)
}

// PullRequest is the part of the triggering pull request the actions use.
type PullRequest struct {
	Owner   string
	Repo    string
	Number  int
	Body    string
	HeadSHA string
}

// OutcomeStatus classifies what happened to one task.
type OutcomeStatus string

const (
	OutcomeOK      OutcomeStatus = "ok"
	OutcomeSkipped OutcomeStatus = "skipped"
	OutcomeFailed  OutcomeStatus = "failed"
)

// TaskOutcome is the per-task record of an action run.
type TaskOutcome struct {
	TaskID string        `json:"task"`
	Status OutcomeStatus `json:"status"`
	Detail string        `json:"detail,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// Result holds what an action produced.
type Result struct {
	Action string `json:"action"`

	// Items is the ordered action output: created comment ids for
	// add-comment, removed comment ids for remove-comment, and task ids for
	// the other actions.
	Items []string `json:"items"`

	Outcomes []TaskOutcome `json:"outcomes"`

	// Status is the commit status reported by assert-link.
	Status string `json:"status,omitempty"`
}

// Failed returns the outcomes whose status is failed.
func (r *Result) Failed() []TaskOutcome {
	var failed []TaskOutcome
	for _, o := range r.Outcomes {
		if o.Status == OutcomeFailed {
			failed = append(failed, o)
		}
	}
	return failed
}

// Context carries one invocation through an action.
type Context struct {
	// Ctx is the Go context for cancellation and timeouts.
	Ctx context.Context

	// Inputs are the validated step inputs.
	Inputs *config.Inputs

	// PullRequest is the triggering pull request, nil outside pull request events.
	PullRequest *PullRequest

	// TaskIDs are the extracted task references, in order.
	TaskIDs []string

	Logger   *slog.Logger
	Reporter Reporter
}

// Start reports that work on a task began.
func (c *Context) Start(taskID string) {
	if c.Reporter != nil {
		c.Reporter.Report(ProgressEvent{TaskID: taskID, Status: StatusStarted})
	}
}

// Finish records the outcome of a task and reports it.
func (c *Context) Finish(r *Result, taskID string, status OutcomeStatus, detail string, err error) {
	outcome := TaskOutcome{TaskID: taskID, Status: status, Detail: detail}
	if err != nil {
		outcome.Error = err.Error()
	}
	r.Outcomes = append(r.Outcomes, outcome)

	if c.Reporter != nil {
		msg := detail
		if err != nil {
			msg = err.Error()
		}
		c.Reporter.Report(ProgressEvent{TaskID: taskID, Status: string(status), Message: msg})
	}
}

// Invocation is everything Run needs besides the registry and dependencies.
type Invocation struct {
	Inputs      *config.Inputs
	PullRequest *PullRequest
	Logger      *slog.Logger
	Reporter    Reporter
}

// Run authenticates, extracts the task references from the pull request
// body and executes the configured action. Every returned error is fatal.
func Run(ctx context.Context, registry *Registry, deps *Dependencies, inv *Invocation) (*Result, error) {
	logger := inv.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if deps == nil || deps.Asana == nil {
		return nil, fmt.Errorf("%w: no Asana client configured", ErrAuthorization)
	}
	me, err := deps.Asana.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthorization, err)
	}
	if me == nil || me.GID == "" {
		return nil, ErrAuthorization
	}
	logger.Debug("authenticated with Asana", "user", me.GID)

	body := ""
	if inv.PullRequest != nil {
		body = inv.PullRequest.Body
	}
	taskIDs, extractErrs := extract.TaskReferences(body, inv.Inputs.TriggerPhrase)
	for _, e := range extractErrs {
		logger.Error(e.Error())
	}
	logger.Info(fmt.Sprintf("found %d taskIds: %s", len(taskIDs), strings.Join(taskIDs, ",")))

	factory, ok := registry.Get(inv.Inputs.Action)
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrUnknownAction, inv.Inputs.Action)
	}
	action, err := factory(deps)
	if err != nil {
		return nil, fmt.Errorf("failed to create action '%s': %w", inv.Inputs.Action, err)
	}

	if inv.Reporter != nil {
		inv.Reporter.Begin(action.Name(), taskIDs)
	}

	logger.Info("calling " + action.Name())
	result, err := action.Run(&Context{
		Ctx:         ctx,
		Inputs:      inv.Inputs,
		PullRequest: inv.PullRequest,
		TaskIDs:     taskIDs,
		Logger:      logger.With("action", action.Name()),
		Reporter:    inv.Reporter,
	})
	if err != nil {
		return nil, fmt.Errorf("action '%s' failed: %w", action.Name(), err)
	}
	if result == nil {
		result = &Result{}
	}
	result.Action = action.Name()
	if result.Items == nil {
		result.Items = []string{}
	}
	return result, nil
}
