// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-05
// Last Modified: 2026-03-10

package actions

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/similigh/asana-link/internal/core/config"
	"github.com/similigh/asana-link/internal/core/dispatch"
	"github.com/similigh/asana-link/internal/integrations/asana"
	"github.com/similigh/asana-link/internal/integrations/github"
	"github.com/similigh/asana-link/internal/resolve"
)

// fakeAsana is an in-memory Asana workspace.
type fakeAsana struct {
	mu       sync.Mutex
	nextID   int
	tasks    map[string]*asana.Task
	stories  map[string][]asana.Story
	sections map[string][]asana.Section
	settings map[string][]asana.CustomFieldSetting

	// fail maps "Method:id" to the error that call returns.
	fail map[string]error

	moves   []string
	updates map[string][]asana.TaskUpdate
}

func newFakeAsana() *fakeAsana {
	return &fakeAsana{
		nextID:   1000,
		tasks:    make(map[string]*asana.Task),
		stories:  make(map[string][]asana.Story),
		sections: make(map[string][]asana.Section),
		settings: make(map[string][]asana.CustomFieldSetting),
		fail:     make(map[string]error),
		updates:  make(map[string][]asana.TaskUpdate),
	}
}

func (f *fakeAsana) addTask(id string, projects ...asana.Project) {
	f.tasks[id] = &asana.Task{GID: id, Projects: projects}
}

func (f *fakeAsana) failing(method, id string) error {
	return f.fail[method+":"+id]
}

func (f *fakeAsana) Me(ctx context.Context) (*asana.User, error) {
	return &asana.User{GID: "1"}, nil
}

func (f *fakeAsana) GetTask(ctx context.Context, taskID string) (*asana.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing("GetTask", taskID); err != nil {
		return nil, err
	}
	task, ok := f.tasks[taskID]
	if !ok {
		return nil, &asana.APIError{StatusCode: 404, Method: "GET", Path: "/tasks/" + taskID}
	}
	cp := *task
	return &cp, nil
}

func (f *fakeAsana) UpdateTask(ctx context.Context, taskID string, update asana.TaskUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing("UpdateTask", taskID); err != nil {
		return err
	}
	task, ok := f.tasks[taskID]
	if !ok {
		return &asana.APIError{StatusCode: 404, Method: "PUT", Path: "/tasks/" + taskID}
	}
	if update.Completed != nil {
		task.Completed = *update.Completed
	}
	f.updates[taskID] = append(f.updates[taskID], update)
	return nil
}

func (f *fakeAsana) ListSections(ctx context.Context, projectID string) ([]asana.Section, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing("ListSections", projectID); err != nil {
		return nil, err
	}
	return f.sections[projectID], nil
}

func (f *fakeAsana) AddTaskToSection(ctx context.Context, sectionID, taskID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing("AddTaskToSection", sectionID); err != nil {
		return err
	}
	f.moves = append(f.moves, taskID+"->"+sectionID)
	return nil
}

func (f *fakeAsana) ListStories(ctx context.Context, taskID string) ([]asana.Story, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing("ListStories", taskID); err != nil {
		return nil, err
	}
	return append([]asana.Story(nil), f.stories[taskID]...), nil
}

func (f *fakeAsana) CreateStory(ctx context.Context, taskID string, req asana.StoryRequest) (*asana.Story, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing("CreateStory", taskID); err != nil {
		return nil, err
	}
	f.nextID++
	story := asana.Story{GID: fmt.Sprint(f.nextID), Text: req.Text, IsPinned: req.IsPinned}
	f.stories[taskID] = append(f.stories[taskID], story)
	return &story, nil
}

func (f *fakeAsana) DeleteStory(ctx context.Context, storyID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing("DeleteStory", storyID); err != nil {
		return err
	}
	for taskID, stories := range f.stories {
		for i, s := range stories {
			if s.GID == storyID {
				f.stories[taskID] = append(stories[:i:i], stories[i+1:]...)
				return nil
			}
		}
	}
	return &asana.APIError{StatusCode: 404, Method: "DELETE", Path: "/stories/" + storyID}
}

func (f *fakeAsana) ListCustomFieldSettings(ctx context.Context, projectID string) ([]asana.CustomFieldSetting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing("ListCustomFieldSettings", projectID); err != nil {
		return nil, err
	}
	return f.settings[projectID], nil
}

type fakeStatuses struct {
	sha      string
	statuses []github.Status
	err      error
}

func (f *fakeStatuses) CreateStatus(ctx context.Context, owner, repo, sha string, status github.Status) error {
	if f.err != nil {
		return f.err
	}
	f.sha = sha
	f.statuses = append(f.statuses, status)
	return nil
}

func newContext(in *config.Inputs, taskIDs ...string) *dispatch.Context {
	if in.StatusContext == "" {
		in.StatusContext = config.DefaultStatusContext
	}
	if in.StatusDescription == "" {
		in.StatusDescription = config.DefaultStatusDescription
	}
	return &dispatch.Context{
		Ctx:     context.Background(),
		Inputs:  in,
		TaskIDs: taskIDs,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		PullRequest: &dispatch.PullRequest{
			Owner: "a-cool-owner", Repo: "a-cool-repo", Number: 1, HeadSHA: "1234",
		},
	}
}

func boolPtr(v bool) *bool { return &v }

// wantOutcome fails the test unless outcome i of r has the given status.
func wantOutcome(t *testing.T, r *dispatch.Result, i int, status dispatch.OutcomeStatus) {
	t.Helper()
	if len(r.Outcomes) <= i {
		t.Fatalf("expected at least %d outcomes, got %+v", i+1, r.Outcomes)
	}
	if r.Outcomes[i].Status != status {
		t.Errorf("outcome %d = %+v, want status %s", i, r.Outcomes[i], status)
	}
}

func targets(t *testing.T, raw string, requireSection bool) []resolve.Target {
	t.Helper()
	parsed, err := resolve.ParseTargets([]byte(raw), requireSection)
	if err != nil {
		t.Fatalf("ParseTargets: %v", err)
	}
	return parsed
}
