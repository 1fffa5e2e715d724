package dispatch

import (
	"context"
	"sort"
	"sync"

	"github.com/similigh/asana-link/internal/integrations/asana"
	"github.com/similigh/asana-link/internal/integrations/github"
)

// TaskService is the subset of the Asana API the actions call.
type TaskService interface {
	Me(ctx context.Context) (*asana.User, error)
	GetTask(ctx context.Context, taskID string) (*asana.Task, error)
	UpdateTask(ctx context.Context, taskID string, update asana.TaskUpdate) error
	ListSections(ctx context.Context, projectID string) ([]asana.Section, error)
	AddTaskToSection(ctx context.Context, sectionID, taskID string) error
	ListStories(ctx context.Context, taskID string) ([]asana.Story, error)
	CreateStory(ctx context.Context, taskID string, req asana.StoryRequest) (*asana.Story, error)
	DeleteStory(ctx context.Context, storyID string) error
	ListCustomFieldSettings(ctx context.Context, projectID string) ([]asana.CustomFieldSetting, error)
}

// StatusPublisher reports commit statuses to the CI platform.
type StatusPublisher interface {
	CreateStatus(ctx context.Context, owner, repo, sha string, status github.Status) error
}

// Dependencies holds the clients injected into actions.
type Dependencies struct {
	Asana TaskService

	// GitHub is only needed by assert-link.
	GitHub StatusPublisher
}

// Factory creates an Action from the dependencies.
type Factory func(deps *Dependencies) (Action, error)

// Registry holds registered action factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new action registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds an action factory to the registry.
func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get retrieves an action factory by name.
func (r *Registry) Get(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, ok := r.factories[name]
	return factory, ok
}

// Names lists the registered action names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
