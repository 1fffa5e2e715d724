package asana

import "encoding/json"

// User is the authenticated caller.
type User struct {
	GID  string `json:"gid"`
	Name string `json:"name"`
}

// Project is a task membership.
type Project struct {
	GID  string `json:"gid"`
	Name string `json:"name"`
}

// Task is the subset of task fields this tool reads.
type Task struct {
	GID       string    `json:"gid"`
	Name      string    `json:"name,omitempty"`
	Completed bool      `json:"completed"`
	Projects  []Project `json:"projects"`
}

// Section is a named subdivision of a project.
type Section struct {
	GID  string `json:"gid"`
	Name string `json:"name"`
}

// Story is a task comment (or system story).
type Story struct {
	GID      string `json:"gid"`
	Text     string `json:"text"`
	IsPinned bool   `json:"is_pinned,omitempty"`
}

// StoryRequest creates a comment.
type StoryRequest struct {
	Text     string `json:"text"`
	IsPinned bool   `json:"is_pinned"`
}

// EnumOption is one choice of an enum custom field.
type EnumOption struct {
	GID  string `json:"gid"`
	Name string `json:"name"`
}

// Custom field subtypes that need option resolution.
const (
	SubtypeEnum      = "enum"
	SubtypeMultiEnum = "multi_enum"
)

// CustomField describes a custom field definition.
type CustomField struct {
	GID             string       `json:"gid"`
	Name            string       `json:"name"`
	ResourceSubtype string       `json:"resource_subtype"`
	EnumOptions     []EnumOption `json:"enum_options,omitempty"`
}

// CustomFieldSetting binds a custom field to a project.
type CustomFieldSetting struct {
	GID         string      `json:"gid"`
	CustomField CustomField `json:"custom_field"`
}

// TaskUpdate is the body of PUT /tasks/{gid}. A nil Completed leaves the
// completion flag untouched.
type TaskUpdate struct {
	Completed    *bool                      `json:"completed,omitempty"`
	CustomFields map[string]json.RawMessage `json:"custom_fields,omitempty"`
}

// envelope wraps every request and response body.
type envelope[T any] struct {
	Data T `json:"data"`
}

type nextPage struct {
	Offset string `json:"offset"`
}

type page[T any] struct {
	Data     []T       `json:"data"`
	NextPage *nextPage `json:"next_page"`
}

// errorResponse is returned on non-2xx responses.
type errorResponse struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}
