// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-02
// Last Modified: 2026-03-06

// Package asana is a thin client for the Asana REST API.
package asana

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	// DefaultBaseURL is the Asana API root.
	DefaultBaseURL = "https://app.asana.com/api/1.0"

	// DefaultTimeout bounds every API call.
	DefaultTimeout = 30 * time.Second

	storiesPageSize = 100
)

// ErrTimeout is returned when an API call exceeds the configured timeout.
var ErrTimeout = errors.New("asana request timed out")

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Messages   []string
}

func (e *APIError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("asana API error (%d) on %s %s", e.StatusCode, e.Method, e.Path)
	}
	return fmt.Sprintf("asana API error (%d) on %s %s: %s", e.StatusCode, e.Method, e.Path, strings.Join(e.Messages, "; "))
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client talks to the Asana API with a personal access token.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewClient creates a client authenticated with the given token.
func NewClient(ctx context.Context, token string, opts ...Option) *Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)

	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: oauth2.NewClient(ctx, ts),
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Me returns the user owning the token.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var resp envelope[User]
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// GetTask fetches a task with its project memberships.
func (c *Client) GetTask(ctx context.Context, taskID string) (*Task, error) {
	q := url.Values{"opt_fields": {"name,completed,projects.name"}}
	var resp envelope[Task]
	if err := c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(taskID), q, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching task %s: %w", taskID, err)
	}
	return &resp.Data, nil
}

// UpdateTask applies a partial update to a task.
func (c *Client) UpdateTask(ctx context.Context, taskID string, update TaskUpdate) error {
	body := envelope[TaskUpdate]{Data: update}
	if err := c.do(ctx, http.MethodPut, "/tasks/"+url.PathEscape(taskID), nil, body, nil); err != nil {
		return fmt.Errorf("updating task %s: %w", taskID, err)
	}
	return nil
}

// ListSections returns the sections of a project.
func (c *Client) ListSections(ctx context.Context, projectID string) ([]Section, error) {
	var resp page[Section]
	path := "/projects/" + url.PathEscape(projectID) + "/sections"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("listing sections of project %s: %w", projectID, err)
	}
	return resp.Data, nil
}

// AddTaskToSection moves a task into a section.
func (c *Client) AddTaskToSection(ctx context.Context, sectionID, taskID string) error {
	body := envelope[map[string]string]{Data: map[string]string{"task": taskID}}
	path := "/sections/" + url.PathEscape(sectionID) + "/addTask"
	if err := c.do(ctx, http.MethodPost, path, nil, body, nil); err != nil {
		return fmt.Errorf("adding task %s to section %s: %w", taskID, sectionID, err)
	}
	return nil
}

// ListStories returns every story on a task, following pagination.
func (c *Client) ListStories(ctx context.Context, taskID string) ([]Story, error) {
	path := "/tasks/" + url.PathEscape(taskID) + "/stories"
	var stories []Story
	offset := ""
	for {
		q := url.Values{
			"limit":      {fmt.Sprint(storiesPageSize)},
			"opt_fields": {"text,is_pinned"},
		}
		if offset != "" {
			q.Set("offset", offset)
		}

		var resp page[Story]
		if err := c.do(ctx, http.MethodGet, path, q, nil, &resp); err != nil {
			return nil, fmt.Errorf("listing stories of task %s: %w", taskID, err)
		}
		stories = append(stories, resp.Data...)

		if resp.NextPage == nil || resp.NextPage.Offset == "" {
			return stories, nil
		}
		offset = resp.NextPage.Offset
	}
}

// CreateStory posts a comment on a task.
func (c *Client) CreateStory(ctx context.Context, taskID string, req StoryRequest) (*Story, error) {
	body := envelope[StoryRequest]{Data: req}
	var resp envelope[Story]
	path := "/tasks/" + url.PathEscape(taskID) + "/stories"
	if err := c.do(ctx, http.MethodPost, path, nil, body, &resp); err != nil {
		return nil, fmt.Errorf("creating story on task %s: %w", taskID, err)
	}
	return &resp.Data, nil
}

// DeleteStory removes a comment.
func (c *Client) DeleteStory(ctx context.Context, storyID string) error {
	if err := c.do(ctx, http.MethodDelete, "/stories/"+url.PathEscape(storyID), nil, nil, nil); err != nil {
		return fmt.Errorf("deleting story %s: %w", storyID, err)
	}
	return nil
}

// ListCustomFieldSettings returns the custom fields attached to a project.
func (c *Client) ListCustomFieldSettings(ctx context.Context, projectID string) ([]CustomFieldSetting, error) {
	q := url.Values{"opt_fields": {"custom_field.name,custom_field.resource_subtype,custom_field.enum_options.name"}}
	var resp page[CustomFieldSetting]
	path := "/projects/" + url.PathEscape(projectID) + "/custom_field_settings"
	if err := c.do(ctx, http.MethodGet, path, q, nil, &resp); err != nil {
		return nil, fmt.Errorf("listing custom fields of project %s: %w", projectID, err)
	}
	return resp.Data, nil
}

// do builds the request, enforces the timeout and decodes the JSON reply.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, result interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s on %s %s", ErrTimeout, c.timeout, method, path)
		}
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Method: method, Path: path}
		var errResp errorResponse
		if json.Unmarshal(respBody, &errResp) == nil {
			for _, e := range errResp.Errors {
				apiErr.Messages = append(apiErr.Messages, e.Message)
			}
		}
		return apiErr
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshaling response from %s %s: %w", method, path, err)
	}
	return nil
}
