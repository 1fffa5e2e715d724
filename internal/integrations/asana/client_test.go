// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-03
// Last Modified: 2026-03-10

package asana

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(context.Background(), "test-pat", append([]Option{WithBaseURL(srv.URL)}, opts...)...)
}

func wantJSON(t *testing.T, want string, got []byte) {
	t.Helper()
	var w, g any
	if err := json.Unmarshal([]byte(want), &w); err != nil {
		t.Fatalf("bad expected JSON: %v", err)
	}
	if err := json.Unmarshal(got, &g); err != nil {
		t.Fatalf("invalid JSON %q: %v", got, err)
	}
	if !reflect.DeepEqual(w, g) {
		t.Errorf("JSON = %s, want %s", got, want)
	}
}

func TestMeSendsBearerToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/me" {
			t.Errorf("path = %s, want /users/me", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-pat" {
			t.Errorf("Authorization = %q", got)
		}
		_, _ = io.WriteString(w, `{"data":{"gid":"42","name":"CI Bot"}}`)
	})

	user, err := client.Me(context.Background())
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if user.GID != "42" {
		t.Errorf("GID = %q, want 42", user.GID)
	}
}

func TestUnauthorizedIsTyped(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"errors":[{"message":"Not Authorized"}]}`)
	})

	_, err := client.Me(context.Background())
	if !IsUnauthorized(err) {
		t.Fatalf("error = %v, want unauthorized", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %T is not an *APIError", err)
	}
	if !reflect.DeepEqual(apiErr.Messages, []string{"Not Authorized"}) {
		t.Errorf("Messages = %v", apiErr.Messages)
	}
}

func TestGetTaskRequestsProjects(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tasks/456" {
			t.Errorf("path = %s, want /tasks/456", r.URL.Path)
		}
		if fields := r.URL.Query().Get("opt_fields"); !strings.Contains(fields, "projects.name") {
			t.Errorf("opt_fields = %q, want projects.name", fields)
		}
		_, _ = io.WriteString(w, `{"data":{"gid":"456","completed":false,"projects":[{"gid":"1","name":"Foo"}]}}`)
	})

	task, err := client.GetTask(context.Background(), "456")
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if want := []Project{{GID: "1", Name: "Foo"}}; !reflect.DeepEqual(task.Projects, want) {
		t.Errorf("Projects = %+v, want %+v", task.Projects, want)
	}
}

func TestListStoriesFollowsPagination(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch r.URL.Query().Get("offset") {
		case "":
			_, _ = io.WriteString(w, `{"data":[{"gid":"s1","text":"one"}],"next_page":{"offset":"abc"}}`)
		case "abc":
			_, _ = io.WriteString(w, `{"data":[{"gid":"s2","text":"two"}],"next_page":null}`)
		default:
			t.Errorf("unexpected offset %q", r.URL.Query().Get("offset"))
		}
	})

	stories, err := client.ListStories(context.Background(), "456")
	if err != nil {
		t.Fatalf("ListStories: %v", err)
	}
	if calls != 2 {
		t.Errorf("made %d requests, want 2", calls)
	}
	if want := []Story{{GID: "s1", Text: "one"}, {GID: "s2", Text: "two"}}; !reflect.DeepEqual(stories, want) {
		t.Errorf("stories = %+v, want %+v", stories, want)
	}
}

func TestUpdateTaskBody(t *testing.T) {
	var got map[string]map[string]json.RawMessage
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		_, _ = io.WriteString(w, `{"data":{"gid":"456"}}`)
	})

	done := true
	err := client.UpdateTask(context.Background(), "456", TaskUpdate{
		Completed:    &done,
		CustomFields: map[string]json.RawMessage{"cf1": json.RawMessage(`"opt1"`)},
	})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	wantJSON(t, `true`, got["data"]["completed"])
	wantJSON(t, `{"cf1":"opt1"}`, got["data"]["custom_fields"])
}

func TestUpdateTaskOmitsUnsetCompletion(t *testing.T) {
	var got map[string]map[string]json.RawMessage
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	})

	err := client.UpdateTask(context.Background(), "456", TaskUpdate{
		CustomFields: map[string]json.RawMessage{"cf1": json.RawMessage(`3`)},
	})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if v, ok := got["data"]["completed"]; ok {
		t.Errorf("completed sent as %s, want it omitted", v)
	}
}

func TestAddTaskToSection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sections/s9/addTask" {
			t.Errorf("path = %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		wantJSON(t, `{"data":{"task":"456"}}`, body)
		_, _ = io.WriteString(w, `{"data":{}}`)
	})

	if err := client.AddTaskToSection(context.Background(), "s9", "456"); err != nil {
		t.Fatalf("AddTaskToSection: %v", err)
	}
}

func TestDeleteStoryNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		w.WriteHeader(http.StatusNotFound)
	})

	err := client.DeleteStory(context.Background(), "s1")
	if !IsNotFound(err) {
		t.Errorf("error = %v, want not found", err)
	}
}

func TestTimeoutSurfacesErrTimeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, WithTimeout(20*time.Millisecond))

	_, err := client.Me(context.Background())
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("error = %v, want ErrTimeout", err)
	}
}
