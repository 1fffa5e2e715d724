// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-03-10

package github

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestCreateStatusValidation(t *testing.T) {
	client := &Client{client: nil} // nil client for validation testing

	err := client.CreateStatus(context.Background(), "org", "repo", "", Status{State: StateSuccess})
	if err == nil {
		t.Error("Expected error for empty sha")
	}

	err = client.CreateStatus(context.Background(), "org", "repo", "abc", Status{State: "pending"})
	if err == nil {
		t.Error("Expected error for unsupported state")
	}
}

func TestCreateStatusRequest(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/repos/a-cool-owner/a-cool-repo/statuses/1234" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer gh-token" {
			t.Errorf("Unexpected Authorization header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("Failed to decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	client, err := NewClient(context.Background(), "gh-token", WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	err = client.CreateStatus(context.Background(), "a-cool-owner", "a-cool-repo", "1234", Status{
		State:       StateSuccess,
		Context:     "asana-link-presence",
		Description: "asana link not found",
	})
	if err != nil {
		t.Fatalf("CreateStatus: %v", err)
	}
	want := map[string]string{
		"state":       "success",
		"context":     "asana-link-presence",
		"description": "asana link not found",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected body %v, got %v", want, got)
	}
}

func TestGetPullRequestValidation(t *testing.T) {
	client := &Client{client: nil}
	if _, err := client.GetPullRequest(context.Background(), "org", "repo", 0); err == nil {
		t.Error("Expected error for pull request number 0")
	}
}

func TestLoadEvent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "event.json")
	payload := `{
		"action": "opened",
		"number": 7,
		"pull_request": {"number": 7, "body": "Fixes https://app.asana.com/0/1/2", "head": {"sha": "deadbeef"}},
		"repository": {"name": "a-cool-repo", "owner": {"login": "a-cool-owner"}}
	}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}

	pr, err := LoadEvent(path)
	if err != nil {
		t.Fatalf("LoadEvent: %v", err)
	}
	if pr == nil {
		t.Fatal("Expected a pull request")
	}
	want := PullRequestInfo{
		Owner:   "a-cool-owner",
		Repo:    "a-cool-repo",
		Number:  7,
		Body:    "Fixes https://app.asana.com/0/1/2",
		HeadSHA: "deadbeef",
	}
	if *pr != want {
		t.Errorf("Expected %+v, got %+v", want, *pr)
	}
}

func TestLoadEventWithoutPullRequest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "event.json")
	if err := os.WriteFile(path, []byte(`{"ref":"refs/heads/main"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	pr, err := LoadEvent(path)
	if err != nil {
		t.Fatalf("LoadEvent: %v", err)
	}
	if pr != nil {
		t.Errorf("Expected no pull request, got %+v", pr)
	}
}

func TestSplitRepo(t *testing.T) {
	tests := []struct {
		name       string
		full       string
		shouldFail bool
	}{
		{"valid format", "owner/repo", false},
		{"missing slash", "ownerrepo", true},
		{"empty owner", "/repo", true},
		{"empty repo", "owner/", true},
		{"empty string", "", true},
		{"too many slashes", "owner/repo/extra", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := SplitRepo(tt.full)
			if tt.shouldFail && err == nil {
				t.Errorf("SplitRepo(%q) expected error", tt.full)
			}
			if !tt.shouldFail && err != nil {
				t.Errorf("SplitRepo(%q) unexpected error: %v", tt.full, err)
			}
		})
	}
}

func TestSetOutputToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output")
	w := NewWorkflow(io.Discard, path)

	if err := w.SetOutput("result", `["456"]`); err != nil {
		t.Fatalf("SetOutput: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %q", data)
	}
	if !strings.HasPrefix(lines[0], "result<<ghadelimiter_") {
		t.Errorf("Unexpected header %q", lines[0])
	}
	if lines[1] != `["456"]` {
		t.Errorf("Unexpected value %q", lines[1])
	}
	if delim := strings.TrimPrefix(lines[0], "result<<"); lines[2] != delim {
		t.Errorf("Expected closing delimiter %q, got %q", delim, lines[2])
	}
}

func TestSetOutputWithoutFile(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWorkflow(&buf, "").SetOutput("status", "success"); err != nil {
		t.Fatalf("SetOutput: %v", err)
	}
	if got := buf.String(); got != "status=success\n" {
		t.Errorf("Unexpected output %q", got)
	}
}

func TestSetFailedEscapes(t *testing.T) {
	var buf bytes.Buffer
	NewWorkflow(&buf, "").SetFailed("client authorization failed\n100%")
	if got := buf.String(); got != "::error::client authorization failed%0A100%25\n" {
		t.Errorf("Unexpected output %q", got)
	}
}
