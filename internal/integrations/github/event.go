// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-05
// Last Modified: 2026-03-09

package github

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/go-github/v60/github"
)

// PullRequestInfo is what the step needs from the triggering pull request.
type PullRequestInfo struct {
	Owner   string
	Repo    string
	Number  int
	Body    string
	HeadSHA string
}

// FromPullRequest extracts PullRequestInfo from an API pull request.
func FromPullRequest(owner, repo string, pr *github.PullRequest) *PullRequestInfo {
	if pr == nil {
		return nil
	}
	return &PullRequestInfo{
		Owner:   owner,
		Repo:    repo,
		Number:  pr.GetNumber(),
		Body:    pr.GetBody(),
		HeadSHA: pr.GetHead().GetSHA(),
	}
}

// LoadEvent reads a workflow event payload. It returns nil without error
// when the payload carries no pull request (e.g. a push event).
func LoadEvent(path string) (*PullRequestInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event payload: %w", err)
	}

	var event github.PullRequestEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("failed to parse event payload: %w", err)
	}
	if event.PullRequest == nil {
		return nil, nil
	}

	owner := event.GetRepo().GetOwner().GetLogin()
	repo := event.GetRepo().GetName()
	if owner == "" || repo == "" {
		owner, repo, _ = RepoFromEnv()
	}
	return FromPullRequest(owner, repo, event.PullRequest), nil
}

// RepoFromEnv parses GITHUB_REPOSITORY.
func RepoFromEnv() (owner, repo string, err error) {
	return SplitRepo(os.Getenv("GITHUB_REPOSITORY"))
}

// SplitRepo parses "owner/name".
func SplitRepo(full string) (owner, repo string, err error) {
	parts := strings.Split(full, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q (expected owner/name)", full)
	}
	return parts[0], parts[1], nil
}
