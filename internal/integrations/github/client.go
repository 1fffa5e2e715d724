// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-03-05

package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v60/github"
)

// Commit status states used by assert-link.
const (
	StateSuccess = "success"
	StateError   = "error"
)

// Status is a commit status to publish.
type Status struct {
	State       string
	Context     string
	Description string
}

// Client wraps the GitHub API client.
type Client struct {
	client *github.Client
}

// CreateStatus sets a commit status on sha.
func (c *Client) CreateStatus(ctx context.Context, owner, repo, sha string, status Status) error {
	if strings.TrimSpace(sha) == "" {
		return fmt.Errorf("commit sha cannot be empty")
	}
	if status.State != StateSuccess && status.State != StateError {
		return fmt.Errorf("unsupported status state %q", status.State)
	}

	_, _, err := c.client.Repositories.CreateStatus(ctx, owner, repo, sha, &github.RepoStatus{
		State:       github.String(status.State),
		Context:     github.String(status.Context),
		Description: github.String(status.Description),
	})
	if err != nil {
		return fmt.Errorf("failed to create status: %w", err)
	}
	return nil
}

// GetPullRequest fetches pull request details.
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (*github.PullRequest, error) {
	if number <= 0 {
		return nil, fmt.Errorf("invalid pull request number %d", number)
	}

	pr, _, err := c.client.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pull request: %w", err)
	}
	return pr, nil
}
