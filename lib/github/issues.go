// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"fmt"
)

// Issue states accepted by UpdateIssue.
const (
	StateOpen   = "open"
	StateClosed = "closed"
)

// UpdateIssueRequest contains the fields for updating an issue. Only
// non-nil fields are sent in the PATCH request.
type UpdateIssueRequest struct {
	Title       *string `json:"title,omitempty"`
	Body        *string `json:"body,omitempty"`
	State       *string `json:"state,omitempty"`        // "open" or "closed"
	StateReason *string `json:"state_reason,omitempty"` // "completed", "not_planned", "reopened"
}

// GetIssue retrieves a single issue by number.
func (client *Client) GetIssue(ctx context.Context, owner, repo string, number int) (*Issue, error) {
	var issue Issue
	if err := client.get(ctx, issuePath(owner, repo, number, ""), &issue); err != nil {
		return nil, fmt.Errorf("getting issue %s/%s#%d: %w", owner, repo, number, err)
	}
	return &issue, nil
}

// UpdateIssue updates an existing issue.
func (client *Client) UpdateIssue(ctx context.Context, owner, repo string, number int, request UpdateIssueRequest) (*Issue, error) {
	var issue Issue
	if err := client.patch(ctx, issuePath(owner, repo, number, ""), request, &issue); err != nil {
		return nil, fmt.Errorf("updating issue %s/%s#%d: %w", owner, repo, number, err)
	}
	return &issue, nil
}

// CreateIssueComment creates a comment on an issue.
func (client *Client) CreateIssueComment(ctx context.Context, owner, repo string, number int, body string) (*Comment, error) {
	var comment Comment
	request := struct {
		Body string `json:"body"`
	}{Body: body}
	if err := client.post(ctx, issuePath(owner, repo, number, "/comments"), request, &comment); err != nil {
		return nil, fmt.Errorf("creating comment on %s/%s#%d: %w", owner, repo, number, err)
	}
	return &comment, nil
}

// ListIssueComments returns a paginated iterator over the comments on
// an issue, oldest first.
func (client *Client) ListIssueComments(owner, repo string, number int) *PageIterator[Comment] {
	return list[Comment](client, issuePath(owner, repo, number, "/comments")+"?per_page=100")
}

// GetIssueComments returns every comment on an issue, oldest first.
func (client *Client) GetIssueComments(ctx context.Context, owner, repo string, number int) ([]Comment, error) {
	comments, err := client.ListIssueComments(owner, repo, number).Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing comments on %s/%s#%d: %w", owner, repo, number, err)
	}
	return comments, nil
}

// AddIssueLabels adds labels to an issue, creating any label that does
// not exist in the repository. Returns the issue's full label set.
func (client *Client) AddIssueLabels(ctx context.Context, owner, repo string, number int, labels []string) ([]Label, error) {
	var result []Label
	request := struct {
		Labels []string `json:"labels"`
	}{Labels: labels}
	if err := client.postRepeatable(ctx, issuePath(owner, repo, number, "/labels"), request, &result); err != nil {
		return nil, fmt.Errorf("adding labels %v to %s/%s#%d: %w", labels, owner, repo, number, err)
	}
	return result, nil
}

func issuePath(owner, repo string, number int, suffix string) string {
	return fmt.Sprintf("/repos/%s/%s/issues/%d%s", owner, repo, number, suffix)
}
