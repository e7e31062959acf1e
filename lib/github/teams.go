// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"fmt"
	"net/url"
)

// GetTeamBySlug retrieves an organization team by its slug.
func (client *Client) GetTeamBySlug(ctx context.Context, org, slug string) (*Team, error) {
	var team Team
	path := fmt.Sprintf("/orgs/%s/teams/%s", url.PathEscape(org), url.PathEscape(slug))
	if err := client.get(ctx, path, &team); err != nil {
		return nil, fmt.Errorf("getting team %s/%s: %w", org, slug, err)
	}
	return &team, nil
}

// Team membership roles accepted by AddTeamMembership.
const (
	TeamRoleMember     = "member"
	TeamRoleMaintainer = "maintainer"
)

// AddTeamMembership adds an organization member to a team, or updates
// their role if they already belong to it. For a user who is not yet
// an organization member GitHub sends an invitation instead, and the
// membership state is "pending".
func (client *Client) AddTeamMembership(ctx context.Context, org, slug, username string) (*TeamMembership, error) {
	var membership TeamMembership
	path := fmt.Sprintf("/orgs/%s/teams/%s/memberships/%s", url.PathEscape(org), url.PathEscape(slug), url.PathEscape(username))
	request := struct {
		Role string `json:"role"`
	}{Role: TeamRoleMember}
	if err := client.put(ctx, path, request, &membership); err != nil {
		return nil, fmt.Errorf("adding %s to team %s/%s: %w", username, org, slug, err)
	}
	return &membership, nil
}
