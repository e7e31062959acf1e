// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"fmt"
	"net/url"
)

// Organization invitation roles accepted by the invitations endpoint.
const (
	RoleDirectMember   = "direct_member"
	RoleAdmin          = "admin"
	RoleBillingManager = "billing_manager"
	RoleReinstate      = "reinstate"
)

// CreateOrgInvitationRequest contains the fields for inviting a user to
// an organization. Exactly one of InviteeID or Email is set.
type CreateOrgInvitationRequest struct {
	InviteeID int64   `json:"invitee_id,omitempty"`
	Email     string  `json:"email,omitempty"`
	Role      string  `json:"role,omitempty"`
	TeamIDs   []int64 `json:"team_ids,omitempty"`
}

// CreateOrgInvitation invites a user to an organization, optionally
// adding them to teams once they accept. Server errors are retried: a
// repeated invitation is rejected with a pending-invitation 422
// rather than creating a second one.
func (client *Client) CreateOrgInvitation(ctx context.Context, org string, request CreateOrgInvitationRequest) (*Invitation, error) {
	var invitation Invitation
	path := fmt.Sprintf("/orgs/%s/invitations", url.PathEscape(org))
	if err := client.postRepeatable(ctx, path, request, &invitation); err != nil {
		return nil, fmt.Errorf("inviting user %d to %s: %w", request.InviteeID, org, err)
	}
	return &invitation, nil
}
