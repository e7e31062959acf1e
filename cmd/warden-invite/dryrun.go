// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/lindluni/warden-invite/lib/github"
	"github.com/lindluni/warden-invite/lib/notify"
	"github.com/lindluni/warden-invite/lib/triage"
)

// platformClient is everything the run needs from GitHub besides
// directory lookups. *github.Client satisfies it.
type platformClient interface {
	triage.Platform
	notify.IssueCommenter
}

// dryRunPlatform passes reads through to the real API and logs writes
// instead of making them. Writes return synthetic results so the rest
// of the run proceeds as it would for real.
type dryRunPlatform struct {
	reads  platformClient
	logger *slog.Logger
}

func newDryRunPlatform(reads platformClient, logger *slog.Logger) *dryRunPlatform {
	return &dryRunPlatform{reads: reads, logger: logger}
}

func (platform *dryRunPlatform) GetIssue(ctx context.Context, owner, repo string, number int) (*github.Issue, error) {
	return platform.reads.GetIssue(ctx, owner, repo, number)
}

func (platform *dryRunPlatform) GetIssueComments(ctx context.Context, owner, repo string, number int) ([]github.Comment, error) {
	return platform.reads.GetIssueComments(ctx, owner, repo, number)
}

func (platform *dryRunPlatform) CreateOrgInvitation(ctx context.Context, org string, request github.CreateOrgInvitationRequest) (*github.Invitation, error) {
	platform.logger.Info("dry run: would invite user",
		"organization", org,
		"invitee_id", request.InviteeID,
		"role", request.Role,
		"team_ids", request.TeamIDs,
	)
	return &github.Invitation{Role: request.Role}, nil
}

func (platform *dryRunPlatform) CreateIssueComment(ctx context.Context, owner, repo string, number int, body string) (*github.Comment, error) {
	platform.logger.Info("dry run: would comment",
		"issue", issueRef(owner, repo, number),
		"body", body,
	)
	return &github.Comment{Body: body}, nil
}

func (platform *dryRunPlatform) UpdateIssue(ctx context.Context, owner, repo string, number int, request github.UpdateIssueRequest) (*github.Issue, error) {
	issue := &github.Issue{Number: number}
	attrs := []any{"issue", issueRef(owner, repo, number)}
	if request.State != nil {
		issue.State = *request.State
		attrs = append(attrs, "state", *request.State)
	}
	if request.StateReason != nil {
		attrs = append(attrs, "state_reason", *request.StateReason)
	}
	platform.logger.Info("dry run: would update issue", attrs...)
	return issue, nil
}

func (platform *dryRunPlatform) AddTeamMembership(ctx context.Context, org, slug, username string) (*github.TeamMembership, error) {
	platform.logger.Info("dry run: would add team member",
		"organization", org,
		"team", slug,
		"username", username,
	)
	return &github.TeamMembership{Role: github.TeamRoleMember, State: "active"}, nil
}

func (platform *dryRunPlatform) AddIssueLabels(ctx context.Context, owner, repo string, number int, labels []string) ([]github.Label, error) {
	platform.logger.Info("dry run: would label issue",
		"issue", issueRef(owner, repo, number),
		"labels", labels,
	)
	result := make([]github.Label, len(labels))
	for index, name := range labels {
		result[index] = github.Label{Name: name}
	}
	return result, nil
}

// dryRunTransport logs notifications instead of delivering them. It
// wraps transports that do not go through the platform, such as
// email.
type dryRunTransport struct {
	notify.Transport
	logger *slog.Logger
}

func (transport *dryRunTransport) Send(ctx context.Context, message notify.Message) error {
	transport.logger.Info("dry run: would notify approver",
		"transport", transport.Name(),
		"approver_email", message.Recipient.Email,
		"subject", message.Subject,
		"fingerprint", message.Fingerprint,
	)
	return nil
}

func issueRef(owner, repo string, number int) string {
	return owner + "/" + repo + "#" + strconv.Itoa(number)
}
