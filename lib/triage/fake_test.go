// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

package triage

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/lindluni/warden-invite/lib/accessrequest"
	"github.com/lindluni/warden-invite/lib/github"
	"github.com/lindluni/warden-invite/lib/notify"
	"github.com/lindluni/warden-invite/lib/policy"
)

// fakePlatform records every call, in order, into a shared call log.
// Errors are injected per operation name.
type fakePlatform struct {
	calls    *[]string
	issue    github.Issue
	errors   map[string]error
	comments []string
	invites  []github.CreateOrgInvitationRequest
	labels   []string
	updates  []github.UpdateIssueRequest
	teams    []string
}

func newFakePlatform() (*fakePlatform, *[]string) {
	calls := &[]string{}
	return &fakePlatform{
		calls:  calls,
		issue:  github.Issue{Number: 12, State: github.StateOpen, HTMLURL: "https://github.com/acme/access/issues/12"},
		errors: map[string]error{},
	}, calls
}

func (platform *fakePlatform) call(name string) error {
	*platform.calls = append(*platform.calls, name)
	return platform.errors[name]
}

func (platform *fakePlatform) GetIssue(ctx context.Context, owner, repo string, number int) (*github.Issue, error) {
	if err := platform.call("get-issue"); err != nil {
		return nil, err
	}
	issue := platform.issue
	return &issue, nil
}

func (platform *fakePlatform) CreateOrgInvitation(ctx context.Context, org string, request github.CreateOrgInvitationRequest) (*github.Invitation, error) {
	if err := platform.call("invite"); err != nil {
		return nil, err
	}
	platform.invites = append(platform.invites, request)
	return &github.Invitation{ID: 1}, nil
}

func (platform *fakePlatform) CreateIssueComment(ctx context.Context, owner, repo string, number int, body string) (*github.Comment, error) {
	if err := platform.call("comment"); err != nil {
		return nil, err
	}
	platform.comments = append(platform.comments, body)
	return &github.Comment{ID: int64(len(platform.comments)), Body: body}, nil
}

func (platform *fakePlatform) UpdateIssue(ctx context.Context, owner, repo string, number int, request github.UpdateIssueRequest) (*github.Issue, error) {
	if err := platform.call("close"); err != nil {
		return nil, err
	}
	platform.updates = append(platform.updates, request)
	issue := platform.issue
	issue.State = github.StateClosed
	return &issue, nil
}

func (platform *fakePlatform) AddIssueLabels(ctx context.Context, owner, repo string, number int, labels []string) ([]github.Label, error) {
	if err := platform.call("label"); err != nil {
		return nil, err
	}
	platform.labels = append(platform.labels, labels...)
	return nil, nil
}

func (platform *fakePlatform) AddTeamMembership(ctx context.Context, org, slug, username string) (*github.TeamMembership, error) {
	if err := platform.call("team-membership"); err != nil {
		return nil, err
	}
	platform.teams = append(platform.teams, org+"/"+slug+":"+username)
	return &github.TeamMembership{Role: github.TeamRoleMember, State: "active"}, nil
}

// fakeTransport records sends into the same call log as the platform.
type fakeTransport struct {
	calls    *[]string
	err      error
	messages []notify.Message
}

func (transport *fakeTransport) Name() string  { return "fake" }
func (transport *fakeTransport) Label() string { return "pm-notified" }

func (transport *fakeTransport) Send(ctx context.Context, message notify.Message) error {
	*transport.calls = append(*transport.calls, "notify")
	transport.messages = append(transport.messages, message)
	return transport.err
}

// fakeResolver resolves from fixed maps and records lookups.
type fakeResolver struct {
	calls *[]string
	users map[string]int64
	teams map[string]int64
}

func (resolver *fakeResolver) ResolveUser(ctx context.Context, username string) (int64, error) {
	*resolver.calls = append(*resolver.calls, "resolve-user")
	id, ok := resolver.users[username]
	if !ok {
		return 0, fmt.Errorf("user %q not found", username)
	}
	return id, nil
}

func (resolver *fakeResolver) ResolveTeam(ctx context.Context, slug string) (int64, error) {
	*resolver.calls = append(*resolver.calls, "resolve-team")
	id, ok := resolver.teams[slug]
	if !ok {
		return 0, fmt.Errorf("team %q not found", slug)
	}
	return id, nil
}

func testPolicy() policy.OrganizationPolicy {
	return policy.OrganizationPolicy{
		Suffix:       "@agency.gov",
		Organization: "acme",
		Team:         "contractors",
		Repository:   "access",
		Role:         github.RoleDirectMember,
		Messages:     policy.DefaultMessages(),
	}
}

// testHarness wires an Orchestrator to fakes sharing one call log.
type testHarness struct {
	platform     *fakePlatform
	transport    *fakeTransport
	calls        *[]string
	orchestrator *Orchestrator
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()
	platform, calls := newFakePlatform()
	transport := &fakeTransport{calls: calls}
	orchestrator, err := NewOrchestrator(Config{
		Platform:   platform,
		Dispatcher: notify.NewDispatcher(transport, nil),
		Policy:     testPolicy(),
		Issue:      12,
	})
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}
	return &testHarness{platform: platform, transport: transport, calls: calls, orchestrator: orchestrator}
}

func (harness *testHarness) assertCalls(t *testing.T, want ...string) {
	t.Helper()
	if !slices.Equal(*harness.calls, want) {
		t.Errorf("calls = [%s], want [%s]", strings.Join(*harness.calls, " "), strings.Join(want, " "))
	}
}

func autoApprovedRequest() accessrequest.AccessRequest {
	return accessrequest.AccessRequest{
		Name:          "Jane Public",
		Email:         "jane@agency.gov",
		Username:      "jpublic",
		ApproverEmail: "pm@corp.com",
	}
}

func pendingRequest() accessrequest.AccessRequest {
	return accessrequest.AccessRequest{
		Name:             "Jane Public",
		Email:            "jane@corp.com",
		Username:         "jpublic",
		ApproverEmail:    "pm@agency.gov",
		ApproverUsername: "pmanager",
	}
}

func rejectedRequest() accessrequest.AccessRequest {
	return accessrequest.AccessRequest{
		Name:          "Jane Public",
		Email:         "jane@corp.com",
		Username:      "jpublic",
		ApproverEmail: "pm@corp.com",
	}
}

var testIDs = Identities{UserID: 583231, TeamID: 42}
