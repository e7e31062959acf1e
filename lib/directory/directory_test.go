// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/lindluni/warden-invite/lib/github"
)

type fakeClient struct {
	users    map[string]int64
	teams    map[string]int64
	failWith error
	teamOrgs []string
}

func (client *fakeClient) GetUser(ctx context.Context, username string) (*github.User, error) {
	if client.failWith != nil {
		return nil, client.failWith
	}
	id, ok := client.users[username]
	if !ok {
		return nil, &github.APIError{StatusCode: 404, Message: "Not Found"}
	}
	return &github.User{Login: username, ID: id}, nil
}

func (client *fakeClient) GetTeamBySlug(ctx context.Context, org, slug string) (*github.Team, error) {
	client.teamOrgs = append(client.teamOrgs, org)
	if client.failWith != nil {
		return nil, client.failWith
	}
	id, ok := client.teams[slug]
	if !ok {
		return nil, &github.APIError{StatusCode: 404, Message: "Not Found"}
	}
	return &github.Team{Slug: slug, ID: id}, nil
}

func TestResolve(t *testing.T) {
	client := &fakeClient{
		users: map[string]int64{"octocat": 583231},
		teams: map[string]int64{"contractors": 42},
	}
	directory := New(client, "acme", nil)

	userID, err := directory.ResolveUser(context.Background(), "octocat")
	if err != nil || userID != 583231 {
		t.Errorf("ResolveUser = %d, %v; want 583231, nil", userID, err)
	}
	teamID, err := directory.ResolveTeam(context.Background(), "contractors")
	if err != nil || teamID != 42 {
		t.Errorf("ResolveTeam = %d, %v; want 42, nil", teamID, err)
	}
	if len(client.teamOrgs) != 1 || client.teamOrgs[0] != "acme" {
		t.Errorf("team lookups used orgs %v, want [acme]", client.teamOrgs)
	}
}

func TestResolve_NotFound(t *testing.T) {
	directory := New(&fakeClient{}, "acme", nil)

	tests := []struct {
		name    string
		resolve func() (int64, error)
		kind    Kind
	}{
		{"user", func() (int64, error) { return directory.ResolveUser(context.Background(), "ghost") }, KindUser},
		{"team", func() (int64, error) { return directory.ResolveTeam(context.Background(), "ghosts") }, KindTeam},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := test.resolve()
			var lookupError *LookupError
			if !errors.As(err, &lookupError) {
				t.Fatalf("expected *LookupError, got %v", err)
			}
			if lookupError.Kind != test.kind || !lookupError.NotFound {
				t.Errorf("LookupError = %+v, want kind %s and NotFound", lookupError, test.kind)
			}
			if !github.IsNotFound(err) {
				t.Error("LookupError should unwrap to the API error")
			}
		})
	}
}

func TestResolve_TransientFailure(t *testing.T) {
	cause := errors.New("connection reset by peer")
	directory := New(&fakeClient{failWith: cause}, "acme", nil)

	_, err := directory.ResolveUser(context.Background(), "octocat")
	var lookupError *LookupError
	if !errors.As(err, &lookupError) {
		t.Fatalf("expected *LookupError, got %v", err)
	}
	if lookupError.NotFound {
		t.Error("transport failure reported as not found")
	}
	if !errors.Is(err, cause) {
		t.Error("LookupError should wrap its cause")
	}
	if got, want := err.Error(), `resolving user "octocat": connection reset by peer`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestResolve_MissingID(t *testing.T) {
	directory := New(&fakeClient{
		users: map[string]int64{"octocat": 0},
		teams: map[string]int64{"contractors": 0},
	}, "acme", nil)

	tests := []struct {
		name    string
		resolve func() (int64, error)
		kind    Kind
	}{
		{"user", func() (int64, error) { return directory.ResolveUser(context.Background(), "octocat") }, KindUser},
		{"team", func() (int64, error) { return directory.ResolveTeam(context.Background(), "contractors") }, KindTeam},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			id, err := test.resolve()
			if id != 0 {
				t.Errorf("id = %d, want 0", id)
			}
			var lookupError *LookupError
			if !errors.As(err, &lookupError) {
				t.Fatalf("expected *LookupError, got %v", err)
			}
			if lookupError.Kind != test.kind || lookupError.NotFound {
				t.Errorf("LookupError = %+v, want kind %s without NotFound", lookupError, test.kind)
			}
			if !errors.Is(err, ErrMissingID) {
				t.Errorf("error = %v, want ErrMissingID", err)
			}
		})
	}
}
