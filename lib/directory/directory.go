// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

// Package directory resolves the human-facing names in an access
// request (a GitHub login, a team slug) to the numeric IDs the
// invitation endpoint takes. A lookup failure is an operational fault
// reported as a [*LookupError]; it is never a policy decision.
package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lindluni/warden-invite/lib/github"
)

// Client is the subset of the GitHub API the directory reads.
// *github.Client satisfies it.
type Client interface {
	GetUser(ctx context.Context, username string) (*github.User, error)
	GetTeamBySlug(ctx context.Context, org, slug string) (*github.Team, error)
}

// Kind names what a lookup was resolving.
type Kind string

const (
	KindUser Kind = "user"
	KindTeam Kind = "team"
)

// LookupError reports a failed user or team resolution.
type LookupError struct {
	Kind Kind
	Name string

	// NotFound is true when GitHub answered 404, as opposed to a
	// transport or permission failure.
	NotFound bool

	Err error
}

func (err *LookupError) Error() string {
	if err.NotFound {
		return fmt.Sprintf("resolving %s %q: not found: %v", err.Kind, err.Name, err.Err)
	}
	return fmt.Sprintf("resolving %s %q: %v", err.Kind, err.Name, err.Err)
}

func (err *LookupError) Unwrap() error { return err.Err }

// ErrMissingID reports a successful lookup whose response carried no
// numeric ID. The invitation endpoint would reject a zero ID.
var ErrMissingID = errors.New("response has no id")

// Directory resolves users and teams within one organization.
type Directory struct {
	client       Client
	organization string
	logger       *slog.Logger
}

// New creates a Directory for the given organization. A nil logger
// uses slog.Default().
func New(client Client, organization string, logger *slog.Logger) *Directory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Directory{
		client:       client,
		organization: organization,
		logger:       logger.With("organization", organization),
	}
}

// ResolveUser returns the numeric ID of a GitHub login.
func (directory *Directory) ResolveUser(ctx context.Context, username string) (int64, error) {
	directory.logger.Info("fetching user information", "username", username)
	user, err := directory.client.GetUser(ctx, username)
	if err != nil {
		return 0, &LookupError{Kind: KindUser, Name: username, NotFound: github.IsNotFound(err), Err: err}
	}
	if user == nil || user.ID == 0 {
		return 0, &LookupError{Kind: KindUser, Name: username, Err: ErrMissingID}
	}
	return user.ID, nil
}

// ResolveTeam returns the numeric ID of a team in the directory's
// organization.
func (directory *Directory) ResolveTeam(ctx context.Context, slug string) (int64, error) {
	directory.logger.Info("fetching team information", "team", slug)
	team, err := directory.client.GetTeamBySlug(ctx, directory.organization, slug)
	if err != nil {
		return 0, &LookupError{Kind: KindTeam, Name: slug, NotFound: github.IsNotFound(err), Err: err}
	}
	if team == nil || team.ID == 0 {
		return 0, &LookupError{Kind: KindTeam, Name: slug, Err: ErrMissingID}
	}
	return team.ID, nil
}
