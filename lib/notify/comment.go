// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lindluni/warden-invite/lib/github"
)

// DefaultCommentLabel marks an issue whose approver was notified by
// comment.
const DefaultCommentLabel = "pm-notified"

// IssueCommenter is the subset of the GitHub API the comment transport
// uses. *github.Client satisfies it.
type IssueCommenter interface {
	CreateIssueComment(ctx context.Context, owner, repo string, number int, body string) (*github.Comment, error)
	GetIssueComments(ctx context.Context, owner, repo string, number int) ([]github.Comment, error)
}

// CommentConfig configures a CommentTransport.
type CommentConfig struct {
	Client IssueCommenter

	// Owner, Repository and Issue address the originating issue.
	Owner      string
	Repository string
	Issue      int

	// Label overrides DefaultCommentLabel.
	Label string

	Logger *slog.Logger
}

// CommentTransport notifies the approver with comments on the
// originating issue.
type CommentTransport struct {
	client IssueCommenter
	owner  string
	repo   string
	issue  int
	label  string
	logger *slog.Logger
}

// NewCommentTransport creates a CommentTransport.
func NewCommentTransport(config CommentConfig) (*CommentTransport, error) {
	if config.Client == nil {
		return nil, errors.New("notify: comment transport requires a client")
	}
	if config.Owner == "" || config.Repository == "" || config.Issue <= 0 {
		return nil, fmt.Errorf("notify: comment transport requires an issue (got %s/%s#%d)",
			config.Owner, config.Repository, config.Issue)
	}
	label := config.Label
	if label == "" {
		label = DefaultCommentLabel
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CommentTransport{
		client: config.Client,
		owner:  config.Owner,
		repo:   config.Repository,
		issue:  config.Issue,
		label:  label,
		logger: logger,
	}, nil
}

func (transport *CommentTransport) Name() string  { return "comment" }
func (transport *CommentTransport) Label() string { return transport.label }

// Send posts the approver notice (when the approver's username is
// known) and the approval command. Each comment carries a hidden
// marker with the request fingerprint, so a re-run posts only what an
// earlier run did not: nothing once the command exists, and only the
// command when the notice exists.
func (transport *CommentTransport) Send(ctx context.Context, message Message) error {
	if message.Command == "" {
		return errors.New("approval command is empty")
	}

	var noticeMarker, commandMarker string
	var noticePosted bool
	if message.Fingerprint != "" {
		noticeMarker = fingerprintMarker(markerNotice, message.Fingerprint)
		commandMarker = fingerprintMarker(markerCommand, message.Fingerprint)
		posted, err := transport.postedMarkers(ctx, noticeMarker, commandMarker)
		if err != nil {
			return err
		}
		if posted[commandMarker] {
			transport.logger.Info("approval command already posted, skipping",
				"issue", transport.issue,
				"fingerprint", message.Fingerprint,
			)
			return nil
		}
		noticePosted = posted[noticeMarker]
	}

	switch {
	case message.Recipient.Username == "" || message.Notice == "":
	case noticePosted:
		transport.logger.Info("approver notice already posted, skipping",
			"issue", transport.issue,
			"fingerprint", message.Fingerprint,
		)
	default:
		transport.logger.Info("creating approver notice comment",
			"issue", transport.issue,
			"approver_username", message.Recipient.Username,
		)
		if _, err := transport.client.CreateIssueComment(ctx, transport.owner, transport.repo, transport.issue, withMarker(message.Notice, noticeMarker)); err != nil {
			return err
		}
	}

	transport.logger.Info("creating approval comment", "issue", transport.issue)
	if _, err := transport.client.CreateIssueComment(ctx, transport.owner, transport.repo, transport.issue, withMarker(message.Command, commandMarker)); err != nil {
		return err
	}
	return nil
}

// postedMarkers reports which of markers appear in existing comments.
func (transport *CommentTransport) postedMarkers(ctx context.Context, markers ...string) (map[string]bool, error) {
	comments, err := transport.client.GetIssueComments(ctx, transport.owner, transport.repo, transport.issue)
	if err != nil {
		return nil, err
	}
	posted := make(map[string]bool, len(markers))
	for _, comment := range comments {
		for _, marker := range markers {
			if strings.Contains(comment.Body, marker) {
				posted[marker] = true
			}
		}
	}
	return posted, nil
}

func withMarker(body, marker string) string {
	if marker == "" {
		return body
	}
	return body + "\n\n" + marker
}

// Marker kinds distinguish the two comments of one notification.
const (
	markerNotice  = "notice"
	markerCommand = "request"
)

// fingerprintMarker is an HTML comment, invisible in rendered issues.
func fingerprintMarker(kind, fingerprint string) string {
	return "<!-- warden-invite:" + kind + " " + fingerprint + " -->"
}
