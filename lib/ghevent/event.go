// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

// Package ghevent reads the triggering issue from a GitHub Actions
// event payload (the file named by GITHUB_EVENT_PATH). It fills in
// the issue body, number, and repository when they were not passed as
// inputs, and lets a saved payload be replayed locally. Payloads are
// parsed as JSONC so hand-edited fixtures may carry comments and
// trailing commas.
package ghevent

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// ErrNoIssue is returned for payloads of events that do not concern
// an issue, such as push or workflow_dispatch.
var ErrNoIssue = errors.New("event payload has no issue")

// Issue is the part of an issues or issue_comment event the run needs.
type Issue struct {
	Number  int
	Body    string
	State   string
	HTMLURL string

	// Owner and Repository name the repository the issue belongs to.
	Owner      string
	Repository string

	// Action is the event activity type, for example "opened".
	Action string
}

// wireEvent mirrors the subset of the webhook payload that is read.
type wireEvent struct {
	Action string `json:"action"`
	Issue  *struct {
		Number  int    `json:"number"`
		Body    string `json:"body"`
		State   string `json:"state"`
		HTMLURL string `json:"html_url"`
	} `json:"issue"`
	Repository struct {
		Name  string `json:"name"`
		Owner struct {
			Login string `json:"login"`
		} `json:"owner"`
	} `json:"repository"`
}

// Parse extracts the issue from an event payload.
func Parse(data []byte) (*Issue, error) {
	var event wireEvent
	if err := json.Unmarshal(jsonc.ToJSON(data), &event); err != nil {
		return nil, fmt.Errorf("parsing event payload: %w", err)
	}
	if event.Issue == nil || event.Issue.Number == 0 {
		return nil, ErrNoIssue
	}
	return &Issue{
		Number:     event.Issue.Number,
		Body:       event.Issue.Body,
		State:      event.Issue.State,
		HTMLURL:    event.Issue.HTMLURL,
		Owner:      event.Repository.Owner.Login,
		Repository: event.Repository.Name,
		Action:     event.Action,
	}, nil
}

// LoadIssue reads and parses the event payload at path.
func LoadIssue(path string) (*Issue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading event payload: %w", err)
	}
	issue, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return issue, nil
}
