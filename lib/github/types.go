// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"strings"
	"time"
)

// User is a GitHub user account.
type User struct {
	Login   string `json:"login"`
	ID      int64  `json:"id"`
	Type    string `json:"type"` // "User", "Bot", "Organization"
	HTMLURL string `json:"html_url"`
}

// Team is an organization team.
type Team struct {
	ID      int64  `json:"id"`
	Slug    string `json:"slug"`
	Name    string `json:"name"`
	HTMLURL string `json:"html_url"`
}

// TeamMembership is a user's membership in a team. State is "active"
// or "pending".
type TeamMembership struct {
	Role  string `json:"role"`
	State string `json:"state"`
	URL   string `json:"url"`
}

// Invitation is a pending organization invitation.
type Invitation struct {
	ID        int64     `json:"id"`
	Login     string    `json:"login"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Inviter   User      `json:"inviter"`
	CreatedAt time.Time `json:"created_at"`
}

// Label is a GitHub issue label.
type Label struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Issue is a GitHub issue.
type Issue struct {
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	State     string     `json:"state"` // "open" or "closed"
	HTMLURL   string     `json:"html_url"`
	User      User       `json:"user"`
	Labels    []Label    `json:"labels"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ClosedAt  *time.Time `json:"closed_at"`
}

// HasLabel reports whether the issue carries a label with the given
// name. GitHub label names are case-insensitive.
func (issue *Issue) HasLabel(name string) bool {
	for _, label := range issue.Labels {
		if strings.EqualFold(label.Name, name) {
			return true
		}
	}
	return false
}

// Comment is a GitHub issue comment.
type Comment struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	HTMLURL   string    `json:"html_url"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
