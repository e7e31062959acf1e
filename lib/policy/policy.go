// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

// Package policy decides how an access request is handled. [Decide]
// is a pure function of the request and the [OrganizationPolicy]; the
// side effects for each [Outcome] live in package triage.
package policy

import (
	"strings"

	"github.com/lindluni/warden-invite/lib/accessrequest"
)

// Outcome is the result of evaluating a request against the policy.
type Outcome int

const (
	// AutoApproved: the requester's own email carries the suffix.
	AutoApproved Outcome = iota + 1

	// PendingApproval: the approver's email carries the suffix, so
	// access is granted and the approver is asked to confirm.
	PendingApproval

	// Rejected: neither email carries the suffix.
	Rejected
)

// String returns the kebab-case name used in logs and summaries.
func (outcome Outcome) String() string {
	switch outcome {
	case AutoApproved:
		return "auto-approved"
	case PendingApproval:
		return "pending-approval"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// OrganizationPolicy is the immutable policy for one run.
type OrganizationPolicy struct {
	// Suffix must appear in an email for it to qualify, for example
	// "@agency.gov".
	Suffix string

	// Organization is the GitHub organization login invitations are
	// created in.
	Organization string

	// Team is the slug of the team invitees join.
	Team string

	// Repository is the repository holding the access-request issues.
	// Issues are addressed as Organization/Repository.
	Repository string

	// Role is the organization invitation role.
	Role string

	// Messages holds the templates for every comment and email.
	Messages Messages
}

// Decide maps a request to its outcome. The requester's email is
// checked first, then the approver's. Containment is a plain substring
// test, so a suffix of "agency.gov" also matches "notagency.gov";
// deployments that need a strict domain match configure the suffix
// with its leading "@".
func Decide(request accessrequest.AccessRequest, policy OrganizationPolicy) Outcome {
	switch {
	case strings.Contains(request.Email, policy.Suffix):
		return AutoApproved
	case strings.Contains(request.ApproverEmail, policy.Suffix):
		return PendingApproval
	default:
		return Rejected
	}
}
