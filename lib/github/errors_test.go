// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"fmt"
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		expected string
	}{
		{
			name:     "simple message",
			err:      &APIError{StatusCode: 404, Message: "Not Found"},
			expected: "github: HTTP 404: Not Found",
		},
		{
			name: "validation error with message",
			err: &APIError{
				StatusCode: 422,
				Message:    "Validation Failed",
				Errors: []ValidationError{
					{Resource: "OrganizationInvitation", Field: "data", Code: "unprocessable", Message: "Invitee is already a part of this organization"},
				},
			},
			expected: "github: HTTP 422: Validation Failed; OrganizationInvitation.data: Invitee is already a part of this organization",
		},
		{
			name: "validation errors falling back to code",
			err: &APIError{
				StatusCode: 422,
				Message:    "Validation Failed",
				Errors: []ValidationError{
					{Resource: "Label", Field: "name", Code: "missing_field"},
					{Resource: "IssueComment", Field: "body", Message: "is too long"},
				},
			},
			expected: "github: HTTP 422: Validation Failed; Label.name: missing_field; IssueComment.body: is too long",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.err.Error(); got != test.expected {
				t.Errorf("got %q, want %q", got, test.expected)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(&APIError{StatusCode: 404, Message: "Not Found"}) {
		t.Error("expected IsNotFound for 404")
	}
	if IsNotFound(&APIError{StatusCode: 403, Message: "Forbidden"}) {
		t.Error("unexpected IsNotFound for 403")
	}
	if IsNotFound(fmt.Errorf("network error")) {
		t.Error("unexpected IsNotFound for non-APIError")
	}
}

func TestIsRateLimited(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "429 response",
			err:      &APIError{StatusCode: 429, Message: "Too Many Requests"},
			expected: true,
		},
		{
			name:     "403 rate limit exceeded",
			err:      &APIError{StatusCode: 403, Message: "API rate limit exceeded for user ID 1"},
			expected: true,
		},
		{
			name:     "403 abuse detection",
			err:      &APIError{StatusCode: 403, Message: "You have triggered an abuse detection mechanism"},
			expected: true,
		},
		{
			name:     "403 permission denied",
			err:      &APIError{StatusCode: 403, Message: "Resource not accessible by integration"},
			expected: false,
		},
		{
			name:     "non-APIError",
			err:      fmt.Errorf("network error"),
			expected: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := IsRateLimited(test.err); got != test.expected {
				t.Errorf("IsRateLimited = %v, want %v", got, test.expected)
			}
		})
	}
}

func TestIsValidationFailed(t *testing.T) {
	if !IsValidationFailed(&APIError{StatusCode: 422, Message: "Validation Failed"}) {
		t.Error("expected IsValidationFailed for 422")
	}
	if IsValidationFailed(&APIError{StatusCode: 400, Message: "Bad Request"}) {
		t.Error("unexpected IsValidationFailed for 400")
	}
}

func TestInvitationConflicts(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		member  bool
		invited bool
	}{
		{
			name: "already part of organization",
			err: &APIError{StatusCode: 422, Message: "Validation Failed", Errors: []ValidationError{
				{Resource: "OrganizationInvitation", Message: "Invitee is already a part of this organization"},
			}},
			member: true,
		},
		{
			name:    "pending invitation in top-level message",
			err:     &APIError{StatusCode: 422, Message: "Over invitation rate limit; invitee has a pending invitation"},
			invited: true,
		},
		{
			name: "already invited in validation error",
			err: &APIError{StatusCode: 422, Message: "Validation Failed", Errors: []ValidationError{
				{Resource: "OrganizationInvitation", Message: "Invitee has already been invited"},
			}},
			invited: true,
		},
		{
			name: "unrelated validation failure",
			err: &APIError{StatusCode: 422, Message: "Validation Failed", Errors: []ValidationError{
				{Resource: "OrganizationInvitation", Field: "team_ids", Code: "invalid"},
			}},
		},
		{
			name: "same text on a different status",
			err:  &APIError{StatusCode: 403, Message: "already a member"},
		},
		{
			name: "wrapped",
			err: fmt.Errorf("inviting user 1 to acme: %w", &APIError{StatusCode: 422, Message: "Validation Failed", Errors: []ValidationError{
				{Message: "Invitee is already a part of this organization"},
			}}),
			member: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := IsAlreadyMember(test.err); got != test.member {
				t.Errorf("IsAlreadyMember = %v, want %v", got, test.member)
			}
			if got := IsAlreadyInvited(test.err); got != test.invited {
				t.Errorf("IsAlreadyInvited = %v, want %v", got, test.invited)
			}
		})
	}
}

func TestAPIError_WrappedInFmt(t *testing.T) {
	original := &APIError{StatusCode: 404, Message: "Not Found"}
	wrapped := fmt.Errorf("getting user octocat: %w", original)
	if !IsNotFound(wrapped) {
		t.Error("IsNotFound should see through fmt.Errorf wrapping")
	}
}
