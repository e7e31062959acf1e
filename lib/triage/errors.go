// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

package triage

import (
	"fmt"
)

// GrantError reports a failed organization invitation. Nothing that
// implies success is posted after one.
type GrantError struct {
	Organization string
	UserID       int64
	TeamID       int64
	Err          error
}

func (err *GrantError) Error() string {
	return fmt.Sprintf("inviting user %d to %s (team %d): %v", err.UserID, err.Organization, err.TeamID, err.Err)
}

func (err *GrantError) Unwrap() error { return err.Err }

// NotificationError reports that the approver could not be notified.
// Err is the dispatcher's *notify.SendError.
type NotificationError struct {
	Err error
}

func (err *NotificationError) Error() string {
	return fmt.Sprintf("approver notification failed: %v", err.Err)
}

func (err *NotificationError) Unwrap() error { return err.Err }

// PolicyRejection is the deliberate terminal result of a rejected
// request. It is always preceded by a rejection comment on the issue.
type PolicyRejection struct {
	Suffix        string
	Email         string
	ApproverEmail string
}

func (err *PolicyRejection) Error() string {
	return fmt.Sprintf("request rejected: neither %q nor PM/COR %q is in the %s domain",
		err.Email, err.ApproverEmail, err.Suffix)
}

// StepError reports a failed side effect other than the grant and the
// notification.
type StepError struct {
	Step   Action
	Target string
	Err    error
}

func (err *StepError) Error() string {
	return fmt.Sprintf("%s %s: %v", err.Step, err.Target, err.Err)
}

func (err *StepError) Unwrap() error { return err.Err }
