// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

// Package triage runs the side effects for a decided access request.
//
// [Runner.Run] is the whole pipeline for one issue: extract the
// request from the issue body, resolve the requester and team IDs,
// decide the [policy.Outcome], and hand it to [Orchestrator.Execute].
//
// Execute issues every call sequentially. Per outcome:
//
//	AutoApproved:    check -> grant -> success comment -> close
//	PendingApproval: check -> grant -> notify -> label
//	                                         \-> failure comment
//	Rejected:        rejection comment
//
// The check reads the issue first: an auto-approved issue that is
// already closed, or a pending issue that already carries the
// transport's label, was handled by an earlier run and is skipped.
// A failing check stops the run before any mutation.
//
// The grant must succeed before anything implying success is posted;
// a [*GrantError] aborts the run. GitHub's 422 for an invitee with a
// pending invitation counts as granted, since that invitation already
// names the team, so a re-run after a partial failure can proceed. For
// an invitee who is already an organization member GitHub rejects the
// invitation and its team, so the grant adds them to the team directly
// and fails if that does.
//
// Later steps are attempted independently. Their failures are
// [*StepError] values; a failed notification is a [*NotificationError]
// and the approver label is not set. Execute returns the first failure
// and records every later one in the [Report] without letting it
// replace the first. A rejection posts its comment and then returns a
// [*PolicyRejection] so the run still exits non-zero.
package triage
