// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

// Package notify delivers the approval request for a pending access
// request to its approver (the PM/COR).
//
// A [Dispatcher] renders a [Template] against [policy.Fields] and hands
// the resulting [Message] to exactly one [Transport], chosen when the
// run is configured:
//
//   - [CommentTransport] posts on the originating issue: an at-mention
//     addressed to the approver when their GitHub username is known,
//     then the structured "/approve" command comment that the approval
//     workflow reacts to.
//   - [EmailTransport] sends a plain-text email through an SMTP
//     submission server.
//
// Each transport names the issue label that records a successful
// send, so a re-run can see that the approver was already notified.
// Every failure, whether rendering or sending, is returned as a
// [*SendError].
package notify
