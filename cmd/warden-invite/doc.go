// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

// warden-invite triages a GitHub access-request issue. It reads the
// issue form, resolves the requester and target team, and applies the
// organization's email-domain policy:
//
//   - auto-approved: invite the requester, welcome them, close the issue
//   - pending-approval: invite the requester, notify the PM/COR, label
//     the issue
//   - rejected: comment with the reason and fail the run
//
// It runs as a GitHub Actions step. Inputs arrive as INPUT_<NAME>
// environment variables and may be overridden by flags or a YAML file
// given with --config. When the body or issue number is missing it is
// read from the event payload at GITHUB_EVENT_PATH.
//
// The exit status is 0 when every step succeeded, 2 for invalid
// configuration, and 1 for any other failure, including a policy
// rejection.
package main
