// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

// Package github provides a typed Go client for the slice of the
// GitHub REST API that access-request triage uses: user and team
// lookups, organization invitations, issue state, issue comments, and
// issue labels.
//
// The client authenticates with a bearer token (a personal access
// token, fine-grained token, or the workflow's GITHUB_TOKEN). It
// tracks X-RateLimit-* headers, waits preemptively when the quota is
// exhausted, and retries a request once after a 403/429 rate-limit
// response. Requests that are safe to repeat also retry a 5xx response
// twice with a doubling delay; comment creation never does. Any other
// non-2xx response becomes an [*APIError]; callers classify it with
// [IsNotFound], [IsAlreadyInvited], [IsAlreadyMember] and
// [IsValidationFailed].
//
// All requests are made over HTTPS. The client refuses non-HTTPS base
// URLs.
package github
