// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for the
// warden-invite binary.
//
// [GitCommit], [GitDirty], [BuildTime], and [Version] are injected at
// build time via -ldflags -X and default to "unknown" / "0.1.0-dev"
// for development builds and test runs.
//
//   - [Info] -- "0.1.0-dev (abc1234, 2026-02-10T...)" for --version
//   - [Full] -- Info plus Go version and GOOS/GOARCH
//   - [UserAgent] -- the User-Agent sent on GitHub API requests
package version
