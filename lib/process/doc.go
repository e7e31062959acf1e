// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

// Package process is the binary entrypoint error handler. main() calls
// [Fatal] with the error returned by run(); no other code in the
// module exits the process. This keeps every failure path a returned
// error that unit tests can observe.
//
// Errors may implement ExitCode() int to select a status other than 1.
// When running under GitHub Actions (GITHUB_ACTIONS=true), the error is
// additionally emitted as an ::error:: workflow command so it shows up
// as an annotation on the run.
package process
