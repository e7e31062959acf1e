// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

// Package config assembles the immutable run configuration for
// warden-invite.
//
// Values are layered, later sources overriding earlier ones:
//
//  1. [Default] -- stock labels, messages, role, and timeouts
//  2. an optional YAML file ([LoadFile]), named by --config or
//     INPUT_CONFIG
//  3. GitHub Actions inputs and runner variables ([Inputs]), read from
//     INPUT_* and GITHUB_* environment variables
//  4. command-line flags ([Overrides]), applied only when set
//
// Credentials (the GitHub token and the SMTP password) never come from
// the YAML file. They arrive through the environment or a token file
// and are held as [Secret] values that print as "[redacted]" in logs
// and error messages.
//
// [Config.Validate] reports every problem at once. Its error is a
// [*ValidationError], which carries exit status 2 so a misconfigured
// workflow is distinguishable from a failed triage run.
package config
