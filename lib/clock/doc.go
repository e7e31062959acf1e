// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts the two time operations the GitHub client
// needs for rate-limit handling: reading the current time and waiting
// for a duration. Production code injects [Real]; tests inject [Fake]
// and advance time explicitly so backoff paths run without sleeping.
package clock
