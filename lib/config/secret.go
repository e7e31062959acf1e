// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

package config

import "log/slog"

// redacted replaces a secret wherever it would be printed.
const redacted = "[redacted]"

// Secret is a credential string. Formatting and structured logging
// print [redacted]; only Reveal returns the value.
type Secret string

// Reveal returns the credential. Call it only where the value is
// handed to the service that consumes it.
func (secret Secret) Reveal() string { return string(secret) }

// IsZero reports whether no credential is set.
func (secret Secret) IsZero() bool { return secret == "" }

func (secret Secret) String() string {
	if secret == "" {
		return ""
	}
	return redacted
}

func (secret Secret) GoString() string { return secret.String() }

// LogValue implements slog.LogValuer.
func (secret Secret) LogValue() slog.Value { return slog.StringValue(secret.String()) }
