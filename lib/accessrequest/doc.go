// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

// Package accessrequest extracts an [AccessRequest] from the body of a
// GitHub issue created from an access-request issue form.
//
// GitHub renders an issue form as Markdown: each field's label becomes
// a "### Label" heading followed by the submitted value as a
// paragraph. [Extract] parses the body with goldmark and treats every
// heading, and every paragraph whose whole text is one of the form's
// labels, as a section marker. A field's value is the first content
// block after the marker whose text matches its label; HTML comments
// left by the issue template and thematic breaks are skipped. Matching is
// Unicode case-folded and whitespace-insensitive, so "### github
// username" and "### GitHub  Username" both satisfy the "GitHub
// Username" field.
//
// Bodies that reach the binary through a workflow expression such as
// toJSON(github.event.issue.body) arrive JSON-quoted or with literal
// "\n" escapes; Extract undoes both before parsing.
//
// A missing or empty required field is an [*ExtractionError] naming
// the field. Extraction never returns a partially-filled request.
package accessrequest
