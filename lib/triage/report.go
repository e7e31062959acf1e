// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

package triage

import (
	"fmt"
	"strings"

	"github.com/lindluni/warden-invite/lib/policy"
)

// Action names one side effect.
type Action string

const (
	ActionCheck   Action = "check"
	ActionGrant   Action = "grant"
	ActionComment Action = "comment"
	ActionClose   Action = "close"
	ActionLabel   Action = "label"
	ActionNotify  Action = "notify"
)

// ActionResult records one attempted side effect.
type ActionResult struct {
	Action Action

	// Target names the identifiers involved, for example
	// "acme/access#12" or "user 583231 -> acme (team 42)".
	Target string

	// Skipped is true when the step found its work already done.
	Skipped bool

	// Note is a short human-readable qualifier, such as why a step
	// was skipped.
	Note string

	Err error
}

// Report summarizes one Execute call. It is rendered to logs and the
// step summary, never persisted.
type Report struct {
	Outcome     policy.Outcome
	Fingerprint string

	// Repository and Issue address the originating issue as
	// "owner/repo" and its number.
	Repository string
	Issue      int

	Results []ActionResult
}

func (report *Report) record(result ActionResult) {
	report.Results = append(report.Results, result)
}

// Failed reports whether any recorded step failed.
func (report *Report) Failed() bool {
	for _, result := range report.Results {
		if result.Err != nil {
			return true
		}
	}
	return false
}

// AlreadyHandled reports whether the check found the issue handled by
// an earlier run.
func (report *Report) AlreadyHandled() bool {
	return len(report.Results) == 1 && report.Results[0].Action == ActionCheck && report.Results[0].Skipped
}

// Markdown renders the report as GitHub-flavored Markdown for
// $GITHUB_STEP_SUMMARY.
func (report *Report) Markdown() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "### Access request %s#%d: %s\n\n", report.Repository, report.Issue, report.Outcome)
	if report.Fingerprint != "" {
		fmt.Fprintf(&builder, "Request fingerprint: `%s`\n\n", report.Fingerprint)
	}
	builder.WriteString("| Step | Target | Result |\n")
	builder.WriteString("|---|---|---|\n")
	for _, result := range report.Results {
		fmt.Fprintf(&builder, "| %s | %s | %s |\n",
			result.Action, escapeTableCell(result.Target), escapeTableCell(result.Status()))
	}
	return builder.String()
}

// Status is the one-line result used in summaries.
func (result ActionResult) Status() string {
	switch {
	case result.Err != nil:
		return "failed: " + result.Err.Error()
	case result.Skipped && result.Note != "":
		return "skipped (" + result.Note + ")"
	case result.Skipped:
		return "skipped"
	case result.Note != "":
		return "ok (" + result.Note + ")"
	default:
		return "ok"
	}
}

func escapeTableCell(value string) string {
	value = strings.ReplaceAll(value, "|", `\|`)
	return strings.ReplaceAll(value, "\n", " ")
}
