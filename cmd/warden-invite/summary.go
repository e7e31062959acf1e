// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lindluni/warden-invite/lib/config"
	"github.com/lindluni/warden-invite/lib/logging"
	"github.com/lindluni/warden-invite/lib/policy"
	"github.com/lindluni/warden-invite/lib/triage"
)

// summaryTheme holds the 256-color palette for the terminal summary.
type summaryTheme struct {
	Header   lipgloss.Color
	Faint    lipgloss.Color
	Approved lipgloss.Color
	Pending  lipgloss.Color
	Rejected lipgloss.Color
	Failed   lipgloss.Color
}

var defaultSummaryTheme = summaryTheme{
	Header:   lipgloss.Color("255"),
	Faint:    lipgloss.Color("245"),
	Approved: lipgloss.Color("114"), // green
	Pending:  lipgloss.Color("220"), // amber
	Rejected: lipgloss.Color("208"), // orange
	Failed:   lipgloss.Color("196"), // red
}

func (theme summaryTheme) outcomeColor(outcome policy.Outcome) lipgloss.Color {
	switch outcome {
	case policy.AutoApproved:
		return theme.Approved
	case policy.PendingApproval:
		return theme.Pending
	case policy.Rejected:
		return theme.Rejected
	default:
		return theme.Faint
	}
}

// writeSummary appends the report to the Actions step summary, when
// one is configured, and prints it to terminal when that is an
// interactive terminal.
func writeSummary(cfg *config.Config, report *triage.Report, terminal io.Writer) error {
	if logging.IsTerminal(terminal) {
		fmt.Fprintln(terminal, renderTerminalSummary(report, defaultSummaryTheme))
	}
	if cfg.StepSummary == "" {
		return nil
	}
	return appendStepSummary(cfg.StepSummary, report)
}

func appendStepSummary(path string, report *triage.Report) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening step summary: %w", err)
	}
	if _, err := io.WriteString(file, report.Markdown()+"\n"); err != nil {
		file.Close()
		return fmt.Errorf("writing step summary: %w", err)
	}
	return file.Close()
}

// renderTerminalSummary formats the report as aligned, colored lines.
func renderTerminalSummary(report *triage.Report, theme summaryTheme) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.Header)
	outcomeStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.outcomeColor(report.Outcome))
	faintStyle := lipgloss.NewStyle().Foreground(theme.Faint)
	failedStyle := lipgloss.NewStyle().Foreground(theme.Failed)

	actionWidth := 0
	for _, result := range report.Results {
		actionWidth = max(actionWidth, lipgloss.Width(string(result.Action)))
	}
	actionStyle := lipgloss.NewStyle().Width(actionWidth + 2)

	var builder strings.Builder
	builder.WriteString(headerStyle.Render(fmt.Sprintf("%s#%d", report.Repository, report.Issue)))
	builder.WriteString(" ")
	builder.WriteString(outcomeStyle.Render(report.Outcome.String()))
	if report.Fingerprint != "" {
		builder.WriteString(" ")
		builder.WriteString(faintStyle.Render(report.Fingerprint))
	}
	for _, result := range report.Results {
		status := result.Status()
		switch {
		case result.Err != nil:
			status = failedStyle.Render(status)
		case result.Skipped:
			status = faintStyle.Render(status)
		}
		builder.WriteString("\n  ")
		builder.WriteString(actionStyle.Render(string(result.Action)))
		builder.WriteString(status)
		if result.Target != "" {
			builder.WriteString(" ")
			builder.WriteString(faintStyle.Render(result.Target))
		}
	}
	return builder.String()
}
