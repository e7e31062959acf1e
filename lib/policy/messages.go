// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

package policy

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/lindluni/warden-invite/lib/accessrequest"
)

// Messages holds text/template sources for every message the triage
// run can post or send. Templates execute against [Fields].
type Messages struct {
	// Success is posted on an auto-approved issue before it is closed.
	Success string `yaml:"success"`

	// Rejection is posted on a rejected issue.
	Rejection string `yaml:"rejection"`

	// ApprovalCommand is the structured command comment the approval
	// workflow reacts to.
	ApprovalCommand string `yaml:"approval_command"`

	// ApproverNotice is the at-mention comment addressed to the
	// approver when their username is known.
	ApproverNotice string `yaml:"approver_notice"`

	// NotificationFailure is posted when the approver could not be
	// notified.
	NotificationFailure string `yaml:"notification_failure"`

	// EmailSubject and EmailBody form the approver email.
	EmailSubject string `yaml:"email_subject"`
	EmailBody    string `yaml:"email_body"`
}

// DefaultMessages returns the stock message templates.
func DefaultMessages() Messages {
	return Messages{
		Success:             "Welcome, @{{.Username}}! An invitation to join {{.Organization}} has been sent to your GitHub account.",
		Rejection:           "PM/COR email must be in the {{.Suffix}} domain, please update the original",
		ApprovalCommand:     "/approve --pm {{.ApproverEmail}} --name {{.Name}} --email {{.Email}}",
		ApproverNotice:      "@{{.ApproverUsername}}, {{.Name}} ({{.Email}}) has requested access to {{.Organization}} and listed you as their PM/COR. Please review this request.",
		NotificationFailure: "Unable to notify the PM/COR ({{.ApproverEmail}}) about this request. An administrator has been alerted.",
		EmailSubject:        "Access request for {{.Organization}}: {{.Name}}",
		EmailBody: `{{.Name}} ({{.Email}}) has requested access to the {{.Organization}} GitHub organization and listed you as their PM/COR.

Request: {{.Reference}}

Please review and approve the request on the issue above.
`,
	}
}

// Validate parses every template and reports all that fail.
func (messages Messages) Validate() error {
	var errs []error
	for _, entry := range messages.entries() {
		if _, err := template.New(entry.name).Option("missingkey=error").Parse(entry.source); err != nil {
			errs = append(errs, fmt.Errorf("message %s: %w", entry.name, err))
		}
	}
	return errors.Join(errs...)
}

type messageEntry struct {
	name   string
	source string
}

func (messages Messages) entries() []messageEntry {
	return []messageEntry{
		{"success", messages.Success},
		{"rejection", messages.Rejection},
		{"approval_command", messages.ApprovalCommand},
		{"approver_notice", messages.ApproverNotice},
		{"notification_failure", messages.NotificationFailure},
		{"email_subject", messages.EmailSubject},
		{"email_body", messages.EmailBody},
	}
}

// Fields is the data every message template executes against.
type Fields struct {
	Name             string
	Email            string
	Username         string
	ApproverEmail    string
	ApproverUsername string
	Contract         string
	Suffix           string
	Organization     string
	Team             string
	Issue            int

	// IssueURL is the HTML URL of the originating issue, when known.
	IssueURL string

	// Fingerprint identifies the request content. See
	// [accessrequest.AccessRequest.Fingerprint].
	Fingerprint string
}

// NewFields collects template data for one request.
func NewFields(request accessrequest.AccessRequest, policy OrganizationPolicy, issue int) Fields {
	return Fields{
		Name:             request.Name,
		Email:            request.Email,
		Username:         request.Username,
		ApproverEmail:    request.ApproverEmail,
		ApproverUsername: request.ApproverUsername,
		Contract:         request.Contract,
		Suffix:           policy.Suffix,
		Organization:     policy.Organization,
		Team:             policy.Team,
		Issue:            issue,
		Fingerprint:      request.Fingerprint(),
	}
}

// Reference is the issue or contract reference for the request: the
// issue URL (or "owner/repo#N" form without one), followed by the
// contract when the form collected it.
func (fields Fields) Reference() string {
	var reference string
	switch {
	case fields.IssueURL != "":
		reference = fields.IssueURL
	case fields.Issue > 0:
		reference = "#" + strconv.Itoa(fields.Issue)
	}
	if fields.Contract != "" {
		if reference == "" {
			return fields.Contract
		}
		return reference + " (contract " + fields.Contract + ")"
	}
	return reference
}

// Render executes a message template against fields. Unknown field
// references are errors rather than "<no value>".
func Render(source string, fields Fields) (string, error) {
	parsed, err := template.New("message").Option("missingkey=error").Parse(source)
	if err != nil {
		return "", fmt.Errorf("parsing message template: %w", err)
	}
	var builder strings.Builder
	if err := parsed.Execute(&builder, fields); err != nil {
		return "", fmt.Errorf("rendering message template: %w", err)
	}
	return strings.TrimSpace(builder.String()), nil
}
