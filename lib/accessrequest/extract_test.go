// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

package accessrequest

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// issueFormBody is how GitHub renders a submitted access-request issue
// form.
const issueFormBody = `### Full Name

Jane Q. Public

### Email

jane.public@agency.gov

### GitHub Username

@jqpublic

### PM/COR Email

pat.manager@agency.gov

### PM/COR GitHub Username

pmanager

### Assigned Contract

_No response_
`

func TestExtract_IssueForm(t *testing.T) {
	request, err := Extract(issueFormBody, DefaultForm())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := AccessRequest{
		Name:             "Jane Q. Public",
		Email:            "jane.public@agency.gov",
		Username:         "jqpublic",
		ApproverEmail:    "pat.manager@agency.gov",
		ApproverUsername: "pmanager",
		Contract:         "",
	}
	if *request != want {
		t.Errorf("request = %+v\nwant      %+v", *request, want)
	}
}

func TestExtract_UsernameMention(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"mention", "@octocat", "octocat"},
		{"bare", "octocat", "octocat"},
		{"only one sigil stripped", "@@octocat", "@octocat"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			body := strings.Replace(issueFormBody, "@jqpublic", test.input, 1)
			request, err := Extract(body, DefaultForm())
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if request.Username != test.expected {
				t.Errorf("Username = %q, want %q", request.Username, test.expected)
			}
		})
	}
}

func TestExtract_MissingRequiredSection(t *testing.T) {
	body := strings.Replace(issueFormBody, "### PM/COR Email\n\npat.manager@agency.gov\n\n", "", 1)

	_, err := Extract(body, DefaultForm())
	var extractionError *ExtractionError
	if !errors.As(err, &extractionError) {
		t.Fatalf("expected *ExtractionError, got %v", err)
	}
	if extractionError.Field != FieldApproverEmail {
		t.Errorf("Field = %s, want %s", extractionError.Field, FieldApproverEmail)
	}
	if extractionError.Reason != reasonNotFound {
		t.Errorf("Reason = %q, want %q", extractionError.Reason, reasonNotFound)
	}
}

func TestExtract_EmptyRequiredSection(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"placeholder", "_No response_"},
		{"bare sigil", "@"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			body := strings.Replace(issueFormBody, "@jqpublic", test.value, 1)
			_, err := Extract(body, DefaultForm())
			var extractionError *ExtractionError
			if !errors.As(err, &extractionError) {
				t.Fatalf("expected *ExtractionError, got %v", err)
			}
			if extractionError.Field != FieldUsername || extractionError.Reason != reasonEmpty {
				t.Errorf("got %s/%q, want %s/%q", extractionError.Field, extractionError.Reason, FieldUsername, reasonEmpty)
			}
		})
	}
}

func TestExtract_HeadingWithNoValue(t *testing.T) {
	body := "### Full Name\n\n### Email\n\na@agency.gov\n\n### GitHub Username\n\nuser\n\n### PM/COR Email\n\npm@agency.gov\n"
	_, err := Extract(body, DefaultForm())
	var extractionError *ExtractionError
	if !errors.As(err, &extractionError) {
		t.Fatalf("expected *ExtractionError, got %v", err)
	}
	if extractionError.Field != FieldFullName || extractionError.Reason != reasonEmpty {
		t.Errorf("got %s/%q, want %s/%q", extractionError.Field, extractionError.Reason, FieldFullName, reasonEmpty)
	}
}

func TestExtract_OptionalSectionsAbsent(t *testing.T) {
	body := "### Full Name\n\nJane\n\n### Email\n\njane@corp.com\n\n### GitHub Username\n\njane\n\n### PM/COR Email\n\npm@agency.gov\n"
	request, err := Extract(body, DefaultForm())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if request.ApproverUsername != "" || request.Contract != "" {
		t.Errorf("optional fields = %q, %q, want empty", request.ApproverUsername, request.Contract)
	}
}

func TestExtract_LabelsAreCaseFolded(t *testing.T) {
	body := "## FULL NAME\n\nJane\n\n#### email\n\njane@agency.gov\n\n### GitHub   username\n\njane\n\n### pm/cor EMAIL\n\npm@agency.gov\n"
	request, err := Extract(body, DefaultForm())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if request.Name != "Jane" || request.Email != "jane@agency.gov" || request.Username != "jane" || request.ApproverEmail != "pm@agency.gov" {
		t.Errorf("request = %+v", *request)
	}
}

func TestExtract_ParagraphMarkers(t *testing.T) {
	body := "**Full Name**\n\nJane\n\nEmail\n\njane@agency.gov\n\nGitHub Username\n\n@jane\n\nPM/COR Email\n\npm@agency.gov\n"
	request, err := Extract(body, DefaultForm())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if request.Name != "Jane" || request.Username != "jane" || request.ApproverEmail != "pm@agency.gov" {
		t.Errorf("request = %+v", *request)
	}
}

func TestExtract_FirstBlockOnly(t *testing.T) {
	body := strings.Replace(issueFormBody, "Jane Q. Public\n", "Jane Q. Public\n\nThis line is a second paragraph.\n", 1)
	request, err := Extract(body, DefaultForm())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if request.Name != "Jane Q. Public" {
		t.Errorf("Name = %q, want first paragraph only", request.Name)
	}
}

func TestExtract_SkipsTemplateHints(t *testing.T) {
	tests := []struct {
		name  string
		email string
	}{
		{"hint on its own line", "<!-- use your @agency.gov address if you have one -->\njane@corp.com"},
		{"hint in its own block", "<!-- use your @agency.gov address if you have one -->\n\njane@corp.com"},
		{"multi-line hint", "<!--\n  use your @agency.gov address\n-->\njane@corp.com"},
		{"separator before value", "---\n\njane@corp.com"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			body := strings.Replace(issueFormBody, "jane.public@agency.gov", test.email, 1)
			request, err := Extract(body, DefaultForm())
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if request.Email != "jane@corp.com" {
				t.Errorf("Email = %q, want jane@corp.com", request.Email)
			}
		})
	}
}

func TestExtract_HintWithoutAnswerIsEmpty(t *testing.T) {
	body := strings.Replace(issueFormBody, "jane.public@agency.gov", "<!-- your @agency.gov address -->", 1)
	_, err := Extract(body, DefaultForm())
	var extractionError *ExtractionError
	if !errors.As(err, &extractionError) {
		t.Fatalf("expected *ExtractionError, got %v", err)
	}
	if extractionError.Field != FieldEmail {
		t.Errorf("Field = %s, want %s", extractionError.Field, FieldEmail)
	}
}

func TestExtract_ValuesKeepRawText(t *testing.T) {
	body := strings.Replace(issueFormBody, "jane.public@agency.gov", "first_last_name@agency.gov", 1)
	request, err := Extract(body, DefaultForm())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if request.Email != "first_last_name@agency.gov" {
		t.Errorf("Email = %q", request.Email)
	}
}

func TestExtract_FirstMatchingSectionWins(t *testing.T) {
	body := issueFormBody + "\n### Email\n\nsomeone.else@corp.com\n"
	request, err := Extract(body, DefaultForm())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if request.Email != "jane.public@agency.gov" {
		t.Errorf("Email = %q, want the first section's value", request.Email)
	}
}

func TestExtract_CustomForm(t *testing.T) {
	form := DefaultForm()
	form.ApproverEmail.Label = "Sponsor Email"
	form.Contract = Field{Label: "Contract Number", Required: true}

	body := "### Full Name\n\nJane\n\n### Email\n\njane@corp.com\n\n### GitHub Username\n\njane\n\n### Sponsor Email\n\nsponsor@agency.gov\n\n### Contract Number\n\nW91-0042\n"
	request, err := Extract(body, form)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if request.ApproverEmail != "sponsor@agency.gov" || request.Contract != "W91-0042" {
		t.Errorf("request = %+v", *request)
	}
}

func TestExtract_NormalizesEncodedBodies(t *testing.T) {
	quoted, err := json.Marshal(issueFormBody)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	escaped := strings.Trim(string(quoted), `"`)
	crlf := strings.ReplaceAll(issueFormBody, "\n", "\r\n")

	tests := []struct {
		name string
		body string
	}{
		{"JSON string literal", string(quoted)},
		{"literal escapes", escaped},
		{"CRLF line endings", crlf},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			request, err := Extract(test.body, DefaultForm())
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if request.Username != "jqpublic" || request.ApproverEmail != "pat.manager@agency.gov" {
				t.Errorf("request = %+v", *request)
			}
		})
	}
}

func TestExtract_Empty(t *testing.T) {
	_, err := Extract("", DefaultForm())
	var extractionError *ExtractionError
	if !errors.As(err, &extractionError) {
		t.Fatalf("expected *ExtractionError, got %v", err)
	}
	if extractionError.Field != FieldFullName {
		t.Errorf("Field = %s, want the first required field", extractionError.Field)
	}
}
