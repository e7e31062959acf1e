// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"errors"
	"fmt"
	"strings"
)

// APIError represents a non-2xx response from the GitHub REST API.
// GitHub returns structured JSON error bodies with a message, optional
// documentation URL, and optional field-level validation errors.
type APIError struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// Message is the top-level error description from GitHub.
	Message string

	// DocumentationURL points to the relevant API documentation.
	DocumentationURL string

	// Errors contains field-level validation failures. Present only
	// on 422 Unprocessable Entity responses.
	Errors []ValidationError
}

// ValidationError describes a specific validation failure on a resource
// field. Returned by GitHub on 422 responses.
type ValidationError struct {
	Resource string `json:"resource"`
	Code     string `json:"code"`
	Field    string `json:"field"`
	Message  string `json:"message"`
}

func (err *APIError) Error() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "github: HTTP %d: %s", err.StatusCode, err.Message)
	for _, validationError := range err.Errors {
		detail := validationError.Message
		if detail == "" {
			detail = validationError.Code
		}
		fmt.Fprintf(&builder, "; %s.%s: %s", validationError.Resource, validationError.Field, detail)
	}
	return builder.String()
}

// messages returns the top-level message followed by every field-level
// message, for substring classification.
func (err *APIError) messages() []string {
	all := []string{err.Message}
	for _, validationError := range err.Errors {
		all = append(all, validationError.Message)
	}
	return all
}

// IsNotFound reports whether err is a GitHub API 404 Not Found response.
func IsNotFound(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == 404
}

// IsRateLimited reports whether err is a GitHub API rate limit response.
// GitHub returns 403 when the primary rate limit is exceeded and 429
// for secondary (abuse) rate limits.
func IsRateLimited(err error) bool {
	var apiError *APIError
	if !errors.As(err, &apiError) {
		return false
	}
	return isRateLimitResponse(apiError.StatusCode, []byte(apiError.Message))
}

// IsValidationFailed reports whether err is a GitHub API 422 response.
func IsValidationFailed(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == 422
}

// IsAlreadyMember reports whether err is the 422 GitHub returns when an
// organization invitation targets someone who is already a member.
// GitHub rejects the whole invitation in that case, team_ids included.
func IsAlreadyMember(err error) bool {
	return hasValidationMessage(err, "already a part of", "already a member")
}

// IsAlreadyInvited reports whether err is the 422 GitHub returns when
// the invitee already has a pending organization invitation.
func IsAlreadyInvited(err error) bool {
	return hasValidationMessage(err, "already been invited", "pending invitation")
}

// hasValidationMessage reports whether err is a 422 whose message or
// any validation error message contains one of fragments,
// case-insensitively.
func hasValidationMessage(err error, fragments ...string) bool {
	var apiError *APIError
	if !errors.As(err, &apiError) || apiError.StatusCode != 422 {
		return false
	}
	for _, message := range apiError.messages() {
		lower := strings.ToLower(message)
		for _, fragment := range fragments {
			if strings.Contains(lower, fragment) {
				return true
			}
		}
	}
	return false
}

// isRateLimitResponse distinguishes a rate-limited 403 from a
// permission 403 by GitHub's message text. Every 429 is a rate limit.
func isRateLimitResponse(statusCode int, body []byte) bool {
	if statusCode == 429 {
		return true
	}
	if statusCode != 403 {
		return false
	}
	lower := strings.ToLower(string(body))
	return strings.Contains(lower, "rate limit") ||
		strings.Contains(lower, "abuse detection")
}
