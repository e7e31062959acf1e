// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Inputs are the GitHub Actions inputs (INPUT_<NAME>) and runner
// variables the action reads. Unset and empty variables leave the
// corresponding Config field untouched.
type Inputs struct {
	Body           string `env:"INPUT_BODY"`
	Organization   string `env:"INPUT_ORG"`
	Team           string `env:"INPUT_TEAM"`
	Repository     string `env:"INPUT_REPO"`
	Suffix         string `env:"INPUT_SUFFIX"`
	Issue          int    `env:"INPUT_ISSUE_NUMBER"`
	Token          Secret `env:"INPUT_TOKEN"`
	SuccessMessage string `env:"INPUT_SUCCESS_MESSAGE"`
	Transport      string `env:"INPUT_TRANSPORT"`
	ConfigPath     string `env:"INPUT_CONFIG"`

	SMTPHost     string `env:"INPUT_SMTP_HOST"`
	SMTPPort     int    `env:"INPUT_SMTP_PORT"`
	SMTPUsername string `env:"INPUT_SMTP_USERNAME"`
	SMTPPassword Secret `env:"INPUT_SMTP_PASSWORD"`
	EmailFrom    string `env:"INPUT_EMAIL_FROM"`
	EmailReplyTo string `env:"INPUT_EMAIL_REPLY_TO"`

	// Runner-provided variables.
	EventPath   string `env:"GITHUB_EVENT_PATH"`
	APIURL      string `env:"GITHUB_API_URL"`
	StepSummary string `env:"GITHUB_STEP_SUMMARY"`
	GitHubToken Secret `env:"GITHUB_TOKEN"`
	Actions     bool   `env:"GITHUB_ACTIONS"`
}

// LoadInputs parses Inputs from environ, or from the process
// environment when environ is nil.
func LoadInputs(environ map[string]string) (Inputs, error) {
	var inputs Inputs
	options := env.Options{}
	if environ != nil {
		options.Environment = environ
	}
	if err := env.ParseWithOptions(&inputs, options); err != nil {
		return Inputs{}, &ValidationError{Err: fmt.Errorf("parse env: %w", err)}
	}
	return inputs, nil
}
