// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lindluni/warden-invite/lib/accessrequest"
	"github.com/lindluni/warden-invite/lib/github"
	"github.com/lindluni/warden-invite/lib/logging"
	"github.com/lindluni/warden-invite/lib/policy"
)

// Transport names accepted by the transport setting.
const (
	TransportComment = "comment"
	TransportEmail   = "email"
)

// Config is the complete configuration for one triage run. It is
// built once in main and passed down by value or pointer; nothing
// reads configuration from the environment after Load returns.
type Config struct {
	// Organization is the GitHub organization invitations are created
	// in. It also owns the issue repository.
	Organization string `yaml:"organization"`

	// Team is the slug of the team invitees join.
	Team string `yaml:"team"`

	// Repository is the name of the repository holding access-request
	// issues.
	Repository string `yaml:"repository"`

	// Suffix must appear in a qualifying email, for example
	// "@agency.gov".
	Suffix string `yaml:"suffix"`

	// Role is the organization invitation role. Default:
	// direct_member.
	Role string `yaml:"role"`

	// Issue is the number of the issue being triaged. Usually supplied
	// by INPUT_ISSUE_NUMBER or the event payload.
	Issue int `yaml:"-"`

	// Body is the issue body. Usually supplied by INPUT_BODY or the
	// event payload.
	Body string `yaml:"-"`

	// Token authenticates to the GitHub API.
	Token Secret `yaml:"-"`

	// TokenFile, when set, is read for the token instead of the
	// environment.
	TokenFile string `yaml:"token_file"`

	// APIURL is the GitHub REST API root. Default:
	// https://api.github.com.
	APIURL string `yaml:"api_url"`

	// HTTPTimeout bounds each GitHub API request. Default: 30s.
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	// Transport selects how approvers are notified: "comment" or
	// "email". Default: comment.
	Transport string `yaml:"transport"`

	// Label overrides the transport's idempotency label.
	Label string `yaml:"label"`

	// SMTP configures the email transport.
	SMTP SMTPConfig `yaml:"smtp"`

	// Messages are the comment and email templates.
	Messages policy.Messages `yaml:"messages"`

	// Form describes the issue form's section labels.
	Form accessrequest.Form `yaml:"form"`

	// EventPath is a GitHub event payload to read the issue from when
	// Body or Issue are not set directly.
	EventPath string `yaml:"-"`

	// StepSummary is the file the run summary is appended to.
	StepSummary string `yaml:"-"`

	// Actions is true when running inside GitHub Actions.
	Actions bool `yaml:"-"`

	// DryRun performs reads but only logs writes.
	DryRun bool `yaml:"dry_run"`

	// LogLevel is debug, info, warn, or error. Default: info.
	LogLevel string `yaml:"log_level"`

	// LogFormat is auto, text, or json. Default: auto.
	LogFormat logging.Format `yaml:"log_format"`
}

// SMTPConfig configures the SMTP submission server for the email
// transport.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password Secret `yaml:"-"`
	From     string `yaml:"from"`
	ReplyTo  string `yaml:"reply_to"`
}

// Default returns the configuration every other source is layered
// onto.
func Default() *Config {
	return &Config{
		Role:        github.RoleDirectMember,
		APIURL:      "https://api.github.com",
		HTTPTimeout: 30 * time.Second,
		Transport:   TransportComment,
		SMTP:        SMTPConfig{Port: 587},
		Messages:    policy.DefaultMessages(),
		Form:        accessrequest.DefaultForm(),
		LogLevel:    "info",
		LogFormat:   logging.FormatAuto,
	}
}

// Overrides are values from command-line flags. Nil fields were not
// given on the command line.
type Overrides struct {
	ConfigPath     *string
	Body           *string
	Organization   *string
	Team           *string
	Repository     *string
	Suffix         *string
	Issue          *int
	TokenFile      *string
	SuccessMessage *string
	Transport      *string
	EventPath      *string
	DryRun         *bool
	LogLevel       *string
	LogFormat      *string
}

// Load layers the YAML file (if any), inputs, and overrides onto
// Default, then reads the token file. It does not validate; callers
// fill any gaps from the event payload first and then call Validate.
func Load(inputs Inputs, overrides Overrides) (*Config, error) {
	path := inputs.ConfigPath
	if overrides.ConfigPath != nil {
		path = *overrides.ConfigPath
	}
	config := Default()
	if path != "" {
		var err error
		if config, err = LoadFile(path); err != nil {
			return nil, err
		}
	}

	config.ApplyInputs(inputs)
	config.ApplyOverrides(overrides)

	if config.TokenFile != "" {
		data, err := os.ReadFile(config.TokenFile)
		if err != nil {
			return nil, &ValidationError{Err: fmt.Errorf("reading token file: %w", err)}
		}
		config.Token = Secret(strings.TrimSpace(string(data)))
	}

	return config, nil
}

// LoadFile returns Default overlaid with the YAML file at path.
func LoadFile(path string) (*Config, error) {
	config := Default()
	if err := config.loadFile(path); err != nil {
		return nil, err
	}
	return config, nil
}

// loadFile merges a YAML file into the current config. Unknown keys
// are errors so a misspelled setting does not silently keep its
// default.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &ValidationError{Err: err}
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return &ValidationError{Err: fmt.Errorf("parsing %s: %w", path, err)}
	}
	return nil
}

// ApplyInputs overlays every non-empty input.
func (c *Config) ApplyInputs(inputs Inputs) {
	setString(&c.Body, inputs.Body)
	setString(&c.Organization, inputs.Organization)
	setString(&c.Team, inputs.Team)
	setString(&c.Repository, inputs.Repository)
	setString(&c.Suffix, inputs.Suffix)
	if inputs.Issue != 0 {
		c.Issue = inputs.Issue
	}
	setString(&c.Messages.Success, inputs.SuccessMessage)
	setString(&c.Transport, inputs.Transport)

	setString(&c.SMTP.Host, inputs.SMTPHost)
	if inputs.SMTPPort != 0 {
		c.SMTP.Port = inputs.SMTPPort
	}
	setString(&c.SMTP.Username, inputs.SMTPUsername)
	if !inputs.SMTPPassword.IsZero() {
		c.SMTP.Password = inputs.SMTPPassword
	}
	setString(&c.SMTP.From, inputs.EmailFrom)
	setString(&c.SMTP.ReplyTo, inputs.EmailReplyTo)

	setString(&c.EventPath, inputs.EventPath)
	setString(&c.APIURL, inputs.APIURL)
	setString(&c.StepSummary, inputs.StepSummary)
	c.Actions = c.Actions || inputs.Actions

	switch {
	case !inputs.Token.IsZero():
		c.Token = inputs.Token
	case !inputs.GitHubToken.IsZero():
		c.Token = inputs.GitHubToken
	}
}

// ApplyOverrides overlays every flag that was given.
func (c *Config) ApplyOverrides(overrides Overrides) {
	setFrom(&c.Body, overrides.Body)
	setFrom(&c.Organization, overrides.Organization)
	setFrom(&c.Team, overrides.Team)
	setFrom(&c.Repository, overrides.Repository)
	setFrom(&c.Suffix, overrides.Suffix)
	setFrom(&c.Issue, overrides.Issue)
	setFrom(&c.TokenFile, overrides.TokenFile)
	setFrom(&c.Messages.Success, overrides.SuccessMessage)
	setFrom(&c.Transport, overrides.Transport)
	setFrom(&c.EventPath, overrides.EventPath)
	setFrom(&c.DryRun, overrides.DryRun)
	setFrom(&c.LogLevel, overrides.LogLevel)
	if overrides.LogFormat != nil {
		c.LogFormat = logging.Format(*overrides.LogFormat)
	}
}

func setString(target *string, value string) {
	if value != "" {
		*target = value
	}
}

func setFrom[T any](target *T, value *T) {
	if value != nil {
		*target = *value
	}
}

// Policy returns the organization policy the configuration describes.
func (c *Config) Policy() policy.OrganizationPolicy {
	return policy.OrganizationPolicy{
		Suffix:       c.Suffix,
		Organization: c.Organization,
		Team:         c.Team,
		Repository:   c.Repository,
		Role:         c.Role,
		Messages:     c.Messages,
	}
}

// ValidationError reports invalid configuration or usage. The process
// exits with status 2.
type ValidationError struct {
	Err error
}

func (err *ValidationError) Error() string {
	return "invalid configuration: " + err.Err.Error()
}

func (err *ValidationError) Unwrap() error { return err.Err }

// ExitCode returns 2, the conventional status for usage errors.
func (err *ValidationError) ExitCode() int { return 2 }

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errs []error

	required := []struct {
		name  string
		value string
	}{
		{"organization (INPUT_ORG)", c.Organization},
		{"team (INPUT_TEAM)", c.Team},
		{"repository (INPUT_REPO)", c.Repository},
		{"suffix (INPUT_SUFFIX)", c.Suffix},
		{"body (INPUT_BODY)", c.Body},
		{"token (INPUT_TOKEN)", c.Token.Reveal()},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			errs = append(errs, fmt.Errorf("%s is required", field.name))
		}
	}
	if c.Issue <= 0 {
		errs = append(errs, fmt.Errorf("issue number (INPUT_ISSUE_NUMBER) must be positive, got %d", c.Issue))
	}

	switch c.Role {
	case github.RoleDirectMember, github.RoleAdmin, github.RoleBillingManager, github.RoleReinstate:
	default:
		errs = append(errs, fmt.Errorf("invalid role %q", c.Role))
	}

	if !strings.HasPrefix(c.APIURL, "https://") {
		errs = append(errs, fmt.Errorf("api_url must use HTTPS, got %q", c.APIURL))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, fmt.Errorf("http_timeout must be positive, got %s", c.HTTPTimeout))
	}

	switch c.Transport {
	case TransportComment:
	case TransportEmail:
		if c.SMTP.Host == "" {
			errs = append(errs, errors.New("smtp.host (INPUT_SMTP_HOST) is required for the email transport"))
		}
		if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
			errs = append(errs, fmt.Errorf("smtp.port must be between 1 and 65535, got %d", c.SMTP.Port))
		}
		if !strings.Contains(c.SMTP.From, "@") {
			errs = append(errs, fmt.Errorf("smtp.from (INPUT_EMAIL_FROM) must be an email address, got %q", c.SMTP.From))
		}
	default:
		errs = append(errs, fmt.Errorf("transport must be %q or %q, got %q", TransportComment, TransportEmail, c.Transport))
	}

	if err := c.Messages.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Form.Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch c.LogFormat {
	case logging.FormatAuto, logging.FormatText, logging.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("log_format must be auto, text, or json, got %q", c.LogFormat))
	}

	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Err: errors.Join(errs...)}
}
