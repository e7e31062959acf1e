// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/lindluni/warden-invite/lib/config"
	"github.com/lindluni/warden-invite/lib/directory"
	"github.com/lindluni/warden-invite/lib/ghevent"
	"github.com/lindluni/warden-invite/lib/github"
	"github.com/lindluni/warden-invite/lib/logging"
	"github.com/lindluni/warden-invite/lib/notify"
	"github.com/lindluni/warden-invite/lib/process"
	"github.com/lindluni/warden-invite/lib/telemetry"
	"github.com/lindluni/warden-invite/lib/triage"
	"github.com/lindluni/warden-invite/lib/version"
)

const binaryName = "warden-invite"

func main() {
	process.Fatal(run(os.Args[1:]))
}

func run(args []string) error {
	options, err := parseFlags(args, os.Stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return &config.ValidationError{Err: err}
	}
	if options.version {
		version.Print(os.Stdout, binaryName)
		return nil
	}

	inputs, err := config.LoadInputs(nil)
	if err != nil {
		return err
	}
	cfg, err := config.Load(inputs, options.overrides)
	if err != nil {
		return err
	}
	if err := fillFromEvent(cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return &config.ValidationError{Err: err}
	}
	logger = logger.With(
		"repository", cfg.Organization+"/"+cfg.Repository,
		"issue", cfg.Issue,
	)
	if cfg.DryRun {
		logger = logger.With("dry_run", true)
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Setup(ctx, binaryName, version.Version, os.Getenv)
	if err != nil {
		logger.Warn("tracing disabled", "error", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("flushing traces", "error", err)
		}
	}()

	runner, err := buildRunner(cfg, logger)
	if err != nil {
		return err
	}

	report, err := runner.Run(ctx, cfg.Body)
	if report != nil {
		if summaryErr := writeSummary(cfg, report, os.Stderr); summaryErr != nil {
			logger.Warn("writing step summary", "error", summaryErr)
		}
	}
	if err != nil {
		return err
	}
	logger.Info("access request handled", "outcome", report.Outcome.String())
	return nil
}

// buildRunner wires the GitHub client, directory, transport, and
// orchestrator described by cfg.
func buildRunner(cfg *config.Config, logger *slog.Logger) (*triage.Runner, error) {
	client, err := github.NewClient(github.Config{
		BaseURL:    cfg.APIURL,
		Token:      cfg.Token.Reveal(),
		UserAgent:  version.UserAgent(binaryName),
		HTTPClient: &http.Client{Timeout: cfg.HTTPTimeout},
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating GitHub client: %w", err)
	}

	var platform platformClient = client
	if cfg.DryRun {
		platform = newDryRunPlatform(client, logger)
	}

	transport, err := buildTransport(cfg, platform, logger)
	if err != nil {
		return nil, err
	}

	orchestrator, err := triage.NewOrchestrator(triage.Config{
		Platform:   platform,
		Dispatcher: notify.NewDispatcher(transport, logger),
		Policy:     cfg.Policy(),
		Issue:      cfg.Issue,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	return triage.NewRunner(triage.RunnerConfig{
		Form:         cfg.Form,
		Directory:    directory.New(client, cfg.Organization, logger),
		Orchestrator: orchestrator,
		Logger:       logger,
	})
}

func buildTransport(cfg *config.Config, platform platformClient, logger *slog.Logger) (notify.Transport, error) {
	switch cfg.Transport {
	case config.TransportEmail:
		transport, err := notify.NewEmailTransport(notify.EmailConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password.Reveal(),
			From:     cfg.SMTP.From,
			ReplyTo:  cfg.SMTP.ReplyTo,
			Label:    cfg.Label,
			Logger:   logger,
		})
		if err != nil {
			return nil, err
		}
		if cfg.DryRun {
			return &dryRunTransport{Transport: transport, logger: logger}, nil
		}
		return transport, nil
	default:
		return notify.NewCommentTransport(notify.CommentConfig{
			Client:     platform,
			Owner:      cfg.Organization,
			Repository: cfg.Repository,
			Issue:      cfg.Issue,
			Label:      cfg.Label,
			Logger:     logger,
		})
	}
}

// fillFromEvent reads the event payload for whatever the inputs left
// unset. A payload without an issue is only an error when something
// was actually needed from it.
func fillFromEvent(cfg *config.Config) error {
	if cfg.EventPath == "" || (cfg.Body != "" && cfg.Issue > 0 && cfg.Repository != "" && cfg.Organization != "") {
		return nil
	}
	issue, err := ghevent.LoadIssue(cfg.EventPath)
	if err != nil {
		if errors.Is(err, ghevent.ErrNoIssue) && cfg.Body != "" && cfg.Issue > 0 {
			return nil
		}
		return &config.ValidationError{Err: err}
	}
	if cfg.Body == "" {
		cfg.Body = issue.Body
	}
	if cfg.Issue <= 0 {
		cfg.Issue = issue.Number
	}
	if cfg.Organization == "" {
		cfg.Organization = issue.Owner
	}
	if cfg.Repository == "" {
		cfg.Repository = issue.Repository
	}
	return nil
}

// cliOptions are the parsed command line.
type cliOptions struct {
	overrides config.Overrides
	version   bool
}

// parseFlags parses args. Only flags that were given become
// overrides, so an unset flag never masks an input or file value.
// Help output goes to output and yields pflag.ErrHelp.
func parseFlags(args []string, output io.Writer) (*cliOptions, error) {
	var (
		configPath, body, organization, team, repository, suffix string
		tokenFile, successMessage, transport, eventPath          string
		logLevel, logFormat                                      string
		issue                                                    int
		dryRun                                                   bool
		options                                                  cliOptions
	)

	flagSet := pflag.NewFlagSet(binaryName, pflag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.StringVar(&configPath, "config", "", "YAML configuration file (INPUT_CONFIG)")
	flagSet.StringVar(&body, "body", "", "issue body to triage (INPUT_BODY)")
	flagSet.StringVar(&organization, "org", "", "organization to invite into (INPUT_ORG)")
	flagSet.StringVar(&team, "team", "", "team slug invitees join (INPUT_TEAM)")
	flagSet.StringVar(&repository, "repo", "", "repository holding the issue (INPUT_REPO)")
	flagSet.StringVar(&suffix, "suffix", "", "email suffix that qualifies a request (INPUT_SUFFIX)")
	flagSet.IntVar(&issue, "issue", 0, "issue number (INPUT_ISSUE_NUMBER)")
	flagSet.StringVar(&tokenFile, "token-file", "", "read the GitHub token from this file instead of INPUT_TOKEN")
	flagSet.StringVar(&successMessage, "success-message", "", "template for the welcome comment (INPUT_SUCCESS_MESSAGE)")
	flagSet.StringVar(&transport, "transport", "", "approver notification transport: comment or email (INPUT_TRANSPORT)")
	flagSet.StringVar(&eventPath, "event", "", "GitHub event payload to read the issue from (GITHUB_EVENT_PATH)")
	flagSet.BoolVar(&dryRun, "dry-run", false, "perform reads and log writes without making them")
	flagSet.StringVar(&logLevel, "log-level", "", "debug, info, warn, or error")
	flagSet.StringVar(&logFormat, "log-format", "", "auto, text, or json")
	flagSet.BoolVar(&options.version, "version", false, "print version information and exit")

	if err := flagSet.Parse(args); err != nil {
		return nil, err
	}
	if extra := flagSet.Args(); len(extra) > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", extra[0])
	}

	overrides := &options.overrides
	for name, target := range map[string]**string{
		"config":          &overrides.ConfigPath,
		"body":            &overrides.Body,
		"org":             &overrides.Organization,
		"team":            &overrides.Team,
		"repo":            &overrides.Repository,
		"suffix":          &overrides.Suffix,
		"token-file":      &overrides.TokenFile,
		"success-message": &overrides.SuccessMessage,
		"transport":       &overrides.Transport,
		"event":           &overrides.EventPath,
		"log-level":       &overrides.LogLevel,
		"log-format":      &overrides.LogFormat,
	} {
		if flagSet.Changed(name) {
			value, _ := flagSet.GetString(name)
			*target = &value
		}
	}
	if flagSet.Changed("issue") {
		overrides.Issue = &issue
	}
	if flagSet.Changed("dry-run") {
		overrides.DryRun = &dryRun
	}

	return &options, nil
}
