// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

package triage

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lindluni/warden-invite/lib/accessrequest"
	"github.com/lindluni/warden-invite/lib/policy"
)

// Resolver maps names to IDs. *directory.Directory satisfies it.
type Resolver interface {
	ResolveUser(ctx context.Context, username string) (int64, error)
	ResolveTeam(ctx context.Context, slug string) (int64, error)
}

// RunnerConfig configures a Runner.
type RunnerConfig struct {
	Form         accessrequest.Form
	Directory    Resolver
	Orchestrator *Orchestrator
	Logger       *slog.Logger
	Tracer       trace.Tracer
}

// Runner handles one issue end to end.
type Runner struct {
	form         accessrequest.Form
	directory    Resolver
	orchestrator *Orchestrator
	logger       *slog.Logger
	tracer       trace.Tracer
}

// NewRunner creates a Runner.
func NewRunner(config RunnerConfig) (*Runner, error) {
	if config.Directory == nil {
		return nil, errors.New("triage: runner requires a directory")
	}
	if config.Orchestrator == nil {
		return nil, errors.New("triage: runner requires an orchestrator")
	}
	if err := config.Form.Validate(); err != nil {
		return nil, err
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := config.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return &Runner{
		form:         config.Form,
		directory:    config.Directory,
		orchestrator: config.Orchestrator,
		logger:       logger,
		tracer:       tracer,
	}, nil
}

// Run extracts the request from body, resolves the requester and
// team, decides the outcome, and executes it. The Report is nil when
// the run stopped before a decision: extraction and lookup failures
// happen before any mutating call.
func (runner *Runner) Run(ctx context.Context, body string) (*Report, error) {
	ctx, span := runner.tracer.Start(ctx, "triage.run")
	defer span.End()

	report, err := runner.run(ctx, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return report, err
}

func (runner *Runner) run(ctx context.Context, body string) (*Report, error) {
	request, err := accessrequest.Extract(body, runner.form)
	if err != nil {
		return nil, err
	}
	runner.logger.Info("extracted access request",
		"username", request.Username,
		"email", request.Email,
		"approver_email", request.ApproverEmail,
	)

	settings := runner.orchestrator.Policy()

	userID, err := runner.directory.ResolveUser(ctx, request.Username)
	if err != nil {
		return nil, err
	}
	teamID, err := runner.directory.ResolveTeam(ctx, settings.Team)
	if err != nil {
		return nil, err
	}

	outcome := policy.Decide(*request, settings)
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("outcome", outcome.String()))
	runner.logger.Info("policy decision",
		"outcome", outcome.String(),
		"suffix", settings.Suffix,
		"user_id", userID,
		"team_id", teamID,
	)

	return runner.orchestrator.Execute(ctx, outcome, *request, Identities{UserID: userID, TeamID: teamID})
}
