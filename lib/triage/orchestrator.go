// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

package triage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lindluni/warden-invite/lib/accessrequest"
	"github.com/lindluni/warden-invite/lib/github"
	"github.com/lindluni/warden-invite/lib/notify"
	"github.com/lindluni/warden-invite/lib/policy"
)

// tracerName is the instrumentation scope for triage spans.
const tracerName = "github.com/lindluni/warden-invite/lib/triage"

// Platform is the subset of the GitHub API the orchestrator reads and
// mutates. *github.Client satisfies it.
type Platform interface {
	GetIssue(ctx context.Context, owner, repo string, number int) (*github.Issue, error)
	CreateOrgInvitation(ctx context.Context, org string, request github.CreateOrgInvitationRequest) (*github.Invitation, error)
	CreateIssueComment(ctx context.Context, owner, repo string, number int, body string) (*github.Comment, error)
	UpdateIssue(ctx context.Context, owner, repo string, number int, request github.UpdateIssueRequest) (*github.Issue, error)
	AddIssueLabels(ctx context.Context, owner, repo string, number int, labels []string) ([]github.Label, error)
	AddTeamMembership(ctx context.Context, org, slug, username string) (*github.TeamMembership, error)
}

// Identities are the resolved IDs the grant needs.
type Identities struct {
	UserID int64
	TeamID int64
}

// Config configures an Orchestrator.
type Config struct {
	Platform   Platform
	Dispatcher *notify.Dispatcher
	Policy     policy.OrganizationPolicy

	// Issue is the number of the originating issue in
	// Policy.Organization/Policy.Repository.
	Issue int

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Tracer defaults to the global OpenTelemetry provider's tracer,
	// which is a no-op unless telemetry is configured.
	Tracer trace.Tracer
}

// Orchestrator executes the side-effect sequence for one issue.
type Orchestrator struct {
	platform   Platform
	dispatcher *notify.Dispatcher
	policy     policy.OrganizationPolicy
	issue      int
	logger     *slog.Logger
	tracer     trace.Tracer
}

// NewOrchestrator validates config and creates an Orchestrator.
func NewOrchestrator(config Config) (*Orchestrator, error) {
	if config.Platform == nil {
		return nil, errors.New("triage: orchestrator requires a platform")
	}
	if config.Dispatcher == nil {
		return nil, errors.New("triage: orchestrator requires a notification dispatcher")
	}
	if config.Issue <= 0 {
		return nil, fmt.Errorf("triage: invalid issue number %d", config.Issue)
	}
	if config.Policy.Organization == "" || config.Policy.Repository == "" {
		return nil, errors.New("triage: policy requires an organization and repository")
	}
	if config.Policy.Role == "" {
		config.Policy.Role = github.RoleDirectMember
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := config.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	return &Orchestrator{
		platform:   config.Platform,
		dispatcher: config.Dispatcher,
		policy:     config.Policy,
		issue:      config.Issue,
		logger: logger.With(
			"organization", config.Policy.Organization,
			"repository", config.Policy.Repository,
			"issue", config.Issue,
		),
		tracer: tracer,
	}, nil
}

// Policy returns the orchestrator's policy.
func (orchestrator *Orchestrator) Policy() policy.OrganizationPolicy {
	return orchestrator.policy
}

// Execute runs the side effects for outcome. The returned Report is
// always non-nil and lists every attempted step; the error is the
// first failure.
func (orchestrator *Orchestrator) Execute(ctx context.Context, outcome policy.Outcome, request accessrequest.AccessRequest, ids Identities) (*Report, error) {
	fields := policy.NewFields(request, orchestrator.policy, orchestrator.issue)

	ctx, span := orchestrator.tracer.Start(ctx, "triage.execute", trace.WithAttributes(
		attribute.String("outcome", outcome.String()),
		attribute.String("organization", orchestrator.policy.Organization),
		attribute.Int("issue", orchestrator.issue),
		attribute.String("fingerprint", fields.Fingerprint),
	))
	defer span.End()

	run := &execution{
		orchestrator: orchestrator,
		ctx:          ctx,
		fields:       fields,
		ids:          ids,
		logger:       orchestrator.logger.With("outcome", outcome.String(), "fingerprint", fields.Fingerprint),
		report: &Report{
			Outcome:     outcome,
			Fingerprint: fields.Fingerprint,
			Repository:  orchestrator.policy.Organization + "/" + orchestrator.policy.Repository,
			Issue:       orchestrator.issue,
		},
	}

	switch outcome {
	case policy.AutoApproved:
		run.autoApprove()
	case policy.PendingApproval:
		run.requestApproval()
	case policy.Rejected:
		run.reject()
	default:
		run.fail(fmt.Errorf("triage: unknown outcome %d", int(outcome)))
	}

	if run.err != nil {
		span.RecordError(run.err)
		span.SetStatus(codes.Error, run.err.Error())
	}
	return run.report, run.err
}

// execution is the state of one Execute call.
type execution struct {
	orchestrator *Orchestrator
	ctx          context.Context
	fields       policy.Fields
	ids          Identities
	logger       *slog.Logger
	report       *Report
	err          error
}

// fail records err as the run error unless one is already set. Later
// failures stay in the report and the log.
func (run *execution) fail(err error) {
	if run.err == nil {
		run.err = err
		return
	}
	run.logger.Warn("additional failure after first error", "error", err, "first_error", run.err)
}

// step runs one side effect inside a span and records its result.
// The effect reports whether it found its work already done, with an
// optional note.
func (run *execution) step(action Action, target string, effect func(ctx context.Context) (skipped bool, note string, err error)) error {
	ctx, span := run.orchestrator.tracer.Start(run.ctx, "triage."+string(action),
		trace.WithAttributes(attribute.String("target", target)))
	defer span.End()

	skipped, note, err := effect(ctx)
	run.report.record(ActionResult{Action: action, Target: target, Skipped: skipped, Note: note, Err: err})

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		run.logger.Error("step failed", "action", action, "target", target, "error", err)
		return err
	}
	span.SetAttributes(attribute.Bool("skipped", skipped))
	run.logger.Info("step complete", "action", action, "target", target, "skipped", skipped, "note", note)
	return nil
}

func (run *execution) issueTarget() string {
	settings := run.orchestrator.policy
	return fmt.Sprintf("%s/%s#%d", settings.Organization, settings.Repository, run.orchestrator.issue)
}

// check reads the issue and reports whether an earlier run already
// completed this outcome. A read failure is fatal.
func (run *execution) check(handled func(issue *github.Issue) (bool, string)) bool {
	orchestrator := run.orchestrator
	err := run.step(ActionCheck, run.issueTarget(), func(ctx context.Context) (bool, string, error) {
		issue, err := orchestrator.platform.GetIssue(ctx, orchestrator.policy.Organization, orchestrator.policy.Repository, orchestrator.issue)
		if err != nil {
			return false, "", err
		}
		run.fields.IssueURL = issue.HTMLURL
		alreadyDone, note := handled(issue)
		return alreadyDone, note, nil
	})
	if err != nil {
		run.fail(&StepError{Step: ActionCheck, Target: run.issueTarget(), Err: err})
		return true
	}
	return run.report.AlreadyHandled()
}

// grant invites the requester into the organization and team. It
// returns false when the run must stop.
func (run *execution) grant() bool {
	orchestrator := run.orchestrator
	settings := orchestrator.policy
	target := fmt.Sprintf("user %d -> %s (team %d)", run.ids.UserID, settings.Organization, run.ids.TeamID)

	err := run.step(ActionGrant, target, func(ctx context.Context) (bool, string, error) {
		_, err := orchestrator.platform.CreateOrgInvitation(ctx, settings.Organization, github.CreateOrgInvitationRequest{
			InviteeID: run.ids.UserID,
			Role:      settings.Role,
			TeamIDs:   []int64{run.ids.TeamID},
		})
		switch {
		case err == nil:
			return false, "", nil
		case github.IsAlreadyInvited(err):
			// The pending invitation already carries the team.
			return false, "invitation already pending", nil
		case github.IsAlreadyMember(err):
			// GitHub dropped team_ids with the rejected invitation.
			membership, err := orchestrator.platform.AddTeamMembership(ctx, settings.Organization, settings.Team, run.fields.Username)
			if err != nil {
				return false, "", err
			}
			return false, "already a member, team membership " + membership.State, nil
		default:
			return false, "", err
		}
	})
	if err != nil {
		run.fail(&GrantError{
			Organization: settings.Organization,
			UserID:       run.ids.UserID,
			TeamID:       run.ids.TeamID,
			Err:          err,
		})
		return false
	}
	return true
}

// comment renders source and posts it on the issue. Failures are
// recorded as StepErrors.
func (run *execution) comment(purpose, source string) {
	orchestrator := run.orchestrator
	target := run.issueTarget() + " (" + purpose + ")"
	err := run.step(ActionComment, target, func(ctx context.Context) (bool, string, error) {
		body, err := policy.Render(source, run.fields)
		if err != nil {
			return false, "", err
		}
		_, err = orchestrator.platform.CreateIssueComment(ctx, orchestrator.policy.Organization, orchestrator.policy.Repository, orchestrator.issue, body)
		return false, "", err
	})
	if err != nil {
		run.fail(&StepError{Step: ActionComment, Target: target, Err: err})
	}
}

func (run *execution) autoApprove() {
	orchestrator := run.orchestrator
	if run.check(func(issue *github.Issue) (bool, string) {
		if issue.State == github.StateClosed {
			return true, "issue already closed"
		}
		return false, ""
	}) {
		return
	}

	if !run.grant() {
		return
	}

	run.comment("success", orchestrator.policy.Messages.Success)

	err := run.step(ActionClose, run.issueTarget(), func(ctx context.Context) (bool, string, error) {
		state := github.StateClosed
		reason := "completed"
		_, err := orchestrator.platform.UpdateIssue(ctx, orchestrator.policy.Organization, orchestrator.policy.Repository, orchestrator.issue,
			github.UpdateIssueRequest{State: &state, StateReason: &reason})
		return false, "", err
	})
	if err != nil {
		run.fail(&StepError{Step: ActionClose, Target: run.issueTarget(), Err: err})
	}
}

func (run *execution) requestApproval() {
	orchestrator := run.orchestrator
	transport := orchestrator.dispatcher.Transport()
	label := transport.Label()

	if run.check(func(issue *github.Issue) (bool, string) {
		if issue.HasLabel(label) {
			return true, "label " + label + " present"
		}
		return false, ""
	}) {
		return
	}

	if !run.grant() {
		return
	}

	recipient := notify.Recipient{Email: run.fields.ApproverEmail, Username: run.fields.ApproverUsername}
	notifyErr := run.step(ActionNotify, fmt.Sprintf("%s via %s", recipient.Email, transport.Name()), func(ctx context.Context) (bool, string, error) {
		return false, "", orchestrator.dispatcher.Notify(ctx, recipient, notify.TemplateFromMessages(orchestrator.policy.Messages), run.fields)
	})
	if notifyErr != nil {
		run.fail(&NotificationError{Err: notifyErr})
		run.comment("notification failure", orchestrator.policy.Messages.NotificationFailure)
		return
	}

	err := run.step(ActionLabel, run.issueTarget()+" +"+label, func(ctx context.Context) (bool, string, error) {
		_, err := orchestrator.platform.AddIssueLabels(ctx, orchestrator.policy.Organization, orchestrator.policy.Repository, orchestrator.issue, []string{label})
		return false, "", err
	})
	if err != nil {
		run.fail(&StepError{Step: ActionLabel, Target: run.issueTarget() + " +" + label, Err: err})
	}
}

func (run *execution) reject() {
	run.fail(&PolicyRejection{
		Suffix:        run.fields.Suffix,
		Email:         run.fields.Email,
		ApproverEmail: run.fields.ApproverEmail,
	})
	run.comment("rejection", run.orchestrator.policy.Messages.Rejection)
}
