// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lindluni/warden-invite/lib/policy"
)

// Recipient identifies the approver being notified.
type Recipient struct {
	Email string

	// Username is the approver's GitHub login, or "" when unknown.
	Username string
}

// Template holds the message template sources. Each transport uses
// the parts it needs: email uses Subject and Body, comments use
// Notice and Command.
type Template struct {
	Subject string
	Body    string
	Notice  string
	Command string
}

// TemplateFromMessages selects the notification templates from a
// policy's message set.
func TemplateFromMessages(messages policy.Messages) Template {
	return Template{
		Subject: messages.EmailSubject,
		Body:    messages.EmailBody,
		Notice:  messages.ApproverNotice,
		Command: messages.ApprovalCommand,
	}
}

// Message is a rendered notification ready for a Transport.
type Message struct {
	Recipient Recipient
	Subject   string
	Body      string
	Notice    string
	Command   string

	// Fingerprint identifies the request. Transports use it to detect
	// a notification that was already delivered.
	Fingerprint string
}

// Transport delivers rendered messages.
type Transport interface {
	// Name identifies the transport in logs and errors.
	Name() string

	// Label is the issue label recording a successful send.
	Label() string

	// Send delivers the message. It returns nil only when the approver
	// has been notified (or already had been).
	Send(ctx context.Context, message Message) error
}

// SendError reports a notification that could not be rendered or
// delivered.
type SendError struct {
	Transport string
	Recipient Recipient
	Err       error
}

func (err *SendError) Error() string {
	return fmt.Sprintf("notifying %s via %s: %v", err.Recipient.Email, err.Transport, err.Err)
}

func (err *SendError) Unwrap() error { return err.Err }

// Dispatcher renders notifications and sends them through its
// transport.
type Dispatcher struct {
	transport Transport
	logger    *slog.Logger
}

// NewDispatcher creates a Dispatcher. A nil logger uses
// slog.Default().
func NewDispatcher(transport Transport, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		transport: transport,
		logger:    logger.With("transport", transport.Name()),
	}
}

// Transport returns the dispatcher's transport.
func (dispatcher *Dispatcher) Transport() Transport {
	return dispatcher.transport
}

// Notify renders template against fields and sends the result to
// target.
func (dispatcher *Dispatcher) Notify(ctx context.Context, target Recipient, template Template, fields policy.Fields) error {
	message := Message{Recipient: target, Fingerprint: fields.Fingerprint}

	for _, part := range []struct {
		name   string
		source string
		into   *string
	}{
		{"subject", template.Subject, &message.Subject},
		{"body", template.Body, &message.Body},
		{"notice", template.Notice, &message.Notice},
		{"command", template.Command, &message.Command},
	} {
		if part.source == "" {
			continue
		}
		rendered, err := policy.Render(part.source, fields)
		if err != nil {
			return &SendError{
				Transport: dispatcher.transport.Name(),
				Recipient: target,
				Err:       fmt.Errorf("%s: %w", part.name, err),
			}
		}
		*part.into = rendered
	}

	dispatcher.logger.Info("notifying approver",
		"approver_email", target.Email,
		"approver_username", target.Username,
		"fingerprint", message.Fingerprint,
	)

	if err := dispatcher.transport.Send(ctx, message); err != nil {
		return &SendError{Transport: dispatcher.transport.Name(), Recipient: target, Err: err}
	}
	return nil
}
