// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

// DefaultEmailLabel marks an issue whose approver was notified by
// email.
const DefaultEmailLabel = "email-sent"

// fingerprintHeader carries the request fingerprint on sent mail so
// replies and bounces can be traced to the request.
const fingerprintHeader = "X-Warden-Request"

// sender submits messages to an SMTP server. *gomail.Dialer satisfies
// it.
type sender interface {
	DialAndSend(messages ...*gomail.Message) error
}

// EmailConfig configures an EmailTransport.
type EmailConfig struct {
	// Host and Port address the SMTP submission server.
	Host string
	Port int

	// Username and Password authenticate to the server. Both empty
	// means no authentication.
	Username string
	Password string

	// From is the sender address. ReplyTo, when set, directs approver
	// replies elsewhere.
	From    string
	ReplyTo string

	// Label overrides DefaultEmailLabel.
	Label string

	Logger *slog.Logger
}

// EmailTransport notifies the approver by email.
type EmailTransport struct {
	sender  sender
	from    string
	replyTo string
	domain  string
	label   string
	logger  *slog.Logger
}

// NewEmailTransport creates an EmailTransport that submits through
// config.Host.
func NewEmailTransport(config EmailConfig) (*EmailTransport, error) {
	if config.Host == "" {
		return nil, errors.New("notify: email transport requires an SMTP host")
	}
	if config.Port <= 0 {
		return nil, fmt.Errorf("notify: invalid SMTP port %d", config.Port)
	}
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	if config.Username == "" && config.Password == "" {
		dialer.Auth = nil
	}
	return newEmailTransport(dialer, config)
}

func newEmailTransport(sender sender, config EmailConfig) (*EmailTransport, error) {
	_, domain, found := strings.Cut(config.From, "@")
	if !found || domain == "" {
		return nil, fmt.Errorf("notify: email transport requires a From address (got %q)", config.From)
	}
	label := config.Label
	if label == "" {
		label = DefaultEmailLabel
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &EmailTransport{
		sender:  sender,
		from:    config.From,
		replyTo: config.ReplyTo,
		domain:  strings.TrimSuffix(domain, ">"),
		label:   label,
		logger:  logger,
	}, nil
}

func (transport *EmailTransport) Name() string  { return "email" }
func (transport *EmailTransport) Label() string { return transport.label }

// Send composes a text/plain message to the approver and submits it.
// gomail has no context support, so cancellation is only observed
// before the SMTP exchange starts.
func (transport *EmailTransport) Send(ctx context.Context, message Message) error {
	if message.Recipient.Email == "" {
		return errors.New("recipient has no email address")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), transport.domain)

	email := gomail.NewMessage()
	email.SetHeader("From", transport.from)
	email.SetHeader("To", message.Recipient.Email)
	if transport.replyTo != "" {
		email.SetHeader("Reply-To", transport.replyTo)
	}
	email.SetHeader("Subject", message.Subject)
	email.SetHeader("Message-ID", messageID)
	if message.Fingerprint != "" {
		email.SetHeader(fingerprintHeader, message.Fingerprint)
	}
	email.SetBody("text/plain", message.Body)

	transport.logger.Info("sending approval email",
		"to", message.Recipient.Email,
		"message_id", messageID,
	)
	if err := transport.sender.DialAndSend(email); err != nil {
		return fmt.Errorf("smtp: %w", err)
	}
	return nil
}
