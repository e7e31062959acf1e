// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/lindluni/warden-invite/lib/policy"
)

type recordingTransport struct {
	messages []Message
	err      error
}

func (transport *recordingTransport) Name() string  { return "recording" }
func (transport *recordingTransport) Label() string { return "recorded" }

func (transport *recordingTransport) Send(ctx context.Context, message Message) error {
	transport.messages = append(transport.messages, message)
	return transport.err
}

func testFields() policy.Fields {
	return policy.Fields{
		Name:             "Jane Public",
		Email:            "jane@corp.com",
		ApproverEmail:    "pm@agency.gov",
		ApproverUsername: "pmanager",
		Organization:     "acme",
		Issue:            12,
		Fingerprint:      "0123456789abcdef0123456789abcdef",
	}
}

func TestDispatcherNotify(t *testing.T) {
	transport := &recordingTransport{}
	dispatcher := NewDispatcher(transport, nil)
	target := Recipient{Email: "pm@agency.gov", Username: "pmanager"}

	err := dispatcher.Notify(context.Background(), target, TemplateFromMessages(policy.DefaultMessages()), testFields())
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(transport.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(transport.messages))
	}
	message := transport.messages[0]
	if message.Recipient != target {
		t.Errorf("Recipient = %+v, want %+v", message.Recipient, target)
	}
	if message.Command != "/approve --pm pm@agency.gov --name Jane Public --email jane@corp.com" {
		t.Errorf("Command = %q", message.Command)
	}
	if message.Subject != "Access request for acme: Jane Public" {
		t.Errorf("Subject = %q", message.Subject)
	}
	if message.Fingerprint != testFields().Fingerprint {
		t.Errorf("Fingerprint = %q", message.Fingerprint)
	}
}

func TestDispatcherNotify_SendFailure(t *testing.T) {
	cause := errors.New("connection refused")
	dispatcher := NewDispatcher(&recordingTransport{err: cause}, nil)

	err := dispatcher.Notify(context.Background(), Recipient{Email: "pm@agency.gov"}, Template{Command: "/approve"}, testFields())
	var sendError *SendError
	if !errors.As(err, &sendError) {
		t.Fatalf("expected *SendError, got %v", err)
	}
	if sendError.Transport != "recording" || sendError.Recipient.Email != "pm@agency.gov" {
		t.Errorf("SendError = %+v", sendError)
	}
	if !errors.Is(err, cause) {
		t.Error("SendError should wrap the transport error")
	}
}

func TestDispatcherNotify_RenderFailure(t *testing.T) {
	transport := &recordingTransport{}
	dispatcher := NewDispatcher(transport, nil)

	err := dispatcher.Notify(context.Background(), Recipient{Email: "pm@agency.gov"}, Template{Body: "{{.Missing}}"}, testFields())
	var sendError *SendError
	if !errors.As(err, &sendError) {
		t.Fatalf("expected *SendError, got %v", err)
	}
	if len(transport.messages) != 0 {
		t.Error("transport called despite render failure")
	}
}
