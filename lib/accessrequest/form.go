// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

package accessrequest

import (
	"errors"
	"fmt"
)

// FieldName identifies the AccessRequest field a form section fills.
type FieldName string

const (
	FieldFullName         FieldName = "name"
	FieldEmail            FieldName = "email"
	FieldUsername         FieldName = "username"
	FieldApproverEmail    FieldName = "approver_email"
	FieldApproverUsername FieldName = "approver_username"
	FieldContract         FieldName = "contract"
)

// Field is one labelled section of an issue form.
type Field struct {
	// Label is the section heading text, matched case-insensitively.
	Label string `yaml:"label"`

	// Required fields must be present and non-empty. Optional fields
	// extract as "" when absent.
	Required bool `yaml:"required"`
}

// Form describes the labelled sections of one issue form variant.
// Forms differ between deployments only in labels and in which of the
// approver username and contract sections they carry.
type Form struct {
	FullName         Field `yaml:"name"`
	Email            Field `yaml:"email"`
	Username         Field `yaml:"username"`
	ApproverEmail    Field `yaml:"approver_email"`
	ApproverUsername Field `yaml:"approver_username"`
	Contract         Field `yaml:"contract"`
}

// DefaultForm returns the labels of the stock access-request issue
// form.
func DefaultForm() Form {
	return Form{
		FullName:         Field{Label: "Full Name", Required: true},
		Email:            Field{Label: "Email", Required: true},
		Username:         Field{Label: "GitHub Username", Required: true},
		ApproverEmail:    Field{Label: "PM/COR Email", Required: true},
		ApproverUsername: Field{Label: "PM/COR GitHub Username"},
		Contract:         Field{Label: "Assigned Contract"},
	}
}

// formField binds a Field to the AccessRequest member it fills.
type formField struct {
	name  FieldName
	field Field
	set   func(request *AccessRequest, value string)
}

// fields returns the form's sections in AccessRequest order.
func (form Form) fields() []formField {
	return []formField{
		{FieldFullName, form.FullName, func(request *AccessRequest, value string) { request.Name = value }},
		{FieldEmail, form.Email, func(request *AccessRequest, value string) { request.Email = value }},
		{FieldUsername, form.Username, func(request *AccessRequest, value string) { request.Username = stripMention(value) }},
		{FieldApproverEmail, form.ApproverEmail, func(request *AccessRequest, value string) { request.ApproverEmail = value }},
		{FieldApproverUsername, form.ApproverUsername, func(request *AccessRequest, value string) { request.ApproverUsername = stripMention(value) }},
		{FieldContract, form.Contract, func(request *AccessRequest, value string) { request.Contract = value }},
	}
}

// Validate checks that every required field has a label and that no
// two fields share a label.
func (form Form) Validate() error {
	var errs []error
	seen := make(map[string]FieldName)
	for _, entry := range form.fields() {
		if entry.field.Label == "" {
			if entry.field.Required {
				errs = append(errs, fmt.Errorf("form field %s is required but has no label", entry.name))
			}
			continue
		}
		key := foldLabel(entry.field.Label)
		if other, exists := seen[key]; exists {
			errs = append(errs, fmt.Errorf("form fields %s and %s share the label %q", other, entry.name, entry.field.Label))
			continue
		}
		seen[key] = entry.name
	}
	return errors.Join(errs...)
}
