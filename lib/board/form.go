// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package board

import (
	"context"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/kanban-foundation/kanban/lib/schema/ticket"
	"github.com/kanban-foundation/kanban/lib/ticketclient"
)

// Field names used in ValidationError.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldPriority    = "priority"
	FieldStatus      = "status"
)

// Minimum lengths, counted in characters after trimming.
const (
	MinTitleLength       = 3
	MinDescriptionLength = 10
)

// FormMode selects create or edit behaviour.
type FormMode int

const (
	FormCreate FormMode = iota
	FormEdit
)

// Submitter is the part of Service a form submits to.
type Submitter interface {
	Create(ctx context.Context, request ticket.CreateTicketRequest) (ticket.Ticket, error)
	Update(ctx context.Context, id string, request ticket.UpdateTicketRequest) (ticket.Ticket, error)
}

// Form is the state of a create or edit modal. Fields are edited
// directly by the UI; Labels should go through AddLabel and RemoveLabel
// so the no-duplicates rule holds.
type Form struct {
	Mode        FormMode
	Title       string
	Description string
	Priority    ticket.Priority
	Status      ticket.Status
	Labels      []string

	// LabelInput is the pending text of the label entry.
	LabelInput string

	// Submitting is true while a submission is in flight.
	Submitting bool
	// Error is the message of the last failed submission.
	Error string

	original ticket.Ticket
}

// NewCreateForm returns an empty create form with priority medium and
// status todo.
func NewCreateForm() *Form {
	return &Form{
		Mode:     FormCreate,
		Priority: ticket.PriorityMedium,
		Status:   ticket.StatusTodo,
		Labels:   []string{},
	}
}

// NewEditForm returns a form pre-filled from t. The form keeps its own
// copy of the labels.
func NewEditForm(t ticket.Ticket) *Form {
	original := t.Clone()
	labels := slices.Clone(original.Labels)
	if labels == nil {
		labels = []string{}
	}
	return &Form{
		Mode:        FormEdit,
		Title:       original.Title,
		Description: original.Description,
		Priority:    original.Priority,
		Status:      original.Status,
		Labels:      labels,
		original:    original,
	}
}

// Validate checks every rule and returns a *ValidationError listing the
// failures, or nil.
func (f *Form) Validate() error {
	var fields []FieldError

	title := strings.TrimSpace(f.Title)
	switch {
	case title == "":
		fields = append(fields, FieldError{FieldTitle, "Title is required"})
	case utf8.RuneCountInString(title) < MinTitleLength:
		fields = append(fields, FieldError{FieldTitle, "Title must be at least 3 characters"})
	}

	description := strings.TrimSpace(f.Description)
	switch {
	case description == "":
		fields = append(fields, FieldError{FieldDescription, "Description is required"})
	case utf8.RuneCountInString(description) < MinDescriptionLength:
		fields = append(fields, FieldError{FieldDescription, "Description must be at least 10 characters"})
	}

	if !f.Priority.IsValid() {
		fields = append(fields, FieldError{FieldPriority, "Priority must be low, medium, or high"})
	}
	if f.Mode == FormEdit && !f.Status.IsValid() {
		fields = append(fields, FieldError{FieldStatus, "Status must be todo, in-progress, or done"})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// AddLabel appends the trimmed label unless it is empty or already
// present. It reports whether the label was added.
func (f *Form) AddLabel(text string) bool {
	label := strings.TrimSpace(text)
	if label == "" || slices.Contains(f.Labels, label) {
		return false
	}
	f.Labels = append(f.Labels, label)
	return true
}

// RemoveLabel removes every exact match of label.
func (f *Form) RemoveLabel(label string) bool {
	before := len(f.Labels)
	f.Labels = slices.DeleteFunc(f.Labels, func(candidate string) bool {
		return candidate == label
	})
	return len(f.Labels) != before
}

// SubmitLabelInput handles Enter in the label entry: the pending text
// is added as a label and cleared if it was accepted. Enter there never
// submits the form.
func (f *Form) SubmitLabelInput() bool {
	if !f.AddLabel(f.LabelInput) {
		return false
	}
	f.LabelInput = ""
	return true
}

// CreateRequest validates the form and builds the create body.
func (f *Form) CreateRequest() (ticket.CreateTicketRequest, error) {
	if err := f.Validate(); err != nil {
		return ticket.CreateTicketRequest{}, err
	}
	return ticket.CreateTicketRequest{
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
		Priority:    f.Priority,
		Labels:      slices.Clone(f.Labels),
	}, nil
}

// Diff returns an update holding only the fields that differ from the
// original ticket. Title and description are compared with surrounding
// whitespace trimmed on both sides. Labels are compared as ordered lists,
// so reordering counts as a change.
func (f *Form) Diff() ticket.UpdateTicketRequest {
	var update ticket.UpdateTicketRequest
	if title := strings.TrimSpace(f.Title); title != strings.TrimSpace(f.original.Title) {
		update.Title = &title
	}
	if description := strings.TrimSpace(f.Description); description != strings.TrimSpace(f.original.Description) {
		update.Description = &description
	}
	if f.Priority != f.original.Priority {
		priority := f.Priority
		update.Priority = &priority
	}
	if f.Status != f.original.Status {
		status := f.Status
		update.Status = &status
	}
	if !slices.Equal(f.Labels, f.original.Labels) {
		labels := slices.Clone(f.Labels)
		if labels == nil {
			labels = []string{}
		}
		update.Labels = &labels
	}
	return update
}

// Submission is a validated request taken from a form.
type Submission struct {
	Mode     FormMode
	TicketID string
	Create   ticket.CreateTicketRequest
	Update   ticket.UpdateTicketRequest
}

// NoChanges reports an edit submission with nothing to send.
func (s Submission) NoChanges() bool {
	return s.Mode == FormEdit && s.Update.IsEmpty()
}

// Send performs the submission against target. An edit with no
// changes makes no call and returns a zero ticket.
func (s Submission) Send(ctx context.Context, target Submitter) (ticket.Ticket, error) {
	if s.Mode == FormCreate {
		return target.Create(ctx, s.Create)
	}
	if s.NoChanges() {
		return ticket.Ticket{}, nil
	}
	return target.Update(ctx, s.TicketID, s.Update)
}

// Begin validates the form and takes a Submission from it. For any
// submission that will reach the network it sets Submitting and clears
// Error; Finish must be called with the outcome.
func (f *Form) Begin() (Submission, error) {
	if f.Submitting {
		return Submission{}, ErrSubmitting
	}
	if err := f.Validate(); err != nil {
		return Submission{}, err
	}

	submission := Submission{Mode: f.Mode}
	switch f.Mode {
	case FormCreate:
		request, err := f.CreateRequest()
		if err != nil {
			return Submission{}, err
		}
		submission.Create = request
	case FormEdit:
		submission.TicketID = f.original.ID
		submission.Update = f.Diff()
		if submission.Update.IsEmpty() {
			return submission, nil
		}
	}

	f.Submitting = true
	f.Error = ""
	return submission, nil
}

// Finish records the outcome of a submission. Submitting is always
// cleared; a failure keeps the form open with Error set to the server's
// message or the mode's generic fallback.
func (f *Form) Finish(err error) {
	f.Submitting = false
	if err == nil {
		f.Error = ""
		return
	}
	f.Error = Message(err, f.fallback())
}

func (f *Form) fallback() string {
	if f.Mode == FormEdit {
		return ticketclient.FallbackUpdate
	}
	return ticketclient.FallbackCreate
}

// Submit runs Begin, Send, and Finish in one call. It reports whether
// anything was sent; an edit without changes returns (zero, false, nil)
// and the caller simply closes the modal.
func (f *Form) Submit(ctx context.Context, target Submitter) (ticket.Ticket, bool, error) {
	submission, err := f.Begin()
	if err != nil {
		return ticket.Ticket{}, false, err
	}
	if submission.NoChanges() {
		return ticket.Ticket{}, false, nil
	}
	result, err := submission.Send(ctx, target)
	f.Finish(err)
	if err != nil {
		return ticket.Ticket{}, true, err
	}
	return result, true, nil
}
