// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package board

import (
	"errors"
	"strings"

	"github.com/kanban-foundation/kanban/lib/ticketclient"
)

var (
	// ErrInvalidMove is returned by Session.Move when the request has
	// no ticket id or names an unknown status. No request is sent.
	ErrInvalidMove = errors.New("board: invalid move request")

	// ErrModalOpen is returned when opening a modal while another one
	// is open.
	ErrModalOpen = errors.New("board: another modal is already open")

	// ErrNoDragPayload is reported when a drop carries no ticket id in
	// any of its three sources.
	ErrNoDragPayload = errors.New("board: no ticket id in drag payload")

	// ErrSubmitting is returned when a form is submitted while a
	// previous submission is still in flight.
	ErrSubmitting = errors.New("board: submission already in progress")
)

// FieldError is one failed form rule.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every failed rule of a form, in field order.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	messages := make([]string, len(e.Fields))
	for index, field := range e.Fields {
		messages[index] = field.Message
	}
	return strings.Join(messages, "; ")
}

// Field returns the message for the named field, or "" if it passed.
func (e *ValidationError) Field(name string) string {
	for _, field := range e.Fields {
		if field.Field == name {
			return field.Message
		}
	}
	return ""
}

// ErrorKind classifies board errors for presentation.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindAPI        ErrorKind = "api"
	KindDrag       ErrorKind = "drag"
	KindMove       ErrorKind = "move"
)

// Classify returns the kind of err. Errors that are neither local
// validation nor drag/move diagnostics came from talking to the API,
// including transport failures.
func Classify(err error) ErrorKind {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		return KindValidation
	case errors.Is(err, ErrNoDragPayload):
		return KindDrag
	case errors.Is(err, ErrInvalidMove):
		return KindMove
	}
	return KindAPI
}

// Message returns the text to show a user for err: the server's own
// message for API errors that carried one, the validation summary for
// validation errors, and fallback for everything else.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *ticketclient.APIError
	if errors.As(err, &apiErr) && apiErr.FromServer {
		return apiErr.Message
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Error()
	}
	return fallback
}
