// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"slices"
)

// CreateTicketRequest is the body of POST /tickets. The server sets
// the initial status.
type CreateTicketRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Labels      []string `json:"labels"`
}

// UpdateTicketRequest is the body of PUT /tickets/{id}. Nil fields are
// omitted from the JSON body and left unchanged by the server.
type UpdateTicketRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	Labels      *[]string `json:"labels,omitempty"`
	Status      *Status   `json:"status,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (r UpdateTicketRequest) IsEmpty() bool {
	return r.Title == nil && r.Description == nil && r.Priority == nil &&
		r.Labels == nil && r.Status == nil
}

// Apply returns a copy of t with every present field of r applied.
// Apply does not validate; callers decide what to accept.
func (r UpdateTicketRequest) Apply(t Ticket) Ticket {
	t = t.Clone()
	if r.Title != nil {
		t.Title = *r.Title
	}
	if r.Description != nil {
		t.Description = *r.Description
	}
	if r.Priority != nil {
		t.Priority = *r.Priority
	}
	if r.Labels != nil {
		t.Labels = slices.Clone(*r.Labels)
		if t.Labels == nil {
			t.Labels = []string{}
		}
	}
	if r.Status != nil {
		t.Status = *r.Status
	}
	return t
}

// ListResponse is the body of GET /tickets.
type ListResponse struct {
	Tickets []Ticket `json:"tickets"`
}

// TicketResponse is the body of a successful create or update.
type TicketResponse struct {
	Message string `json:"message,omitempty"`
	Ticket  Ticket `json:"ticket"`
}

// MessageResponse is the body of a successful delete or health check.
type MessageResponse struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message"`
}

// ErrorResponse is the body of any non-2xx response. Servers set
// Error; some set Message instead.
type ErrorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// ChangeKind names the mutation carried by a ChangeEvent.
type ChangeKind string

const (
	ChangeCreate ChangeKind = "create"
	ChangeUpdate ChangeKind = "update"
	ChangeDelete ChangeKind = "delete"
)

// ChangeEventType is the Type of every ChangeEvent.
const ChangeEventType = "tickets-changed"

// ChangeEvent is a frame on the /events websocket. It only signals that
// the ticket list changed; clients refetch rather than apply it.
type ChangeEvent struct {
	Type     string     `json:"type"`
	Kind     ChangeKind `json:"kind"`
	TicketID string     `json:"ticketId"`
}

// Ptr returns a pointer to v, for building UpdateTicketRequest values.
func Ptr[T any](v T) *T {
	return &v
}
