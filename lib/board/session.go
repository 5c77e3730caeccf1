// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package board

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kanban-foundation/kanban/lib/schema/ticket"
)

// DeletePrompt is the question asked before deleting a ticket.
const DeletePrompt = "Are you sure you want to delete this ticket?"

// Confirmer asks the user a yes/no question and reports the answer.
type Confirmer func(prompt string) bool

// Confirmed is a Confirmer for callers that already asked, such as a
// UI whose confirmation overlay has been accepted.
func Confirmed(string) bool { return true }

// ModalKind tags which modal is open.
type ModalKind int

const (
	ModalIdle ModalKind = iota
	ModalCreating
	ModalEditing
)

func (k ModalKind) String() string {
	switch k {
	case ModalCreating:
		return "creating"
	case ModalEditing:
		return "editing"
	}
	return "idle"
}

// Modal is the board's modal state. Ticket is set only when Kind is
// ModalEditing.
type Modal struct {
	Kind   ModalKind
	Ticket ticket.Ticket
}

// Session is the board controller. It owns the modal state and the
// drag context of the current gesture. Modal and drag methods belong
// to the UI goroutine; Move and Delete only touch the Service and may
// run anywhere.
type Session struct {
	service *Service
	logger  *slog.Logger

	modal Modal
	drag  DragContext
}

// NewSession returns an idle session over service. A nil logger
// discards.
func NewSession(service *Service, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{service: service, logger: logger}
}

// Service returns the sync service.
func (s *Session) Service() *Service { return s.service }

// Drag returns the session's drag context.
func (s *Session) Drag() *DragContext { return &s.drag }

// Modal returns the current modal state.
func (s *Session) Modal() Modal { return s.modal }

// OpenCreate opens the create modal.
func (s *Session) OpenCreate() error {
	if s.modal.Kind != ModalIdle {
		return ErrModalOpen
	}
	s.modal = Modal{Kind: ModalCreating}
	return nil
}

// OpenEdit opens the edit modal for t.
func (s *Session) OpenEdit(t ticket.Ticket) error {
	if s.modal.Kind != ModalIdle {
		return ErrModalOpen
	}
	s.modal = Modal{Kind: ModalEditing, Ticket: t.Clone()}
	return nil
}

// CloseModal returns to idle from any state.
func (s *Session) CloseModal() {
	s.modal = Modal{}
}

// Created closes the create modal after a successful create. It does
// nothing in any other state.
func (s *Session) Created() {
	if s.modal.Kind == ModalCreating {
		s.modal = Modal{}
	}
}

// Updated closes the edit modal after a successful update. It does
// nothing in any other state.
func (s *Session) Updated() {
	if s.modal.Kind == ModalEditing {
		s.modal = Modal{}
	}
}

// Move validates request and asks the service to change the ticket's
// status. A request without an id or with an unknown status is
// rejected with ErrInvalidMove before any network call.
func (s *Session) Move(ctx context.Context, request MoveRequest) (ticket.Ticket, error) {
	if request.TicketID == "" || !request.Status.IsValid() {
		s.logger.Debug("invalid move request",
			"ticket_id", request.TicketID,
			"status", request.Status,
		)
		return ticket.Ticket{}, fmt.Errorf("%w: id %q, status %q", ErrInvalidMove, request.TicketID, request.Status)
	}
	moved, err := s.service.Move(ctx, request.TicketID, request.Status)
	if err != nil {
		s.logger.Warn("move failed",
			"ticket_id", request.TicketID,
			"status", request.Status,
			"error", err,
		)
		return ticket.Ticket{}, err
	}
	return moved, nil
}

// Delete asks confirm and, if accepted, deletes t. It reports whether
// a delete was attempted.
func (s *Session) Delete(ctx context.Context, t ticket.Ticket, confirm Confirmer) (bool, error) {
	if confirm == nil || !confirm(DeletePrompt) {
		return false, nil
	}
	if err := s.service.Delete(ctx, t.ID); err != nil {
		s.logger.Warn("delete failed", "ticket_id", t.ID, "error", err)
		return true, err
	}
	return true, nil
}
