// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package board

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/kanban-foundation/kanban/lib/board/boardtest"
	"github.com/kanban-foundation/kanban/lib/schema/ticket"
	"github.com/kanban-foundation/kanban/lib/ticketclient"
)

func newTestSession(t *testing.T) (*Session, *boardtest.FakeAPI) {
	t.Helper()
	api := boardtest.NewFakeAPI(boardtest.SampleTickets()...)
	service := NewService(api, nil)
	if err := service.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return NewSession(service, nil), api
}

func TestModalTransitions(t *testing.T) {
	session, _ := newTestSession(t)
	if session.Modal().Kind != ModalIdle {
		t.Fatalf("initial modal = %v, want idle", session.Modal().Kind)
	}

	if err := session.OpenCreate(); err != nil {
		t.Fatalf("OpenCreate: %v", err)
	}
	if err := session.OpenEdit(boardtest.SampleTickets()[0]); !errors.Is(err, ErrModalOpen) {
		t.Errorf("OpenEdit while creating = %v, want ErrModalOpen", err)
	}
	if session.Modal().Kind != ModalCreating {
		t.Errorf("modal = %v after rejected open, want creating", session.Modal().Kind)
	}

	session.Updated()
	if session.Modal().Kind != ModalCreating {
		t.Errorf("Updated() closed the create modal")
	}
	session.Created()
	if session.Modal().Kind != ModalIdle {
		t.Errorf("modal = %v after Created, want idle", session.Modal().Kind)
	}

	target := boardtest.SampleTickets()[1]
	if err := session.OpenEdit(target); err != nil {
		t.Fatalf("OpenEdit: %v", err)
	}
	modal := session.Modal()
	if modal.Kind != ModalEditing || modal.Ticket.ID != target.ID {
		t.Errorf("modal = %+v, want editing %s", modal, target.ID)
	}
	session.Updated()
	if session.Modal().Kind != ModalIdle {
		t.Errorf("modal = %v after Updated, want idle", session.Modal().Kind)
	}

	if err := session.OpenCreate(); err != nil {
		t.Fatalf("OpenCreate: %v", err)
	}
	session.CloseModal()
	if session.Modal().Kind != ModalIdle {
		t.Errorf("modal = %v after CloseModal, want idle", session.Modal().Kind)
	}
}

func TestSessionMoveValidation(t *testing.T) {
	tests := []struct {
		name    string
		request MoveRequest
	}{
		{"missing id", MoveRequest{Status: ticket.StatusDone}},
		{"missing status", MoveRequest{TicketID: "4"}},
		{"unknown status", MoveRequest{TicketID: "4", Status: "archived"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			session, api := newTestSession(t)
			_, err := session.Move(context.Background(), test.request)
			if !errors.Is(err, ErrInvalidMove) {
				t.Fatalf("Move error = %v, want ErrInvalidMove", err)
			}
			if Classify(err) != KindMove {
				t.Errorf("Classify = %s, want move", Classify(err))
			}
			if got := api.Calls(); !reflect.DeepEqual(got, []string{"list"}) {
				t.Errorf("calls = %v, want only the initial list", got)
			}
		})
	}
}

func TestSessionMove(t *testing.T) {
	session, api := newTestSession(t)
	moved, err := session.Move(context.Background(), MoveRequest{TicketID: "5", Status: ticket.StatusInProgress})
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if moved.Status != ticket.StatusInProgress {
		t.Errorf("status = %s, want in-progress", moved.Status)
	}
	if got, want := api.Calls(), []string{"list", "update 5", "list"}; !reflect.DeepEqual(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
}

func TestSessionMoveAPIFailure(t *testing.T) {
	session, api := newTestSession(t)
	api.UpdateErr = &ticketclient.APIError{StatusCode: 404, Message: "Ticket not found", FromServer: true}
	_, err := session.Move(context.Background(), MoveRequest{TicketID: "5", Status: ticket.StatusDone})
	if Classify(err) != KindAPI {
		t.Errorf("Classify = %s, want api", Classify(err))
	}
	if got := Message(err, "fallback"); got != "Ticket not found" {
		t.Errorf("Message = %q, want server message", got)
	}
}

func TestSessionDeleteRequiresConfirmation(t *testing.T) {
	session, api := newTestSession(t)
	target := boardtest.SampleTickets()[0]

	var prompt string
	attempted, err := session.Delete(context.Background(), target, func(question string) bool {
		prompt = question
		return false
	})
	if err != nil || attempted {
		t.Fatalf("declined delete = (%v, %v), want (false, nil)", attempted, err)
	}
	if prompt != DeletePrompt {
		t.Errorf("prompt = %q, want %q", prompt, DeletePrompt)
	}
	if got := api.Calls(); !reflect.DeepEqual(got, []string{"list"}) {
		t.Errorf("calls = %v, want no delete", got)
	}

	attempted, err = session.Delete(context.Background(), target, Confirmed)
	if err != nil || !attempted {
		t.Fatalf("confirmed delete = (%v, %v), want (true, nil)", attempted, err)
	}
	if _, ok := session.Service().Get(target.ID); ok {
		t.Errorf("ticket %s still cached after delete", target.ID)
	}
}

func TestSessionDeleteNilConfirmerDeclines(t *testing.T) {
	session, api := newTestSession(t)
	attempted, err := session.Delete(context.Background(), boardtest.SampleTickets()[0], nil)
	if attempted || err != nil {
		t.Errorf("got (%v, %v), want (false, nil)", attempted, err)
	}
	if len(api.Calls()) != 1 {
		t.Errorf("calls = %v", api.Calls())
	}
}

func TestClassifyAndMessage(t *testing.T) {
	validation := &ValidationError{Fields: []FieldError{{FieldTitle, "Title is required"}}}
	tests := []struct {
		name        string
		err         error
		wantKind    ErrorKind
		wantMessage string
	}{
		{"validation", validation, KindValidation, "Title is required"},
		{"drag", ErrNoDragPayload, KindDrag, "fallback"},
		{"server message", &ticketclient.APIError{StatusCode: 400, Message: "Bad priority", FromServer: true}, KindAPI, "Bad priority"},
		{"api without body", &ticketclient.APIError{StatusCode: 500, Message: "Failed to update ticket"}, KindAPI, "fallback"},
		{"transport", errors.New("dial tcp: connection refused"), KindAPI, "fallback"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Classify(test.err); got != test.wantKind {
				t.Errorf("Classify = %s, want %s", got, test.wantKind)
			}
			if got := Message(test.err, "fallback"); got != test.wantMessage {
				t.Errorf("Message = %q, want %q", got, test.wantMessage)
			}
		})
	}
	if Message(nil, "fallback") != "" {
		t.Error("Message(nil) is not empty")
	}
}
