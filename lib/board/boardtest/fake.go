// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

// Package boardtest provides an in-memory ticket API for tests of the
// board and its front ends.
package boardtest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kanban-foundation/kanban/lib/schema/ticket"
)

// FakeAPI is an in-memory ticket API that records every call as
// "list", "create", "update <id>", or "delete <id>". Setting one of the
// error fields makes the matching call fail without side effects.
type FakeAPI struct {
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error

	mutex   sync.Mutex
	tickets []ticket.Ticket
	calls   []string
	nextID  int
}

// NewFakeAPI returns a fake holding tickets. Created tickets get ids
// counting up from 101.
func NewFakeAPI(tickets ...ticket.Ticket) *FakeAPI {
	return &FakeAPI{tickets: tickets, nextID: 100}
}

// Calls returns the calls made so far.
func (f *FakeAPI) Calls() []string {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return append([]string(nil), f.calls...)
}

// Tickets returns the current server-side state.
func (f *FakeAPI) Tickets() []ticket.Ticket {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	out := make([]ticket.Ticket, len(f.tickets))
	for index, item := range f.tickets {
		out[index] = item.Clone()
	}
	return out
}

func (f *FakeAPI) List(ctx context.Context) ([]ticket.Ticket, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.calls = append(f.calls, "list")
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := make([]ticket.Ticket, len(f.tickets))
	for index, item := range f.tickets {
		out[index] = item.Clone()
	}
	return out, nil
}

func (f *FakeAPI) Create(ctx context.Context, request ticket.CreateTicketRequest) (ticket.Ticket, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.calls = append(f.calls, "create")
	if f.CreateErr != nil {
		return ticket.Ticket{}, f.CreateErr
	}
	f.nextID++
	created := ticket.Ticket{
		ID:          fmt.Sprint(f.nextID),
		Title:       request.Title,
		Description: request.Description,
		Priority:    request.Priority,
		Labels:      request.Labels,
		Status:      ticket.StatusTodo,
		CreatedAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	f.tickets = append(f.tickets, created)
	return created.Clone(), nil
}

func (f *FakeAPI) Update(ctx context.Context, id string, request ticket.UpdateTicketRequest) (ticket.Ticket, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.calls = append(f.calls, "update "+id)
	if f.UpdateErr != nil {
		return ticket.Ticket{}, f.UpdateErr
	}
	for index, item := range f.tickets {
		if item.ID == id {
			f.tickets[index] = request.Apply(item)
			return f.tickets[index].Clone(), nil
		}
	}
	return ticket.Ticket{}, fmt.Errorf("no ticket %s", id)
}

func (f *FakeAPI) Delete(ctx context.Context, id string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.calls = append(f.calls, "delete "+id)
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	for index, item := range f.tickets {
		if item.ID == id {
			f.tickets = append(f.tickets[:index], f.tickets[index+1:]...)
			return nil
		}
	}
	return fmt.Errorf("no ticket %s", id)
}

// SampleTickets returns five tickets spread over the three columns:
// 4 and 5 in todo, 2 in progress, 1 and 3 done.
func SampleTickets() []ticket.Ticket {
	created := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	return []ticket.Ticket{
		{ID: "1", Title: "Setup Authentication", Description: "Implement JWT based authentication", Priority: ticket.PriorityHigh, Status: ticket.StatusDone, Labels: []string{"backend", "security"}, CreatedAt: created},
		{ID: "2", Title: "Create User Dashboard", Description: "Build the main dashboard for users", Priority: ticket.PriorityMedium, Status: ticket.StatusInProgress, Labels: []string{"frontend", "ui"}, CreatedAt: created},
		{ID: "3", Title: "Database Migration", Description: "Migrate from SQLite to PostgreSQL", Priority: ticket.PriorityHigh, Status: ticket.StatusDone, Labels: []string{"database"}, CreatedAt: created},
		{ID: "4", Title: "API Documentation", Description: "Document all REST API endpoints", Priority: ticket.PriorityLow, Status: ticket.StatusTodo, Labels: []string{"documentation"}, CreatedAt: created},
		{ID: "5", Title: "Unit Tests", Description: "Write unit tests for core functionality", Priority: ticket.PriorityMedium, Status: ticket.StatusTodo, Labels: []string{"testing"}, CreatedAt: created},
	}
}

// ColumnIDs returns the ticket ids of a column in order.
func ColumnIDs(column ticket.Column) []string {
	ids := make([]string, len(column.Tickets))
	for index, item := range column.Tickets {
		ids[index] = item.ID
	}
	return ids
}
