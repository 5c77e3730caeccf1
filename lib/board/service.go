// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package board

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/kanban-foundation/kanban/lib/schema/ticket"
)

// API is the remote ticket API. *ticketclient.Client implements it.
type API interface {
	List(ctx context.Context) ([]ticket.Ticket, error)
	Create(ctx context.Context, request ticket.CreateTicketRequest) (ticket.Ticket, error)
	Update(ctx context.Context, id string, request ticket.UpdateTicketRequest) (ticket.Ticket, error)
	Delete(ctx context.Context, id string) error
}

// Service is the sync service: the single owner of the cached ticket
// list. The cache is replaced wholesale by Refresh and is never patched
// locally; every successful mutation is followed by a refresh.
//
// Responses are applied in the order they arrive. Two overlapping
// refreshes may therefore leave the older list in place; the next
// mutation or refresh corrects it.
//
// Service is safe for concurrent use. Observers are called outside the
// cache lock but serialized with each other, so an observer must not
// call Refresh or a mutation synchronously.
type Service struct {
	api    API
	logger *slog.Logger

	mutex   sync.RWMutex
	tickets []ticket.Ticket
	loaded  bool

	notifyMutex sync.Mutex
	observers   []*Subscription
}

// Subscription is a registered column observer.
type Subscription struct {
	service  *Service
	observer func([]ticket.Column)
}

// Cancel stops further notifications. Safe to call more than once.
func (s *Subscription) Cancel() {
	s.service.notifyMutex.Lock()
	defer s.service.notifyMutex.Unlock()
	observers := s.service.observers
	for index, candidate := range observers {
		if candidate == s {
			s.service.observers = slices.Delete(slices.Clone(observers), index, index+1)
			return
		}
	}
}

// NewService returns a Service with an empty cache. Call Refresh (or
// Start) to load it. A nil logger discards.
func NewService(api API, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{api: api, logger: logger}
}

// Start performs the initial load.
func (s *Service) Start(ctx context.Context) error {
	return s.Refresh(ctx)
}

// List fetches all tickets from the API without touching the cache.
func (s *Service) List(ctx context.Context) ([]ticket.Ticket, error) {
	return s.api.List(ctx)
}

// Refresh refetches the list, replaces the cache, and notifies
// observers. On error the cache is left as it was.
func (s *Service) Refresh(ctx context.Context) error {
	tickets, err := s.api.List(ctx)
	if err != nil {
		return err
	}

	s.notifyMutex.Lock()
	defer s.notifyMutex.Unlock()

	s.mutex.Lock()
	s.tickets = cloneTickets(tickets)
	s.loaded = true
	columns := Partition(s.tickets)
	s.mutex.Unlock()

	for _, subscription := range s.observers {
		subscription.observer(columns)
	}
	return nil
}

// Create sends a new ticket, refreshes, and returns the created ticket.
// On failure the API error is returned unchanged and the cache is
// untouched.
func (s *Service) Create(ctx context.Context, request ticket.CreateTicketRequest) (ticket.Ticket, error) {
	created, err := s.api.Create(ctx, request)
	if err != nil {
		return ticket.Ticket{}, err
	}
	s.refreshAfter(ctx, "create", created.ID)
	return created, nil
}

// Update sends a partial update, refreshes, and returns the updated
// ticket.
func (s *Service) Update(ctx context.Context, id string, request ticket.UpdateTicketRequest) (ticket.Ticket, error) {
	updated, err := s.api.Update(ctx, id, request)
	if err != nil {
		return ticket.Ticket{}, err
	}
	s.refreshAfter(ctx, "update", id)
	return updated, nil
}

// Delete removes a ticket and refreshes.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, id); err != nil {
		return err
	}
	s.refreshAfter(ctx, "delete", id)
	return nil
}

// Move changes a ticket's status. Equivalent to Update with only
// Status set.
func (s *Service) Move(ctx context.Context, id string, status ticket.Status) (ticket.Ticket, error) {
	return s.Update(ctx, id, ticket.UpdateTicketRequest{Status: &status})
}

// refreshAfter reloads the cache after a successful mutation. The
// mutation already succeeded on the server, so a failed reload is only
// logged; the next refresh brings the board back in line.
func (s *Service) refreshAfter(ctx context.Context, operation, id string) {
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("refresh after mutation failed",
			"operation", operation,
			"ticket_id", id,
			"error", err,
		)
	}
}

// Loaded reports whether at least one refresh has succeeded.
func (s *Service) Loaded() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.loaded
}

// Tickets returns a copy of the cached list.
func (s *Service) Tickets() []ticket.Ticket {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return cloneTickets(s.tickets)
}

// Get returns a cached ticket by id.
func (s *Service) Get(id string) (ticket.Ticket, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	for _, candidate := range s.tickets {
		if candidate.ID == id {
			return candidate.Clone(), true
		}
	}
	return ticket.Ticket{}, false
}

// Columns returns the partition of the current cache.
func (s *Service) Columns() []ticket.Column {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return Partition(s.tickets)
}

// Subscribe registers observer and calls it immediately with the
// current columns, then again after every refresh.
func (s *Service) Subscribe(observer func([]ticket.Column)) *Subscription {
	subscription := &Subscription{service: s, observer: observer}

	s.notifyMutex.Lock()
	defer s.notifyMutex.Unlock()
	s.observers = append(s.observers, subscription)
	observer(s.Columns())
	return subscription
}

// Partition projects tickets into the three board columns, in status
// order. Within a column tickets keep their list order. Tickets with an
// unknown status appear in no column. Every column's Tickets is
// non-nil.
func Partition(tickets []ticket.Ticket) []ticket.Column {
	statuses := ticket.Statuses()
	columns := make([]ticket.Column, len(statuses))
	for index, status := range statuses {
		columns[index] = ticket.Column{
			ID:      string(status),
			Title:   ticket.ColumnTitle(status),
			Status:  status,
			Tickets: []ticket.Ticket{},
		}
	}
	for _, item := range tickets {
		for index := range columns {
			if columns[index].Status == item.Status {
				columns[index].Tickets = append(columns[index].Tickets, item.Clone())
				break
			}
		}
	}
	return columns
}

func cloneTickets(tickets []ticket.Ticket) []ticket.Ticket {
	cloned := make([]ticket.Ticket, len(tickets))
	for index, item := range tickets {
		cloned[index] = item.Clone()
	}
	return cloned
}
