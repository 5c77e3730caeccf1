// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package ticketstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/tidwall/jsonc"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/kanban-foundation/kanban/lib/schema/ticket"
)

// Seed inserts tickets if the store is empty and returns how many were
// inserted. A non-empty store is left alone and Seed returns 0. The
// insert is all or nothing.
func (s *Store) Seed(ctx context.Context, tickets []ticket.Ticket) (inserted int, err error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return 0, fmt.Errorf("ticketstore: seed: %w", err)
	}
	defer s.pool.Put(conn)

	endTransaction, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return 0, fmt.Errorf("ticketstore: begin transaction: %w", err)
	}
	defer endTransaction(&err)

	count, err := countTickets(conn)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.logger.Info("store not empty, skipping seed", "tickets", count)
		return 0, nil
	}

	for _, item := range tickets {
		if err := validateSeed(item); err != nil {
			return 0, err
		}
		if err := insertTicket(conn, s.complete(item)); err != nil {
			return 0, err
		}
	}
	s.logger.Info("seeded ticket store", "tickets", len(tickets))
	return len(tickets), nil
}

func validateSeed(item ticket.Ticket) error {
	if item.Title == "" {
		return fmt.Errorf("ticketstore: seed ticket %q has no title", item.ID)
	}
	if !item.Priority.IsValid() {
		return fmt.Errorf("ticketstore: seed ticket %q has invalid priority %q", item.Title, item.Priority)
	}
	if !item.Status.IsValid() {
		return fmt.Errorf("ticketstore: seed ticket %q has invalid status %q", item.Title, item.Status)
	}
	return nil
}

// seedFile is the document read by LoadSeedFile. Fields left out of a
// ticket fall back to medium priority and todo status.
type seedFile struct {
	Tickets []ticket.Ticket `json:"tickets"`
}

// LoadSeedFile reads tickets from a JSONC file: JSON that may carry
// comments and trailing commas.
//
//	{
//	  // demo board
//	  "tickets": [
//	    {"title": "Write docs", "description": "...", "labels": ["docs"]},
//	  ],
//	}
func LoadSeedFile(path string) ([]ticket.Ticket, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ticketstore: reading seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes the contents of a seed file.
func ParseSeed(data []byte) ([]ticket.Ticket, error) {
	var document seedFile
	if err := json.Unmarshal(jsonc.ToJSON(data), &document); err != nil {
		return nil, fmt.Errorf("ticketstore: parsing seed file: %w", err)
	}
	for index := range document.Tickets {
		item := &document.Tickets[index]
		if item.Priority == "" {
			item.Priority = ticket.PriorityMedium
		}
		if item.Status == "" {
			item.Status = ticket.StatusTodo
		}
	}
	return document.Tickets, nil
}

// DemoTickets is a small board for trying the client against an empty
// server.
func DemoTickets() []ticket.Ticket {
	day := func(month time.Month, day int) time.Time {
		return time.Date(2025, month, day, 9, 0, 0, 0, time.UTC)
	}
	return []ticket.Ticket{
		{
			Title:       "Setup Authentication",
			Description: "Implement JWT authentication with login and register",
			Priority:    ticket.PriorityHigh,
			Labels:      []string{"backend", "security"},
			Status:      ticket.StatusDone,
			CreatedAt:   day(time.July, 12),
			UpdatedAt:   day(time.July, 13),
		},
		{
			Title:       "Create User Dashboard",
			Description: "Design and implement user dashboard with profile management",
			Priority:    ticket.PriorityMedium,
			Labels:      []string{"frontend", "ui"},
			Status:      ticket.StatusInProgress,
			CreatedAt:   day(time.July, 13),
		},
		{
			Title:       "Database Migration",
			Description: "Switch from SQLite to MySQL database",
			Priority:    ticket.PriorityHigh,
			Labels:      []string{"database", "migration"},
			Status:      ticket.StatusDone,
			CreatedAt:   day(time.July, 13).Add(time.Hour),
		},
		{
			Title:       "API Documentation",
			Description: "Create comprehensive API documentation using OpenAPI/Swagger",
			Priority:    ticket.PriorityLow,
			Labels:      []string{"documentation", "api"},
			Status:      ticket.StatusTodo,
			CreatedAt:   day(time.July, 13).Add(2 * time.Hour),
		},
		{
			Title:       "Unit Tests",
			Description: "Write unit tests for authentication service and components",
			Priority:    ticket.PriorityMedium,
			Labels:      []string{"testing", "quality"},
			Status:      ticket.StatusTodo,
			CreatedAt:   day(time.July, 13).Add(3 * time.Hour),
		},
	}
}
