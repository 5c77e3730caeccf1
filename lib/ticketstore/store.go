// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package ticketstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/kanban-foundation/kanban/lib/clock"
	"github.com/kanban-foundation/kanban/lib/codec"
	"github.com/kanban-foundation/kanban/lib/schema/ticket"
	"github.com/kanban-foundation/kanban/lib/sqlitepool"
)

// ErrNotFound is returned for an id with no ticket.
var ErrNotFound = errors.New("ticketstore: ticket not found")

const schema = `
CREATE TABLE IF NOT EXISTS tickets (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL,
	priority    TEXT NOT NULL,
	status      TEXT NOT NULL,
	labels      BLOB NOT NULL,
	created_at  INTEGER NOT NULL,
	updated_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS tickets_created_at ON tickets (created_at);
`

const selectColumns = `id, title, description, priority, status, labels, created_at, updated_at`

// Config holds the parameters for Open.
type Config struct {
	// Path is the database file. Its directory must exist.
	Path string

	// PoolSize defaults to 4.
	PoolSize int

	// Clock stamps created and updated times. Defaults to the real
	// clock.
	Clock clock.Clock

	// NewID generates ids for tickets created without one. Defaults
	// to random UUIDs.
	NewID func() string

	// Logger defaults to a discard handler.
	Logger *slog.Logger
}

// Store is a SQLite-backed ticket table. Safe for concurrent use.
type Store struct {
	pool   *sqlitepool.Pool
	clock  clock.Clock
	newID  func() string
	logger *slog.Logger
}

// Open opens the database at cfg.Path, creating the table if needed.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:     cfg.Path,
		PoolSize: cfg.PoolSize,
		Logger:   cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("ticketstore: %w", err)
	}

	store := &Store{pool: pool, clock: cfg.Clock, newID: cfg.NewID, logger: cfg.Logger}
	if err := store.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) migrate(ctx context.Context) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("ticketstore: migrate: %w", err)
	}
	defer s.pool.Put(conn)

	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		return fmt.Errorf("ticketstore: creating schema: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.pool.Close()
}

// List returns every ticket, oldest first.
func (s *Store) List(ctx context.Context) ([]ticket.Ticket, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("ticketstore: list: %w", err)
	}
	defer s.pool.Put(conn)

	tickets := []ticket.Ticket{}
	err = sqlitex.Execute(conn,
		`SELECT `+selectColumns+` FROM tickets ORDER BY created_at, rowid`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				item, err := scanTicket(stmt)
				if err != nil {
					return err
				}
				tickets = append(tickets, item)
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("ticketstore: list: %w", err)
	}
	return tickets, nil
}

// Get returns one ticket, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (ticket.Ticket, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return ticket.Ticket{}, fmt.Errorf("ticketstore: get: %w", err)
	}
	defer s.pool.Put(conn)
	return getTicket(conn, id)
}

// Count returns the number of tickets.
func (s *Store) Count(ctx context.Context) (int, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return 0, fmt.Errorf("ticketstore: count: %w", err)
	}
	defer s.pool.Put(conn)
	return countTickets(conn)
}

// Create inserts t. A missing id is generated, missing timestamps are
// set to now, and nil labels are stored as an empty list. It returns
// the ticket as stored.
func (s *Store) Create(ctx context.Context, t ticket.Ticket) (created ticket.Ticket, err error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return ticket.Ticket{}, fmt.Errorf("ticketstore: create: %w", err)
	}
	defer s.pool.Put(conn)

	endTransaction, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return ticket.Ticket{}, fmt.Errorf("ticketstore: begin transaction: %w", err)
	}
	defer endTransaction(&err)

	created = s.complete(t)
	if err := insertTicket(conn, created); err != nil {
		return ticket.Ticket{}, err
	}
	s.logger.Debug("ticket created", "ticket_id", created.ID)
	return created, nil
}

// complete fills the fields Create generates.
func (s *Store) complete(t ticket.Ticket) ticket.Ticket {
	t = t.Clone()
	if t.ID == "" {
		t.ID = s.newID()
	}
	now := s.clock.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}
	if t.Labels == nil {
		t.Labels = []string{}
	}
	return t
}

// Update reads the ticket, passes it to apply, and writes the result
// back with UpdatedAt set to now. The id cannot be changed. Returns
// ErrNotFound for an unknown id.
func (s *Store) Update(ctx context.Context, id string, apply func(ticket.Ticket) ticket.Ticket) (updated ticket.Ticket, err error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return ticket.Ticket{}, fmt.Errorf("ticketstore: update: %w", err)
	}
	defer s.pool.Put(conn)

	endTransaction, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return ticket.Ticket{}, fmt.Errorf("ticketstore: begin transaction: %w", err)
	}
	defer endTransaction(&err)

	current, err := getTicket(conn, id)
	if err != nil {
		return ticket.Ticket{}, err
	}
	updated = apply(current.Clone())
	updated.ID = current.ID
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = s.clock.Now().UTC()
	if updated.Labels == nil {
		updated.Labels = []string{}
	}

	labels, err := codec.MarshalStrings(updated.Labels)
	if err != nil {
		return ticket.Ticket{}, fmt.Errorf("ticketstore: encoding labels: %w", err)
	}
	err = sqlitex.Execute(conn,
		`UPDATE tickets SET title = ?, description = ?, priority = ?, status = ?, labels = ?, updated_at = ?
		 WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []any{
				updated.Title,
				updated.Description,
				string(updated.Priority),
				string(updated.Status),
				labels,
				updated.UpdatedAt.UnixNano(),
				updated.ID,
			},
		})
	if err != nil {
		return ticket.Ticket{}, fmt.Errorf("ticketstore: update %s: %w", id, err)
	}
	s.logger.Debug("ticket updated", "ticket_id", id)
	return updated, nil
}

// Delete removes a ticket. Returns ErrNotFound for an unknown id.
func (s *Store) Delete(ctx context.Context, id string) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("ticketstore: delete: %w", err)
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn, `DELETE FROM tickets WHERE id = ?`, &sqlitex.ExecOptions{
		Args: []any{id},
	})
	if err != nil {
		return fmt.Errorf("ticketstore: delete %s: %w", id, err)
	}
	if conn.Changes() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.logger.Debug("ticket deleted", "ticket_id", id)
	return nil
}

func insertTicket(conn *sqlite.Conn, t ticket.Ticket) error {
	labels, err := codec.MarshalStrings(t.Labels)
	if err != nil {
		return fmt.Errorf("ticketstore: encoding labels: %w", err)
	}
	err = sqlitex.Execute(conn,
		`INSERT INTO tickets (`+selectColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []any{
				t.ID,
				t.Title,
				t.Description,
				string(t.Priority),
				string(t.Status),
				labels,
				t.CreatedAt.UnixNano(),
				t.UpdatedAt.UnixNano(),
			},
		})
	if err != nil {
		return fmt.Errorf("ticketstore: insert %s: %w", t.ID, err)
	}
	return nil
}

func getTicket(conn *sqlite.Conn, id string) (ticket.Ticket, error) {
	var (
		found  bool
		result ticket.Ticket
	)
	err := sqlitex.Execute(conn,
		`SELECT `+selectColumns+` FROM tickets WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []any{id},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				item, err := scanTicket(stmt)
				if err != nil {
					return err
				}
				result, found = item, true
				return nil
			},
		})
	if err != nil {
		return ticket.Ticket{}, fmt.Errorf("ticketstore: get %s: %w", id, err)
	}
	if !found {
		return ticket.Ticket{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return result, nil
}

func countTickets(conn *sqlite.Conn) (int, error) {
	count, err := sqlitex.ResultInt(conn.Prep(`SELECT COUNT(*) FROM tickets`))
	if err != nil {
		return 0, fmt.Errorf("ticketstore: count: %w", err)
	}
	return count, nil
}

// scanTicket reads one row selected with selectColumns.
func scanTicket(stmt *sqlite.Stmt) (ticket.Ticket, error) {
	raw := make([]byte, stmt.ColumnLen(5))
	stmt.ColumnBytes(5, raw)
	labels, err := codec.UnmarshalStrings(raw)
	if err != nil {
		return ticket.Ticket{}, fmt.Errorf("ticketstore: decoding labels of %s: %w", stmt.ColumnText(0), err)
	}
	return ticket.Ticket{
		ID:          stmt.ColumnText(0),
		Title:       stmt.ColumnText(1),
		Description: stmt.ColumnText(2),
		Priority:    ticket.Priority(stmt.ColumnText(3)),
		Status:      ticket.Status(stmt.ColumnText(4)),
		Labels:      labels,
		CreatedAt:   time.Unix(0, stmt.ColumnInt64(6)).UTC(),
		UpdatedAt:   time.Unix(0, stmt.ColumnInt64(7)).UTC(),
	}, nil
}
