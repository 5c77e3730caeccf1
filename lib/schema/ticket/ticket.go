// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"encoding/json"
	"slices"
	"time"
)

// Status is the workflow stage of a ticket. Each status maps to
// exactly one board column.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Statuses returns the statuses in board column order.
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone}
}

// IsValid reports whether s is one of the three known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// ColumnTitle returns the display title for the column holding s.
func ColumnTitle(s Status) string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	}
	return string(s)
}

// Priority is a ticket's urgency.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities returns the priorities from lowest to highest.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// IsValid reports whether p is low, medium, or high.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank orders priorities for sorting: high sorts first. Unknown
// values sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

// Ticket is a unit of work on the board. The server assigns ID,
// CreatedAt, and UpdatedAt.
type Ticket struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    Priority  `json:"priority"`
	Labels      []string  `json:"labels"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MarshalJSON encodes a nil label list as [] rather than null.
func (t Ticket) MarshalJSON() ([]byte, error) {
	type plain Ticket
	if t.Labels == nil {
		t.Labels = []string{}
	}
	return json.Marshal(plain(t))
}

// Clone returns a copy of t whose label slice is not shared.
func (t Ticket) Clone() Ticket {
	t.Labels = slices.Clone(t.Labels)
	return t
}

// Column is a derived, read-only projection: the tickets whose status
// equals Status, in list order. ID equals the status value.
type Column struct {
	ID      string
	Title   string
	Status  Status
	Tickets []Ticket
}
