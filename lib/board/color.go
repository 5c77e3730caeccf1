// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package board

import (
	"unicode/utf16"

	"github.com/kanban-foundation/kanban/lib/schema/ticket"
)

var labelPalette = [...]string{
	"#2196f3",
	"#4caf50",
	"#ff9800",
	"#9c27b0",
	"#f44336",
	"#607d8b",
}

// LabelColor returns a stable hex colour for a label. The hash runs
// over UTF-16 code units; only the shifted term wraps to 32 bits while
// the running sum does not, so every client of the API agrees on the
// colour of a label.
func LabelColor(label string) string {
	var hash int64
	for _, unit := range utf16.Encode([]rune(label)) {
		shifted := int64(int32(hash) << 5)
		hash = int64(unit) + shifted - hash
	}
	if hash < 0 {
		hash = -hash
	}
	return labelPalette[hash%int64(len(labelPalette))]
}

// PriorityColor returns the badge colour for a priority.
func PriorityColor(priority ticket.Priority) string {
	switch priority {
	case ticket.PriorityHigh:
		return "#f44336"
	case ticket.PriorityMedium:
		return "#ff9800"
	case ticket.PriorityLow:
		return "#4caf50"
	}
	return "#9e9e9e"
}

// ColumnColor returns the header colour for a column.
func ColumnColor(status ticket.Status) string {
	switch status {
	case ticket.StatusTodo:
		return "#1976d2"
	case ticket.StatusInProgress:
		return "#f57c00"
	case ticket.StatusDone:
		return "#388e3c"
	}
	return "#616161"
}
