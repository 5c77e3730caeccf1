// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package boardui

import (
	"strings"

	"github.com/kanban-foundation/kanban/lib/schema/ticket"
	"github.com/kanban-foundation/kanban/lib/tui"
)

// filterText is what the filter matches a ticket against.
func filterText(item ticket.Ticket) string {
	return item.Title + " " + strings.Join(item.Labels, " ") + " " + item.Description + " " + item.ID
}

// applyFilter narrows every column to the tickets matching the filter
// query and records title match positions for highlighting. An empty
// query shows everything.
func (model *Model) applyFilter() {
	query := strings.TrimSpace(model.filter.Value())
	model.highlights = nil
	if query == "" {
		model.visible = model.columns
		return
	}

	pattern := []rune(query)
	model.highlights = make(map[string][]int)
	model.visible = make([]ticket.Column, len(model.columns))
	for index, column := range model.columns {
		narrowed := column
		narrowed.Tickets = []ticket.Ticket{}
		for _, item := range column.Tickets {
			if tui.FuzzyMatch(filterText(item), pattern, model.slab).Score == 0 {
				continue
			}
			narrowed.Tickets = append(narrowed.Tickets, item)
			if title := tui.FuzzyMatch(item.Title, pattern, model.slab); title.Score > 0 {
				model.highlights[item.ID] = title.Positions
			}
		}
		model.visible[index] = narrowed
	}
}
