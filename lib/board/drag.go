// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package board

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/kanban-foundation/kanban/lib/schema/ticket"
)

// Drag payload formats.
const (
	FormatText = "text/plain"
	FormatJSON = "application/json"
)

// EffectMove is the only drag effect the board uses.
const EffectMove = "move"

// DataTransfer is the payload carried by one drag gesture: a set of
// format-keyed strings plus the allowed and chosen drop effects.
type DataTransfer struct {
	EffectAllowed string
	DropEffect    string

	data map[string]string
}

// NewDataTransfer returns an empty transfer.
func NewDataTransfer() *DataTransfer {
	return &DataTransfer{data: make(map[string]string)}
}

// SetData stores value under format, replacing any previous value.
func (d *DataTransfer) SetData(format, value string) {
	if d.data == nil {
		d.data = make(map[string]string)
	}
	d.data[format] = value
}

// GetData returns the value stored under format, or "".
func (d *DataTransfer) GetData(format string) string {
	if d == nil {
		return ""
	}
	return d.data[format]
}

// Types returns the formats present, sorted.
func (d *DataTransfer) Types() []string {
	if d == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(d.data))
}

// DragPayload is the JSON form of a dragged ticket.
type DragPayload struct {
	ID     string        `json:"id"`
	Title  string        `json:"title"`
	Status ticket.Status `json:"status"`
}

// DragContext remembers the ticket being dragged for the duration of
// one gesture. It is the last-resort source of the id when the transfer
// payload is empty. The zero value is an idle context.
type DragContext struct {
	ticketID string
	active   bool
}

// Begin records id as the dragged ticket.
func (c *DragContext) Begin(id string) {
	c.ticketID = id
	c.active = true
}

// TicketID returns the dragged ticket, if a gesture is in progress.
func (c *DragContext) TicketID() (string, bool) {
	if c == nil || !c.active {
		return "", false
	}
	return c.ticketID, true
}

// Active reports whether a gesture is in progress.
func (c *DragContext) Active() bool {
	return c != nil && c.active
}

// End clears the context. Called on every drop and cancel, whether or
// not the drop succeeded.
func (c *DragContext) End() {
	if c == nil {
		return
	}
	c.ticketID = ""
	c.active = false
}

// IDSource names where a dropped ticket id was found.
type IDSource int

const (
	SourceNone IDSource = iota
	SourceText
	SourceJSON
	SourceContext
)

func (s IDSource) String() string {
	switch s {
	case SourceText:
		return "text"
	case SourceJSON:
		return "json"
	case SourceContext:
		return "context"
	}
	return "none"
}

// ExtractTicketID finds the dragged ticket id: the plain-text payload
// first, then the "id" of the JSON payload, then the drag context.
// Either argument may be nil.
func ExtractTicketID(transfer *DataTransfer, drag *DragContext) (string, IDSource) {
	if id := strings.TrimSpace(transfer.GetData(FormatText)); id != "" {
		return id, SourceText
	}
	if raw := transfer.GetData(FormatJSON); raw != "" {
		var payload DragPayload
		if err := json.Unmarshal([]byte(raw), &payload); err == nil && payload.ID != "" {
			return payload.ID, SourceJSON
		}
	}
	if id, ok := drag.TicketID(); ok && id != "" {
		return id, SourceContext
	}
	return "", SourceNone
}

// Card is the drag source for one ticket. Dragging drives the visual
// "being dragged" marker.
type Card struct {
	Ticket   ticket.Ticket
	Dragging bool
}

// DragStart fills transfer with the ticket's id as plain text and as
// JSON, allows only moves, and records the id in drag.
func (c *Card) DragStart(transfer *DataTransfer, drag *DragContext) error {
	payload, err := json.Marshal(DragPayload{
		ID:     c.Ticket.ID,
		Title:  c.Ticket.Title,
		Status: c.Ticket.Status,
	})
	if err != nil {
		return fmt.Errorf("board: encoding drag payload: %w", err)
	}
	transfer.SetData(FormatText, c.Ticket.ID)
	transfer.SetData(FormatJSON, string(payload))
	transfer.EffectAllowed = EffectMove
	drag.Begin(c.Ticket.ID)
	c.Dragging = true
	return nil
}

// DragEnd clears the marker and ends the gesture.
func (c *Card) DragEnd(drag *DragContext) {
	c.Dragging = false
	drag.End()
}

// TouchStart and TouchEnd only toggle the marker; touch gestures carry
// no payload.
func (c *Card) TouchStart() { c.Dragging = true }

func (c *Card) TouchEnd() { c.Dragging = false }

// RequestEdit returns the edit intent for this card's ticket.
func (c *Card) RequestEdit() ticket.Ticket {
	return c.Ticket.Clone()
}

// RequestDelete asks confirm and reports whether the delete intent
// should be emitted.
func (c *Card) RequestDelete(confirm Confirmer) bool {
	return confirm != nil && confirm(DeletePrompt)
}

// MoveRequest asks the board to move a ticket to a column.
type MoveRequest struct {
	TicketID string
	Status   ticket.Status
}

// DropZone is a column accepting drops. Over drives the drop-target
// highlight.
type DropZone struct {
	Status ticket.Status
	Over   bool

	logger *slog.Logger
}

// NewDropZone returns a zone for the column holding status. A nil
// logger discards.
func NewDropZone(status ticket.Status, logger *slog.Logger) *DropZone {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DropZone{Status: status, logger: logger}
}

// DragOver marks the zone as the current target and sets the drop
// effect to move. Repeated calls are idempotent; the result is true
// only on the transition into the target state.
func (z *DropZone) DragOver(transfer *DataTransfer) bool {
	if transfer != nil {
		transfer.DropEffect = EffectMove
	}
	if z.Over {
		return false
	}
	z.Over = true
	return true
}

// DragLeave clears the target state, unless the pointer only moved
// onto something still inside the zone.
func (z *DropZone) DragLeave(stillInside bool) {
	if stillInside {
		return
	}
	z.Over = false
}

// Drop clears the target state, extracts the dragged id, ends the
// gesture, and returns a request to move that ticket into this zone's
// column. When no id can be found it logs a diagnostic and returns
// false; nothing else happens.
func (z *DropZone) Drop(transfer *DataTransfer, drag *DragContext) (MoveRequest, bool) {
	z.Over = false
	id, source := ExtractTicketID(transfer, drag)
	drag.End()
	if source == SourceNone {
		z.logger.Debug("drop ignored",
			"column", z.Status,
			"error", ErrNoDragPayload,
			"formats", transfer.Types(),
		)
		return MoveRequest{}, false
	}
	z.logger.Debug("drop", "column", z.Status, "ticket_id", id, "source", source.String())
	return MoveRequest{TicketID: id, Status: z.Status}, true
}
