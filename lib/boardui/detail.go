// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package boardui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kanban-foundation/kanban/lib/schema/ticket"
	"github.com/kanban-foundation/kanban/lib/tui"
)

// Detail overlay chrome: border and padding take 4 columns, border and
// title take 3 rows, the metadata header takes detailHeaderLines more.
const (
	detailChromeWidth  = 4
	detailChromeHeight = 3
	detailHeaderLines  = 4
	detailMargin       = 2
	detailMinWidth     = 30
)

// DetailOverlay shows one ticket with its description rendered as
// markdown, in a scrollable viewport.
type DetailOverlay struct {
	Ticket ticket.Ticket

	markdown *tui.Markdown
	viewport viewport.Model
	theme    tui.Theme
	width    int
}

// NewDetailOverlay returns an overlay for t sized for the screen.
func NewDetailOverlay(t ticket.Ticket, markdown *tui.Markdown, theme tui.Theme, screenWidth, screenHeight int) *DetailOverlay {
	overlay := &DetailOverlay{
		Ticket:   t.Clone(),
		markdown: markdown,
		viewport: viewport.New(0, 0),
		theme:    theme,
	}
	overlay.Resize(screenWidth, screenHeight)
	return overlay
}

// Resize fits the overlay to the screen and re-renders the body at the
// new width.
func (overlay *DetailOverlay) Resize(screenWidth, screenHeight int) {
	overlay.width = max(detailMinWidth, screenWidth-2*detailMargin-detailChromeWidth)
	overlay.viewport.Width = overlay.width
	overlay.viewport.Height = max(3, screenHeight-2*detailMargin-detailChromeHeight-detailHeaderLines)

	body := overlay.Ticket.Description
	if strings.TrimSpace(body) == "" {
		body = "_No description._"
	}
	overlay.viewport.SetContent(overlay.markdown.Render(body, overlay.width))
}

// Update scrolls the body.
func (overlay *DetailOverlay) Update(message tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	overlay.viewport, cmd = overlay.viewport.Update(message)
	return cmd
}

// Render returns the overlay lines and their anchor.
func (overlay *DetailOverlay) Render(screenWidth, screenHeight int) ([]string, int, int) {
	faint := lipgloss.NewStyle().Foreground(overlay.theme.FaintText)
	priority := lipgloss.NewStyle().
		Foreground(overlay.theme.PriorityColor(overlay.Ticket.Priority)).
		Bold(true).
		Render(strings.ToUpper(string(overlay.Ticket.Priority)))
	status := lipgloss.NewStyle().
		Foreground(overlay.theme.ColumnColor(overlay.Ticket.Status)).
		Render(ticket.ColumnTitle(overlay.Ticket.Status))

	body := []string{
		priority + "  " + status + "  " + faint.Render(overlay.Ticket.ID),
		faint.Render("Created " + formatTimestamp(overlay.Ticket.CreatedAt) +
			" · Updated " + formatTimestamp(overlay.Ticket.UpdatedAt)),
		renderChips(overlay.Ticket.Labels, overlay.theme),
		"",
	}
	body = append(body, strings.Split(overlay.viewport.View(), "\n")...)

	lines := tui.Box(overlay.Ticket.Title, body, overlay.width, overlay.theme)
	anchorX, anchorY := tui.CenterAnchor(screenWidth, screenHeight, overlay.width+detailChromeWidth, len(lines))
	return lines, anchorX, anchorY
}
