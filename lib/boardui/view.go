// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package boardui

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/kanban-foundation/kanban/lib/board"
	"github.com/kanban-foundation/kanban/lib/schema/ticket"
	"github.com/kanban-foundation/kanban/lib/tui"
)

// Board geometry. The header, column titles, and a rule sit above the
// cards; the status bar takes the last line.
const (
	cardsTop      = 3
	cardHeight    = 4
	statusLines   = 1
	minColumnWide = 12
)

func (model Model) columnWidth() int {
	return max(minColumnWide, (model.width-2)/3)
}

// visibleCards is how many cards fit in a column.
func (model Model) visibleCards() int {
	return max(1, (model.height-cardsTop-statusLines)/cardHeight)
}

// columnAt maps a screen X to a column index.
func (model Model) columnAt(x int) int {
	return min(max(x/(model.columnWidth()+1), 0), len(model.zones)-1)
}

// cardAt maps a screen position to a card of the visible columns, or
// -1 when there is none.
func (model Model) cardAt(x, y int) (int, int) {
	column := model.columnAt(x)
	if y < cardsTop || y >= model.height-statusLines || column >= len(model.visible) {
		return column, -1
	}
	index := model.offsets[column] + (y-cardsTop)/cardHeight
	if index >= len(model.visible[column].Tickets) {
		return column, -1
	}
	return column, index
}

// cardPosition is the top-left corner of a card on screen.
func (model Model) cardPosition(column, index int) (int, int) {
	return column * (model.columnWidth() + 1), cardsTop + (index-model.offsets[column])*cardHeight
}

// clampScroll keeps every column's cursor inside its window.
func (model *Model) clampScroll() {
	window := model.visibleCards()
	for index := range model.offsets {
		cursor := model.cursors[index]
		if cursor < model.offsets[index] {
			model.offsets[index] = cursor
		}
		if cursor >= model.offsets[index]+window {
			model.offsets[index] = cursor - window + 1
		}
		model.offsets[index] = max(model.offsets[index], 0)
	}
}

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return "Loading..."
	}

	var lines []string
	lines = append(lines, model.renderHeader())
	lines = append(lines, model.renderColumns()...)
	lines = append(lines, model.renderStatusBar())
	view := strings.Join(lines, "\n")

	switch {
	case model.form != nil:
		overlay, x, y := model.form.Render(model.width, model.height)
		view = tui.SpliceOverlay(view, overlay, x, y)
	case model.confirm != nil:
		overlay, x, y := model.renderConfirm()
		view = tui.SpliceOverlay(view, overlay, x, y)
	case model.detail != nil:
		overlay, x, y := model.detail.Render(model.width, model.height)
		view = tui.SpliceOverlay(view, overlay, x, y)
	case model.dropdown != nil:
		view = tui.SpliceOverlay(view, model.dropdown.Render(model.theme), model.dropdown.AnchorX, model.dropdown.AnchorY)
	}
	return view
}

func (model Model) renderHeader() string {
	if model.focus == FocusFilter || model.filter.Value() != "" {
		return ansi.Truncate(model.filter.View(), model.width, "")
	}
	title := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground).Render("Kanban Board")
	total := 0
	for _, column := range model.columns {
		total += len(column.Tickets)
	}
	count := lipgloss.NewStyle().Foreground(model.theme.FaintText).Render(fmt.Sprintf("  %d tickets", total))
	return ansi.Truncate(title+count, model.width, "")
}

// renderColumns draws the three columns side by side, separated by a
// vertical rule, filling the space between header and status bar.
func (model Model) renderColumns() []string {
	height := max(0, model.height-1-statusLines)
	width := model.columnWidth()
	separator := lipgloss.NewStyle().Foreground(model.theme.BorderColor).Render("│")

	blocks := make([][]string, len(model.zones))
	for index := range model.zones {
		blocks[index] = model.renderColumn(index, width, height)
	}

	lines := make([]string, height)
	for row := range lines {
		parts := make([]string, len(blocks))
		for index, block := range blocks {
			parts[index] = block[row]
		}
		lines[row] = strings.Join(parts, separator)
	}
	return lines
}

func (model Model) renderColumn(index, width, height int) []string {
	status := ticket.Statuses()[index]
	zone := model.zones[index]
	var tickets []ticket.Ticket
	if index < len(model.visible) {
		tickets = model.visible[index].Tickets
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(model.theme.ColumnColor(status))
	ruleStyle := lipgloss.NewStyle().Foreground(model.theme.BorderColor)
	heading := fmt.Sprintf(" %s (%d)", ticket.ColumnTitle(status), len(tickets))
	rule := strings.Repeat("─", width)
	if zone.Over {
		heading = " » " + ticket.ColumnTitle(status) + " «"
		ruleStyle = ruleStyle.Foreground(model.theme.DropTargetBorder)
		rule = strings.Repeat("━", width)
	}
	if index == model.column && model.focus == FocusBoard && model.drag == nil {
		headerStyle = headerStyle.Underline(true)
	}

	lines := []string{
		fitWidth(headerStyle.Render(heading), width),
		ruleStyle.Render(rule),
	}

	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	switch {
	case !model.loaded && model.loadError != "":
		if index == 0 {
			lines = append(lines, fitWidth(lipgloss.NewStyle().Foreground(model.theme.ErrorText).Render(" "+model.loadError), width))
			lines = append(lines, fitWidth(faint.Render(" Press r to retry."), width))
		}
	case !model.loaded:
		if index == 0 {
			lines = append(lines, fitWidth(faint.Render(" Loading tickets..."), width))
		}
	case len(tickets) == 0:
		lines = append(lines, fitWidth(faint.Render(" No tickets"), width))
	default:
		end := min(len(tickets), model.offsets[index]+model.visibleCards())
		for ticketIndex := model.offsets[index]; ticketIndex < end; ticketIndex++ {
			selected := index == model.column && ticketIndex == model.cursors[index]
			lines = append(lines, model.renderCard(tickets[ticketIndex], width, selected)...)
		}
	}

	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return lines[:height]
}

// renderCard draws a ticket as cardHeight lines: title, priority badge
// and creation date, labels, and a spacer.
func (model Model) renderCard(item ticket.Ticket, width int, selected bool) []string {
	base := lipgloss.NewStyle().Foreground(model.theme.NormalText)
	switch {
	case model.dragging(item.ID):
		base = base.Background(model.theme.DraggingBackground)
	case selected:
		base = base.Background(model.theme.SelectedBackground).Foreground(model.theme.SelectedForeground)
	}
	inner := width - 2

	marker := " "
	if selected {
		marker = "▌"
	}
	markerStyle := lipgloss.NewStyle().Foreground(model.theme.PriorityColor(item.Priority))

	title := highlightRunes(ansi.Truncate(item.Title, inner, "…"), model.highlights[item.ID],
		base.Bold(true), base.Bold(true).Foreground(model.theme.MatchHighlight))

	badge := lipgloss.NewStyle().
		Foreground(model.theme.PriorityColor(item.Priority)).
		Bold(true).
		Render(strings.ToUpper(string(item.Priority)))
	date := lipgloss.NewStyle().Foreground(model.theme.FaintText).Render(formatDate(item.CreatedAt))
	meta := badge + "  " + date

	labels := ansi.Truncate(renderChips(item.Labels, model.theme), inner, "…")

	lines := []string{
		markerStyle.Render(marker) + fillStyled(title, inner, base) + base.Render(" "),
		markerStyle.Render(marker) + fillStyled(meta, inner, base) + base.Render(" "),
		markerStyle.Render(marker) + fillStyled(labels, inner, base) + base.Render(" "),
		strings.Repeat(" ", width),
	}
	return lines
}

// highlightRunes styles the runes of text at positions with highlight
// and the rest with base.
func highlightRunes(text string, positions []int, base, highlight lipgloss.Style) string {
	if len(positions) == 0 {
		return base.Render(text)
	}
	var builder strings.Builder
	for index, character := range []rune(text) {
		if slices.Contains(positions, index) {
			builder.WriteString(highlight.Render(string(character)))
		} else {
			builder.WriteString(base.Render(string(character)))
		}
	}
	return builder.String()
}

// fitWidth pads or truncates a styled string to exactly width cells.
func fitWidth(content string, width int) string {
	content = ansi.Truncate(content, width, "")
	if pad := width - ansi.StringWidth(content); pad > 0 {
		content += strings.Repeat(" ", pad)
	}
	return content
}

// fillStyled is fitWidth with the padding drawn in style, so a
// selected card's background spans the whole column.
func fillStyled(content string, width int, style lipgloss.Style) string {
	content = ansi.Truncate(content, width, "")
	if pad := width - ansi.StringWidth(content); pad > 0 {
		content += style.Render(strings.Repeat(" ", pad))
	}
	return content
}

func (model Model) renderConfirm() ([]string, int, int) {
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	body := []string{
		board.DeletePrompt,
		lipgloss.NewStyle().Bold(true).Render(ansi.Truncate(model.confirm.Title, 40, "…")),
	}
	for _, line := range tui.Excerpt(model.confirm.Description, 40, 2) {
		body = append(body, faint.Render(line))
	}
	body = append(body, "", lipgloss.NewStyle().Foreground(model.theme.HelpText).Render("y delete · n cancel"))
	innerWidth := max(ansi.StringWidth(board.DeletePrompt), 20)
	lines := tui.Box("Delete ticket", body, innerWidth, model.theme)
	x, y := tui.CenterAnchor(model.width, model.height, innerWidth+4, len(lines))
	return lines, x, y
}

func (model Model) renderStatusBar() string {
	if model.statusMessage != "" {
		style := lipgloss.NewStyle().Foreground(model.theme.NormalText)
		switch {
		case model.statusLevel >= slog.LevelError:
			style = style.Foreground(model.theme.ErrorText)
		case model.statusLevel >= slog.LevelWarn:
			style = style.Foreground(model.theme.MatchHighlight)
		}
		return ansi.Truncate(style.Render(model.statusMessage), model.width, "…")
	}

	help := lipgloss.NewStyle().Foreground(model.theme.HelpText)
	if model.drag != nil {
		target := "nowhere"
		if model.drag.target >= 0 {
			target = ticket.ColumnTitle(model.zones[model.drag.target].Status)
		}
		text := fmt.Sprintf("Dragging %q to %s", model.drag.card.Ticket.Title, target)
		if !model.drag.mouse {
			text += " · h/l choose column · space drop · Esc cancel"
		}
		return ansi.Truncate(help.Render(text), model.width, "…")
	}

	bindings := []key.Binding{
		model.keys.Left, model.keys.New, model.keys.Edit,
		model.keys.Delete, model.keys.Grab, model.keys.MoveTo, model.keys.Detail,
		model.keys.Filter, model.keys.Refresh, model.keys.Quit,
	}
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		parts = append(parts, binding.Help().Key+" "+binding.Help().Desc)
	}
	return ansi.Truncate(help.Render(strings.Join(parts, " · ")), model.width, "…")
}

// formatDate is the card date: month and day in local time.
func formatDate(when time.Time) string {
	if when.IsZero() {
		return ""
	}
	return when.Local().Format("Jan 2")
}

func formatTimestamp(when time.Time) string {
	if when.IsZero() {
		return "unknown"
	}
	return when.Local().Format("Jan 2, 2006 15:04")
}
