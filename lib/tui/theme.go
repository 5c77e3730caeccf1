// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/kanban-foundation/kanban/lib/board"
	"github.com/kanban-foundation/kanban/lib/schema/ticket"
)

// Theme is the colour palette of the terminal board. Chrome colours
// are ANSI 256 codes; ticket colours (priority, label, column) come
// from the board package so every client draws the same ticket the
// same way.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color
	ErrorText  lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// DropTargetBorder outlines a column while a card is dragged over it.
	DropTargetBorder lipgloss.Color
	// DraggingBackground tints the card being dragged.
	DraggingBackground lipgloss.Color

	OverlayForeground lipgloss.Color
	OverlayBackground lipgloss.Color

	MatchHighlight lipgloss.Color
	LinkForeground lipgloss.Color
}

// PriorityColor returns the badge colour for a priority.
func (theme Theme) PriorityColor(priority ticket.Priority) lipgloss.Color {
	return lipgloss.Color(board.PriorityColor(priority))
}

// ColumnColor returns the header colour for a column.
func (theme Theme) ColumnColor(status ticket.Status) lipgloss.Color {
	return lipgloss.Color(board.ColumnColor(status))
}

// LabelColor returns the chip colour for a label.
func (theme Theme) LabelColor(label string) lipgloss.Color {
	return lipgloss.Color(board.LabelColor(label))
}

// DefaultTheme is tuned for dark 256-colour terminals.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),
	ErrorText:  lipgloss.Color("203"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	DropTargetBorder:   lipgloss.Color("220"),
	DraggingBackground: lipgloss.Color("58"),

	OverlayForeground: lipgloss.Color("252"),
	OverlayBackground: lipgloss.Color("237"),

	MatchHighlight: lipgloss.Color("214"),
	LinkForeground: lipgloss.Color("75"),
}
