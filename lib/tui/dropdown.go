// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// DropdownOption is one selectable item.
type DropdownOption struct {
	Label string // Display text.
	Value string // Value handed back on selection.
}

// Dropdown is a floating menu anchored at a screen position. The owner
// routes keys and clicks to it while it is open.
type Dropdown struct {
	Options []DropdownOption
	Cursor  int
	AnchorX int
	AnchorY int
	// ItemID identifies what the selection applies to.
	ItemID string
}

// NewDropdown returns a dropdown with the cursor on the option whose
// value is current, or on the first option.
func NewDropdown(options []DropdownOption, current string) *Dropdown {
	dropdown := &Dropdown{Options: options}
	for index, option := range options {
		if option.Value == current {
			dropdown.Cursor = index
			break
		}
	}
	return dropdown
}

// MoveUp moves the cursor up, wrapping to the bottom.
func (dropdown *Dropdown) MoveUp() {
	if len(dropdown.Options) == 0 {
		return
	}
	dropdown.Cursor--
	if dropdown.Cursor < 0 {
		dropdown.Cursor = len(dropdown.Options) - 1
	}
}

// MoveDown moves the cursor down, wrapping to the top.
func (dropdown *Dropdown) MoveDown() {
	if len(dropdown.Options) == 0 {
		return
	}
	dropdown.Cursor++
	if dropdown.Cursor >= len(dropdown.Options) {
		dropdown.Cursor = 0
	}
}

// Selected returns the highlighted option.
func (dropdown *Dropdown) Selected() DropdownOption {
	if len(dropdown.Options) == 0 {
		return DropdownOption{}
	}
	return dropdown.Options[dropdown.Cursor]
}

// Width is the rendered width in columns: marker, label, and one
// column of padding on each side.
func (dropdown *Dropdown) Width() int {
	widest := 0
	for _, option := range dropdown.Options {
		widest = max(widest, ansi.StringWidth(option.Label))
	}
	return widest + 4
}

// Contains reports whether the screen cell (x, y) is inside the menu.
func (dropdown *Dropdown) Contains(x, y int) bool {
	return dropdown.OptionAt(y) >= 0 &&
		x >= dropdown.AnchorX && x < dropdown.AnchorX+dropdown.Width()
}

// OptionAt returns the option index on screen row y, or -1.
func (dropdown *Dropdown) OptionAt(y int) int {
	index := y - dropdown.AnchorY
	if index < 0 || index >= len(dropdown.Options) {
		return -1
	}
	return index
}

// Render returns one line per option, all the same width, for
// SpliceOverlay.
func (dropdown *Dropdown) Render(theme Theme) []string {
	innerWidth := dropdown.Width() - 2
	normal := lipgloss.NewStyle().
		Background(theme.OverlayBackground).
		Foreground(theme.OverlayForeground)
	selected := lipgloss.NewStyle().
		Background(theme.SelectedBackground).
		Foreground(theme.SelectedForeground).
		Bold(true)

	lines := make([]string, 0, len(dropdown.Options))
	for index, option := range dropdown.Options {
		style, marker := normal, " "
		if index == dropdown.Cursor {
			style, marker = selected, ">"
		}
		content := marker + " " + option.Label
		content += strings.Repeat(" ", max(0, innerWidth-ansi.StringWidth(content)))
		lines = append(lines, style.Render(" "+content+" "))
	}
	return lines
}
