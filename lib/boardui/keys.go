// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package boardui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the board.
type KeyMap struct {
	// Board navigation.
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding // Previous column; moves the drop target while grabbing.
	Right key.Binding // Next column; moves the drop target while grabbing.
	Home  key.Binding
	End   key.Binding

	// Ticket actions.
	New        key.Binding
	Edit       key.Binding
	Delete     key.Binding
	Detail     key.Binding
	Grab       key.Binding // Pick up the selected card, or drop it.
	MoveLeft   key.Binding
	MoveRight  key.Binding
	MoveTo     key.Binding // Open the column dropdown.
	Refresh    key.Binding
	Cancel     key.Binding
	Filter     key.Binding
	Confirm    key.Binding
	Deny       key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
	Submit     key.Binding // Modal: send the form.
	NextField  key.Binding // Modal: focus the next field.
	PrevField  key.Binding // Modal: focus the previous field.
	RemoveChip key.Binding // Modal: remove the last label.
	Accept     key.Binding // Filter and dropdown: accept.
}

// DefaultKeyMap is the built-in binding set: vim-style h/j/k/l next
// to the arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "column"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "column"),
	),
	Home: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	End: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e", "enter"),
		key.WithHelp("e", "edit"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Detail: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "view"),
	),
	Grab: key.NewBinding(
		key.WithKeys(" ", "space"),
		key.WithHelp("space", "grab/drop"),
	),
	MoveLeft: key.NewBinding(
		key.WithKeys("<"),
		key.WithHelp("<", "move left"),
	),
	MoveRight: key.NewBinding(
		key.WithKeys(">"),
		key.WithHelp(">", "move right"),
	),
	MoveTo: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "move to"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "cancel"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "yes"),
	),
	Deny: key.NewBinding(
		key.WithKeys("n", "N", "esc"),
		key.WithHelp("n", "no"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
	),
	Submit: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("C-s", "save"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "next field"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("S-Tab", "prev field"),
	),
	RemoveChip: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("C-x", "remove label"),
	),
	Accept: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "accept"),
	),
}
