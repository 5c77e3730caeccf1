// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package boardui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// handleMouse routes mouse input. A press on a card selects it; moving
// with the button held starts a drag, motion over a column makes it the
// drop target, and the release drops the card there. Releasing outside
// the board cancels the drag.
func (model *Model) handleMouse(message tea.MouseMsg) tea.Cmd {
	if model.dropdown != nil {
		return model.handleDropdownMouse(message)
	}
	if model.focus != FocusBoard {
		return nil
	}

	if model.drag != nil && model.drag.mouse {
		switch message.Action {
		case tea.MouseActionMotion:
			model.dragOver(model.dropTargetAt(message.X, message.Y))
			return nil
		case tea.MouseActionRelease:
			model.press = nil
			model.dragOver(model.dropTargetAt(message.X, message.Y))
			return model.drop()
		}
		return nil
	}

	switch message.Action {
	case tea.MouseActionRelease:
		model.press = nil
		return nil

	case tea.MouseActionMotion:
		if model.press == nil || message.Button != tea.MouseButtonLeft {
			return nil
		}
		press := model.press
		model.press = nil
		selected, ok := model.selectedTicket()
		if !ok || selected.ID != press.ticketID {
			return nil
		}
		cmd := model.beginDrag(selected, press.column, true)
		model.dragOver(model.dropTargetAt(message.X, message.Y))
		return cmd
	}

	switch message.Button {
	case tea.MouseButtonWheelUp:
		model.selectColumn(model.columnAt(message.X))
		model.moveCursor(-1)

	case tea.MouseButtonWheelDown:
		model.selectColumn(model.columnAt(message.X))
		model.moveCursor(1)

	case tea.MouseButtonLeft:
		column, index := model.cardAt(message.X, message.Y)
		model.selectColumn(column)
		if index < 0 {
			return nil
		}
		model.cursors[column] = index
		model.syncSelection()
		model.press = &pressState{column: column, ticketID: model.selectedID}
	}
	return nil
}

// dropTargetAt is the column under the pointer, or -1 when the pointer
// is outside the card area.
func (model *Model) dropTargetAt(x, y int) int {
	if y < 1 || y >= model.height-statusLines || x < 0 || x >= model.width {
		return -1
	}
	return model.columnAt(x)
}

func (model *Model) handleDropdownMouse(message tea.MouseMsg) tea.Cmd {
	if message.Action != tea.MouseActionPress || message.Button != tea.MouseButtonLeft {
		return nil
	}
	if !model.dropdown.Contains(message.X, message.Y) {
		model.dropdown = nil
		model.focus = FocusBoard
		return nil
	}
	option := model.dropdown.OptionAt(message.Y)
	if option < 0 {
		return nil
	}
	model.dropdown.Cursor = option
	return model.selectDropdown()
}
