// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package boardui

import (
	"errors"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kanban-foundation/kanban/lib/board"
	"github.com/kanban-foundation/kanban/lib/schema/ticket"
	"github.com/kanban-foundation/kanban/lib/tui"
)

// formField identifies the focused control of a form modal.
type formField int

const (
	fieldTitle formField = iota
	fieldDescription
	fieldPriority
	fieldStatus
	fieldLabels
)

// Modal geometry. The inner width is the width of the text controls;
// the box adds a border and one column of padding on each side.
const (
	formModalInnerWidth      = 56
	formModalChromeWidth     = 4
	formDescriptionHeight    = 5
	formModalMinScreenMargin = 2
)

// FormModal is the create/edit overlay. It owns the text controls and
// copies their values into the board.Form, which holds the rules.
type FormModal struct {
	form *board.Form

	title       textinput.Model
	description textarea.Model
	label       textinput.Model
	spinner     spinner.Model

	focus      formField
	validation *board.ValidationError
	theme      tui.Theme
	keys       KeyMap
}

// NewFormModal wraps form with text controls pre-filled from it. The
// title field starts focused.
func NewFormModal(form *board.Form, theme tui.Theme, keys KeyMap) *FormModal {
	title := textinput.New()
	title.Placeholder = "Enter ticket title"
	title.CharLimit = 200
	title.Width = formModalInnerWidth - 2
	title.SetValue(form.Title)

	description := textarea.New()
	description.Placeholder = "Describe the ticket"
	description.ShowLineNumbers = false
	description.CharLimit = 5000
	description.SetWidth(formModalInnerWidth)
	description.SetHeight(formDescriptionHeight)
	description.SetValue(form.Description)

	label := textinput.New()
	label.Placeholder = "Add a label and press Enter"
	label.CharLimit = 50
	label.Width = formModalInnerWidth - 2
	label.SetValue(form.LabelInput)

	indicator := spinner.New()
	indicator.Spinner = spinner.Dot

	modal := &FormModal{
		form:        form,
		title:       title,
		description: description,
		label:       label,
		spinner:     indicator,
		theme:       theme,
		keys:        keys,
	}
	modal.setFocus(fieldTitle)
	return modal
}

// Form returns the underlying form.
func (modal *FormModal) Form() *board.Form { return modal.form }

// fields lists the focusable controls in tab order. Status is only
// editable on an existing ticket.
func (modal *FormModal) fields() []formField {
	if modal.form.Mode == board.FormEdit {
		return []formField{fieldTitle, fieldDescription, fieldPriority, fieldStatus, fieldLabels}
	}
	return []formField{fieldTitle, fieldDescription, fieldPriority, fieldLabels}
}

func (modal *FormModal) setFocus(field formField) tea.Cmd {
	modal.focus = field
	modal.title.Blur()
	modal.description.Blur()
	modal.label.Blur()
	switch field {
	case fieldTitle:
		return modal.title.Focus()
	case fieldDescription:
		return modal.description.Focus()
	case fieldLabels:
		return modal.label.Focus()
	}
	return nil
}

func (modal *FormModal) cycleFocus(step int) tea.Cmd {
	fields := modal.fields()
	index := slices.Index(fields, modal.focus)
	index = (index + step + len(fields)) % len(fields)
	return modal.setFocus(fields[index])
}

// sync copies the text controls into the form.
func (modal *FormModal) sync() {
	modal.form.Title = modal.title.Value()
	modal.form.Description = modal.description.Value()
	modal.form.LabelInput = modal.label.Value()
}

// Update handles a key inside the modal. Submit and close are handled
// by the model; everything else lands here.
func (modal *FormModal) Update(message tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(message, modal.keys.NextField):
		return modal.cycleFocus(1)
	case key.Matches(message, modal.keys.PrevField):
		return modal.cycleFocus(-1)
	case key.Matches(message, modal.keys.RemoveChip):
		if count := len(modal.form.Labels); count > 0 {
			modal.form.RemoveLabel(modal.form.Labels[count-1])
		}
		return nil
	}

	var cmd tea.Cmd
	switch modal.focus {
	case fieldTitle:
		if message.Type == tea.KeyEnter {
			return modal.cycleFocus(1)
		}
		modal.title, cmd = modal.title.Update(message)
	case fieldDescription:
		modal.description, cmd = modal.description.Update(message)
	case fieldPriority:
		modal.form.Priority = cycleValue(ticket.Priorities(), modal.form.Priority, selectorStep(message))
	case fieldStatus:
		modal.form.Status = cycleValue(ticket.Statuses(), modal.form.Status, selectorStep(message))
	case fieldLabels:
		if message.Type == tea.KeyEnter {
			modal.form.LabelInput = modal.label.Value()
			if modal.form.SubmitLabelInput() {
				modal.label.SetValue("")
			}
			return nil
		}
		modal.label, cmd = modal.label.Update(message)
	}
	modal.sync()
	return cmd
}

// selectorStep maps a key on a selector to -1, 0, or +1.
func selectorStep(message tea.KeyMsg) int {
	switch message.String() {
	case "left", "h":
		return -1
	case "right", "l", " ":
		return 1
	}
	return 0
}

// cycleValue moves current by step through values, wrapping. An
// unknown current starts from the first value.
func cycleValue[T comparable](values []T, current T, step int) T {
	index := slices.Index(values, current)
	if index < 0 {
		return values[0]
	}
	return values[(index+step+len(values))%len(values)]
}

// Begin syncs the controls and takes a submission from the form.
// Validation failures are kept for display next to their fields.
func (modal *FormModal) Begin() (board.Submission, error) {
	modal.sync()
	submission, err := modal.form.Begin()
	var validationErr *board.ValidationError
	if errors.As(err, &validationErr) {
		modal.validation = validationErr
	} else if err == nil {
		modal.validation = nil
	}
	return submission, err
}

// Finish records the outcome of the submission started by Begin.
func (modal *FormModal) Finish(err error) {
	modal.form.Finish(err)
}

// Tick advances the saving indicator.
func (modal *FormModal) Tick(message spinner.TickMsg) tea.Cmd {
	if !modal.form.Submitting {
		return nil
	}
	var cmd tea.Cmd
	modal.spinner, cmd = modal.spinner.Update(message)
	return cmd
}

func (modal *FormModal) heading() string {
	if modal.form.Mode == board.FormEdit {
		return "Edit Ticket"
	}
	return "Create New Ticket"
}

// Render returns the overlay lines and their top-left anchor for a
// screen of the given size.
func (modal *FormModal) Render(screenWidth, screenHeight int) ([]string, int, int) {
	innerWidth := min(formModalInnerWidth, max(20, screenWidth-formModalChromeWidth-2*formModalMinScreenMargin))

	labelStyle := lipgloss.NewStyle().Foreground(modal.theme.FaintText)
	focusedStyle := lipgloss.NewStyle().Foreground(modal.theme.HeaderForeground).Bold(true)
	errorStyle := lipgloss.NewStyle().Foreground(modal.theme.ErrorText)

	caption := func(field formField, text string) string {
		if modal.focus == field {
			return focusedStyle.Render("▸ " + text)
		}
		return labelStyle.Render("  " + text)
	}
	fieldError := func(name string) []string {
		if modal.validation == nil {
			return nil
		}
		if message := modal.validation.Field(name); message != "" {
			return []string{errorStyle.Render("  " + message)}
		}
		return nil
	}

	var body []string
	body = append(body, caption(fieldTitle, "Title *"), "  "+modal.title.View())
	body = append(body, fieldError(board.FieldTitle)...)
	body = append(body, "", caption(fieldDescription, "Description *"))
	body = append(body, strings.Split(modal.description.View(), "\n")...)
	body = append(body, fieldError(board.FieldDescription)...)

	priority := lipgloss.NewStyle().Foreground(modal.theme.PriorityColor(modal.form.Priority)).Bold(true).
		Render(strings.ToUpper(string(modal.form.Priority)))
	body = append(body, "", caption(fieldPriority, "Priority")+"  ‹ "+priority+" ›")
	body = append(body, fieldError(board.FieldPriority)...)
	if modal.form.Mode == board.FormEdit {
		status := lipgloss.NewStyle().Foreground(modal.theme.ColumnColor(modal.form.Status)).Bold(true).
			Render(ticket.ColumnTitle(modal.form.Status))
		body = append(body, caption(fieldStatus, "Status")+"    ‹ "+status+" ›")
		body = append(body, fieldError(board.FieldStatus)...)
	}

	body = append(body, "", caption(fieldLabels, "Labels"))
	if chips := renderChips(modal.form.Labels, modal.theme); chips != "" {
		body = append(body, "  "+chips)
	}
	body = append(body, "  "+modal.label.View())

	body = append(body, "")
	if modal.form.Error != "" {
		body = append(body, errorStyle.Render(modal.form.Error))
	}
	if modal.form.Submitting {
		body = append(body, modal.spinner.View()+" Saving...")
	} else {
		help := lipgloss.NewStyle().Foreground(modal.theme.HelpText)
		body = append(body, help.Render("C-s save · Esc cancel · Tab next field · C-x remove label"))
	}

	lines := tui.Box(modal.heading(), body, innerWidth, modal.theme)
	boxWidth := innerWidth + formModalChromeWidth
	anchorX, anchorY := tui.CenterAnchor(screenWidth, screenHeight, boxWidth, len(lines))
	return lines, anchorX, anchorY
}

// renderChips draws labels as coloured chips separated by spaces.
func renderChips(labels []string, theme tui.Theme) string {
	chips := make([]string, 0, len(labels))
	for _, label := range labels {
		chips = append(chips, lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(theme.LabelColor(label)).
			Render(" "+label+" "))
	}
	return strings.Join(chips, " ")
}
