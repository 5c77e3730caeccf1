// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package boardui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/junegunn/fzf/src/util"

	"github.com/kanban-foundation/kanban/lib/board"
	"github.com/kanban-foundation/kanban/lib/schema/ticket"
	"github.com/kanban-foundation/kanban/lib/ticketclient"
	"github.com/kanban-foundation/kanban/lib/tui"
)

// FocusRegion identifies what receives keyboard input.
type FocusRegion int

const (
	// FocusBoard means keys navigate the columns.
	FocusBoard FocusRegion = iota
	// FocusFilter means keystrokes go to the filter input.
	FocusFilter
	// FocusForm means the create/edit modal is open.
	FocusForm
	// FocusConfirm means the delete confirmation is waiting for y/n.
	FocusConfirm
	// FocusDetail means the detail overlay is open.
	FocusDetail
	// FocusDropdown means the move-to dropdown is open.
	FocusDropdown
)

// columnsMsg carries the columns after a service refresh.
type columnsMsg struct {
	columns []ticket.Column
}

// refreshResultMsg is the outcome of an explicit refresh.
type refreshResultMsg struct {
	err error
}

// mutationResultMsg is sent when a move or delete completes. On
// success the refreshed columns arrive separately as a columnsMsg.
type mutationResultMsg struct {
	operation string
	ticketID  string
	fallback  string
	err       error
}

// formResultMsg is sent when a form submission completes. sequence
// names the form it was submitted from.
type formResultMsg struct {
	sequence int
	mode     board.FormMode
	ticket   ticket.Ticket
	err      error
}

// statusFadeMsg clears the status message it was scheduled for.
type statusFadeMsg struct {
	sequence int
}

// dragState is the card being dragged and the column under it.
type dragState struct {
	card     *board.Card
	transfer *board.DataTransfer
	// target is the column index being hovered, or -1.
	target int
	// mouse is true for pointer drags, false for keyboard grabs.
	mouse bool
}

// pressState remembers a mouse press on a card until the pointer moves
// (starting a drag) or is released (a click).
type pressState struct {
	column   int
	ticketID string
}

// Model is the bubbletea model of the board.
type Model struct {
	ctx      context.Context
	session  *board.Session
	logger   *slog.Logger
	theme    tui.Theme
	keys     KeyMap
	markdown *tui.Markdown
	slab     *util.Slab

	width  int
	height int
	ready  bool

	// columns is the latest partition from the service; visible is the
	// same after filtering.
	columns   []ticket.Column
	visible   []ticket.Column
	loaded    bool
	loadError string

	column     int
	cursors    [3]int
	offsets    [3]int
	selectedID string

	focus      FocusRegion
	filter     textinput.Model
	highlights map[string][]int

	zones [3]*board.DropZone
	drag  *dragState
	press *pressState

	form *FormModal
	// formSequence identifies the open form; results stamped with an
	// older value belong to a form that was already closed.
	formSequence int
	confirm      *ticket.Ticket
	detail   *DetailOverlay
	dropdown *tui.Dropdown

	statusMessage  string
	statusLevel    slog.Level
	statusSequence int

	updates      chan []ticket.Column
	subscription *board.Subscription
}

// NewModel returns a board over session. Blocking calls made on the
// model's behalf use ctx. A nil logger discards.
//
// The model subscribes to the session's service immediately; call
// Close when the program exits.
func NewModel(ctx context.Context, session *board.Session, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "filter tickets"

	model := Model{
		ctx:      ctx,
		session:  session,
		logger:   logger,
		theme:    tui.DefaultTheme,
		keys:     DefaultKeyMap,
		markdown: tui.NewMarkdown(tui.DefaultTheme),
		slab:     tui.NewSlab(),
		filter:   filter,
		updates:  make(chan []ticket.Column, 1),
	}
	for index, status := range ticket.Statuses() {
		model.zones[index] = board.NewDropZone(status, logger)
	}

	updates := model.updates
	model.subscription = session.Service().Subscribe(func(columns []ticket.Column) {
		// Observers are serialized, so after draining there is room.
		select {
		case <-updates:
		default:
		}
		updates <- columns
	})
	return model
}

// Close stops the service subscription.
func (model Model) Close() {
	if model.subscription != nil {
		model.subscription.Cancel()
	}
}

// Init implements tea.Model. It starts listening for column updates
// and loads the tickets.
func (model Model) Init() tea.Cmd {
	return tea.Batch(listenForColumns(model.updates), model.refreshCmd())
}

// listenForColumns blocks until the service publishes new columns.
func listenForColumns(updates <-chan []ticket.Column) tea.Cmd {
	return func() tea.Msg {
		columns, ok := <-updates
		if !ok {
			return nil
		}
		return columnsMsg{columns: columns}
	}
}

func (model Model) refreshCmd() tea.Cmd {
	ctx, service := model.ctx, model.session.Service()
	return func() tea.Msg {
		return refreshResultMsg{err: service.Refresh(ctx)}
	}
}

func (model Model) moveCmd(request board.MoveRequest) tea.Cmd {
	ctx, session := model.ctx, model.session
	return func() tea.Msg {
		_, err := session.Move(ctx, request)
		return mutationResultMsg{
			operation: "move",
			ticketID:  request.TicketID,
			fallback:  ticketclient.FallbackUpdate,
			err:       err,
		}
	}
}

func (model Model) deleteCmd(t ticket.Ticket) tea.Cmd {
	ctx, session := model.ctx, model.session
	return func() tea.Msg {
		_, err := session.Delete(ctx, t, board.Confirmed)
		return mutationResultMsg{
			operation: "delete",
			ticketID:  t.ID,
			fallback:  ticketclient.FallbackDelete,
			err:       err,
		}
	}
}

func (model Model) submitCmd(submission board.Submission) tea.Cmd {
	ctx, service := model.ctx, model.session.Service()
	sequence := model.formSequence
	return func() tea.Msg {
		result, err := submission.Send(ctx, service)
		return formResultMsg{sequence: sequence, mode: submission.Mode, ticket: result, err: err}
	}
}

// setStatus shows message in the status bar and schedules its fade.
func (model *Model) setStatus(message string, level slog.Level) tea.Cmd {
	model.statusSequence++
	model.statusMessage = message
	model.statusLevel = level
	sequence := model.statusSequence
	return tea.Tick(statusFadeDelay, func(time.Time) tea.Msg {
		return statusFadeMsg{sequence: sequence}
	})
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		if key.Matches(message, model.keys.ForceQuit) {
			return model, tea.Quit
		}
		switch model.focus {
		case FocusFilter:
			return model.handleFilterKeys(message)
		case FocusForm:
			return model.handleFormKeys(message)
		case FocusConfirm:
			return model.handleConfirmKeys(message)
		case FocusDetail:
			return model.handleDetailKeys(message)
		case FocusDropdown:
			return model.handleDropdownKeys(message)
		}
		return model.handleBoardKeys(message)

	case tea.MouseMsg:
		cmd := model.handleMouse(message)
		return model, cmd

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.filter.Width = max(10, message.Width-4)
		if model.detail != nil {
			model.detail.Resize(message.Width, message.Height)
		}
		model.clampScroll()

	case columnsMsg:
		model.columns = message.columns
		model.loaded = model.session.Service().Loaded()
		model.applyFilter()
		model.restoreSelection()
		return model, listenForColumns(model.updates)

	case refreshResultMsg:
		if message.err != nil {
			text := board.Message(message.err, ticketclient.FallbackList)
			if !model.loaded {
				model.loadError = text
			}
			cmd := model.setStatus(text, slog.LevelError)
			return model, cmd
		}
		model.loadError = ""

	case mutationResultMsg:
		if message.err != nil {
			cmd := model.setStatus(board.Message(message.err, message.fallback), slog.LevelError)
			return model, cmd
		}
		if message.operation == "delete" {
			cmd := model.setStatus("Ticket deleted", slog.LevelInfo)
			return model, cmd
		}

	case formResultMsg:
		return model.handleFormResult(message)

	case spinner.TickMsg:
		if model.form != nil {
			cmd := model.form.Tick(message)
			return model, cmd
		}

	case logRecordMsg:
		cmd := model.setStatus(message.Summary, message.Level)
		return model, cmd

	case statusFadeMsg:
		if message.sequence == model.statusSequence {
			model.statusMessage = ""
		}
	}
	return model, nil
}

func (model Model) handleBoardKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.drag != nil {
		return model.handleGrabKeys(message)
	}

	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.Left):
		model.selectColumn(model.column - 1)

	case key.Matches(message, model.keys.Right):
		model.selectColumn(model.column + 1)

	case key.Matches(message, model.keys.Up):
		model.moveCursor(-1)

	case key.Matches(message, model.keys.Down):
		model.moveCursor(1)

	case key.Matches(message, model.keys.Home):
		model.moveCursor(-len(model.currentTickets()))

	case key.Matches(message, model.keys.End):
		model.moveCursor(len(model.currentTickets()))

	case key.Matches(message, model.keys.New):
		cmd := model.openCreate()
		return model, cmd

	case key.Matches(message, model.keys.Edit):
		if selected, ok := model.selectedTicket(); ok {
			cmd := model.openEdit(selected)
			return model, cmd
		}

	case key.Matches(message, model.keys.Delete):
		if selected, ok := model.selectedTicket(); ok {
			model.confirm = &selected
			model.focus = FocusConfirm
		}

	case key.Matches(message, model.keys.Detail):
		if selected, ok := model.selectedTicket(); ok {
			model.detail = NewDetailOverlay(selected, model.markdown, model.theme, model.width, model.height)
			model.focus = FocusDetail
		}

	case key.Matches(message, model.keys.Grab):
		if selected, ok := model.selectedTicket(); ok {
			cmd := model.beginDrag(selected, model.column, false)
			return model, cmd
		}

	case key.Matches(message, model.keys.MoveLeft):
		cmd := model.moveSelected(-1)
		return model, cmd

	case key.Matches(message, model.keys.MoveRight):
		cmd := model.moveSelected(1)
		return model, cmd

	case key.Matches(message, model.keys.MoveTo):
		model.openMoveDropdown()

	case key.Matches(message, model.keys.Refresh):
		cmd := tea.Batch(model.refreshCmd(), model.setStatus("Refreshing...", slog.LevelInfo))
		return model, cmd

	case key.Matches(message, model.keys.Filter):
		model.focus = FocusFilter
		cmd := model.filter.Focus()
		return model, cmd

	case key.Matches(message, model.keys.Cancel):
		if model.filter.Value() != "" {
			model.filter.SetValue("")
			model.applyFilter()
			model.restoreSelection()
		}
	}
	return model, nil
}

// handleGrabKeys routes keys while a card is picked up with the
// keyboard: h/l move the drop target, space drops, esc cancels.
func (model Model) handleGrabKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Left):
		model.selectColumn(model.column - 1)
		model.dragOver(model.column)
	case key.Matches(message, model.keys.Right):
		model.selectColumn(model.column + 1)
		model.dragOver(model.column)
	case key.Matches(message, model.keys.Grab):
		cmd := model.drop()
		return model, cmd
	case key.Matches(message, model.keys.Cancel), key.Matches(message, model.keys.Quit):
		model.cancelDrag()
	}
	return model, nil
}

func (model Model) handleFilterKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Cancel):
		model.filter.SetValue("")
		model.filter.Blur()
		model.focus = FocusBoard
		model.applyFilter()
		model.restoreSelection()
		return model, nil
	case key.Matches(message, model.keys.Accept):
		model.filter.Blur()
		model.focus = FocusBoard
		return model, nil
	}

	var cmd tea.Cmd
	model.filter, cmd = model.filter.Update(message)
	model.applyFilter()
	model.restoreSelection()
	return model, cmd
}

func (model Model) handleFormKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Cancel):
		model.closeForm()
		return model, nil

	case key.Matches(message, model.keys.Submit):
		submission, err := model.form.Begin()
		if err != nil {
			if errors.Is(err, board.ErrSubmitting) {
				return model, nil
			}
			model.logger.Debug("form rejected", "error", err)
			return model, nil
		}
		if submission.NoChanges() {
			model.closeForm()
			cmd := model.setStatus("No changes", slog.LevelInfo)
			return model, cmd
		}
		cmd := tea.Batch(model.submitCmd(submission), model.form.spinner.Tick)
		return model, cmd
	}
	cmd := model.form.Update(message)
	return model, cmd
}

func (model Model) handleFormResult(message formResultMsg) (tea.Model, tea.Cmd) {
	if model.form == nil || message.sequence != model.formSequence {
		cmd := model.closedFormResult(message)
		return model, cmd
	}
	model.form.Finish(message.err)
	if message.err != nil {
		return model, nil
	}

	verb := "updated"
	if message.mode == board.FormCreate {
		model.session.Created()
		verb = "created"
	} else {
		model.session.Updated()
	}
	model.form = nil
	model.focus = FocusBoard
	model.follow(message.ticket)
	cmd := model.setStatus(fmt.Sprintf("Ticket %s: %s", verb, message.ticket.Title), slog.LevelInfo)
	return model, cmd
}

func (model Model) handleConfirmKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Confirm):
		target := *model.confirm
		model.confirm = nil
		model.focus = FocusBoard
		cmd := model.deleteCmd(target)
		return model, cmd
	case key.Matches(message, model.keys.Deny):
		model.confirm = nil
		model.focus = FocusBoard
	}
	return model, nil
}

func (model Model) handleDetailKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Cancel),
		key.Matches(message, model.keys.Detail),
		key.Matches(message, model.keys.Quit):
		model.detail = nil
		model.focus = FocusBoard
		return model, nil
	case key.Matches(message, model.keys.Edit):
		selected := model.detail.Ticket
		model.detail = nil
		model.focus = FocusBoard
		cmd := model.openEdit(selected)
		return model, cmd
	}
	cmd := model.detail.Update(message)
	return model, cmd
}

func (model Model) handleDropdownKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Up):
		model.dropdown.MoveUp()
	case key.Matches(message, model.keys.Down):
		model.dropdown.MoveDown()
	case key.Matches(message, model.keys.Accept):
		cmd := model.selectDropdown()
		return model, cmd
	case key.Matches(message, model.keys.Cancel), key.Matches(message, model.keys.Quit):
		model.dropdown = nil
		model.focus = FocusBoard
	}
	return model, nil
}

// selectDropdown closes the move-to dropdown and moves its ticket to
// the chosen column.
func (model *Model) selectDropdown() tea.Cmd {
	selected := model.dropdown.Selected()
	request := board.MoveRequest{TicketID: model.dropdown.ItemID, Status: ticket.Status(selected.Value)}
	model.dropdown = nil
	model.focus = FocusBoard
	if current, ok := model.session.Service().Get(request.TicketID); ok && current.Status == request.Status {
		return nil
	}
	model.followID(request.TicketID, request.Status)
	return model.moveCmd(request)
}

// closedFormResult reports the outcome of a submission whose form was
// dismissed before the server answered. The open form and the session's
// modal state belong to a later form and are left alone.
func (model *Model) closedFormResult(message formResultMsg) tea.Cmd {
	verb, fallback := "updated", ticketclient.FallbackUpdate
	if message.mode == board.FormCreate {
		verb, fallback = "created", ticketclient.FallbackCreate
	}
	if message.err != nil {
		return model.setStatus(board.Message(message.err, fallback), slog.LevelError)
	}
	return model.setStatus(fmt.Sprintf("Ticket %s: %s", verb, message.ticket.Title), slog.LevelInfo)
}

func (model *Model) openCreate() tea.Cmd {
	if err := model.session.OpenCreate(); err != nil {
		return model.setStatus(err.Error(), slog.LevelWarn)
	}
	model.formSequence++
	model.form = NewFormModal(board.NewCreateForm(), model.theme, model.keys)
	model.focus = FocusForm
	return textinput.Blink
}

func (model *Model) openEdit(selected ticket.Ticket) tea.Cmd {
	card := board.Card{Ticket: selected}
	target := card.RequestEdit()
	if err := model.session.OpenEdit(target); err != nil {
		return model.setStatus(err.Error(), slog.LevelWarn)
	}
	model.formSequence++
	model.form = NewFormModal(board.NewEditForm(target), model.theme, model.keys)
	model.focus = FocusForm
	return textinput.Blink
}

func (model *Model) closeForm() {
	model.session.CloseModal()
	model.form = nil
	model.focus = FocusBoard
}

func (model *Model) openMoveDropdown() {
	selected, ok := model.selectedTicket()
	if !ok {
		return
	}
	options := make([]tui.DropdownOption, 0, len(ticket.Statuses()))
	for _, status := range ticket.Statuses() {
		options = append(options, tui.DropdownOption{Label: ticket.ColumnTitle(status), Value: string(status)})
	}
	dropdown := tui.NewDropdown(options, string(selected.Status))
	dropdown.ItemID = selected.ID
	x, y := model.cardPosition(model.column, model.cursors[model.column])
	dropdown.AnchorX = x + 2
	dropdown.AnchorY = y + 1
	model.dropdown = dropdown
	model.focus = FocusDropdown
}

// moveSelected moves the selected ticket one column in direction.
func (model *Model) moveSelected(direction int) tea.Cmd {
	selected, ok := model.selectedTicket()
	if !ok {
		return nil
	}
	statuses := ticket.Statuses()
	index := model.column + direction
	if index < 0 || index >= len(statuses) {
		return nil
	}
	request := board.MoveRequest{TicketID: selected.ID, Status: statuses[index]}
	model.followID(selected.ID, request.Status)
	return model.moveCmd(request)
}

// beginDrag picks up t from column.
func (model *Model) beginDrag(t ticket.Ticket, column int, mouse bool) tea.Cmd {
	card := &board.Card{Ticket: t}
	transfer := board.NewDataTransfer()
	if err := card.DragStart(transfer, model.session.Drag()); err != nil {
		return model.setStatus(err.Error(), slog.LevelError)
	}
	model.drag = &dragState{card: card, transfer: transfer, target: -1, mouse: mouse}
	model.dragOver(column)
	return nil
}

// dragOver makes column the drop target; -1 means no column.
func (model *Model) dragOver(column int) {
	if model.drag == nil || column == model.drag.target {
		return
	}
	if model.drag.target >= 0 {
		model.zones[model.drag.target].DragLeave(false)
	}
	if column >= 0 {
		model.zones[column].DragOver(model.drag.transfer)
	}
	model.drag.target = column
}

// drop releases the dragged card over the current target.
func (model *Model) drop() tea.Cmd {
	state := model.drag
	if state == nil {
		return nil
	}
	if state.target < 0 {
		model.cancelDrag()
		return nil
	}
	request, ok := model.zones[state.target].Drop(state.transfer, model.session.Drag())
	state.card.DragEnd(model.session.Drag())
	model.drag = nil
	if !ok {
		// Drop already logged the missing payload; the board is unchanged.
		return nil
	}
	model.followID(request.TicketID, request.Status)
	return model.moveCmd(request)
}

func (model *Model) cancelDrag() {
	state := model.drag
	if state == nil {
		return
	}
	if state.target >= 0 {
		model.zones[state.target].DragLeave(false)
	}
	state.card.DragEnd(model.session.Drag())
	model.drag = nil
}

// dragging reports whether id is the card being dragged.
func (model Model) dragging(id string) bool {
	return model.drag != nil && model.drag.card.Dragging && model.drag.card.Ticket.ID == id
}

func (model Model) currentTickets() []ticket.Ticket {
	if model.column < 0 || model.column >= len(model.visible) {
		return nil
	}
	return model.visible[model.column].Tickets
}

func (model Model) selectedTicket() (ticket.Ticket, bool) {
	tickets := model.currentTickets()
	cursor := model.cursors[model.column]
	if cursor < 0 || cursor >= len(tickets) {
		return ticket.Ticket{}, false
	}
	return tickets[cursor], true
}

func (model *Model) selectColumn(column int) {
	model.column = min(max(column, 0), len(model.zones)-1)
	model.syncSelection()
}

func (model *Model) moveCursor(delta int) {
	count := len(model.currentTickets())
	if count == 0 {
		return
	}
	model.cursors[model.column] = min(max(model.cursors[model.column]+delta, 0), count-1)
	model.syncSelection()
}

// syncSelection records the selected ticket so the selection survives
// refreshes, and scrolls it into view.
func (model *Model) syncSelection() {
	if selected, ok := model.selectedTicket(); ok {
		model.selectedID = selected.ID
	} else {
		model.selectedID = ""
	}
	model.clampScroll()
}

// followID makes the selection follow a ticket that is about to land
// in the column for status.
func (model *Model) followID(id string, status ticket.Status) {
	for index, candidate := range ticket.Statuses() {
		if candidate == status {
			model.column = index
		}
	}
	model.selectedID = id
}

// follow selects t, which may not have arrived in the columns yet.
func (model *Model) follow(t ticket.Ticket) {
	if t.ID == "" {
		return
	}
	model.followID(t.ID, t.Status)
	if model.locate(t.ID) {
		model.restoreSelection()
	}
}

// locate reports whether id is in the visible columns.
func (model *Model) locate(id string) bool {
	for _, column := range model.visible {
		for _, item := range column.Tickets {
			if item.ID == id {
				return true
			}
		}
	}
	return false
}

// restoreSelection puts the cursor back on the selected ticket after
// the columns changed. When it moved to another column the selection
// follows it; when it is gone the cursor is clamped.
func (model *Model) restoreSelection() {
	if model.selectedID != "" {
		for columnIndex, column := range model.visible {
			for ticketIndex, item := range column.Tickets {
				if item.ID == model.selectedID {
					model.column = columnIndex
					model.cursors[columnIndex] = ticketIndex
					model.clampScroll()
					return
				}
			}
		}
	}
	for index := range model.cursors {
		count := 0
		if index < len(model.visible) {
			count = len(model.visible[index].Tickets)
		}
		model.cursors[index] = min(max(model.cursors[index], 0), max(count-1, 0))
	}
	model.syncSelection()
}
