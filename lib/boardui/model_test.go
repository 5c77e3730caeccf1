// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package boardui

import (
	"context"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/kanban-foundation/kanban/lib/board"
	"github.com/kanban-foundation/kanban/lib/board/boardtest"
	"github.com/kanban-foundation/kanban/lib/schema/ticket"
	"github.com/kanban-foundation/kanban/lib/ticketclient"
)

const (
	testWidth  = 120
	testHeight = 40
)

// testModel returns a sized model whose columns hold the sample
// tickets: 4 and 5 in To Do, 2 in In Progress, 1 and 3 in Done.
func testModel(t *testing.T) (Model, *boardtest.FakeAPI) {
	t.Helper()
	api := boardtest.NewFakeAPI(boardtest.SampleTickets()...)
	session := board.NewSession(board.NewService(api, nil), nil)
	model := NewModel(context.Background(), session, nil)
	t.Cleanup(model.Close)

	model, _ = update(t, model, tea.WindowSizeMsg{Width: testWidth, Height: testHeight})
	model, _ = update(t, model, model.refreshCmd()())
	return deliverColumns(t, model), api
}

// deliverColumns feeds the latest published columns to the model.
func deliverColumns(t *testing.T, model Model) Model {
	t.Helper()
	select {
	case columns := <-model.updates:
		model, _ = update(t, model, columnsMsg{columns: columns})
	default:
		t.Fatal("no column update published")
	}
	return model
}

func update(t *testing.T, model Model, message tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := model.Update(message)
	result, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", updated)
	}
	return result, cmd
}

func runes(text string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}
}

func typeText(t *testing.T, model Model, text string) Model {
	t.Helper()
	for _, character := range text {
		model, _ = update(t, model, runes(string(character)))
	}
	return model
}

// runCmd executes cmd and returns every message it produces, expanding
// batches.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	message := cmd()
	if batch, ok := message.(tea.BatchMsg); ok {
		var messages []tea.Msg
		for _, inner := range batch {
			messages = append(messages, runCmd(inner)...)
		}
		return messages
	}
	return []tea.Msg{message}
}

// findMsg returns the first message of type T produced by cmd.
func findMsg[T any](t *testing.T, cmd tea.Cmd) T {
	t.Helper()
	for _, message := range runCmd(cmd) {
		if typed, ok := message.(T); ok {
			return typed
		}
	}
	var zero T
	t.Fatalf("command produced no %T", zero)
	return zero
}

func plainView(model Model) string {
	return ansi.Strip(model.View())
}

func TestModelRendersColumns(t *testing.T) {
	model, _ := testModel(t)
	view := plainView(model)

	for _, want := range []string{"To Do (2)", "In Progress (1)", "Done (2)", "API Documentation", "Create User Dashboard", "MEDIUM", "Mar 14"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if lines := strings.Split(model.View(), "\n"); len(lines) != testHeight {
		t.Errorf("got %d lines, want %d", len(lines), testHeight)
	}
}

func TestModelLoadingAndLoadError(t *testing.T) {
	api := boardtest.NewFakeAPI()
	api.ListErr = &ticketclient.APIError{StatusCode: 500, Message: ticketclient.FallbackList}
	session := board.NewSession(board.NewService(api, nil), nil)
	model := NewModel(context.Background(), session, nil)
	defer model.Close()
	model, _ = update(t, model, tea.WindowSizeMsg{Width: testWidth, Height: testHeight})
	model = deliverColumns(t, model)

	if view := plainView(model); !strings.Contains(view, "Loading tickets...") {
		t.Errorf("view before first load missing loading text:\n%s", view)
	}

	model, _ = update(t, model, model.refreshCmd()())
	view := plainView(model)
	if !strings.Contains(view, ticketclient.FallbackList) || !strings.Contains(view, "Press r to retry.") {
		t.Errorf("view missing load error:\n%s", view)
	}
}

func TestModelNavigation(t *testing.T) {
	model, _ := testModel(t)
	if model.selectedID != "4" {
		t.Fatalf("initial selection = %q, want 4", model.selectedID)
	}

	model, _ = update(t, model, runes("j"))
	if model.selectedID != "5" {
		t.Errorf("after j got %q, want 5", model.selectedID)
	}
	model, _ = update(t, model, runes("j"))
	if model.selectedID != "5" {
		t.Errorf("j past the end got %q, want 5", model.selectedID)
	}
	model, _ = update(t, model, runes("l"))
	if model.column != 1 || model.selectedID != "2" {
		t.Errorf("after l got column %d selection %q, want 1 and 2", model.column, model.selectedID)
	}
	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyRight})
	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyRight})
	if model.column != 2 {
		t.Errorf("column = %d, want 2 (clamped)", model.column)
	}
	model, _ = update(t, model, runes("G"))
	if model.selectedID != "3" {
		t.Errorf("after G got %q, want 3", model.selectedID)
	}
}

func TestModelMoveRight(t *testing.T) {
	model, api := testModel(t)

	model, cmd := update(t, model, runes(">"))
	result := findMsg[mutationResultMsg](t, cmd)
	if result.err != nil {
		t.Fatalf("move failed: %v", result.err)
	}
	if calls := api.Calls(); !reflect.DeepEqual(calls[len(calls)-2:], []string{"update 4", "list"}) {
		t.Errorf("calls = %v, want update 4 then list", calls)
	}

	model, _ = update(t, model, result)
	model = deliverColumns(t, model)
	if model.column != 1 || model.selectedID != "4" {
		t.Errorf("selection = column %d id %q, want the moved ticket in column 1", model.column, model.selectedID)
	}
	if view := plainView(model); !strings.Contains(view, "In Progress (2)") {
		t.Errorf("view does not show the moved ticket:\n%s", view)
	}
}

func TestModelMoveLeftFromFirstColumn(t *testing.T) {
	model, api := testModel(t)
	_, cmd := update(t, model, runes("<"))
	if cmd != nil {
		t.Error("move left from the first column returned a command")
	}
	if calls := api.Calls(); len(calls) != 1 {
		t.Errorf("calls = %v, want only the initial list", calls)
	}
}

func TestModelMoveFailureShowsError(t *testing.T) {
	model, api := testModel(t)
	api.UpdateErr = &ticketclient.APIError{StatusCode: 404, Message: "Ticket not found", FromServer: true}

	model, cmd := update(t, model, runes(">"))
	model, _ = update(t, model, findMsg[mutationResultMsg](t, cmd))
	if model.statusMessage != "Ticket not found" || model.statusLevel != slog.LevelError {
		t.Errorf("status = %q at %v, want the server message as an error", model.statusMessage, model.statusLevel)
	}
}

func TestModelKeyboardGrabAndDrop(t *testing.T) {
	model, api := testModel(t)

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if model.drag == nil || !model.session.Drag().Active() {
		t.Fatal("space did not start a drag")
	}
	if !model.zones[0].Over {
		t.Error("source column is not the initial drop target")
	}
	if !strings.Contains(plainView(model), "» To Do «") {
		t.Error("drop target not highlighted")
	}

	model, _ = update(t, model, runes("l"))
	if model.zones[0].Over || !model.zones[1].Over {
		t.Errorf("targets = %v %v, want only In Progress", model.zones[0].Over, model.zones[1].Over)
	}

	model, cmd := update(t, model, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if model.drag != nil || model.session.Drag().Active() {
		t.Error("drag still active after drop")
	}
	if model.zones[1].Over {
		t.Error("drop target still highlighted after drop")
	}
	if result := findMsg[mutationResultMsg](t, cmd); result.err != nil {
		t.Fatalf("move failed: %v", result.err)
	}
	for _, item := range api.Tickets() {
		if item.ID == "4" && item.Status != ticket.StatusInProgress {
			t.Errorf("ticket 4 status = %q, want in-progress", item.Status)
		}
	}
}

func TestModelDropWithoutPayloadIsSilent(t *testing.T) {
	model, api := testModel(t)

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	model, _ = update(t, model, runes("l"))
	model.drag.transfer = board.NewDataTransfer()
	model.session.Drag().End()

	model, cmd := update(t, model, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if cmd != nil {
		t.Error("drop without a payload returned a command")
	}
	if model.drag != nil {
		t.Error("drag still active after drop")
	}
	if model.statusMessage != "" {
		t.Errorf("status = %q, want empty", model.statusMessage)
	}
	if calls := api.Calls(); len(calls) != 1 {
		t.Errorf("calls = %v, want only the initial list", calls)
	}
}

func TestModelKeyboardGrabCancel(t *testing.T) {
	model, api := testModel(t)

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	model, _ = update(t, model, runes("l"))
	model, cmd := update(t, model, tea.KeyMsg{Type: tea.KeyEsc})
	if cmd != nil {
		t.Error("cancel returned a command")
	}
	if model.drag != nil || model.session.Drag().Active() {
		t.Error("drag still active after cancel")
	}
	for index, zone := range model.zones {
		if zone.Over {
			t.Errorf("zone %d still highlighted", index)
		}
	}
	if calls := api.Calls(); len(calls) != 1 {
		t.Errorf("calls = %v, want only the initial list", calls)
	}
}

func TestModelMouseDragAndDrop(t *testing.T) {
	model, api := testModel(t)
	doneX := 2*(model.columnWidth()+1) + 3

	model, _ = update(t, model, tea.MouseMsg{X: 2, Y: cardsTop + cardHeight, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if model.selectedID != "5" {
		t.Fatalf("press selected %q, want 5", model.selectedID)
	}
	model, _ = update(t, model, tea.MouseMsg{X: doneX, Y: 10, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	if model.drag == nil || !model.drag.mouse {
		t.Fatal("motion with the button held did not start a drag")
	}
	if !model.zones[2].Over {
		t.Error("Done column is not the drop target")
	}

	model, cmd := update(t, model, tea.MouseMsg{X: doneX, Y: 10, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if model.drag != nil || model.session.Drag().Active() {
		t.Error("drag still active after release")
	}
	if result := findMsg[mutationResultMsg](t, cmd); result.err != nil || result.ticketID != "5" {
		t.Fatalf("result = %+v, want a successful move of 5", result)
	}
	for _, item := range api.Tickets() {
		if item.ID == "5" && item.Status != ticket.StatusDone {
			t.Errorf("ticket 5 status = %q, want done", item.Status)
		}
	}
}

func TestModelMouseReleaseOutsideCancels(t *testing.T) {
	model, api := testModel(t)

	model, _ = update(t, model, tea.MouseMsg{X: 2, Y: cardsTop, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	model, _ = update(t, model, tea.MouseMsg{X: 50, Y: 10, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	model, cmd := update(t, model, tea.MouseMsg{X: 50, Y: testHeight - 1, Action: tea.MouseActionRelease})
	if cmd != nil {
		t.Error("release outside the board returned a command")
	}
	if model.drag != nil || model.session.Drag().Active() {
		t.Error("drag still active")
	}
	if calls := api.Calls(); len(calls) != 1 {
		t.Errorf("calls = %v, want only the initial list", calls)
	}
}

func TestModelMouseClickSelects(t *testing.T) {
	model, api := testModel(t)
	inProgressX := model.columnWidth() + 3

	model, _ = update(t, model, tea.MouseMsg{X: inProgressX, Y: cardsTop + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	model, cmd := update(t, model, tea.MouseMsg{X: inProgressX, Y: cardsTop + 1, Action: tea.MouseActionRelease})
	if cmd != nil || model.drag != nil {
		t.Error("a click started a drag")
	}
	if model.column != 1 || model.selectedID != "2" {
		t.Errorf("selection = column %d id %q, want 1 and 2", model.column, model.selectedID)
	}
	if calls := api.Calls(); len(calls) != 1 {
		t.Errorf("calls = %v, want only the initial list", calls)
	}
}

func TestModelDeleteConfirmation(t *testing.T) {
	model, api := testModel(t)

	model, _ = update(t, model, runes("d"))
	if model.focus != FocusConfirm {
		t.Fatalf("focus = %v, want FocusConfirm", model.focus)
	}
	if view := plainView(model); !strings.Contains(view, board.DeletePrompt) {
		t.Errorf("view missing the confirmation prompt")
	}

	model, cmd := update(t, model, runes("n"))
	if cmd != nil || model.confirm != nil || model.focus != FocusBoard {
		t.Error("declining did not close the confirmation cleanly")
	}

	model, _ = update(t, model, runes("d"))
	model, cmd = update(t, model, runes("y"))
	model, _ = update(t, model, findMsg[mutationResultMsg](t, cmd))
	if calls := api.Calls(); !reflect.DeepEqual(calls[len(calls)-2:], []string{"delete 4", "list"}) {
		t.Errorf("calls = %v, want delete 4 then list", calls)
	}
	if model.statusMessage != "Ticket deleted" {
		t.Errorf("status = %q, want Ticket deleted", model.statusMessage)
	}

	model = deliverColumns(t, model)
	if model.selectedID != "5" {
		t.Errorf("selection after delete = %q, want 5", model.selectedID)
	}
}

func TestModelCreateTicket(t *testing.T) {
	model, api := testModel(t)

	model, _ = update(t, model, runes("n"))
	if model.form == nil || model.session.Modal().Kind != board.ModalCreating {
		t.Fatal("n did not open the create modal")
	}
	if !strings.Contains(plainView(model), "Create New Ticket") {
		t.Error("modal not rendered")
	}

	model = typeText(t, model, "Release notes")
	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyTab})
	model = typeText(t, model, "Summarize the release")
	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyTab})
	model, _ = update(t, model, runes("l"))
	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyTab})
	model = typeText(t, model, "docs")
	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyEnter})

	model, cmd := update(t, model, tea.KeyMsg{Type: tea.KeyCtrlS})
	if !model.form.Form().Submitting {
		t.Error("form not marked as submitting")
	}
	if !strings.Contains(plainView(model), "Saving...") {
		t.Error("saving indicator not shown")
	}

	result := findMsg[formResultMsg](t, cmd)
	if result.err != nil {
		t.Fatalf("create failed: %v", result.err)
	}
	if result.ticket.Title != "Release notes" || result.ticket.Priority != ticket.PriorityHigh {
		t.Errorf("created %+v, want title Release notes with high priority", result.ticket)
	}
	if !reflect.DeepEqual(result.ticket.Labels, []string{"docs"}) {
		t.Errorf("labels = %v, want [docs]", result.ticket.Labels)
	}

	model, _ = update(t, model, result)
	if model.form != nil || model.session.Modal().Kind != board.ModalIdle {
		t.Error("modal still open after a successful create")
	}
	model = deliverColumns(t, model)
	if model.selectedID != result.ticket.ID {
		t.Errorf("selection = %q, want the new ticket %q", model.selectedID, result.ticket.ID)
	}
	if calls := api.Calls(); !reflect.DeepEqual(calls[len(calls)-2:], []string{"create", "list"}) {
		t.Errorf("calls = %v, want create then list", calls)
	}
}

func TestModelCreateValidation(t *testing.T) {
	model, api := testModel(t)

	model, _ = update(t, model, runes("n"))
	model = typeText(t, model, "ab")
	model, cmd := update(t, model, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Error("invalid form produced a command")
	}
	view := plainView(model)
	for _, want := range []string{"Title must be at least 3 characters", "Description is required"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if calls := api.Calls(); len(calls) != 1 {
		t.Errorf("calls = %v, want only the initial list", calls)
	}
}

func TestModelEditWithoutChangesCloses(t *testing.T) {
	model, api := testModel(t)

	model, _ = update(t, model, runes("e"))
	if model.session.Modal().Kind != board.ModalEditing || model.session.Modal().Ticket.ID != "4" {
		t.Fatalf("modal = %+v, want editing ticket 4", model.session.Modal())
	}
	if !strings.Contains(plainView(model), "Edit Ticket") {
		t.Error("edit modal not rendered")
	}

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyCtrlS})
	if model.form != nil || model.session.Modal().Kind != board.ModalIdle {
		t.Error("modal still open after submitting no changes")
	}
	if model.statusMessage != "No changes" {
		t.Errorf("status = %q, want No changes", model.statusMessage)
	}
	if calls := api.Calls(); len(calls) != 1 {
		t.Errorf("calls = %v, want only the initial list", calls)
	}
}

func TestModelEditFailureKeepsModalOpen(t *testing.T) {
	model, api := testModel(t)
	api.UpdateErr = &ticketclient.APIError{StatusCode: 404, Message: "Ticket not found", FromServer: true}

	model, _ = update(t, model, runes("e"))
	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyEnd})
	model = typeText(t, model, " v2")
	model, cmd := update(t, model, tea.KeyMsg{Type: tea.KeyCtrlS})
	model, _ = update(t, model, findMsg[formResultMsg](t, cmd))

	if model.form == nil {
		t.Fatal("modal closed after a failed update")
	}
	form := model.form.Form()
	if form.Submitting || form.Error != "Ticket not found" {
		t.Errorf("form = submitting %v error %q, want the server message", form.Submitting, form.Error)
	}
	if !strings.Contains(plainView(model), "Ticket not found") {
		t.Error("error not shown in the modal")
	}

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyEsc})
	if model.form != nil || model.session.Modal().Kind != board.ModalIdle {
		t.Error("esc did not close the modal")
	}
}

func TestModelLateSubmitResultLeavesNewFormAlone(t *testing.T) {
	editAndReopen := func(t *testing.T, model Model) (Model, formResultMsg) {
		t.Helper()
		model, _ = update(t, model, runes("e"))
		model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyEnd})
		model = typeText(t, model, " v2")
		model, cmd := update(t, model, tea.KeyMsg{Type: tea.KeyCtrlS})
		model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyEsc})
		model, _ = update(t, model, runes("n"))
		model = typeText(t, model, "Draft")
		return model, findMsg[formResultMsg](t, cmd)
	}
	checkDraft := func(t *testing.T, model Model) {
		t.Helper()
		if model.form == nil {
			t.Fatal("create form closed by the edit result")
		}
		if kind := model.session.Modal().Kind; kind != board.ModalCreating {
			t.Errorf("modal = %v, want %v", kind, board.ModalCreating)
		}
		form := model.form.Form()
		if form.Mode != board.FormCreate || form.Title != "Draft" {
			t.Errorf("form = %v %q, want create %q", form.Mode, form.Title, "Draft")
		}
		if form.Submitting || form.Error != "" {
			t.Errorf("form = submitting %v error %q, want idle", form.Submitting, form.Error)
		}
		if model.focus != FocusForm {
			t.Errorf("focus = %v, want FocusForm", model.focus)
		}
	}

	t.Run("success", func(t *testing.T) {
		model, _ := testModel(t)
		model, result := editAndReopen(t, model)
		if result.err != nil {
			t.Fatalf("update failed: %v", result.err)
		}
		model, _ = update(t, model, result)
		checkDraft(t, model)
		if want := "Ticket updated: " + result.ticket.Title; model.statusMessage != want {
			t.Errorf("status = %q, want %q", model.statusMessage, want)
		}
	})

	t.Run("failure", func(t *testing.T) {
		model, api := testModel(t)
		api.UpdateErr = &ticketclient.APIError{StatusCode: 404, Message: "Ticket not found", FromServer: true}
		model, result := editAndReopen(t, model)
		model, _ = update(t, model, result)
		checkDraft(t, model)
		if model.statusMessage != "Ticket not found" || model.statusLevel != slog.LevelError {
			t.Errorf("status = %q at %v, want %q at %v", model.statusMessage, model.statusLevel, "Ticket not found", slog.LevelError)
		}
	})
}

func TestModelFilter(t *testing.T) {
	model, _ := testModel(t)

	model, _ = update(t, model, runes("/"))
	if model.focus != FocusFilter {
		t.Fatalf("focus = %v, want FocusFilter", model.focus)
	}
	model = typeText(t, model, "testing")
	if got := boardtest.ColumnIDs(model.visible[0]); !reflect.DeepEqual(got, []string{"5"}) {
		t.Errorf("To Do = %v, want [5]", got)
	}
	if len(model.visible[1].Tickets) != 0 || len(model.visible[2].Tickets) != 0 {
		t.Error("filter did not narrow the other columns")
	}
	if model.selectedID != "5" {
		t.Errorf("selection = %q, want 5", model.selectedID)
	}

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	if model.focus != FocusBoard || model.filter.Value() != "testing" {
		t.Error("enter should keep the filter and return to the board")
	}

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyEsc})
	if len(model.visible[0].Tickets) != 2 {
		t.Errorf("esc left %d tickets in To Do, want 2", len(model.visible[0].Tickets))
	}
}

func TestModelDetailOverlay(t *testing.T) {
	model, _ := testModel(t)

	model, _ = update(t, model, runes("v"))
	if model.focus != FocusDetail {
		t.Fatalf("focus = %v, want FocusDetail", model.focus)
	}
	view := plainView(model)
	for _, want := range []string{"API Documentation", "Document all REST API endpoints", "LOW"} {
		if !strings.Contains(view, want) {
			t.Errorf("detail view missing %q", want)
		}
	}

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyEsc})
	if model.detail != nil || model.focus != FocusBoard {
		t.Error("esc did not close the detail view")
	}
}

func TestModelMoveDropdown(t *testing.T) {
	model, api := testModel(t)

	model, _ = update(t, model, runes("m"))
	if model.dropdown == nil {
		t.Fatal("m did not open the dropdown")
	}
	model, _ = update(t, model, runes("j"))
	model, _ = update(t, model, runes("j"))
	model, cmd := update(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	if model.dropdown != nil {
		t.Error("dropdown still open")
	}
	if result := findMsg[mutationResultMsg](t, cmd); result.err != nil {
		t.Fatalf("move failed: %v", result.err)
	}
	for _, item := range api.Tickets() {
		if item.ID == "4" && item.Status != ticket.StatusDone {
			t.Errorf("ticket 4 status = %q, want done", item.Status)
		}
	}
}

func TestModelDropdownSameColumnIsNoop(t *testing.T) {
	model, api := testModel(t)

	model, _ = update(t, model, runes("m"))
	_, cmd := update(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("choosing the current column returned a command")
	}
	if calls := api.Calls(); len(calls) != 1 {
		t.Errorf("calls = %v, want only the initial list", calls)
	}
}

func TestModelStatusFade(t *testing.T) {
	model, _ := testModel(t)

	model, _ = update(t, model, logRecordMsg{Summary: "refresh after mutation failed", Level: slog.LevelWarn})
	if !strings.Contains(plainView(model), "refresh after mutation failed") {
		t.Fatal("log record not shown")
	}
	first := model.statusSequence

	model, _ = update(t, model, logRecordMsg{Summary: "second", Level: slog.LevelError})
	model, _ = update(t, model, statusFadeMsg{sequence: first})
	if model.statusMessage != "second" {
		t.Errorf("stale fade cleared the status: %q", model.statusMessage)
	}
	model, _ = update(t, model, statusFadeMsg{sequence: model.statusSequence})
	if model.statusMessage != "" {
		t.Errorf("status = %q after fade, want empty", model.statusMessage)
	}
	if !strings.Contains(plainView(model), "q quit") {
		t.Error("help line not restored")
	}
}

func TestModelQuit(t *testing.T) {
	model, _ := testModel(t)
	_, cmd := update(t, model, runes("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}
