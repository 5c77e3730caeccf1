// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

// Package board holds the state and sync logic of the kanban board,
// independent of how it is rendered.
//
// [Service] owns the cached ticket list. It refetches the whole list
// after every successful mutation and derives the three fixed columns
// from it with [Partition]. Subscribers receive the new columns after
// each refresh.
//
// [Session] is the board controller: the single open modal, move
// validation, confirmed deletes, and the drag context of the current
// gesture.
//
// The drag-and-drop types ([DataTransfer], [DragContext], [Card],
// [DropZone]) carry a ticket id from a card to a column. A drop
// extracts the id from the plain-text payload, then the JSON payload,
// then the drag context, in that order.
//
// [Form] is the create/edit form model: validation, label editing, and
// the changed-fields diff sent on edit.
package board
