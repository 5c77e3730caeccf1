// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

// Package boardui is the interactive terminal board. It renders the
// three ticket columns of a [board.Session] with bubbletea and drives
// the session from keyboard and mouse input: card selection, create and
// edit modals, delete confirmation, drag and drop between columns, a
// fuzzy filter, and a markdown detail view.
//
// Model never mutates tickets itself. Every change goes through the
// session, which sends it to the server and refetches; the refreshed
// columns come back to the model through a service subscription.
//
// Background log records reach the status bar through [LogHandler],
// so nothing is written to stderr while the alternate screen is up.
package boardui
