// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui provides terminal UI building blocks shared by the board
// and the CLI: the colour theme, ANSI-aware overlay splicing, a
// dropdown menu, fuzzy matching, and a markdown renderer for ticket
// descriptions.
//
// Nothing here depends on bubbletea's program loop. Components render
// to strings (or line slices for overlays) and the caller splices them
// into its view.
package tui
