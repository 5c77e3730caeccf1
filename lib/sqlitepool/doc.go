// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitepool opens zombiezen SQLite connection pools with the
// pragmas the ticket store relies on (WAL, busy timeout) and an
// OnConnect hook for schema setup.
package sqlitepool
