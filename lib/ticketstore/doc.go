// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

// Package ticketstore persists tickets in SQLite for the reference API
// server.
//
// Each ticket is one row. Labels are stored as a deterministic CBOR
// array so that equal label lists produce equal bytes, and timestamps
// as Unix nanoseconds taken from an injected [clock.Clock]. IDs are
// random UUIDs unless the caller supplies one.
//
// Mutations run in IMMEDIATE transactions, so a read-modify-write of a
// ticket never interleaves with another writer.
package ticketstore
