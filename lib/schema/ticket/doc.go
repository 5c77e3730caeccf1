// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

// Package ticket defines the kanban ticket wire types shared by the
// API client, the board, and the reference server: tickets, the three
// fixed statuses, priorities, request bodies, and response envelopes.
//
// JSON field names match the /api/tickets protocol (camelCase
// timestamps, labels always an array).
package ticket
