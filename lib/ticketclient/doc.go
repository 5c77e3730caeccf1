// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

// Package ticketclient is the HTTP client for the kanban ticket API.
//
// The API lives under a base URL (conventionally ending in /api) and
// speaks JSON:
//
//	GET    /tickets        -> {"tickets": [...]}
//	POST   /tickets        -> {"ticket": {...}}
//	PUT    /tickets/{id}   -> {"ticket": {...}}
//	DELETE /tickets/{id}
//	GET    /health
//	GET    /events         (websocket change feed)
//
// Every non-2xx response becomes an *APIError whose message is the
// server's "error" (or "message") field, falling back to a generic
// per-operation message when the body carries neither. Callers show
// APIError messages to users verbatim.
package ticketclient
