// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

// Package apiserver is the reference HTTP server for the ticket API.
//
// Routes, all under /api:
//
//	GET    /health        liveness, {"status":"healthy","message":...}
//	GET    /tickets       {"tickets":[...]}, with a strong ETag
//	POST   /tickets       create; 201 {"message":...,"ticket":{...}}
//	PUT    /tickets/{id}  partial update of the present fields
//	DELETE /tickets/{id}  {"message":"Ticket deleted successfully"}
//	GET    /events        websocket change feed
//
// Error responses carry {"error": "..."}. Every successful mutation is
// followed by a [ticket.ChangeEvent] on the change feed so that
// connected boards refetch.
//
// [Server.Serve] owns the listener and the change feed hub and shuts
// both down when its context is cancelled.
package apiserver
