// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package apiserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/kanban-foundation/kanban/lib/netutil"
	"github.com/kanban-foundation/kanban/lib/schema/ticket"
	"github.com/kanban-foundation/kanban/lib/ticketstore"
)

// Response messages.
const (
	messageHealthy  = "Backend is running"
	messageCreated  = "Ticket created successfully"
	messageUpdated  = "Ticket updated successfully"
	messageDeleted  = "Ticket deleted successfully"
	errorRequired   = "Title and description are required"
	errorPriority   = "Priority must be low, medium, or high"
	errorNotFound   = "Ticket not found"
	errorBadRequest = "Request body must be a JSON object"
)

func writeError(writer http.ResponseWriter, logger *slog.Logger, status int, message string) {
	if err := netutil.WriteJSON(writer, status, ticket.ErrorResponse{Error: message}); err != nil {
		logger.Debug("writing error response", "error", err)
	}
}

func (s *Server) writeJSON(writer http.ResponseWriter, status int, v any) {
	if err := netutil.WriteJSON(writer, status, v); err != nil {
		s.logger.Debug("writing response", "error", err)
	}
}

// internalError reports a storage failure as a 500 carrying the error
// text.
func (s *Server) internalError(writer http.ResponseWriter, operation string, err error) {
	s.logger.Error("request failed", "operation", operation, "error", err)
	writeError(writer, s.logger, http.StatusInternalServerError, err.Error())
}

func (s *Server) handleHealth(writer http.ResponseWriter, request *http.Request) {
	s.writeJSON(writer, http.StatusOK, ticket.MessageResponse{Status: "healthy", Message: messageHealthy})
}

func (s *Server) handleList(writer http.ResponseWriter, request *http.Request) {
	tickets, err := s.store.List(request.Context())
	if err != nil {
		s.internalError(writer, "list", err)
		return
	}
	body, err := json.Marshal(ticket.ListResponse{Tickets: tickets})
	if err != nil {
		s.internalError(writer, "list", err)
		return
	}

	tag := entityTag(body)
	writer.Header().Set("ETag", tag)
	writer.Header().Set("Cache-Control", "no-cache")
	if etagMatches(request.Header.Get("If-None-Match"), tag) {
		writer.WriteHeader(http.StatusNotModified)
		return
	}
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(http.StatusOK)
	writer.Write(body)
}

// createBody mirrors CreateTicketRequest with an optional priority so
// that an absent one can default to medium.
type createBody struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Priority    *ticket.Priority `json:"priority"`
	Labels      []string         `json:"labels"`
}

func (s *Server) handleCreate(writer http.ResponseWriter, request *http.Request) {
	var body createBody
	if err := netutil.DecodeRequest(request, &body); err != nil {
		writeError(writer, s.logger, http.StatusBadRequest, errorRequired)
		return
	}
	if body.Title == "" || body.Description == "" {
		writeError(writer, s.logger, http.StatusBadRequest, errorRequired)
		return
	}
	priority := ticket.PriorityMedium
	if body.Priority != nil {
		priority = *body.Priority
	}
	if !priority.IsValid() {
		writeError(writer, s.logger, http.StatusBadRequest, errorPriority)
		return
	}

	created, err := s.store.Create(request.Context(), ticket.Ticket{
		Title:       body.Title,
		Description: body.Description,
		Priority:    priority,
		Labels:      body.Labels,
		Status:      ticket.StatusTodo,
	})
	if err != nil {
		s.internalError(writer, "create", err)
		return
	}

	s.logger.Info("ticket created", "ticket_id", created.ID)
	s.hub.Broadcast(ticket.ChangeEvent{Kind: ticket.ChangeCreate, TicketID: created.ID})
	s.writeJSON(writer, http.StatusCreated, ticket.TicketResponse{Message: messageCreated, Ticket: created})
}

func (s *Server) handleUpdate(writer http.ResponseWriter, request *http.Request) {
	id := mux.Vars(request)["id"]

	var body ticket.UpdateTicketRequest
	if err := netutil.DecodeRequest(request, &body); err != nil {
		writeError(writer, s.logger, http.StatusBadRequest, errorBadRequest)
		return
	}
	// Unknown priorities and statuses are ignored rather than
	// rejected.
	if body.Priority != nil && !body.Priority.IsValid() {
		s.logger.Debug("ignoring invalid priority", "ticket_id", id, "priority", *body.Priority)
		body.Priority = nil
	}
	if body.Status != nil && !body.Status.IsValid() {
		s.logger.Debug("ignoring invalid status", "ticket_id", id, "status", *body.Status)
		body.Status = nil
	}

	updated, err := s.store.Update(request.Context(), id, body.Apply)
	if errors.Is(err, ticketstore.ErrNotFound) {
		writeError(writer, s.logger, http.StatusNotFound, errorNotFound)
		return
	}
	if err != nil {
		s.internalError(writer, "update", err)
		return
	}

	s.logger.Info("ticket updated", "ticket_id", id)
	s.hub.Broadcast(ticket.ChangeEvent{Kind: ticket.ChangeUpdate, TicketID: id})
	s.writeJSON(writer, http.StatusOK, ticket.TicketResponse{Message: messageUpdated, Ticket: updated})
}

func (s *Server) handleDelete(writer http.ResponseWriter, request *http.Request) {
	id := mux.Vars(request)["id"]

	err := s.store.Delete(request.Context(), id)
	if errors.Is(err, ticketstore.ErrNotFound) {
		writeError(writer, s.logger, http.StatusNotFound, errorNotFound)
		return
	}
	if err != nil {
		s.internalError(writer, "delete", err)
		return
	}

	s.logger.Info("ticket deleted", "ticket_id", id)
	s.hub.Broadcast(ticket.ChangeEvent{Kind: ticket.ChangeDelete, TicketID: id})
	s.writeJSON(writer, http.StatusOK, ticket.MessageResponse{Message: messageDeleted})
}

// handleEvents upgrades to a websocket on the change feed. The client
// is registered before the handshake completes, so a peer that has
// connected sees every later mutation.
func (s *Server) handleEvents(writer http.ResponseWriter, request *http.Request) {
	client := &feedClient{
		send:   make(chan []byte, sendBuffer),
		ticker: s.clock.NewTicker(s.hub.pingInterval),
	}
	if !s.hub.add(client) {
		client.ticker.Stop()
		writeError(writer, s.logger, http.StatusServiceUnavailable, "Server is shutting down")
		return
	}

	upgrader := websocket.Upgrader{CheckOrigin: s.originAllowed}
	conn, err := upgrader.Upgrade(writer, request, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		s.logger.Debug("change feed upgrade failed", "error", err)
		s.hub.drop(client)
		client.ticker.Stop()
		return
	}
	client.conn = conn

	go s.hub.writePump(client)
	go s.hub.readPump(client)
}
