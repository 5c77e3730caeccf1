// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package apiserver_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kanban-foundation/kanban/lib/apiserver"
	"github.com/kanban-foundation/kanban/lib/clock"
	"github.com/kanban-foundation/kanban/lib/schema/ticket"
	"github.com/kanban-foundation/kanban/lib/ticketstore"
)

type testServer struct {
	url   string
	store *ticketstore.Store
	clock *clock.FakeClock
}

// startServer runs a server on a free loopback port backed by a
// temporary store. It is stopped when the test ends.
func startServer(t *testing.T) *testServer {
	t.Helper()
	store, err := ticketstore.Open(context.Background(), ticketstore.Config{
		Path:  filepath.Join(t.TempDir(), "tickets.db"),
		Clock: clock.Fake(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)),
	})
	if err != nil {
		t.Fatalf("ticketstore.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	fake := clock.Fake(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
	url := serve(t, apiserver.Config{Store: store, Clock: fake})
	return &testServer{url: url, store: store, clock: fake}
}

func serve(t *testing.T, config apiserver.Config) string {
	t.Helper()
	config.Address = "127.0.0.1:0"
	config.Logger = slog.New(slog.DiscardHandler)
	server := apiserver.NewServer(config)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Serve: %v", err)
		}
	})

	select {
	case <-server.Ready():
	case err := <-done:
		t.Fatalf("Serve exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not become ready")
	}
	return "http://" + server.Addr().String() + "/api"
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}
	request, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatal(err)
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	response, err := http.DefaultClient.Do(request)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer response.Body.Close()
	data, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatal(err)
	}
	return response, data
}

func decodeError(t *testing.T, data []byte) string {
	t.Helper()
	var body ticket.ErrorResponse
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("decoding error body %q: %v", data, err)
	}
	return body.Error
}

func createTicket(t *testing.T, base string, body map[string]any) ticket.Ticket {
	t.Helper()
	response, data := doJSON(t, http.MethodPost, base+"/tickets", body)
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201: %s", response.StatusCode, data)
	}
	var created ticket.TicketResponse
	if err := json.Unmarshal(data, &created); err != nil {
		t.Fatal(err)
	}
	return created.Ticket
}

func TestHealth(t *testing.T) {
	server := startServer(t)
	response, data := doJSON(t, http.MethodGet, server.url+"/health", nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", response.StatusCode)
	}
	var body ticket.MessageResponse
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "healthy" || body.Message != "Backend is running" {
		t.Errorf("body = %+v, want healthy", body)
	}
}

func TestCreate(t *testing.T) {
	server := startServer(t)

	t.Run("defaults", func(t *testing.T) {
		response, data := doJSON(t, http.MethodPost, server.url+"/tickets", map[string]any{
			"title": "Write docs", "description": "all of them",
		})
		if response.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", response.StatusCode, data)
		}
		var body ticket.TicketResponse
		if err := json.Unmarshal(data, &body); err != nil {
			t.Fatal(err)
		}
		if body.Message != "Ticket created successfully" {
			t.Errorf("message = %q", body.Message)
		}
		if body.Ticket.ID == "" {
			t.Error("created ticket has no id")
		}
		if body.Ticket.Priority != ticket.PriorityMedium {
			t.Errorf("priority = %q, want medium", body.Ticket.Priority)
		}
		if body.Ticket.Status != ticket.StatusTodo {
			t.Errorf("status = %q, want todo", body.Ticket.Status)
		}
		if body.Ticket.Labels == nil {
			t.Error("labels = nil, want []")
		}
	})

	t.Run("status_is_always_todo", func(t *testing.T) {
		created := createTicket(t, server.url, map[string]any{
			"title": "t", "description": "d", "status": "done", "priority": "high",
			"labels": []string{"a", "b"},
		})
		if created.Status != ticket.StatusTodo {
			t.Errorf("status = %q, want todo", created.Status)
		}
		if created.Priority != ticket.PriorityHigh {
			t.Errorf("priority = %q, want high", created.Priority)
		}
		if len(created.Labels) != 2 {
			t.Errorf("labels = %v, want [a b]", created.Labels)
		}
	})

	tests := []struct {
		name string
		body any
		want string
	}{
		{"missing_title", map[string]any{"description": "d"}, "Title and description are required"},
		{"empty_description", map[string]any{"title": "t", "description": ""}, "Title and description are required"},
		{"not_an_object", "just a string", "Title and description are required"},
		{"invalid_priority", map[string]any{"title": "t", "description": "d", "priority": "urgent"}, "Priority must be low, medium, or high"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			response, data := doJSON(t, http.MethodPost, server.url+"/tickets", test.body)
			if response.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", response.StatusCode)
			}
			if got := decodeError(t, data); got != test.want {
				t.Errorf("error = %q, want %q", got, test.want)
			}
		})
	}
}

func TestListReturnsCreationOrder(t *testing.T) {
	server := startServer(t)
	for index := range 3 {
		createTicket(t, server.url, map[string]any{"title": fmt.Sprintf("ticket %d", index), "description": "d"})
	}

	response, data := doJSON(t, http.MethodGet, server.url+"/tickets", nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", response.StatusCode)
	}
	var body ticket.ListResponse
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Tickets) != 3 {
		t.Fatalf("got %d tickets, want 3", len(body.Tickets))
	}
	for index, item := range body.Tickets {
		if want := fmt.Sprintf("ticket %d", index); item.Title != want {
			t.Errorf("ticket %d title = %q, want %q", index, item.Title, want)
		}
	}
}

func TestListETag(t *testing.T) {
	server := startServer(t)
	createTicket(t, server.url, map[string]any{"title": "t", "description": "d"})

	response, _ := doJSON(t, http.MethodGet, server.url+"/tickets", nil)
	tag := response.Header.Get("ETag")
	if !strings.HasPrefix(tag, `"`) || len(tag) != 34 {
		t.Fatalf("ETag = %q, want a quoted 32-digit hex tag", tag)
	}

	request, _ := http.NewRequest(http.MethodGet, server.url+"/tickets", nil)
	request.Header.Set("If-None-Match", tag)
	notModified, err := http.DefaultClient.Do(request)
	if err != nil {
		t.Fatal(err)
	}
	notModified.Body.Close()
	if notModified.StatusCode != http.StatusNotModified {
		t.Errorf("conditional GET status = %d, want 304", notModified.StatusCode)
	}

	createTicket(t, server.url, map[string]any{"title": "another", "description": "d"})
	request, _ = http.NewRequest(http.MethodGet, server.url+"/tickets", nil)
	request.Header.Set("If-None-Match", tag)
	changed, err := http.DefaultClient.Do(request)
	if err != nil {
		t.Fatal(err)
	}
	changed.Body.Close()
	if changed.StatusCode != http.StatusOK {
		t.Errorf("status after a change = %d, want 200", changed.StatusCode)
	}
	if changed.Header.Get("ETag") == tag {
		t.Error("ETag did not change after a create")
	}
}

func TestListCompressesLargeBodies(t *testing.T) {
	server := startServer(t)
	for index := range 20 {
		createTicket(t, server.url, map[string]any{
			"title":       fmt.Sprintf("ticket %d", index),
			"description": strings.Repeat("long description ", 10),
		})
	}

	request, _ := http.NewRequest(http.MethodGet, server.url+"/tickets", nil)
	request.Header.Set("Accept-Encoding", "gzip")
	response, err := http.DefaultClient.Do(request)
	if err != nil {
		t.Fatal(err)
	}
	defer response.Body.Close()
	if got := response.Header.Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", got)
	}
	reader, err := gzip.NewReader(response.Body)
	if err != nil {
		t.Fatalf("gzip.NewReader: %v", err)
	}
	var body ticket.ListResponse
	if err := json.NewDecoder(reader).Decode(&body); err != nil {
		t.Fatalf("decoding compressed body: %v", err)
	}
	if len(body.Tickets) != 20 {
		t.Errorf("got %d tickets, want 20", len(body.Tickets))
	}
}

func TestUpdate(t *testing.T) {
	server := startServer(t)
	created := createTicket(t, server.url, map[string]any{
		"title": "t", "description": "d", "labels": []string{"x"},
	})

	t.Run("present_fields", func(t *testing.T) {
		response, data := doJSON(t, http.MethodPut, server.url+"/tickets/"+created.ID, map[string]any{
			"status": "in-progress", "title": "renamed",
		})
		if response.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", response.StatusCode, data)
		}
		var body ticket.TicketResponse
		if err := json.Unmarshal(data, &body); err != nil {
			t.Fatal(err)
		}
		if body.Message != "Ticket updated successfully" {
			t.Errorf("message = %q", body.Message)
		}
		if body.Ticket.Status != ticket.StatusInProgress || body.Ticket.Title != "renamed" {
			t.Errorf("ticket = %+v, want renamed and in-progress", body.Ticket)
		}
		if body.Ticket.Description != "d" || len(body.Ticket.Labels) != 1 {
			t.Errorf("absent fields changed: %+v", body.Ticket)
		}
	})

	t.Run("invalid_values_ignored", func(t *testing.T) {
		response, data := doJSON(t, http.MethodPut, server.url+"/tickets/"+created.ID, map[string]any{
			"status": "archived", "priority": "urgent", "description": "new",
		})
		if response.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", response.StatusCode, data)
		}
		var body ticket.TicketResponse
		if err := json.Unmarshal(data, &body); err != nil {
			t.Fatal(err)
		}
		if body.Ticket.Status != ticket.StatusInProgress {
			t.Errorf("status = %q, want unchanged in-progress", body.Ticket.Status)
		}
		if body.Ticket.Priority != ticket.PriorityMedium {
			t.Errorf("priority = %q, want unchanged medium", body.Ticket.Priority)
		}
		if body.Ticket.Description != "new" {
			t.Errorf("description = %q, want %q", body.Ticket.Description, "new")
		}
	})

	t.Run("unknown_id", func(t *testing.T) {
		response, data := doJSON(t, http.MethodPut, server.url+"/tickets/missing", map[string]any{"title": "x"})
		if response.StatusCode != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", response.StatusCode)
		}
		if got := decodeError(t, data); got != "Ticket not found" {
			t.Errorf("error = %q", got)
		}
	})
}

func TestDelete(t *testing.T) {
	server := startServer(t)
	created := createTicket(t, server.url, map[string]any{"title": "t", "description": "d"})

	response, data := doJSON(t, http.MethodDelete, server.url+"/tickets/"+created.ID, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", response.StatusCode)
	}
	var body ticket.MessageResponse
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatal(err)
	}
	if body.Message != "Ticket deleted successfully" {
		t.Errorf("message = %q", body.Message)
	}

	response, data = doJSON(t, http.MethodDelete, server.url+"/tickets/"+created.ID, nil)
	if response.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", response.StatusCode)
	}
	if got := decodeError(t, data); got != "Ticket not found" {
		t.Errorf("error = %q", got)
	}
}

func TestUnknownRoute(t *testing.T) {
	server := startServer(t)
	response, data := doJSON(t, http.MethodGet, server.url+"/nothing", nil)
	if response.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", response.StatusCode)
	}
	if got := decodeError(t, data); got != "Not found" {
		t.Errorf("error = %q", got)
	}

	response, _ = doJSON(t, http.MethodPatch, server.url+"/tickets", nil)
	if response.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("PATCH status = %d, want 405", response.StatusCode)
	}
}

func TestCORSPreflight(t *testing.T) {
	server := startServer(t)
	request, _ := http.NewRequest(http.MethodOptions, server.url+"/tickets/abc", nil)
	request.Header.Set("Origin", "http://localhost:4200")
	request.Header.Set("Access-Control-Request-Method", http.MethodPut)
	response, err := http.DefaultClient.Do(request)
	if err != nil {
		t.Fatal(err)
	}
	response.Body.Close()
	if got := response.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
	if got := response.Header.Get("Access-Control-Allow-Methods"); !strings.Contains(got, http.MethodPut) {
		t.Errorf("Access-Control-Allow-Methods = %q, want PUT allowed", got)
	}
}

// failingStore fails every operation.
type failingStore struct{ err error }

func (s failingStore) List(context.Context) ([]ticket.Ticket, error) { return nil, s.err }
func (s failingStore) Create(context.Context, ticket.Ticket) (ticket.Ticket, error) {
	return ticket.Ticket{}, s.err
}
func (s failingStore) Update(context.Context, string, func(ticket.Ticket) ticket.Ticket) (ticket.Ticket, error) {
	return ticket.Ticket{}, s.err
}
func (s failingStore) Delete(context.Context, string) error { return s.err }

func TestStorageErrorsAreInternal(t *testing.T) {
	base := serve(t, apiserver.Config{Store: failingStore{err: errors.New("disk on fire")}})

	requests := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/tickets", nil},
		{http.MethodPost, "/tickets", map[string]any{"title": "t", "description": "d"}},
		{http.MethodPut, "/tickets/1", map[string]any{"title": "t"}},
		{http.MethodDelete, "/tickets/1", nil},
	}
	for _, request := range requests {
		t.Run(request.method, func(t *testing.T) {
			response, data := doJSON(t, request.method, base+request.path, request.body)
			if response.StatusCode != http.StatusInternalServerError {
				t.Fatalf("status = %d, want 500", response.StatusCode)
			}
			if got := decodeError(t, data); got != "disk on fire" {
				t.Errorf("error = %q, want %q", got, "disk on fire")
			}
		})
	}
}
