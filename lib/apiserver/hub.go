// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package apiserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kanban-foundation/kanban/lib/clock"
	"github.com/kanban-foundation/kanban/lib/netutil"
	"github.com/kanban-foundation/kanban/lib/schema/ticket"
)

const (
	// writeWait bounds a single frame write.
	writeWait = 10 * time.Second

	defaultPingInterval = 54 * time.Second

	// maxMessageSize caps frames from clients. The feed is one-way, so
	// clients only send control frames.
	maxMessageSize = 4096

	// sendBuffer is the number of events queued per connection before
	// the connection is considered stuck and dropped.
	sendBuffer = 16
)

// feedClient is one change feed connection.
type feedClient struct {
	conn   *websocket.Conn
	send   chan []byte
	ticker *clock.Ticker
}

// Hub fans change events out to every connected change feed client.
// All client bookkeeping happens on the Run goroutine.
type Hub struct {
	logger       *slog.Logger
	clock        clock.Clock
	pingInterval time.Duration

	clients    map[*feedClient]struct{}
	broadcast  chan []byte
	register   chan *feedClient
	unregister chan *feedClient
	done       chan struct{}
}

// NewHub creates a hub. Call Run to start it.
func NewHub(logger *slog.Logger, clk clock.Clock, pingInterval time.Duration) *Hub {
	return &Hub{
		logger:       logger,
		clock:        clk,
		pingInterval: pingInterval,
		clients:      make(map[*feedClient]struct{}),
		broadcast:    make(chan []byte),
		register:     make(chan *feedClient),
		unregister:   make(chan *feedClient),
		done:         make(chan struct{}),
	}
}

// pongWait is how long a connection may stay silent. It is a little
// longer than the ping interval so one pong is always due within it.
func (h *Hub) pongWait() time.Duration {
	return h.pingInterval * 10 / 9
}

// Run processes registrations and broadcasts until ctx is cancelled,
// then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.remove(client)
			}
			return

		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.logger.Debug("change feed client connected", "clients", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.remove(client)
				h.logger.Debug("change feed client disconnected", "clients", len(h.clients))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					h.logger.Warn("change feed client fell behind, dropping it")
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) remove(client *feedClient) {
	delete(h.clients, client)
	close(client.send)
}

// Broadcast queues event for every connected client. It returns
// without sending once the hub has stopped.
func (h *Hub) Broadcast(event ticket.ChangeEvent) {
	event.Type = ticket.ChangeEventType
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("encoding change event", "error", err)
		return
	}
	select {
	case h.broadcast <- data:
	case <-h.done:
	}
}

// add registers client with the Run loop. It reports false if the hub
// has stopped.
func (h *Hub) add(client *feedClient) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) drop(client *feedClient) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// readPump discards client frames and notices when the peer goes away
// or stops answering pings.
func (h *Hub) readPump(client *feedClient) {
	defer func() {
		h.drop(client)
		client.conn.Close()
	}()

	client.conn.SetReadLimit(maxMessageSize)
	client.conn.SetReadDeadline(time.Now().Add(h.pongWait()))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(h.pongWait()))
		return nil
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if !netutil.IsExpectedCloseError(err) {
				h.logger.Debug("change feed read ended", "error", err)
			}
			return
		}
	}
}

// writePump writes queued events and periodic pings. It owns all
// writes to the connection.
func (h *Hub) writePump(client *feedClient) {
	defer func() {
		client.ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-client.ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
