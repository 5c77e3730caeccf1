// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package ticketclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/kanban-foundation/kanban/lib/netutil"
	"github.com/kanban-foundation/kanban/lib/schema/ticket"
)

// EventsURL returns the websocket URL of the change feed.
func (c *Client) EventsURL() string {
	switch {
	case strings.HasPrefix(c.baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(c.baseURL, "https://") + "/events"
	case strings.HasPrefix(c.baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(c.baseURL, "http://") + "/events"
	}
	return c.baseURL + "/events"
}

// Watch connects to the change feed and calls onChange for every
// event until ctx is cancelled or the connection ends. onChange runs
// on Watch's goroutine; it should only trigger a refetch.
//
// Watch returns nil when ctx is cancelled or the server closes the
// connection normally.
func (c *Client) Watch(ctx context.Context, onChange func(ticket.ChangeEvent)) error {
	conn, response, err := c.dialer.DialContext(ctx, c.EventsURL(), nil)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		if response != nil {
			return fmt.Errorf("ticketclient: change feed dial failed with status %d: %w", response.StatusCode, err)
		}
		return fmt.Errorf("ticketclient: change feed dial failed: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()

	c.logger.Debug("change feed connected", "url", c.EventsURL())
	for {
		var event ticket.ChangeEvent
		if err := conn.ReadJSON(&event); err != nil {
			if ctx.Err() != nil || netutil.IsExpectedCloseError(err) {
				return nil
			}
			return fmt.Errorf("ticketclient: change feed: %w", err)
		}
		if event.Type != ticket.ChangeEventType {
			c.logger.Debug("ignoring change feed frame", "type", event.Type)
			continue
		}
		onChange(event)
	}
}
