// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package ticketclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/kanban-foundation/kanban/lib/netutil"
	"github.com/kanban-foundation/kanban/lib/schema/ticket"
)

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// URL is the API base, e.g. "http://localhost:5001/api".
	URL string
	// HTTPClient is used for all requests. If nil, http.DefaultClient
	// is used. Request timeouts belong here.
	HTTPClient *http.Client
	// Dialer opens the change-feed websocket. If nil,
	// websocket.DefaultDialer is used.
	Dialer *websocket.Dialer
	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Client talks to one ticket API. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	dialer     *websocket.Dialer
	logger     *slog.Logger
}

// NewClient validates the configuration and returns a Client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("ticketclient: URL is required")
	}
	parsed, err := url.Parse(config.URL)
	if err != nil {
		return nil, fmt.Errorf("ticketclient: invalid URL %q: %w", config.URL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("ticketclient: URL %q must use http or https", config.URL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	dialer := config.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.URL, "/"),
		httpClient: httpClient,
		dialer:     dialer,
		logger:     logger,
	}, nil
}

// BaseURL returns the API base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// List fetches every ticket.
func (c *Client) List(ctx context.Context) ([]ticket.Ticket, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/tickets", nil, FallbackList)
	if err != nil {
		return nil, err
	}
	var response ticket.ListResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("ticketclient: decoding ticket list: %w", err)
	}
	if response.Tickets == nil {
		response.Tickets = []ticket.Ticket{}
	}
	return response.Tickets, nil
}

// Create submits a new ticket and returns it as stored by the server.
func (c *Client) Create(ctx context.Context, request ticket.CreateTicketRequest) (ticket.Ticket, error) {
	if request.Labels == nil {
		request.Labels = []string{}
	}
	body, err := c.doRequest(ctx, http.MethodPost, "/tickets", request, FallbackCreate)
	if err != nil {
		return ticket.Ticket{}, err
	}
	return decodeTicket(body)
}

// Update sends the present fields of request and returns the updated
// ticket.
func (c *Client) Update(ctx context.Context, id string, request ticket.UpdateTicketRequest) (ticket.Ticket, error) {
	if id == "" {
		return ticket.Ticket{}, fmt.Errorf("ticketclient: update requires a ticket id")
	}
	body, err := c.doRequest(ctx, http.MethodPut, "/tickets/"+url.PathEscape(id), request, FallbackUpdate)
	if err != nil {
		return ticket.Ticket{}, err
	}
	return decodeTicket(body)
}

// Delete removes a ticket. The response body is ignored.
func (c *Client) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("ticketclient: delete requires a ticket id")
	}
	_, err := c.doRequest(ctx, http.MethodDelete, "/tickets/"+url.PathEscape(id), nil, FallbackDelete)
	return err
}

// Health calls the server's health endpoint.
func (c *Client) Health(ctx context.Context) (ticket.MessageResponse, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/health", nil, FallbackHealth)
	if err != nil {
		return ticket.MessageResponse{}, err
	}
	var response ticket.MessageResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return ticket.MessageResponse{}, fmt.Errorf("ticketclient: decoding health response: %w", err)
	}
	return response, nil
}

func decodeTicket(body []byte) (ticket.Ticket, error) {
	var response ticket.TicketResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return ticket.Ticket{}, fmt.Errorf("ticketclient: decoding ticket: %w", err)
	}
	if response.Ticket.ID == "" {
		return ticket.Ticket{}, fmt.Errorf("ticketclient: response has no ticket")
	}
	return response.Ticket, nil
}

// doRequest performs one API call. On 2xx it returns the body; on any
// other status it returns an *APIError.
func (c *Client) doRequest(ctx context.Context, method, path string, requestBody any, fallback string) ([]byte, error) {
	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("ticketclient: failed to encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("ticketclient: failed to create request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("ticketclient: request to %s %s failed: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("ticketclient: failed to read response body: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}

	apiErr := &APIError{StatusCode: response.StatusCode, Message: fallback}
	var errorBody ticket.ErrorResponse
	if jsonErr := json.Unmarshal(responseBody, &errorBody); jsonErr == nil {
		switch {
		case errorBody.Error != "":
			apiErr.Message, apiErr.FromServer = errorBody.Error, true
		case errorBody.Message != "":
			apiErr.Message, apiErr.FromServer = errorBody.Message, true
		}
	}
	c.logger.Debug("ticket API error",
		"method", method,
		"path", path,
		"status", response.StatusCode,
		"message", apiErr.Message,
	)
	return nil, apiErr
}
