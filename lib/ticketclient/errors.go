// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package ticketclient

import (
	"errors"
	"net/http"
)

// Generic messages used when a failed response has no usable body.
const (
	FallbackList   = "Failed to load tickets"
	FallbackCreate = "Failed to create ticket"
	FallbackUpdate = "Failed to update ticket"
	FallbackDelete = "Failed to delete ticket"
	FallbackHealth = "Health check failed"
)

// APIError is a non-2xx response from the ticket API. Extract it with
// errors.As:
//
//	var apiErr *ticketclient.APIError
//	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound { ... }
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int
	// Message is the server-provided text, or the operation's fallback.
	Message string
	// FromServer is true when Message came from the response body.
	FromServer bool
}

// Error returns the message unchanged so it can be displayed as-is.
func (e *APIError) Error() string {
	return e.Message
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
