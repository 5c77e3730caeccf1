// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides HTTP and connection helpers shared by the
// ticket API client and the reference server.
//
// Response reads are bounded at MaxResponseSize so a misbehaving server
// cannot exhaust client memory. Request bodies on the server side are
// bounded the same way through MaxRequestSize.
package netutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// MaxResponseSize bounds JSON API response reads: 256 MB.
const MaxResponseSize int64 = 256 << 20

// MaxRequestSize bounds JSON request bodies accepted by the server.
// A ticket with a long description fits comfortably.
const MaxRequestSize int64 = 1 << 20

// ReadResponse reads a JSON API response body up to MaxResponseSize
// bytes. Use instead of io.ReadAll on HTTP response bodies.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// DecodeRequest reads a JSON request body up to MaxRequestSize bytes and
// decodes it into v.
func DecodeRequest(request *http.Request, v any) error {
	data, err := io.ReadAll(io.LimitReader(request.Body, MaxRequestSize))
	if err != nil {
		return fmt.Errorf("reading request body: %w", err)
	}
	if len(data) == 0 {
		return fmt.Errorf("empty request body")
	}
	return json.Unmarshal(data, v)
}

// WriteJSON writes v as the JSON response body with the given status.
// Encoding errors are returned for logging; the status line has already
// been sent by then.
func WriteJSON(writer http.ResponseWriter, status int, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(writer, `{"error":"internal encoding error"}`, http.StatusInternalServerError)
		return fmt.Errorf("encoding response: %w", err)
	}
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_, err = writer.Write(data)
	return err
}
