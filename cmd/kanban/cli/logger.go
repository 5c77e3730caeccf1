// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"log/slog"
)

// NewCommandLogger returns a logger writing to streams.Err: text when
// it is a terminal, JSON otherwise.
//
// Commands scope it with With:
//
//	logger := cli.NewCommandLogger(streams, level).With("command", "move")
func NewCommandLogger(streams Streams, level slog.Level) *slog.Logger {
	return slog.New(newHandler(streams.Err, streams.IsTerminal(streams.Err), level))
}

func newHandler(w io.Writer, terminal bool, level slog.Level) slog.Handler {
	options := &slog.HandlerOptions{Level: level}
	if terminal {
		return slog.NewTextHandler(w, options)
	}
	return slog.NewJSONHandler(w, options)
}
