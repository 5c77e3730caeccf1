// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

// kanban is the command-line client: an interactive board plus
// scriptable list, create, edit, move, and delete commands.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/kanban-foundation/kanban/cmd/kanban/cli"
	"github.com/kanban-foundation/kanban/cmd/kanban/commands"
	"github.com/kanban-foundation/kanban/lib/process"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	streams := cli.StandardStreams()
	return commands.Root(streams).Execute(ctx, os.Args[1:], streams.Out)
}
