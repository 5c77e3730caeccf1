// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the kanban command tree.
package commands

import (
	"context"
	"fmt"

	"github.com/kanban-foundation/kanban/cmd/kanban/cli"
	"github.com/kanban-foundation/kanban/lib/version"
)

// Root returns the complete command tree writing to streams.
func Root(streams cli.Streams) *cli.Command {
	return &cli.Command{
		Name: "kanban",
		Description: `kanban: a three-column ticket board.

Tickets live on a kanban-server and move between To Do, In Progress,
and Done. Run 'kanban board' for the interactive board, or use the
other commands from scripts.`,
		Subcommands: []*cli.Command{
			boardCommand(streams),
			listCommand(streams),
			createCommand(streams),
			editCommand(streams),
			moveCommand(streams),
			deleteCommand(streams),
			healthCommand(streams),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string) error {
					if len(args) > 0 {
						return cli.Validation("unexpected argument %q", args[0])
					}
					fmt.Fprintf(streams.Out, "kanban %s\n", version.Full())
					return nil
				},
			},
		},
	}
}
