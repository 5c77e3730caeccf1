// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/kanban-foundation/kanban/cmd/kanban/cli"
	"github.com/kanban-foundation/kanban/lib/board"
	"github.com/kanban-foundation/kanban/lib/boardui"
	"github.com/kanban-foundation/kanban/lib/schema/ticket"
	"github.com/kanban-foundation/kanban/lib/ticketclient"
)

// watchRetryDelay is the pause before reconnecting a dropped change
// feed.
const watchRetryDelay = 5 * time.Second

type boardParams struct {
	Connection
	Watch   bool `flag:"watch,w" desc:"refresh when the server reports changes"`
	NoWatch bool `flag:"no-watch" desc:"never subscribe to the change feed, even if configured"`
}

func boardCommand(streams cli.Streams) *cli.Command {
	var params boardParams

	return &cli.Command{
		Name:    "board",
		Summary: "Open the interactive board",
		Description: `Open the three-column board in the terminal. Cards can be dragged
between columns with the mouse, or grabbed with space and carried with
h and l. The status bar lists the main keys.

With --watch (or client.watch in the config file) the board subscribes
to the server's change feed and reloads whenever another client
changes a ticket.`,
		Usage: "kanban board [flags]",
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("board", &params) },
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q", args[0])
			}
			if params.Watch && params.NoWatch {
				return cli.Validation("--watch and --no-watch cannot be combined")
			}
			if !streams.Interactive() {
				return cli.Validation("the board needs a terminal").
					WithHint("Use 'kanban list' for non-interactive output.")
			}

			conn, err := params.connect(streams, "board")
			if err != nil {
				return err
			}
			watch := (conn.config.Client.Watch || params.Watch) && !params.NoWatch
			return runBoard(ctx, conn, watch)
		},
	}
}

// runBoard runs the TUI until the user quits. Log records from the
// board's components go to its status bar instead of the terminal.
func runBoard(ctx context.Context, conn *session, watch bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	handler := boardui.NewLogHandler(conn.level)
	logger := slog.New(handler)

	client, err := ticketclient.NewClient(ticketclient.ClientConfig{
		URL:        conn.client.BaseURL(),
		HTTPClient: conn.http,
		Logger:     logger,
	})
	if err != nil {
		return cli.Validation("%w", err)
	}

	service := board.NewService(client, logger)
	model := boardui.NewModel(ctx, board.NewSession(service, logger), logger)
	defer model.Close()

	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)
	handler.SetProgram(program)

	if watch {
		go watchChanges(ctx, client, service, logger)
	}

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return cli.Internal("board: %w", err)
	}
	return nil
}

// watchChanges refreshes the service on every change event, and
// reconnects after watchRetryDelay when the feed drops, until ctx is
// done.
func watchChanges(ctx context.Context, client *ticketclient.Client, service *board.Service, logger *slog.Logger) {
	for {
		err := client.Watch(ctx, func(event ticket.ChangeEvent) {
			logger.Debug("ticket changed elsewhere", "kind", event.Kind, "ticket_id", event.TicketID)
			if err := service.Refresh(ctx); err != nil && ctx.Err() == nil {
				logger.Warn("refresh after change failed", "error", err)
			}
		})
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			logger.Warn("change feed disconnected", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(watchRetryDelay):
		}
		if err := service.Refresh(ctx); err != nil && ctx.Err() == nil {
			logger.Debug("refresh after reconnect failed", "error", err)
		}
	}
}
