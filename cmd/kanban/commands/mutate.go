// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/kanban-foundation/kanban/cmd/kanban/cli"
	"github.com/kanban-foundation/kanban/lib/board"
	"github.com/kanban-foundation/kanban/lib/schema/ticket"
	"github.com/kanban-foundation/kanban/lib/ticketclient"
)

// --- create ---

type createParams struct {
	Connection
	cli.JSONOutput
	Title       string   `flag:"title,t" desc:"ticket title (at least 3 characters)"`
	Description string   `flag:"description,d" desc:"ticket description (at least 10 characters)"`
	Priority    string   `flag:"priority,p" desc:"low, medium, or high" default:"medium"`
	Labels      []string `flag:"label,l" desc:"label to attach (repeatable)"`
}

func createCommand(streams cli.Streams) *cli.Command {
	var params createParams

	return &cli.Command{
		Name:    "create",
		Summary: "Create a ticket in To Do",
		Description: `Create a ticket. New tickets always start in the To Do column. The
title and description are trimmed and checked with the same rules as
the board's create form before anything is sent.`,
		Usage: "kanban create --title TITLE --description TEXT [flags]",
		Examples: []cli.Example{
			{
				Description: "File a high priority bug",
				Command:     `kanban create -t "Fix login" -d "Users cannot sign in with SSO" -p high -l bug -l auth`,
			},
		},
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("create", &params) },
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q", args[0])
			}

			form := board.NewCreateForm()
			form.Title = params.Title
			form.Description = params.Description
			form.Priority = ticket.Priority(params.Priority)
			for _, label := range params.Labels {
				form.AddLabel(label)
			}
			if err := form.Validate(); err != nil {
				return classify(err, ticketclient.FallbackCreate)
			}

			conn, err := params.connect(streams, "create")
			if err != nil {
				return err
			}
			created, _, err := form.Submit(ctx, conn.client)
			if err != nil {
				return classify(err, ticketclient.FallbackCreate)
			}
			conn.logger.Debug("ticket created", "ticket_id", created.ID)

			if done, err := params.EmitJSON(streams.Out, created); done {
				return err
			}
			return writeTicket(streams.Out, "Created", created)
		},
	}
}

// --- edit ---

type editParams struct {
	Connection
	cli.JSONOutput
	Title       string   `flag:"title,t" desc:"new title"`
	Description string   `flag:"description,d" desc:"new description"`
	Priority    string   `flag:"priority,p" desc:"new priority (low, medium, high)"`
	Status      string   `flag:"status,s" desc:"new status (todo, in-progress, done)"`
	Labels      []string `flag:"label,l" desc:"replace the labels (repeatable)"`
	ClearLabels bool     `flag:"clear-labels" desc:"remove every label"`
}

func editCommand(streams cli.Streams) *cli.Command {
	var params editParams

	return &cli.Command{
		Name:    "edit",
		Summary: "Change a ticket's fields",
		Description: `Edit a ticket. Only flags that are given change anything, and only
fields whose value actually differs are sent to the server. Editing a
ticket into its current state succeeds without a request.

--label replaces the whole label list; --clear-labels empties it.`,
		Usage: "kanban edit <ticket-id> [flags]",
		Examples: []cli.Example{
			{Description: "Raise the priority", Command: "kanban edit 3 --priority high"},
			{Description: "Relabel a ticket", Command: "kanban edit 3 -l frontend -l ui"},
		},
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("edit", &params) },
		Run: func(ctx context.Context, args []string) error {
			id, err := singleID(args)
			if err != nil {
				return err
			}
			if params.ClearLabels && len(params.Labels) > 0 {
				return cli.Validation("--label and --clear-labels cannot be combined")
			}

			conn, err := params.connect(streams, "edit")
			if err != nil {
				return err
			}
			current, err := lookup(ctx, board.NewService(conn.client, conn.logger), id)
			if err != nil {
				return err
			}

			form := board.NewEditForm(current)
			if params.Title != "" {
				form.Title = params.Title
			}
			if params.Description != "" {
				form.Description = params.Description
			}
			if params.Priority != "" {
				form.Priority = ticket.Priority(params.Priority)
			}
			if params.Status != "" {
				form.Status = ticket.Status(params.Status)
			}
			if params.ClearLabels || len(params.Labels) > 0 {
				form.Labels = []string{}
				for _, label := range params.Labels {
					form.AddLabel(label)
				}
			}

			updated, sent, err := form.Submit(ctx, conn.client)
			if err != nil {
				return classify(err, ticketclient.FallbackUpdate)
			}
			if !sent {
				updated = current
				fmt.Fprintf(streams.Err, "No changes to %s.\n", id)
			}

			if done, err := params.EmitJSON(streams.Out, updated); done {
				return err
			}
			if !sent {
				return nil
			}
			return writeTicket(streams.Out, "Updated", updated)
		},
	}
}

// --- move ---

type moveParams struct {
	Connection
	cli.JSONOutput
}

func moveCommand(streams cli.Streams) *cli.Command {
	var params moveParams

	return &cli.Command{
		Name:    "move",
		Summary: "Move a ticket to another column",
		Description: `Move a ticket to the todo, in-progress, or done column. This is the
command-line form of dragging a card onto a column.`,
		Usage: "kanban move <ticket-id> <status>",
		Examples: []cli.Example{
			{Description: "Start work on a ticket", Command: "kanban move 3 in-progress"},
		},
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("move", &params) },
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 2 {
				return cli.Validation("expected <ticket-id> <status>, got %d arguments", len(args))
			}
			request := board.MoveRequest{TicketID: args[0], Status: ticket.Status(args[1])}
			if !request.Status.IsValid() {
				return cli.Validation("status must be todo, in-progress, or done, got %q", args[1])
			}

			conn, err := params.connect(streams, "move")
			if err != nil {
				return err
			}
			session := board.NewSession(board.NewService(conn.client, conn.logger), conn.logger)
			moved, err := session.Move(ctx, request)
			if err != nil {
				return classify(err, ticketclient.FallbackUpdate)
			}

			if done, err := params.EmitJSON(streams.Out, moved); done {
				return err
			}
			fmt.Fprintf(streams.Out, "Moved %s to %s\n", moved.ID, ticket.ColumnTitle(moved.Status))
			return nil
		},
	}
}

// --- delete ---

type deleteParams struct {
	Connection
	Yes bool `flag:"yes,y" desc:"delete without asking"`
}

func deleteCommand(streams cli.Streams) *cli.Command {
	var params deleteParams

	return &cli.Command{
		Name:    "delete",
		Summary: "Delete a ticket",
		Description: `Delete a ticket after confirmation. Without a terminal to ask on,
--yes is required.`,
		Usage: "kanban delete <ticket-id> [--yes]",
		Examples: []cli.Example{
			{Description: "Delete from a script", Command: "kanban delete 3 --yes"},
		},
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("delete", &params) },
		Run: func(ctx context.Context, args []string) error {
			id, err := singleID(args)
			if err != nil {
				return err
			}
			if !params.Yes && !streams.Interactive() {
				return cli.Validation("refusing to delete %s without confirmation", id).
					WithHint("Pass --yes to delete non-interactively.")
			}

			conn, err := params.connect(streams, "delete")
			if err != nil {
				return err
			}
			service := board.NewService(conn.client, conn.logger)
			target, err := lookup(ctx, service, id)
			if err != nil {
				return err
			}

			confirm := board.Confirmed
			var promptErr error
			if !params.Yes {
				confirm = func(prompt string) bool {
					fmt.Fprintf(streams.Out, "%s: %s\n", target.ID, target.Title)
					ok, err := streams.Confirm(prompt)
					promptErr = err
					return ok
				}
			}

			session := board.NewSession(service, conn.logger)
			attempted, err := session.Delete(ctx, target, confirm)
			switch {
			case promptErr != nil:
				return promptErr
			case err != nil:
				return classify(err, ticketclient.FallbackDelete)
			case !attempted:
				fmt.Fprintln(streams.Out, "Cancelled.")
				return nil
			}
			fmt.Fprintf(streams.Out, "Deleted %s\n", target.ID)
			return nil
		},
	}
}

// singleID returns the only positional argument.
func singleID(args []string) (string, error) {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return "", cli.Validation("expected exactly one <ticket-id>")
	}
	return args[0], nil
}

// lookup loads the board and returns the ticket with id.
func lookup(ctx context.Context, service *board.Service, id string) (ticket.Ticket, error) {
	if err := service.Start(ctx); err != nil {
		return ticket.Ticket{}, classify(err, ticketclient.FallbackList)
	}
	found, ok := service.Get(id)
	if !ok {
		return ticket.Ticket{}, cli.NotFound("ticket %s not found", id).
			WithHint("Run 'kanban list' to see ticket ids.")
	}
	return found, nil
}

func writeTicket(w io.Writer, verb string, item ticket.Ticket) error {
	labels := "none"
	if len(item.Labels) > 0 {
		labels = strings.Join(item.Labels, ", ")
	}
	_, err := fmt.Fprintf(w, "%s %s: %s\n  status: %s  priority: %s  labels: %s\n",
		verb, item.ID, item.Title, item.Status, item.Priority, labels)
	return err
}
