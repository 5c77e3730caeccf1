// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/kanban-foundation/kanban/cmd/kanban/cli"
	"github.com/kanban-foundation/kanban/lib/board"
	"github.com/kanban-foundation/kanban/lib/schema/ticket"
	"github.com/kanban-foundation/kanban/lib/ticketclient"
)

type listParams struct {
	Connection
	cli.JSONOutput
	Status string `flag:"status,s" desc:"only show one column (todo, in-progress, done)"`
	Sort   string `flag:"sort" desc:"order within a column: created or priority" default:"created"`
}

func listCommand(streams cli.Streams) *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List tickets by column",
		Description: `Print every ticket grouped into the To Do, In Progress, and Done
columns. Within a column tickets keep creation order unless --sort
priority is given, which puts high priority first.`,
		Usage: "kanban list [flags]",
		Examples: []cli.Example{
			{Description: "Show the board as a table", Command: "kanban list"},
			{Description: "High priority work in progress", Command: "kanban list --status in-progress --sort priority"},
			{Description: "Machine-readable output", Command: "kanban list --json"},
		},
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("list", &params) },
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q", args[0])
			}
			status := ticket.Status(params.Status)
			if status != "" && !status.IsValid() {
				return cli.Validation("--status must be todo, in-progress, or done, got %q", params.Status)
			}
			if params.Sort != "created" && params.Sort != "priority" {
				return cli.Validation("--sort must be created or priority, got %q", params.Sort)
			}

			conn, err := params.connect(streams, "list")
			if err != nil {
				return err
			}
			tickets, err := conn.client.List(ctx)
			if err != nil {
				return classify(err, ticketclient.FallbackList)
			}

			columns := board.Partition(tickets)
			if status != "" {
				columns = slices.DeleteFunc(columns, func(column ticket.Column) bool {
					return column.Status != status
				})
			}
			if params.Sort == "priority" {
				for _, column := range columns {
					sortByPriority(column.Tickets)
				}
			}

			if done, err := params.EmitJSON(streams.Out, columnOutputs(columns)); done {
				return err
			}
			return writeColumns(streams.Out, columns)
		},
	}
}

// columnOutput is the --json form of a column.
type columnOutput struct {
	Status  ticket.Status   `json:"status"`
	Title   string          `json:"title"`
	Tickets []ticket.Ticket `json:"tickets"`
}

func columnOutputs(columns []ticket.Column) []columnOutput {
	outputs := make([]columnOutput, len(columns))
	for index, column := range columns {
		outputs[index] = columnOutput{Status: column.Status, Title: column.Title, Tickets: column.Tickets}
	}
	return outputs
}

// sortByPriority orders high before medium before low, keeping
// creation order among equals.
func sortByPriority(tickets []ticket.Ticket) {
	slices.SortStableFunc(tickets, func(a, b ticket.Ticket) int {
		return a.Priority.Rank() - b.Priority.Rank()
	})
}

func writeColumns(w io.Writer, columns []ticket.Column) error {
	tw := tabwriter.NewWriter(w, 2, 0, 2, ' ', 0)
	for index, column := range columns {
		if index > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "%s (%d)\n", ticket.ColumnTitle(column.Status), len(column.Tickets))
		if len(column.Tickets) == 0 {
			fmt.Fprintln(tw, "  No tickets")
			continue
		}
		for _, item := range column.Tickets {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n",
				item.ID, item.Priority, item.Title, strings.Join(item.Labels, ","))
		}
	}
	return tw.Flush()
}
