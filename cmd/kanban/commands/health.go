// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/kanban-foundation/kanban/cmd/kanban/cli"
	"github.com/kanban-foundation/kanban/lib/ticketclient"
)

type healthParams struct {
	Connection
	cli.JSONOutput
}

func healthCommand(streams cli.Streams) *cli.Command {
	var params healthParams

	return &cli.Command{
		Name:    "health",
		Summary: "Check that the server is reachable",
		Description: `Call the server's health endpoint and print its reply. Exits 4 when
the server cannot be reached.`,
		Usage: "kanban health [flags]",
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("health", &params) },
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q", args[0])
			}
			conn, err := params.connect(streams, "health")
			if err != nil {
				return err
			}
			response, err := conn.client.Health(ctx)
			if err != nil {
				return classify(err, ticketclient.FallbackHealth)
			}
			if done, err := params.EmitJSON(streams.Out, response); done {
				return err
			}
			fmt.Fprintf(streams.Out, "%s: %s\n", conn.client.BaseURL(), response.Message)
			return nil
		},
	}
}
