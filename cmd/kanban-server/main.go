// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

// kanban-server serves the ticket API and its change feed from a
// SQLite database.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/kanban-foundation/kanban/lib/apiserver"
	"github.com/kanban-foundation/kanban/lib/config"
	"github.com/kanban-foundation/kanban/lib/process"
	"github.com/kanban-foundation/kanban/lib/schema/ticket"
	"github.com/kanban-foundation/kanban/lib/ticketstore"
	"github.com/kanban-foundation/kanban/lib/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		process.Fatal(err)
	}
}

type options struct {
	configPath  string
	listen      string
	database    string
	seed        string
	demo        bool
	logLevel    string
	showVersion bool
}

func parseFlags(args []string) (options, error) {
	var opts options
	flagSet := pflag.NewFlagSet("kanban-server", pflag.ContinueOnError)
	flagSet.StringVar(&opts.configPath, "config", "", "config file (default $"+config.EnvConfig+")")
	flagSet.StringVar(&opts.listen, "listen", "", "listen address (default :5001)")
	flagSet.StringVar(&opts.database, "database", "", "SQLite database file (default kanban.db)")
	flagSet.StringVar(&opts.seed, "seed", "", "JSONC file of tickets loaded into an empty database")
	flagSet.BoolVar(&opts.demo, "demo", false, "load the demo tickets into an empty database")
	flagSet.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn, or error")
	flagSet.BoolVar(&opts.showVersion, "version", false, "print version information and exit")
	if err := flagSet.Parse(args); err != nil {
		return options{}, err
	}
	if flagSet.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected argument %q", flagSet.Arg(0))
	}
	if opts.demo && opts.seed != "" {
		return options{}, errors.New("--seed and --demo cannot be combined")
	}
	return opts, nil
}

// resolve loads the configuration and lets flags override it.
func (opts options) resolve() (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.listen != "" {
		cfg.Server.Listen = opts.listen
	}
	if opts.database != "" {
		cfg.Server.Database = opts.database
	}
	if opts.seed != "" {
		cfg.Server.Seed = opts.seed
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(args []string) error {
	opts, err := parseFlags(args)
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	if opts.showVersion {
		fmt.Printf("kanban-server %s\n", version.Info())
		return nil
	}

	cfg, err := opts.resolve()
	if err != nil {
		return err
	}
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := ticketstore.Open(ctx, ticketstore.Config{
		Path:   cfg.Server.Database,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	if err := seed(ctx, store, cfg.Server.Seed, opts.demo, logger); err != nil {
		return err
	}

	server := apiserver.NewServer(apiserver.Config{
		Address:        cfg.Server.Listen,
		Store:          store,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         logger,
	})
	logger.Info("kanban-server starting",
		"version", version.Info(),
		"listen", cfg.Server.Listen,
		"database", cfg.Server.Database,
	)
	return server.Serve(ctx)
}

// seed fills an empty store from path or, with demo set, the built-in
// demo tickets. A store that already has tickets is left alone.
func seed(ctx context.Context, store *ticketstore.Store, path string, demo bool, logger *slog.Logger) error {
	var tickets []ticket.Ticket
	switch {
	case path != "":
		loaded, err := ticketstore.LoadSeedFile(path)
		if err != nil {
			return err
		}
		tickets = loaded
	case demo:
		tickets = ticketstore.DemoTickets()
	default:
		return nil
	}

	inserted, err := store.Seed(ctx, tickets)
	if err != nil {
		return err
	}
	if inserted == 0 {
		logger.Info("database already has tickets, not seeding")
		return nil
	}
	logger.Info("seeded database", "tickets", inserted)
	return nil
}
