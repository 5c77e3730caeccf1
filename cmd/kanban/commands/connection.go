// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/spf13/pflag"

	"github.com/kanban-foundation/kanban/cmd/kanban/cli"
	"github.com/kanban-foundation/kanban/lib/board"
	"github.com/kanban-foundation/kanban/lib/config"
	"github.com/kanban-foundation/kanban/lib/ticketclient"
	"github.com/kanban-foundation/kanban/lib/version"
)

// Connection holds the flags every command that talks to the API
// shares. Flags override the config file and the environment.
type Connection struct {
	ConfigPath string
	ServerURL  string
	LogLevel   string
}

// AddFlags registers --config, --server, and --log-level.
func (c *Connection) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&c.ConfigPath, "config", "", "config file (default $"+config.EnvConfig+")")
	flagSet.StringVar(&c.ServerURL, "server", "", "API base URL, such as http://localhost:5001/api")
	flagSet.StringVar(&c.LogLevel, "log-level", "", "debug, info, warn, or error")
}

// session is what a connected command works with.
type session struct {
	config *config.Config
	client *ticketclient.Client
	http   *http.Client
	logger *slog.Logger
	level  slog.Level
}

// connect loads the configuration, applies the flags, and builds the
// API client and command logger.
func (c *Connection) connect(streams cli.Streams, command string) (*session, error) {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, cli.Validation("%w", err).WithHint("Check the config file and KANBAN_* environment variables.")
	}
	if c.ServerURL != "" {
		cfg.Client.ServerURL = c.ServerURL
	}
	if c.LogLevel != "" {
		cfg.Log.Level = c.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("%w", err)
	}
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, cli.Validation("%w", err)
	}

	logger := cli.NewCommandLogger(streams, level).With("command", command)
	httpClient := &http.Client{
		Timeout:   time.Duration(cfg.Client.Timeout),
		Transport: userAgent{base: http.DefaultTransport},
	}
	client, err := ticketclient.NewClient(ticketclient.ClientConfig{
		URL:        cfg.Client.ServerURL,
		HTTPClient: httpClient,
		Logger:     logger,
	})
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	return &session{config: cfg, client: client, http: httpClient, logger: logger, level: level}, nil
}

// userAgent stamps outgoing requests with the build version.
type userAgent struct {
	base http.RoundTripper
}

func (u userAgent) RoundTrip(request *http.Request) (*http.Response, error) {
	request = request.Clone(request.Context())
	request.Header.Set("User-Agent", version.UserAgent())
	return u.base.RoundTrip(request)
}

// classify turns a board or client error into a categorized command
// error, keeping the user-facing message the board would show.
func classify(err error, fallback string) error {
	if err == nil {
		return nil
	}
	message := board.Message(err, fallback)

	var validationErr *board.ValidationError
	if errors.As(err, &validationErr) || errors.Is(err, board.ErrInvalidMove) {
		return &cli.ToolError{Category: cli.CategoryValidation, Err: errors.New(message)}
	}

	var apiErr *ticketclient.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusNotFound:
			return &cli.ToolError{Category: cli.CategoryNotFound, Err: errors.New(message)}
		case apiErr.StatusCode == http.StatusBadRequest:
			return &cli.ToolError{Category: cli.CategoryValidation, Err: errors.New(message)}
		case apiErr.StatusCode >= http.StatusInternalServerError:
			return &cli.ToolError{Category: cli.CategoryTransient, Err: errors.New(message)}
		}
		return &cli.ToolError{Category: cli.CategoryInternal, Err: errors.New(message)}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return (&cli.ToolError{Category: cli.CategoryTransient, Err: errors.Join(errors.New(message), err)}).
			WithHint("Is kanban-server running? Set --server or " + config.EnvServerURL + ".")
	}
	return &cli.ToolError{Category: cli.CategoryInternal, Err: errors.Join(errors.New(message), err)}
}
