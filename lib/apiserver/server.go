// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package apiserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/mux"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/cors"

	"github.com/kanban-foundation/kanban/lib/clock"
	"github.com/kanban-foundation/kanban/lib/schema/ticket"
)

// Store is the ticket storage the server needs. *ticketstore.Store
// implements it.
type Store interface {
	List(ctx context.Context) ([]ticket.Ticket, error)
	Create(ctx context.Context, t ticket.Ticket) (ticket.Ticket, error)
	Update(ctx context.Context, id string, apply func(ticket.Ticket) ticket.Ticket) (ticket.Ticket, error)
	Delete(ctx context.Context, id string) error
}

// Config configures a Server.
type Config struct {
	// Address is the TCP listen address, such as ":5001". Port 0
	// picks a free port; see Addr. Required.
	Address string

	// Store holds the tickets. Required.
	Store Store

	// AllowedOrigins lists the CORS origins. Defaults to "*".
	AllowedOrigins []string

	// PingInterval is how often change feed connections are pinged.
	// A peer that misses a pong for slightly longer is dropped.
	// Defaults to 54 seconds.
	PingInterval time.Duration

	// ShutdownTimeout bounds the wait for in-flight requests after
	// the context is cancelled. Defaults to 10 seconds.
	ShutdownTimeout time.Duration

	// Clock drives the ping ticker. Defaults to the real clock.
	Clock clock.Clock

	// Logger is the structured logger. Required.
	Logger *slog.Logger
}

// Server serves the ticket API on a TCP listener.
type Server struct {
	address         string
	store           Store
	origins         []string
	shutdownTimeout time.Duration
	clock           clock.Clock
	logger          *slog.Logger
	hub             *Hub
	handler         http.Handler

	// ready is closed after the listener is bound.
	ready chan struct{}

	// addr is the resolved listen address, valid once ready is
	// closed.
	addr net.Addr
}

// NewServer creates a server. Call Serve to start it.
func NewServer(config Config) *Server {
	if config.Address == "" {
		panic("apiserver: Address is required")
	}
	if config.Store == nil {
		panic("apiserver: Store is required")
	}
	if config.Logger == nil {
		panic("apiserver: Logger is required")
	}
	if len(config.AllowedOrigins) == 0 {
		config.AllowedOrigins = []string{"*"}
	}
	if config.PingInterval <= 0 {
		config.PingInterval = defaultPingInterval
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 10 * time.Second
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}

	server := &Server{
		address:         config.Address,
		store:           config.Store,
		origins:         config.AllowedOrigins,
		shutdownTimeout: config.ShutdownTimeout,
		clock:           config.Clock,
		logger:          config.Logger,
		hub:             NewHub(config.Logger, config.Clock, config.PingInterval),
		ready:           make(chan struct{}),
	}
	server.handler = server.routes()
	return server
}

// routes builds the router. REST responses are gzip-compressed on
// request; the websocket route is left unwrapped so the connection can
// be hijacked.
func (s *Server) routes() http.Handler {
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)

	api.Handle("/health", compressed(s.handleHealth)).Methods(http.MethodGet)
	api.Handle("/tickets", compressed(s.handleList)).Methods(http.MethodGet)
	api.Handle("/tickets", compressed(s.handleCreate)).Methods(http.MethodPost)
	api.Handle("/tickets/{id}", compressed(s.handleUpdate)).Methods(http.MethodPut)
	api.Handle("/tickets/{id}", compressed(s.handleDelete)).Methods(http.MethodDelete)

	router.NotFoundHandler = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writeError(writer, s.logger, http.StatusNotFound, "Not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writeError(writer, s.logger, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "Authorization", "If-None-Match"},
		ExposedHeaders: []string{"ETag"},
	}).Handler(router)
}

func compressed(handler http.HandlerFunc) http.Handler {
	return gzhttp.GzipHandler(handler)
}

// Handler returns the server's HTTP handler, for mounting under a
// different listener.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Ready returns a channel that is closed once the server is bound and
// accepting connections.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the resolved listen address. Only valid after Ready is
// closed.
func (s *Server) Addr() net.Addr {
	return s.addr
}

// Serve accepts connections until ctx is cancelled, then closes the
// change feed and waits up to ShutdownTimeout for active requests.
func (s *Server) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("apiserver: listening on %s: %w", s.address, err)
	}
	s.addr = listener.Addr()
	close(s.ready)

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	hubDone := make(chan struct{})
	go func() {
		s.hub.Run(hubCtx)
		close(hubDone)
	}()

	server := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.Info("api server listening", "address", s.addr.String())

	serveDone := make(chan error, 1)
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveDone <- err
		}
		close(serveDone)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("api server shutting down")
	case err := <-serveDone:
		stopHub()
		<-hubDone
		if err != nil {
			return fmt.Errorf("apiserver: %w", err)
		}
		return nil
	}

	// Websocket connections are hijacked and invisible to Shutdown, so
	// the hub closes them itself.
	stopHub()
	<-hubDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("api server shutdown error", "error", err)
		return fmt.Errorf("apiserver: shutdown: %w", err)
	}

	s.logger.Info("api server stopped")
	return nil
}

// originAllowed applies the CORS origin list to websocket upgrades.
func (s *Server) originAllowed(request *http.Request) bool {
	origin := request.Header.Get("Origin")
	if origin == "" || slices.Contains(s.origins, "*") {
		return true
	}
	return slices.Contains(s.origins, origin)
}
