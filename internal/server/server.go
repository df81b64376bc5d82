package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/haguru/bloguser/internal/interfaces"
)

var (
	ReadTimeout       = 10 * time.Second
	ReadHeaderTimeout = 5 * time.Second
	WriteTimeout      = 10 * time.Second
	IdleTimeout       = 30 * time.Second
)

const (
	ErrEmptyRoute      = "route cannot be empty"
	ErrNilHandler      = "handler cannot be nil"
	ErrStartingServer  = "failed to start server"
	ErrStoppingServer  = "failed to shut down server"
	MsgRouteAdded      = "Route added"
	MsgStartingServer  = "Starting server"
	MsgServerStopped   = "Server stopped"
	MsgStoppingServer  = "Shutting down server"
	MsgServerListening = "Server listening"
)

type Server struct {
	Port   string
	Host   string
	server *http.Server
	mux    *http.ServeMux
	Logger interfaces.Logger
}

// NewServer creates a new Server instance with the specified host and port.
func NewServer(host, port string, logger interfaces.Logger) *Server {
	mux := http.NewServeMux()
	server := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           mux,
		ReadTimeout:       ReadTimeout,
		ReadHeaderTimeout: ReadHeaderTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}

	return &Server{
		Host:   host,
		Port:   port,
		server: server,
		mux:    mux,
		Logger: logger,
	}
}

// AddRoute registers handler for a ServeMux pattern.
func (s *Server) AddRoute(route string, handler http.Handler) error {
	if route == "" {
		return errors.New(ErrEmptyRoute)
	}
	if handler == nil {
		return errors.New(ErrNilHandler)
	}
	s.mux.Handle(route, handler)
	s.Logger.Info(MsgRouteAdded, "route", route)
	return nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe blocks until the server stops. A stop caused by Shutdown is
// not an error.
func (s *Server) ListenAndServe() error {
	s.Logger.Info(MsgStartingServer, "host", s.Host, "port", s.Port)
	err := s.server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.Logger.Error(ErrStartingServer, "error", err)
		return fmt.Errorf("%s: %w", ErrStartingServer, err)
	}

	s.Logger.Info(MsgServerStopped)
	return nil
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(l net.Listener) error {
	s.Logger.Info(MsgServerListening, "addr", l.Addr().String())
	err := s.server.Serve(l)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.Logger.Error(ErrStartingServer, "error", err)
		return fmt.Errorf("%s: %w", ErrStartingServer, err)
	}

	s.Logger.Info(MsgServerStopped)
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Logger.Info(MsgStoppingServer)
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrStoppingServer, err)
	}
	return nil
}
