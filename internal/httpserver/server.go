package httpserver

import (
	"errors"
	"net"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Server wraps http.Server with listen address validation.
type Server struct {
	server   *http.Server
	listener net.Listener
}

// New creates an HTTP server for addr. The address is validated before
// the server is created.
func New(addr string, handler http.Handler) (*Server, error) {
	if err := validateAddr(addr); err != nil {
		return nil, err
	}

	srv := &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}

	return srv, nil
}

// Addr returns the address the server listens on.
func (s *Server) Addr() string {
	return s.server.Addr
}

// Listen binds the listen address without serving yet. A port that is
// already in use fails here, before Start.
func (s *Server) Listen() error {
	if s.listener != nil {
		return nil
	}

	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	s.listener = ln

	return nil
}

// Start serves HTTP requests, binding the address first if Listen was not
// called. Returns an error unless the server was closed.
func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}

	err := s.server.Serve(s.listener)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Close stops the listener and drops active connections without waiting
// for in-flight requests.
func (s *Server) Close() error {
	err := s.server.Close()
	if s.listener != nil {
		// Serve may not have taken ownership of the listener yet.
		if lerr := s.listener.Close(); lerr != nil && !errors.Is(lerr, net.ErrClosed) && err == nil {
			err = lerr
		}
	}

	return err
}

func validateAddr(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}

	if err := validation.Validate(port, validation.Required, is.Port); err != nil {
		return validation.NewError("validation_invalid_port", "port must be a number between 1 and 65535")
	}

	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}

	return nil
}
