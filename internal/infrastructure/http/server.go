package http

import (
	"context"
	"errors"
	nethttp "net/http"
	"strings"
	"time"
)

const (
	maxHeaderBytes    = 1 << 20
	readHeaderTimeout = 10 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
)

// Server wraps an *http.Server to provide start/shutdown lifecycle.
type Server struct {
	httpServer *nethttp.Server
}

// NewServer configures a server for port ("8080", ":8080" or "host:port").
func NewServer(port string, handler nethttp.Handler) *Server {
	return &Server{httpServer: &nethttp.Server{
		Addr:              normalizeAddr(port),
		Handler:           handler,
		MaxHeaderBytes:    maxHeaderBytes,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}}
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Run blocks serving requests. It returns nil after a graceful Shutdown.
func (s *Server) Run() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server, allowing in-flight requests to complete.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func normalizeAddr(port string) string {
	if port == "" {
		port = "8080"
	}
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}
