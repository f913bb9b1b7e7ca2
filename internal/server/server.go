// Package server provides the optional admin HTTP API: health checks, a
// status view mirroring the chat `status` verb, and live log streaming.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/T-One/krang/internal/config"
	"github.com/T-One/krang/internal/container"
	"github.com/T-One/krang/internal/db"
	"github.com/T-One/krang/internal/logger"
	"github.com/T-One/krang/internal/registry"
)

// Server is the admin HTTP server. It is read-only: container lifecycle
// changes go through the chat interface.
type Server struct {
	cfg      *config.ServerConfig
	echo     *echo.Echo
	registry *registry.Registry
	runtime  container.Runtime
	db       *db.DB
	logTail  int
	timeout  time.Duration
}

// New creates the admin server. db may be nil when the audit log is disabled.
func New(cfg *config.ServerConfig, reg *registry.Registry, rt container.Runtime, database *db.DB, logTail int, timeout time.Duration) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(logger.RequestLogger())

	s := &Server{
		cfg:      cfg,
		echo:     e,
		registry: reg,
		runtime:  rt,
		db:       database,
		logTail:  logTail,
		timeout:  timeout,
	}
	s.setupRoutes()
	return s
}

// Start runs the server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", addr).Info("Admin server listening")
		if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	}
}

// Echo exposes the underlying echo instance for handler tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
