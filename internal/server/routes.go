package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/T-One/krang/internal/errors"
	"github.com/T-One/krang/internal/registry"
)

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status   string `json:"status"`
	Runtime  bool   `json:"runtime_available"`
	Database string `json:"database"`
}

// StatusEntry is one container row in the /api/status payload.
type StatusEntry struct {
	Name    string `json:"name"`
	State   string `json:"state"`
	Running bool   `json:"running"`
	Address string `json:"address"`
	Port    string `json:"port"`
}

// LogsResponse is the /api/containers/:name/logs payload.
type LogsResponse struct {
	Name string `json:"name"`
	Tail int    `json:"tail"`
	Logs string `json:"logs"`
}

// ErrorResponse is the generic error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// handleError converts errors to appropriate HTTP responses
func handleError(c echo.Context, err error, defaultMessage string) error {
	if ke, ok := err.(*errors.KrangError); ok {
		return echo.NewHTTPError(ke.GetHTTPStatus(), ke.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, defaultMessage+": "+err.Error())
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.handleHealth)

	api := s.echo.Group("/api")
	api.GET("/status", s.handleStatus)

	containers := api.Group("/containers")
	containers.GET("/:name/logs", s.handleLogs)
	containers.GET("/:name/logs/stream", s.handleLogStream)
}

func (s *Server) handleHealth(c echo.Context) error {
	dbStatus := "disabled"
	if s.db != nil {
		dbStatus = "ok"
		if err := s.db.HealthCheck(c.Request().Context()); err != nil {
			dbStatus = "unreachable"
		}
	}

	return c.JSON(http.StatusOK, HealthResponse{
		Status:   "ok",
		Runtime:  s.runtime.IsAvailable(c.Request().Context()),
		Database: dbStatus,
	})
}

// handleStatus mirrors the chat `status` verb: one entry per registry
// container, live state fetched per request.
func (s *Server) handleStatus(c echo.Context) error {
	entries := make([]StatusEntry, 0, s.registry.Len())
	for _, spec := range s.registry.All() {
		entries = append(entries, s.statusEntry(c.Request().Context(), spec))
	}
	return c.JSON(http.StatusOK, entries)
}

func (s *Server) statusEntry(ctx context.Context, spec *registry.ContainerSpec) StatusEntry {
	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	entry := StatusEntry{
		Name:    spec.Name,
		State:   "not found",
		Address: spec.Address,
		Port:    spec.Port,
	}

	ct, err := s.runtime.Inspect(opCtx, spec.Name)
	switch {
	case err == nil:
		entry.State = ct.State
		entry.Running = ct.Running
	case errors.HasCode(err, errors.ErrContainerNotFound):
		// keep "not found"
	default:
		entry.State = "offline"
	}
	return entry
}

func (s *Server) handleLogs(c echo.Context) error {
	name := c.Param("name")
	spec, ok := s.registry.Resolve(name)
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "container not in registry: " + name})
	}

	tail := s.logTail
	if t := c.QueryParam("tail"); t != "" {
		parsed, err := strconv.Atoi(t)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid tail parameter"})
		}
		tail = parsed
	}

	opCtx, cancel := context.WithTimeout(c.Request().Context(), s.timeout)
	defer cancel()

	logs, err := s.runtime.Logs(opCtx, spec.Name, tail)
	if err != nil {
		return handleError(c, err, "failed to fetch logs")
	}

	return c.JSON(http.StatusOK, LogsResponse{
		Name: spec.Name,
		Tail: tail,
		Logs: logs,
	})
}
