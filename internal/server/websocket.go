package server

import (
	"bufio"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/T-One/krang/internal/logger"
)

// upgrader accepts localhost origins only; the admin server is not meant to
// be exposed.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}

		allowedOrigins := []string{
			"http://localhost",
			"https://localhost",
			"http://127.0.0.1",
			"https://127.0.0.1",
			"http://[::1]",
			"https://[::1]",
		}
		for _, allowed := range allowedOrigins {
			if strings.HasPrefix(origin, allowed) {
				return true
			}
		}

		logger.WithFields(logger.Fields{
			"origin": origin,
			"remote": r.RemoteAddr,
		}).Warn("WebSocket connection rejected - invalid origin")
		return false
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// handleLogStream follows a container's log output over a WebSocket, one
// text message per line, until the client disconnects or the stream ends.
func (s *Server) handleLogStream(c echo.Context) error {
	name := c.Param("name")
	spec, ok := s.registry.Resolve(name)
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "container not in registry: " + name})
	}

	stream, err := s.runtime.StreamLogs(c.Request().Context(), spec.Name)
	if err != nil {
		return handleError(c, err, "failed to open log stream")
	}
	defer stream.Close()

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.WithError(err).Error("Failed to upgrade WebSocket connection")
		return err
	}
	defer ws.Close()

	// Drain client frames so close messages are processed; the stream is
	// one-directional otherwise.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	scanner := bufio.NewScanner(stream)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		select {
		case <-done:
			return nil
		default:
		}
		if err := ws.WriteMessage(websocket.TextMessage, scanner.Bytes()); err != nil {
			return nil
		}
	}

	if err := scanner.Err(); err != nil {
		logger.WithError(err).WithField("container", spec.Name).Debug("log stream ended with error")
	}
	return nil
}
