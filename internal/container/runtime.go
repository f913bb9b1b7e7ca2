// Package container abstracts the container runtime's control API. The bot
// core only depends on the Runtime interface; the Docker Engine API adapter
// in docker.go is the single concrete implementation (Podman exposes the
// same API on its system socket).
package container

import (
	"context"
	"io"
)

// Container represents the live state of a container as reported by the
// runtime. It is fetched on demand and never cached across invocations.
type Container struct {
	ID      string
	Name    string
	Image   string
	State   string
	Status  string
	Running bool
}

// Runtime defines the interface for container runtime operations
type Runtime interface {
	// List returns all containers known to the runtime, including stopped ones
	List(ctx context.Context) ([]*Container, error)

	// Inspect returns the live state of a container by name.
	// Returns an error with code ErrContainerNotFound if the runtime has no
	// container of that name.
	Inspect(ctx context.Context, name string) (*Container, error)

	// Start starts a container by name
	Start(ctx context.Context, name string) error

	// Stop stops a container by name
	Stop(ctx context.Context, name string) error

	// Restart restarts a container by name, regardless of current state
	Restart(ctx context.Context, name string) error

	// Logs returns the most recent tail lines of a container's output
	Logs(ctx context.Context, name string, tail int) (string, error)

	// StreamLogs returns a live log stream for a container. The caller must
	// close the returned reader.
	StreamLogs(ctx context.Context, name string) (io.ReadCloser, error)

	// IsAvailable reports whether the runtime endpoint is reachable
	IsAvailable(ctx context.Context) bool
}
