package container

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	containertypes "github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/T-One/krang/internal/errors"
)

// stopTimeoutSeconds is passed to the runtime on stop/restart so containers
// get a grace period before SIGKILL.
const stopTimeoutSeconds = 10

// DockerRuntime implements Runtime against a Docker-compatible Engine API
// endpoint. Podman's system socket speaks the same API, so the adapter works
// unchanged against unix:///run/podman/podman.sock.
type DockerRuntime struct {
	cli *client.Client
}

// NewDockerRuntime connects to the runtime endpoint and verifies it responds.
func NewDockerRuntime(ctx context.Context, endpoint string) (*DockerRuntime, error) {
	cli, err := client.NewClientWithOpts(
		client.WithHost(endpoint),
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, errors.Wrap(errors.ErrRuntimeUnavailable, "failed to create runtime client", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := cli.Ping(pingCtx); err != nil {
		cli.Close()
		return nil, errors.Wrap(errors.ErrRuntimeUnavailable,
			fmt.Sprintf("runtime endpoint %s is not responding", endpoint), err)
	}

	return &DockerRuntime{cli: cli}, nil
}

// IsAvailable reports whether the runtime endpoint is reachable
func (r *DockerRuntime) IsAvailable(ctx context.Context) bool {
	_, err := r.cli.Ping(ctx)
	return err == nil
}

// List returns all containers known to the runtime, including stopped ones
func (r *DockerRuntime) List(ctx context.Context) ([]*Container, error) {
	summaries, err := r.cli.ContainerList(ctx, containertypes.ListOptions{All: true})
	if err != nil {
		return nil, errors.Wrap(errors.ErrRuntimeUnavailable, "failed to list containers", err)
	}

	containers := make([]*Container, 0, len(summaries))
	for _, c := range summaries {
		name := ""
		if len(c.Names) > 0 {
			name = strings.TrimPrefix(c.Names[0], "/")
		}
		containers = append(containers, &Container{
			ID:      c.ID,
			Name:    name,
			Image:   c.Image,
			State:   c.State,
			Status:  c.Status,
			Running: c.State == "running",
		})
	}
	return containers, nil
}

// Inspect returns the live state of a container by name
func (r *DockerRuntime) Inspect(ctx context.Context, name string) (*Container, error) {
	id, err := r.findByName(ctx, name)
	if err != nil {
		return nil, err
	}

	inspect, err := r.cli.ContainerInspect(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrRuntimeUnavailable,
			fmt.Sprintf("failed to inspect container %s", name), err)
	}

	return &Container{
		ID:      inspect.ID,
		Name:    strings.TrimPrefix(inspect.Name, "/"),
		Image:   inspect.Config.Image,
		State:   inspect.State.Status,
		Status:  inspect.State.Status,
		Running: inspect.State.Running,
	}, nil
}

// Start starts a container by name
func (r *DockerRuntime) Start(ctx context.Context, name string) error {
	id, err := r.findByName(ctx, name)
	if err != nil {
		return err
	}
	if err := r.cli.ContainerStart(ctx, id, containertypes.StartOptions{}); err != nil {
		return errors.Wrap(errors.ErrContainerStartFailed,
			fmt.Sprintf("failed to start container %s", name), err)
	}
	return nil
}

// Stop stops a container by name
func (r *DockerRuntime) Stop(ctx context.Context, name string) error {
	id, err := r.findByName(ctx, name)
	if err != nil {
		return err
	}
	timeout := stopTimeoutSeconds
	if err := r.cli.ContainerStop(ctx, id, containertypes.StopOptions{Timeout: &timeout}); err != nil {
		return errors.Wrap(errors.ErrContainerStopFailed,
			fmt.Sprintf("failed to stop container %s", name), err)
	}
	return nil
}

// Restart restarts a container by name, regardless of current state
func (r *DockerRuntime) Restart(ctx context.Context, name string) error {
	id, err := r.findByName(ctx, name)
	if err != nil {
		return err
	}
	timeout := stopTimeoutSeconds
	if err := r.cli.ContainerRestart(ctx, id, containertypes.StopOptions{Timeout: &timeout}); err != nil {
		return errors.Wrap(errors.ErrContainerRestartFail,
			fmt.Sprintf("failed to restart container %s", name), err)
	}
	return nil
}

// Logs returns the most recent tail lines of a container's output
func (r *DockerRuntime) Logs(ctx context.Context, name string, tail int) (string, error) {
	id, err := r.findByName(ctx, name)
	if err != nil {
		return "", err
	}

	reader, err := r.cli.ContainerLogs(ctx, id, containertypes.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Tail:       strconv.Itoa(tail),
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrContainerLogsFailed,
			fmt.Sprintf("failed to fetch logs for container %s", name), err)
	}
	defer reader.Close()

	// The engine multiplexes stdout/stderr on one stream; demux into one buffer.
	var output strings.Builder
	if _, err := stdcopy.StdCopy(&output, &output, reader); err != nil && err != io.EOF {
		return "", errors.Wrap(errors.ErrContainerLogsFailed,
			fmt.Sprintf("failed to read logs for container %s", name), err)
	}

	return output.String(), nil
}

// StreamLogs returns a live, demuxed log stream for a container
func (r *DockerRuntime) StreamLogs(ctx context.Context, name string) (io.ReadCloser, error) {
	id, err := r.findByName(ctx, name)
	if err != nil {
		return nil, err
	}

	reader, err := r.cli.ContainerLogs(ctx, id, containertypes.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     true,
		Tail:       "0",
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrContainerLogsFailed,
			fmt.Sprintf("failed to stream logs for container %s", name), err)
	}

	pr, pw := io.Pipe()
	go func() {
		defer reader.Close()
		_, err := stdcopy.StdCopy(pw, pw, reader)
		pw.CloseWithError(err)
	}()

	return pr, nil
}

// Close closes the underlying runtime client
func (r *DockerRuntime) Close() error {
	if r.cli != nil {
		return r.cli.Close()
	}
	return nil
}

// findByName resolves a container name to its runtime ID. The name filter is
// a substring match, so the result list is checked for an exact name.
func (r *DockerRuntime) findByName(ctx context.Context, name string) (string, error) {
	summaries, err := r.cli.ContainerList(ctx, containertypes.ListOptions{
		All: true,
		Filters: filters.NewArgs(
			filters.Arg("name", name),
		),
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrRuntimeUnavailable, "failed to list containers", err)
	}

	for _, c := range summaries {
		for _, n := range c.Names {
			if n == "/"+name {
				return c.ID, nil
			}
		}
	}

	return "", errors.NewWithDetails(errors.ErrContainerNotFound, "container not found", name)
}
