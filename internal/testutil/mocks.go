// Package testutil provides shared test doubles.
package testutil

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/T-One/krang/internal/bot"
	"github.com/T-One/krang/internal/container"
	"github.com/T-One/krang/internal/errors"
)

// MockRuntime is a mock implementation of container.Runtime for testing.
// Containers are keyed by name; method behavior can be overridden per test
// via the Fn fields. All calls are recorded for assertion.
type MockRuntime struct {
	mu         sync.RWMutex
	containers map[string]*container.Container
	calls      map[string]int

	// InspectFn is called by Inspect when set
	InspectFn func(ctx context.Context, name string) (*container.Container, error)
	// StartFn is called by Start when set
	StartFn func(ctx context.Context, name string) error
	// StopFn is called by Stop when set
	StopFn func(ctx context.Context, name string) error
	// RestartFn is called by Restart when set
	RestartFn func(ctx context.Context, name string) error
	// LogsFn is called by Logs when set
	LogsFn func(ctx context.Context, name string, tail int) (string, error)

	// LogsReturn is returned by Logs when LogsFn is unset
	LogsReturn string
	// Available is returned by IsAvailable
	Available bool
}

// NewMockRuntime creates an empty mock runtime.
func NewMockRuntime() *MockRuntime {
	return &MockRuntime{
		containers: make(map[string]*container.Container),
		calls:      make(map[string]int),
		Available:  true,
	}
}

// AddContainer registers a container with the mock runtime.
func (m *MockRuntime) AddContainer(name string, running bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state := "exited"
	if running {
		state = "running"
	}
	m.containers[name] = &container.Container{
		ID:      "mock-" + name,
		Name:    name,
		State:   state,
		Status:  state,
		Running: running,
	}
}

// Calls returns how many times a method was invoked.
func (m *MockRuntime) Calls(method string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[method]
}

func (m *MockRuntime) recordCall(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[method]++
}

// List returns all registered containers.
func (m *MockRuntime) List(ctx context.Context) ([]*container.Container, error) {
	m.recordCall("List")
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*container.Container, 0, len(m.containers))
	for _, c := range m.containers {
		out = append(out, c)
	}
	return out, nil
}

// Inspect returns the registered container or a not-found error.
func (m *MockRuntime) Inspect(ctx context.Context, name string) (*container.Container, error) {
	m.recordCall("Inspect")
	if m.InspectFn != nil {
		return m.InspectFn(ctx, name)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.containers[name]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, errors.NewWithDetails(errors.ErrContainerNotFound, "container not found", name)
}

// Start marks the container running.
func (m *MockRuntime) Start(ctx context.Context, name string) error {
	m.recordCall("Start")
	if m.StartFn != nil {
		return m.StartFn(ctx, name)
	}
	return m.setRunning(name, true)
}

// Stop marks the container stopped.
func (m *MockRuntime) Stop(ctx context.Context, name string) error {
	m.recordCall("Stop")
	if m.StopFn != nil {
		return m.StopFn(ctx, name)
	}
	return m.setRunning(name, false)
}

// Restart marks the container running.
func (m *MockRuntime) Restart(ctx context.Context, name string) error {
	m.recordCall("Restart")
	if m.RestartFn != nil {
		return m.RestartFn(ctx, name)
	}
	return m.setRunning(name, true)
}

// Logs returns the configured log payload.
func (m *MockRuntime) Logs(ctx context.Context, name string, tail int) (string, error) {
	m.recordCall("Logs")
	if m.LogsFn != nil {
		return m.LogsFn(ctx, name, tail)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.containers[name]; !ok {
		return "", errors.NewWithDetails(errors.ErrContainerNotFound, "container not found", name)
	}
	return m.LogsReturn, nil
}

// StreamLogs returns the configured log payload as a stream.
func (m *MockRuntime) StreamLogs(ctx context.Context, name string) (io.ReadCloser, error) {
	m.recordCall("StreamLogs")
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.containers[name]; !ok {
		return nil, errors.NewWithDetails(errors.ErrContainerNotFound, "container not found", name)
	}
	return io.NopCloser(strings.NewReader(m.LogsReturn)), nil
}

// IsAvailable reports the configured availability.
func (m *MockRuntime) IsAvailable(ctx context.Context) bool {
	m.recordCall("IsAvailable")
	return m.Available
}

func (m *MockRuntime) setRunning(name string, running bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.containers[name]
	if !ok {
		return errors.NewWithDetails(errors.ErrContainerNotFound, "container not found", name)
	}
	c.Running = running
	if running {
		c.State = "running"
	} else {
		c.State = "exited"
	}
	return nil
}

// MockRecorder captures audit records for assertion.
type MockRecorder struct {
	mu      sync.Mutex
	Records []RecordedCommand
	// Err is returned by RecordCommand when set
	Err error
}

// RecordedCommand is one captured audit entry.
type RecordedCommand struct {
	Verb   string
	Arg    string
	Author string
	Kind   string
	Detail string
}

// RecordCommand implements bot.Recorder.
func (m *MockRecorder) RecordCommand(ctx context.Context, inv *bot.Invocation, kind, detail string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Records = append(m.Records, RecordedCommand{
		Verb:   string(inv.Verb),
		Arg:    inv.Arg,
		Author: inv.AuthorID,
		Kind:   kind,
		Detail: detail,
	})
	return nil
}

// Len returns the number of captured records.
func (m *MockRecorder) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Records)
}
