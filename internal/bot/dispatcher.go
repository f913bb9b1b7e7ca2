package bot

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/T-One/krang/internal/container"
	"github.com/T-One/krang/internal/errors"
	"github.com/T-One/krang/internal/logger"
	"github.com/T-One/krang/internal/registry"
)

// Recorder receives one audit record per handled invocation. Implementations
// must tolerate being called concurrently.
type Recorder interface {
	RecordCommand(ctx context.Context, inv *Invocation, kind string, detail string) error
}

// Dispatcher turns a parsed invocation into a runtime action and a Result.
// It holds no mutable state beyond the read-only registry, so concurrent
// invocations need no locking. Runtime errors are converted into results at
// this boundary; nothing propagates past Dispatch.
type Dispatcher struct {
	registry *registry.Registry
	runtime  container.Runtime
	recorder Recorder
	timeout  time.Duration
	logTail  int
}

// NewDispatcher creates a dispatcher. recorder may be nil to disable the
// audit trail.
func NewDispatcher(reg *registry.Registry, rt container.Runtime, recorder Recorder, timeout time.Duration, logTail int) *Dispatcher {
	return &Dispatcher{
		registry: reg,
		runtime:  rt,
		recorder: recorder,
		timeout:  timeout,
		logTail:  logTail,
	}
}

// Dispatch executes one invocation and always returns exactly one Result.
func (d *Dispatcher) Dispatch(ctx context.Context, inv *Invocation) *Result {
	var res *Result

	switch inv.Verb {
	case VerbHelp:
		res = &Result{Kind: KindSuccess, Verb: VerbHelp}
	case VerbStatus:
		res = d.status(ctx)
	case VerbStart, VerbStop, VerbRestart, VerbLogs:
		spec, ok := d.registry.Resolve(inv.Arg)
		if !ok {
			res = &Result{
				Kind:       KindNotFound,
				Verb:       inv.Verb,
				Container:  inv.Arg,
				ValidNames: d.registry.Names(),
			}
			break
		}
		switch inv.Verb {
		case VerbStart:
			res = d.start(ctx, spec)
		case VerbStop:
			res = d.stop(ctx, spec)
		case VerbRestart:
			res = d.restart(ctx, spec)
		case VerbLogs:
			res = d.logs(ctx, spec)
		}
	default:
		res = &Result{
			Kind:    KindUnknown,
			Verb:    inv.Verb,
			Message: fmt.Sprintf("unknown command '%s'", inv.Verb),
			Quote:   randomQuote(),
		}
	}

	d.record(ctx, inv, res)
	return res
}

// ParseErrorResult converts a parser error into a user-visible Result.
// NotAddressed never reaches this; the gateway drops it silently.
func (d *Dispatcher) ParseErrorResult(err error) *Result {
	ke, ok := err.(*errors.KrangError)
	if !ok {
		return &Result{Kind: KindUnknown, Message: "could not read that command, type `help` for usage"}
	}

	switch ke.Code {
	case errors.ErrUnknownVerb:
		return &Result{
			Kind:    KindUnknown,
			Message: fmt.Sprintf("unknown command '%s', type `help` for usage", ke.Details),
			Quote:   randomQuote(),
		}
	case errors.ErrMissingArgument:
		return &Result{
			Kind:    KindUnknown,
			Message: fmt.Sprintf("please specify a container name for the '%s' command", ke.Details),
		}
	case errors.ErrInvalidInput:
		return &Result{
			Kind:    KindUnknown,
			Message: "Invalid command format. Type `help` for instructions.",
		}
	default:
		return &Result{Kind: KindUnknown, Message: "could not read that command, type `help` for usage"}
	}
}

// status queries live state for every registry entry concurrently and builds
// one row per entry in declaration order. A container the runtime has never
// seen renders as "not found"; a failed query renders as "offline". Partial
// failure never aborts the table.
func (d *Dispatcher) status(ctx context.Context) *Result {
	specs := d.registry.All()
	rows := make([]StatusRow, len(specs))

	var wg sync.WaitGroup
	for i, spec := range specs {
		wg.Add(1)
		go func(i int, spec *registry.ContainerSpec) {
			defer wg.Done()
			rows[i] = StatusRow{
				Name:       spec.Name,
				State:      d.containerState(ctx, spec.Name),
				Address:    spec.Address,
				Port:       spec.Port,
				Credential: spec.DisplayCredential(),
			}
		}(i, spec)
	}
	wg.Wait()

	return &Result{Kind: KindSuccess, Verb: VerbStatus, Rows: rows}
}

// containerState fetches one container's display state for the status table.
func (d *Dispatcher) containerState(ctx context.Context, name string) string {
	opCtx, cancel := d.opContext(ctx)
	defer cancel()

	c, err := d.runtime.Inspect(opCtx, name)
	switch {
	case err == nil && c.Running:
		return "running"
	case err == nil && c.State != "":
		return c.State
	case err == nil:
		return "unknown"
	case errors.HasCode(err, errors.ErrContainerNotFound):
		return "not found"
	default:
		logger.WithError(err).WithField("container", name).Warn("status query failed")
		return "offline"
	}
}

// start is idempotent: an already-running container is a success, and the
// runtime's start operation is not called again.
func (d *Dispatcher) start(ctx context.Context, spec *registry.ContainerSpec) *Result {
	opCtx, cancel := d.opContext(ctx)
	defer cancel()

	c, err := d.runtime.Inspect(opCtx, spec.Name)
	if err != nil {
		return d.runtimeError(VerbStart, spec.Name, err)
	}
	if c.Running {
		return &Result{
			Kind:      KindSuccess,
			Verb:      VerbStart,
			Container: spec.Name,
			Message:   fmt.Sprintf("Container '%s' is already running.", spec.Name),
		}
	}

	if err := d.runtime.Start(opCtx, spec.Name); err != nil {
		return d.runtimeError(VerbStart, spec.Name, err)
	}
	return &Result{
		Kind:      KindSuccess,
		Verb:      VerbStart,
		Container: spec.Name,
		Message:   fmt.Sprintf("Container '%s' started successfully.", spec.Name),
	}
}

// stop mirrors start: stopping a stopped container is a success note.
func (d *Dispatcher) stop(ctx context.Context, spec *registry.ContainerSpec) *Result {
	opCtx, cancel := d.opContext(ctx)
	defer cancel()

	c, err := d.runtime.Inspect(opCtx, spec.Name)
	if err != nil {
		return d.runtimeError(VerbStop, spec.Name, err)
	}
	if !c.Running {
		return &Result{
			Kind:      KindSuccess,
			Verb:      VerbStop,
			Container: spec.Name,
			Message:   fmt.Sprintf("Container '%s' is already stopped.", spec.Name),
		}
	}

	if err := d.runtime.Stop(opCtx, spec.Name); err != nil {
		return d.runtimeError(VerbStop, spec.Name, err)
	}
	return &Result{
		Kind:      KindSuccess,
		Verb:      VerbStop,
		Container: spec.Name,
		Message:   fmt.Sprintf("Container '%s' stopped successfully.", spec.Name),
	}
}

// restart invokes the runtime unconditionally: restart is valid in any state.
func (d *Dispatcher) restart(ctx context.Context, spec *registry.ContainerSpec) *Result {
	opCtx, cancel := d.opContext(ctx)
	defer cancel()

	if err := d.runtime.Restart(opCtx, spec.Name); err != nil {
		return d.runtimeError(VerbRestart, spec.Name, err)
	}
	return &Result{
		Kind:      KindSuccess,
		Verb:      VerbRestart,
		Container: spec.Name,
		Message:   fmt.Sprintf("Container '%s' restarted successfully.", spec.Name),
	}
}

// logs fetches the most recent tail of output. Empty output is a success
// with an explicit note, not an error.
func (d *Dispatcher) logs(ctx context.Context, spec *registry.ContainerSpec) *Result {
	opCtx, cancel := d.opContext(ctx)
	defer cancel()

	output, err := d.runtime.Logs(opCtx, spec.Name, d.logTail)
	if err != nil {
		return d.runtimeError(VerbLogs, spec.Name, err)
	}
	return &Result{
		Kind:      KindSuccess,
		Verb:      VerbLogs,
		Container: spec.Name,
		Logs:      output,
		HasLogs:   output != "",
	}
}

// opContext bounds a single runtime gateway call so a hung runtime turns
// into a RuntimeError instead of a reply that never comes.
func (d *Dispatcher) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d.timeout)
}

// runtimeError converts a runtime gateway failure into a Result. The raw
// error is logged in full; the user sees a one-line summary.
func (d *Dispatcher) runtimeError(verb Verb, name string, err error) *Result {
	logger.WithError(err).WithFields(logger.Fields{
		"verb":      string(verb),
		"container": name,
	}).Error("runtime operation failed")

	detail := "runtime error"
	if ke, ok := err.(*errors.KrangError); ok {
		detail = ke.Message
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		detail = "operation timed out"
	}

	return &Result{
		Kind:      KindRuntimeError,
		Verb:      verb,
		Container: name,
		Message:   fmt.Sprintf("Error performing %s on container '%s': %s.", verb, name, detail),
	}
}

// record writes the audit row. Failures are logged, never surfaced.
func (d *Dispatcher) record(ctx context.Context, inv *Invocation, res *Result) {
	if d.recorder == nil {
		return
	}
	detail := res.Message
	if detail == "" {
		detail = string(res.Verb)
	}
	if err := d.recorder.RecordCommand(ctx, inv, res.Kind.String(), detail); err != nil {
		logger.WithError(err).Warn("failed to record command audit entry")
	}
}
