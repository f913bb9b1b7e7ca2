package bot

// ResultKind classifies the outcome of one dispatched command.
type ResultKind int

const (
	// KindSuccess is a completed operation, including idempotent no-ops
	KindSuccess ResultKind = iota
	// KindNotFound is a container name with no registry entry
	KindNotFound
	// KindUnauthorized is an origin that failed the access filter
	KindUnauthorized
	// KindRuntimeError is a failed or timed-out runtime gateway call
	KindRuntimeError
	// KindUnknown is an unparseable command (bad verb, missing argument)
	KindUnknown
)

// String returns the audit label for a result kind.
func (k ResultKind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindRuntimeError:
		return "runtime_error"
	default:
		return "unknown"
	}
}

// StatusRow is one line of the status table: a registry entry joined with
// its live runtime state.
type StatusRow struct {
	Name       string
	State      string
	Address    string
	Port       string
	Credential string
}

// Result is the structured outcome of one command execution, consumed by the
// formatter and then discarded.
type Result struct {
	Kind       ResultKind
	Verb       Verb
	Container  string
	Message    string
	Rows       []StatusRow
	Logs       string
	HasLogs    bool
	Quote      string
	ValidNames []string
}
