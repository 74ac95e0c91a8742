package api

// ExecutionContext identifies which of the three runtime environments the
// current process is running under. It is determined exactly once per
// process and is immutable afterwards.
type ExecutionContext string

const (
	// ContextServer is the interactive server environment with live client
	// connections. This is the default when detection is ambiguous.
	ContextServer ExecutionContext = "server"

	// ContextHeadless is a non-interactive script run; component output
	// goes to the console and client operations are no-ops.
	ContextHeadless ExecutionContext = "headless"

	// ContextVirtual is the in-browser virtual machine environment
	// (js/wasm) where messages cross an interpreter bridge.
	ContextVirtual ExecutionContext = "virtual"
)

// String makes ExecutionContext satisfy fmt.Stringer.
func (c ExecutionContext) String() string {
	return string(c)
}

// Valid reports whether c is one of the three known contexts.
func (c ExecutionContext) Valid() bool {
	switch c {
	case ContextServer, ContextHeadless, ContextVirtual:
		return true
	}
	return false
}

// ServiceState represents the lifecycle state of a service instance.
type ServiceState string

const (
	// StateUninitialized means no singleton has been created yet.
	StateUninitialized ServiceState = "uninitialized"

	// StateActive means the service accepts client registrations, state
	// updates and component rendering calls.
	StateActive ServiceState = "active"

	// StateShuttingDown is terminal: the service rejects new work. There
	// is no transition out of this state.
	StateShuttingDown ServiceState = "shutting-down"
)
