package service

import (
	"context"

	"easel/internal/api"
	"easel/internal/data"
)

// ServiceState and ExecutionContext alias the shared api types so
// variant code can name them without a second import.
type ServiceState = api.ServiceState
type ExecutionContext = api.ExecutionContext

const (
	StateUninitialized = api.StateUninitialized
	StateActive        = api.StateActive
	StateShuttingDown  = api.StateShuttingDown
)

// Service is the capability set every execution context variant must
// implement. Calling code programs against this interface and never
// branches on the active ExecutionContext; operations that make no sense
// in a given context are documented no-ops that still return values of
// the correct shape.
type Service interface {
	// Identity and lifecycle
	ExecutionContext() ExecutionContext
	State() ServiceState
	Shutdown(ctx context.Context) error

	// Script and data access
	ScriptPath() string
	SetScriptPath(path string) error
	DataManager() *data.Manager

	// Component handling
	AppendComponent(component any)
	GetComponentState(id string, def any) any
	StateSnapshot() map[string]any
	GetRenderedComponents() Rendered
	ClearComponents()

	// Client session handling. The headless variant accepts these for
	// signature compatibility and performs no work; RegisterClient then
	// returns a nil runner, signaling "no live session".
	RegisterClient(ctx context.Context, clientID string) (*ScriptRunner, error)
	UnregisterClient(ctx context.Context, clientID string) error
	HandleClientMessage(ctx context.Context, clientID string, msg api.ClientMessage) error
}

// Rendered is the ordered history of appended components. The shape is
// shared by all variants so calling code need not branch on which one is
// active.
type Rendered struct {
	Rows []any `json:"rows"`
}

// ScriptRunner is the handle a live client session gets for pushing
// messages back to its client. The headless variant has no sessions and
// hands out no runners.
type ScriptRunner struct {
	clientID string
	send     func(api.OutMessage) error
}

// ClientID returns the session identifier this runner is bound to.
func (r *ScriptRunner) ClientID() string {
	return r.clientID
}

// Send delivers a message to the runner's client. Delivery is
// best-effort: a full client channel returns an error instead of
// blocking the caller.
func (r *ScriptRunner) Send(msg api.OutMessage) error {
	return r.send(msg)
}
