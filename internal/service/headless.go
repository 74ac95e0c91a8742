package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"easel/internal/api"
	"easel/internal/component"
	"easel/internal/data"
	"easel/internal/state"
	"easel/pkg/logging"
)

// HeadlessService runs the app with no interactive client connection.
// Application code executes top to bottom; every call here is a direct,
// non-suspending function call. Components print to the console instead
// of rendering in a client.
type HeadlessService struct {
	mu           sync.Mutex
	store        *state.Store
	rendered     []any
	scriptPath   string
	dm           *data.Manager
	st           ServiceState
	out          io.Writer
	shutdownOnce sync.Once
}

// NewHeadless constructs an active headless service. A non-empty script
// path triggers fail-soft data manager construction: broken
// configuration degrades the manager but never aborts startup, so the
// run always produces console output.
func NewHeadless(scriptPath string) *HeadlessService {
	return NewHeadlessWithOutput(scriptPath, os.Stdout)
}

// NewHeadlessWithOutput is NewHeadless with an explicit console writer.
func NewHeadlessWithOutput(scriptPath string, out io.Writer) *HeadlessService {
	s := &HeadlessService{
		store: state.NewStore(),
		dm:    data.NewEmpty(),
		st:    StateActive,
		out:   out,
	}
	if scriptPath != "" {
		s.scriptPath = scriptPath
		s.dm = data.FromScriptPath(scriptPath)
	}
	logging.Info("Service", "Initialized headless service")
	return s
}

// ExecutionContext returns ContextHeadless.
func (s *HeadlessService) ExecutionContext() ExecutionContext {
	return api.ContextHeadless
}

// State returns the current lifecycle state.
func (s *HeadlessService) State() ServiceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st
}

// ScriptPath returns the current script path.
func (s *HeadlessService) ScriptPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scriptPath
}

// SetScriptPath sets the script path and rebuilds the data manager from
// its sibling configuration files. A path that does not exist is a user
// configuration error and fails with a NotFoundError.
func (s *HeadlessService) SetScriptPath(path string) error {
	if _, err := os.Stat(path); err != nil {
		return api.NewScriptNotFoundError(path)
	}
	dm := data.FromScriptPath(path)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.scriptPath = path
	s.dm = dm
	return nil
}

// DataManager returns the data-access collaborator. Never nil; a service
// without a script path holds an empty manager.
func (s *HeadlessService) DataManager() *data.Manager {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dm
}

// AppendComponent records the component, prints one console line for it
// and, when it carries both an identifier and a value, upserts that pair
// into the state store. Any failure is caught and logged so one bad
// component never stops subsequent components from printing.
func (s *HeadlessService) AppendComponent(c any) {
	if s.State() == StateShuttingDown {
		logging.Debug("Service", "Ignoring component append after shutdown")
		return
	}

	s.mu.Lock()
	s.rendered = append(s.rendered, c)
	s.mu.Unlock()

	if err := s.printComponent(c); err != nil {
		logging.Error("Service", err, "Error processing component in headless mode")
	}

	if comp, ok := component.AsComponent(c); ok {
		if value, hasValue := comp.Value(); hasValue && comp.ID() != "" {
			s.store.Set(comp.ID(), value)
		}
	}
}

// printComponent formats and writes a single console line, converting
// panics from hostile payloads into a contained RenderError.
func (s *HeadlessService) printComponent(c any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			kind := ""
			if comp, ok := component.AsComponent(c); ok {
				kind = comp.Kind()
			}
			err = api.NewRenderError(kind, fmt.Errorf("panic: %v", r))
		}
	}()

	_, err = fmt.Fprintln(s.out, component.FormatLine(c))
	if err != nil {
		kind := ""
		if comp, ok := component.AsComponent(c); ok {
			kind = comp.Kind()
		}
		return api.NewRenderError(kind, err)
	}
	return nil
}

// GetComponentState delegates to the state store.
func (s *HeadlessService) GetComponentState(id string, def any) any {
	return s.store.Get(id, def)
}

// StateSnapshot returns a detached copy of all component states.
func (s *HeadlessService) StateSnapshot() map[string]any {
	return s.store.Snapshot()
}

// GetRenderedComponents returns the ordered history of appended
// components, shape-compatible with the server variant's accessor.
func (s *HeadlessService) GetRenderedComponents() Rendered {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]any, len(s.rendered))
	copy(rows, s.rendered)
	return Rendered{Rows: rows}
}

// ClearComponents empties the rendered history. It does not clear the
// state store.
func (s *HeadlessService) ClearComponents() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rendered = nil
}

// RegisterClient is a stub for signature compatibility with the server
// variant. The nil runner signals "no live session" to generic calling
// code.
func (s *HeadlessService) RegisterClient(ctx context.Context, clientID string) (*ScriptRunner, error) {
	logging.Debug("Service", "Client registration ignored in headless mode: %s", clientID)
	return nil, nil
}

// UnregisterClient is a stub for signature compatibility.
func (s *HeadlessService) UnregisterClient(ctx context.Context, clientID string) error {
	return nil
}

// HandleClientMessage applies component state updates; any other message
// type is silently ignored.
func (s *HeadlessService) HandleClientMessage(ctx context.Context, clientID string, msg api.ClientMessage) error {
	if msg.Type != api.MessageTypeComponentUpdate {
		return nil
	}
	for id, value := range msg.States {
		s.store.Set(id, value)
		logging.Debug("StateStore", "Updated component state: %s", id)
	}
	return nil
}

// Shutdown transitions the service to its terminal state. Idempotent;
// the shutdown event is logged at most once. Mutating calls arriving
// afterwards are accepted as no-ops.
func (s *HeadlessService) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		s.st = StateShuttingDown
		s.mu.Unlock()
		logging.Info("Service", "Headless service shutting down")
	})
	return nil
}
