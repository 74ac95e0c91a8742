package service

import (
	"context"
	"sync"

	"easel/internal/api"
	"easel/internal/component"
	"easel/internal/data"
	"easel/internal/state"
	"easel/pkg/logging"
)

// virtualClientID is the single implicit session of the browser
// environment. The virtual machine is the only client there is.
const virtualClientID = "browser"

// Bridge delivers a message across the interpreter boundary into the
// browser host. The bridge implementation itself lives outside the
// core.
type Bridge func(api.OutMessage)

// VirtualService is the in-browser variant. It keeps the headless
// variant's linear semantics but emits render and state messages over
// the interpreter bridge instead of printing them. Messages produced
// before a bridge is attached are buffered and flushed on attach.
type VirtualService struct {
	mu           sync.Mutex
	store        *state.Store
	rendered     []any
	scriptPath   string
	dm           *data.Manager
	st           ServiceState
	bridge       Bridge
	pending      []api.OutMessage
	shutdownOnce sync.Once
}

// NewVirtual constructs an active virtual service. Data manager
// construction follows the same fail-soft rule as the other variants.
func NewVirtual(scriptPath string) *VirtualService {
	s := &VirtualService{
		store: state.NewStore(),
		dm:    data.NewEmpty(),
		st:    StateActive,
	}
	if scriptPath != "" {
		s.scriptPath = scriptPath
		s.dm = data.FromScriptPath(scriptPath)
	}
	logging.Info("Service", "Initialized virtual service")
	return s
}

// SetBridge attaches the interpreter bridge and flushes any buffered
// messages through it in order.
func (s *VirtualService) SetBridge(b Bridge) {
	s.mu.Lock()
	s.bridge = b
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	if b == nil {
		return
	}
	for _, msg := range pending {
		b(msg)
	}
}

// emit sends a message over the bridge, or buffers it when no bridge is
// attached yet.
func (s *VirtualService) emit(msg api.OutMessage) {
	s.mu.Lock()
	bridge := s.bridge
	if bridge == nil {
		s.pending = append(s.pending, msg)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	bridge(msg)
}

// ExecutionContext returns ContextVirtual.
func (s *VirtualService) ExecutionContext() ExecutionContext {
	return api.ContextVirtual
}

// State returns the current lifecycle state.
func (s *VirtualService) State() ServiceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st
}

// ScriptPath returns the current script path.
func (s *VirtualService) ScriptPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scriptPath
}

// SetScriptPath records the script path and rebuilds the data manager.
// The browser filesystem is virtual, so unlike the other variants no
// existence check is possible and none is made.
func (s *VirtualService) SetScriptPath(path string) error {
	dm := data.FromScriptPath(path)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scriptPath = path
	s.dm = dm
	return nil
}

// DataManager returns the data-access collaborator. Never nil.
func (s *VirtualService) DataManager() *data.Manager {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dm
}

// AppendComponent records the component, upserts its identifier/value
// pair into the state store and emits a render message over the bridge.
func (s *VirtualService) AppendComponent(c any) {
	if s.State() == StateShuttingDown {
		logging.Debug("Service", "Ignoring component append after shutdown")
		return
	}

	s.mu.Lock()
	s.rendered = append(s.rendered, c)
	s.mu.Unlock()

	if comp, ok := component.AsComponent(c); ok {
		if value, hasValue := comp.Value(); hasValue && comp.ID() != "" {
			s.store.Set(comp.ID(), value)
		}
	}

	s.emit(api.OutMessage{Type: api.MessageTypeRender, Payload: c})
}

// GetComponentState delegates to the state store.
func (s *VirtualService) GetComponentState(id string, def any) any {
	return s.store.Get(id, def)
}

// StateSnapshot returns a detached copy of all component states.
func (s *VirtualService) StateSnapshot() map[string]any {
	return s.store.Snapshot()
}

// GetRenderedComponents returns the ordered history of appended
// components.
func (s *VirtualService) GetRenderedComponents() Rendered {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]any, len(s.rendered))
	copy(rows, s.rendered)
	return Rendered{Rows: rows}
}

// ClearComponents empties the rendered history. It does not clear the
// state store.
func (s *VirtualService) ClearComponents() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rendered = nil
}

// RegisterClient returns the runner of the single implicit browser
// session. The clientID argument is accepted for signature
// compatibility and ignored.
func (s *VirtualService) RegisterClient(ctx context.Context, clientID string) (*ScriptRunner, error) {
	runner := &ScriptRunner{
		clientID: virtualClientID,
		send: func(msg api.OutMessage) error {
			s.emit(msg)
			return nil
		},
	}
	return runner, nil
}

// UnregisterClient is a no-op: the browser session lives as long as the
// virtual machine does.
func (s *VirtualService) UnregisterClient(ctx context.Context, clientID string) error {
	return nil
}

// HandleClientMessage applies component state updates coming in from the
// browser host; any other message type is silently ignored.
func (s *VirtualService) HandleClientMessage(ctx context.Context, clientID string, msg api.ClientMessage) error {
	if msg.Type != api.MessageTypeComponentUpdate {
		return nil
	}
	for id, value := range msg.States {
		s.store.Set(id, value)
		logging.Debug("StateStore", "Updated component state: %s", id)
	}
	return nil
}

// Shutdown transitions to the terminal state and detaches the bridge.
// Idempotent; logged at most once.
func (s *VirtualService) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		s.st = StateShuttingDown
		s.bridge = nil
		s.pending = nil
		s.mu.Unlock()
		logging.Info("Service", "Virtual service shutting down")
	})
	return nil
}
