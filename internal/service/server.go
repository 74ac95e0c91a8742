package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"easel/internal/api"
	"easel/internal/component"
	"easel/internal/data"
	"easel/internal/state"
	"easel/pkg/logging"
)

// sessionBufferSize bounds a client's outgoing message channel. Delivery
// is non-blocking; a slow client drops messages rather than stalling the
// render path.
const sessionBufferSize = 64

// session is one live client connection: an identifier plus its message
// channel. The transport layer consumes the channel. The session's own
// mutex serializes sends against the close, so a client disconnecting
// mid-broadcast can never trigger a send on a closed channel.
type session struct {
	id     string
	mu     sync.Mutex
	ch     chan api.OutMessage
	closed bool
	runner *ScriptRunner
}

// deliver sends msg to the session's channel. Non-blocking: a full
// channel or an already-closed session returns an error instead of
// stalling or panicking the sender.
func (sess *session) deliver(msg api.OutMessage) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		return fmt.Errorf("client %s disconnected", sess.id)
	}
	select {
	case sess.ch <- msg:
		return nil
	default:
		return fmt.Errorf("client %s channel full", sess.id)
	}
}

// close marks the session closed and closes its channel, under the same
// lock deliver sends under. Idempotent.
func (sess *session) close() {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		return
	}
	sess.closed = true
	close(sess.ch)
}

// ServerService is the interactive variant. Clients register sessions,
// receive rendered components and state changes over their channels, and
// push widget updates back through HandleClientMessage. A filesystem
// watcher on the script path announces script changes to all clients.
type ServerService struct {
	mu           sync.RWMutex
	store        *state.Store
	rendered     []any
	scriptPath   string
	dm           *data.Manager
	st           ServiceState
	sessions     map[string]*session
	watcher      *fsnotify.Watcher
	watchStop    chan struct{}
	shutdownOnce sync.Once
}

// NewServer constructs an active server service. Data manager
// construction and watcher setup are both fail-soft: a broken
// configuration or an unwatchable path degrades the feature and logs,
// it never aborts startup.
func NewServer(scriptPath string) *ServerService {
	s := &ServerService{
		store:    state.NewStore(),
		dm:       data.NewEmpty(),
		st:       StateActive,
		sessions: make(map[string]*session),
	}
	if scriptPath != "" {
		s.scriptPath = scriptPath
		s.dm = data.FromScriptPath(scriptPath)
		s.startWatcher(scriptPath)
	}
	logging.Info("Service", "Initialized server service")
	return s
}

// ExecutionContext returns ContextServer.
func (s *ServerService) ExecutionContext() ExecutionContext {
	return api.ContextServer
}

// State returns the current lifecycle state.
func (s *ServerService) State() ServiceState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st
}

// ScriptPath returns the current script path.
func (s *ServerService) ScriptPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scriptPath
}

// SetScriptPath sets the script path, rebuilds the data manager and
// repoints the watcher. A missing path fails with a NotFoundError.
func (s *ServerService) SetScriptPath(path string) error {
	if _, err := os.Stat(path); err != nil {
		return api.NewScriptNotFoundError(path)
	}
	dm := data.FromScriptPath(path)

	s.stopWatcher()
	s.mu.Lock()
	s.scriptPath = path
	s.dm = dm
	s.mu.Unlock()
	s.startWatcher(path)
	return nil
}

// DataManager returns the data-access collaborator. Never nil.
func (s *ServerService) DataManager() *data.Manager {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dm
}

// RegisterClient creates a session for clientID and returns its script
// runner handle. An empty clientID gets a generated one. New sessions
// are replayed the rendered history followed by a state snapshot so late
// joiners converge with earlier clients.
func (s *ServerService) RegisterClient(ctx context.Context, clientID string) (*ScriptRunner, error) {
	if clientID == "" {
		clientID = uuid.NewString()
	}

	s.mu.Lock()
	if s.st == StateShuttingDown {
		s.mu.Unlock()
		return nil, fmt.Errorf("service is shutting down, rejecting client %s", clientID)
	}
	if _, exists := s.sessions[clientID]; exists {
		s.mu.Unlock()
		return nil, fmt.Errorf("client %s already registered", clientID)
	}

	sess := &session{
		id: clientID,
		ch: make(chan api.OutMessage, sessionBufferSize),
	}
	sess.runner = &ScriptRunner{
		clientID: clientID,
		send:     sess.deliver,
	}
	s.sessions[clientID] = sess
	replay := make([]any, len(s.rendered))
	copy(replay, s.rendered)
	s.mu.Unlock()

	for _, c := range replay {
		_ = sess.runner.Send(api.OutMessage{Type: api.MessageTypeRender, Payload: c})
	}
	if snapshot := s.store.Snapshot(); len(snapshot) > 0 {
		_ = sess.runner.Send(api.OutMessage{Type: api.MessageTypeComponentUpdate, Payload: snapshot})
	}

	logging.Info("Service", "Registered client %s", clientID)
	return sess.runner, nil
}

// UnregisterClient removes the session and closes its channel.
// Unregistering an unknown client is not an error.
func (s *ServerService) UnregisterClient(ctx context.Context, clientID string) error {
	s.mu.Lock()
	sess, ok := s.sessions[clientID]
	if ok {
		delete(s.sessions, clientID)
	}
	s.mu.Unlock()

	if !ok {
		logging.Debug("Service", "Unregister for unknown client %s", clientID)
		return nil
	}
	sess.close()
	logging.Info("Service", "Unregistered client %s", clientID)
	return nil
}

// Messages exposes a client's delivery channel to the transport layer.
func (s *ServerService) Messages(clientID string) (<-chan api.OutMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[clientID]
	if !ok {
		return nil, false
	}
	return sess.ch, true
}

// ClientCount returns the number of live sessions.
func (s *ServerService) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// AppendComponent records the component, upserts its identifier/value
// pair into the state store and broadcasts a render message to every
// session. Failures are contained per component.
func (s *ServerService) AppendComponent(c any) {
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

	s.broadcast(api.OutMessage{Type: api.MessageTypeRender, Payload: c}, "")
}

// GetComponentState delegates to the state store.
func (s *ServerService) GetComponentState(id string, def any) any {
	return s.store.Get(id, def)
}

// StateSnapshot returns a detached copy of all component states.
func (s *ServerService) StateSnapshot() map[string]any {
	return s.store.Snapshot()
}

// GetRenderedComponents returns the ordered history of appended
// components.
func (s *ServerService) GetRenderedComponents() Rendered {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := make([]any, len(s.rendered))
	copy(rows, s.rendered)
	return Rendered{Rows: rows}
}

// ClearComponents empties the rendered history. It does not clear the
// state store.
func (s *ServerService) ClearComponents() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rendered = nil
}

// HandleClientMessage applies component state updates and propagates
// them to every other session so all clients converge. Other message
// types are silently ignored.
func (s *ServerService) HandleClientMessage(ctx context.Context, clientID string, msg api.ClientMessage) error {
	if s.State() == StateShuttingDown {
		return nil
	}
	if msg.Type != api.MessageTypeComponentUpdate {
		logging.Debug("Service", "Ignoring message type %q from client %s", msg.Type, clientID)
		return nil
	}

	for id, value := range msg.States {
		s.store.Set(id, value)
		logging.Debug("StateStore", "Updated component state: %s", id)
	}

	if len(msg.States) > 0 {
		s.broadcast(api.OutMessage{Type: api.MessageTypeComponentUpdate, Payload: msg.States}, clientID)
	}
	return nil
}

// broadcast delivers msg to every session except exclude. Non-blocking;
// slow clients lose messages and the loss is logged.
func (s *ServerService) broadcast(msg api.OutMessage, exclude string) {
	for _, sess := range s.targets(exclude) {
		if err := sess.deliver(msg); err != nil {
			logging.Warn("Service", "Dropping %s message for client %s: %v", msg.Type, sess.id, err)
		}
	}
}

// targets snapshots the session list, minus exclude.
func (s *ServerService) targets(exclude string) []*session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*session, 0, len(s.sessions))
	for id, sess := range s.sessions {
		if id == exclude {
			continue
		}
		out = append(out, sess)
	}
	return out
}

// ForwardLogs streams log entries to every connected client as log
// messages until the entries channel closes. Entries below min are
// filtered here, on the consumer side. Delivery drops are ignored
// silently: logging a drop would feed straight back into the stream.
func (s *ServerService) ForwardLogs(entries <-chan logging.LogEntry, min logging.LogLevel) {
	go func() {
		for entry := range entries {
			if entry.Level < min {
				continue
			}
			payload := map[string]any{
				"level":     entry.Level.String(),
				"subsystem": entry.Subsystem,
				"message":   entry.Message,
			}
			if entry.Err != nil {
				payload["error"] = entry.Err.Error()
			}
			msg := api.OutMessage{Type: api.MessageTypeLog, Payload: payload}
			for _, sess := range s.targets("") {
				_ = sess.deliver(msg)
			}
		}
	}()
}

// startWatcher begins watching the script's directory and announces
// script writes to all clients. Fail-soft: an unwatchable path logs and
// disables hot reload.
func (s *ServerService) startWatcher(scriptPath string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logging.Error("Service", err, "Script watcher unavailable, hot reload disabled")
		return
	}
	// Watch the directory: editors replace files on save, which drops
	// a watch held on the file itself.
	if err := watcher.Add(filepath.Dir(scriptPath)); err != nil {
		logging.Error("Service", err, "Cannot watch %s, hot reload disabled", scriptPath)
		watcher.Close()
		return
	}

	stop := make(chan struct{})
	s.mu.Lock()
	s.watcher = watcher
	s.watchStop = stop
	s.mu.Unlock()

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != scriptPath {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				logging.Info("Service", "Script %s changed, notifying clients", scriptPath)
				// The rerun re-appends everything; widget state persists.
				s.ClearComponents()
				s.broadcast(api.OutMessage{
					Type:    api.MessageTypeScriptReload,
					Payload: map[string]any{"path": scriptPath},
				}, "")
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logging.Warn("Service", "Script watcher error: %v", err)
			case <-stop:
				return
			}
		}
	}()
}

// stopWatcher tears down the current watcher, if any.
func (s *ServerService) stopWatcher() {
	s.mu.Lock()
	watcher := s.watcher
	stop := s.watchStop
	s.watcher = nil
	s.watchStop = nil
	s.mu.Unlock()

	if stop != nil {
		close(stop)
	}
	if watcher != nil {
		watcher.Close()
	}
}

// Shutdown transitions to the terminal state, stops the watcher and
// closes every session channel. Idempotent; the shutdown event is
// logged at most once.
func (s *ServerService) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		s.st = StateShuttingDown
		sessions := s.sessions
		s.sessions = make(map[string]*session)
		s.mu.Unlock()

		s.stopWatcher()
		for _, sess := range sessions {
			sess.close()
		}
		logging.Info("Service", "Server service shutting down")
	})
	return nil
}
