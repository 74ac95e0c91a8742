package api

// Message type discriminators shared by all service variants. The server
// and virtual variants deliver OutMessages over client channels or the
// interpreter bridge; the headless variant only consumes ClientMessages.
const (
	// MessageTypeComponentUpdate carries component state changes, either
	// client -> service (a widget changed) or service -> client (another
	// client changed shared state).
	MessageTypeComponentUpdate = "component_update"

	// MessageTypeRender delivers a freshly appended component to a client.
	MessageTypeRender = "render"

	// MessageTypeScriptReload tells clients the app script changed on disk
	// and a rerun is pending.
	MessageTypeScriptReload = "script_reload"

	// MessageTypeLog streams a server-side log entry to clients so they
	// can surface runtime diagnostics without console access.
	MessageTypeLog = "log"
)

// ClientMessage is the contract consumed by HandleClientMessage. Only
// the Type discriminator is mandatory; States is populated for
// component_update messages.
type ClientMessage struct {
	Type   string         `json:"type"`
	States map[string]any `json:"states,omitempty"`
}

// OutMessage is a service -> client delivery unit. The transport framing
// that carries it over the wire (or the interpreter bridge) is owned by
// the transport layer, not by the service core.
type OutMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}
