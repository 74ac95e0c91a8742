// Package component defines the generic contract every UI-renderable
// unit satisfies, plus the console formatting used by the headless
// execution context. The concrete widget catalog (sliders, tables,
// plots) lives outside the core; this package only cares about the kind
// discriminator and the identifier/value pair.
package component

import "reflect"

// Well-known component kinds. Anything else is formatted through the
// generic fallback.
const (
	KindText      = "text"
	KindSlider    = "slider"
	KindPlot      = "plot"
	KindTable     = "table"
	KindCheckbox  = "checkbox"
	KindSelectbox = "selectbox"
)

// Component is the mapping form of a renderable unit. It carries at
// least a "type" discriminator and, depending on the kind, "id",
// "value", "label", "data", "title" or "markdown" entries.
type Component map[string]any

// Kind returns the type discriminator, or "" when absent.
func (c Component) Kind() string {
	kind, _ := c["type"].(string)
	return kind
}

// ID returns the component identifier, or "" when absent.
func (c Component) ID() string {
	id, _ := c["id"].(string)
	return id
}

// Value returns the component's current value and whether one is set.
func (c Component) Value() (any, bool) {
	value, ok := c["value"]
	return value, ok
}

// Label returns the human-readable label, or "" when absent.
func (c Component) Label() string {
	label, _ := c["label"].(string)
	return label
}

// Title returns the title, or def when absent.
func (c Component) Title(def string) string {
	if title, ok := c["title"].(string); ok {
		return title
	}
	return def
}

// Markdown returns the markdown body, or "" when absent.
func (c Component) Markdown() string {
	md, _ := c["markdown"].(string)
	return md
}

// RowCount returns the number of rows in the component's data payload.
// Any slice or array counts by length; everything else counts as zero.
func (c Component) RowCount() int {
	data, ok := c["data"]
	if !ok || data == nil {
		return 0
	}
	v := reflect.ValueOf(data)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return v.Len()
	}
	return 0
}

// AsComponent normalizes the payload forms AppendComponent accepts into
// a Component mapping. Raw strings and unrecognized payloads return
// ok=false; they still render through their own formatting branches.
func AsComponent(payload any) (Component, bool) {
	switch p := payload.(type) {
	case Component:
		return p, true
	case map[string]any:
		return Component(p), true
	}
	return nil, false
}
