package component

import "fmt"

// FormatLine renders one human-readable console line for a component
// payload. The exact formats are a compatibility contract with the
// headless execution context and are pinned by tests; do not reword
// them.
func FormatLine(payload any) string {
	if text, ok := payload.(string); ok {
		// Raw HTML/text payload.
		return fmt.Sprintf("[html] %s", text)
	}

	c, ok := AsComponent(payload)
	if !ok {
		return fmt.Sprintf("[unknown] %v", payload)
	}

	switch c.Kind() {
	case KindText:
		return fmt.Sprintf("[text] %s", c.Markdown())

	case KindSlider:
		value, _ := c.Value()
		return fmt.Sprintf("[slider] %s: %v", c.Label(), value)

	case KindPlot:
		// Never dump plot data on a console.
		return "[plot] Plot would be displayed in browser mode"

	case KindTable:
		// Title and row count only, never the row contents.
		return fmt.Sprintf("[table] %s (%d rows)", c.Title("Table"), c.RowCount())

	case KindCheckbox:
		glyph := "✗"
		if value, _ := c.Value(); isChecked(value) {
			glyph = "✓"
		}
		return fmt.Sprintf("[checkbox] %s: %s", c.Label(), glyph)

	case KindSelectbox:
		value, _ := c.Value()
		return fmt.Sprintf("[selectbox] %s: %v", c.Label(), value)

	default:
		id := c.ID()
		if id == "" {
			id = "unknown"
		}
		return fmt.Sprintf("[%s] Component ID: %s", c.Kind(), id)
	}
}

// isChecked interprets a checkbox value: boolean true, the string
// "true", or any non-zero number counts as checked. Numeric values
// arrive as int from literals and as float64 from decoded JSON.
func isChecked(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v == "true"
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	}
	return false
}
