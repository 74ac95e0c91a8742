package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatLine_RawText(t *testing.T) {
	assert.Equal(t, "[html] <b>hello</b>", FormatLine("<b>hello</b>"))
}

func TestFormatLine_Text(t *testing.T) {
	line := FormatLine(Component{"type": "text", "markdown": "# Title"})
	assert.Equal(t, "[text] # Title", line)
}

func TestFormatLine_Slider(t *testing.T) {
	line := FormatLine(Component{"type": "slider", "label": "Speed", "value": 5})
	assert.Equal(t, "[slider] Speed: 5", line)
}

func TestFormatLine_Plot(t *testing.T) {
	line := FormatLine(Component{"type": "plot", "data": []any{1, 2, 3}})
	assert.Equal(t, "[plot] Plot would be displayed in browser mode", line)
}

func TestFormatLine_TableNeverDumpsRows(t *testing.T) {
	line := FormatLine(Component{
		"type":  "table",
		"title": "Results",
		"data":  []any{1, 2, 3},
	})
	assert.Equal(t, "[table] Results (3 rows)", line)
}

func TestFormatLine_TableDefaultTitle(t *testing.T) {
	line := FormatLine(Component{"type": "table"})
	assert.Equal(t, "[table] Table (0 rows)", line)
}

func TestFormatLine_TableTypedSliceData(t *testing.T) {
	line := FormatLine(Component{
		"type":  "table",
		"title": "Rows",
		"data":  []map[string]any{{"a": 1}, {"a": 2}},
	})
	assert.Equal(t, "[table] Rows (2 rows)", line)
}

func TestFormatLine_Checkbox(t *testing.T) {
	checked := FormatLine(Component{"type": "checkbox", "label": "Enabled", "value": true})
	assert.Equal(t, "[checkbox] Enabled: ✓", checked)

	unchecked := FormatLine(Component{"type": "checkbox", "label": "Enabled", "value": false})
	assert.Equal(t, "[checkbox] Enabled: ✗", unchecked)

	missing := FormatLine(Component{"type": "checkbox", "label": "Enabled"})
	assert.Equal(t, "[checkbox] Enabled: ✗", missing)
}

func TestFormatLine_CheckboxNumericValue(t *testing.T) {
	// Dynamic payloads carry truthy numbers: int from literals, float64
	// from decoded JSON.
	assert.Equal(t, "[checkbox] Enabled: ✓",
		FormatLine(Component{"type": "checkbox", "label": "Enabled", "value": 1}))
	assert.Equal(t, "[checkbox] Enabled: ✓",
		FormatLine(Component{"type": "checkbox", "label": "Enabled", "value": 1.0}))
	assert.Equal(t, "[checkbox] Enabled: ✗",
		FormatLine(Component{"type": "checkbox", "label": "Enabled", "value": 0}))
	assert.Equal(t, "[checkbox] Enabled: ✗",
		FormatLine(Component{"type": "checkbox", "label": "Enabled", "value": 0.0}))
}

func TestFormatLine_Selectbox(t *testing.T) {
	line := FormatLine(Component{"type": "selectbox", "label": "Region", "value": "eu-west-1"})
	assert.Equal(t, "[selectbox] Region: eu-west-1", line)
}

func TestFormatLine_UnknownKindPrintsIDOnly(t *testing.T) {
	line := FormatLine(Component{"type": "gauge", "id": "gauge-7", "value": 0.3})
	assert.Equal(t, "[gauge] Component ID: gauge-7", line)
}

func TestFormatLine_UnknownKindWithoutID(t *testing.T) {
	line := FormatLine(Component{"type": "gauge"})
	assert.Equal(t, "[gauge] Component ID: unknown", line)
}

func TestFormatLine_NonMappingPayload(t *testing.T) {
	assert.Equal(t, "[unknown] 42", FormatLine(42))
}

func TestFormatLine_PlainMapPayload(t *testing.T) {
	line := FormatLine(map[string]any{"type": "slider", "label": "Volume", "value": 11})
	assert.Equal(t, "[slider] Volume: 11", line)
}

func TestComponent_Accessors(t *testing.T) {
	c := Component{"type": "slider", "id": "s1", "label": "Speed", "value": 5}
	assert.Equal(t, "slider", c.Kind())
	assert.Equal(t, "s1", c.ID())
	assert.Equal(t, "Speed", c.Label())
	value, ok := c.Value()
	assert.True(t, ok)
	assert.Equal(t, 5, value)

	empty := Component{}
	assert.Equal(t, "", empty.Kind())
	_, ok = empty.Value()
	assert.False(t, ok)
}
