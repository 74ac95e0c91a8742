package service

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"easel/internal/api"
	"easel/internal/component"
	"easel/pkg/logging"
)

func newTestHeadless() (*HeadlessService, *bytes.Buffer) {
	var out bytes.Buffer
	return NewHeadlessWithOutput("", &out), &out
}

func TestHeadless_AppendComponentPrintsAndStoresState(t *testing.T) {
	s, out := newTestHeadless()

	s.AppendComponent(component.Component{
		"type": "slider", "id": "speed", "label": "Speed", "value": 5,
	})

	assert.Equal(t, "[slider] Speed: 5\n", out.String())
	assert.Equal(t, 5, s.GetComponentState("speed", nil))
	assert.Len(t, s.GetRenderedComponents().Rows, 1)
}

func TestHeadless_AppendComponentWithoutIDDoesNotTouchStore(t *testing.T) {
	s, _ := newTestHeadless()

	s.AppendComponent(component.Component{"type": "slider", "label": "Speed", "value": 5})
	s.AppendComponent(component.Component{"type": "slider", "id": "speed", "label": "Speed"})

	// Recorded in history, absent from the store.
	assert.Len(t, s.GetRenderedComponents().Rows, 2)
	assert.Nil(t, s.GetComponentState("speed", nil))
}

func TestHeadless_AppendRawTextPayload(t *testing.T) {
	s, out := newTestHeadless()

	s.AppendComponent("<b>bold</b>")

	assert.Equal(t, "[html] <b>bold</b>\n", out.String())
	assert.Len(t, s.GetRenderedComponents().Rows, 1)
}

func TestHeadless_BadComponentDoesNotStopSubsequentOnes(t *testing.T) {
	s, out := newTestHeadless()

	s.AppendComponent(struct{ weird chan int }{})
	s.AppendComponent(component.Component{"type": "text", "markdown": "still here"})

	assert.Contains(t, out.String(), "[text] still here")
}

func TestHeadless_FailingWriterIsContained(t *testing.T) {
	s := NewHeadlessWithOutput("", failingWriter{})

	// Must not panic or propagate; the component is still recorded.
	s.AppendComponent(component.Component{"type": "text", "markdown": "x"})
	assert.Len(t, s.GetRenderedComponents().Rows, 1)
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, assert.AnError
}

func TestHeadless_GetRenderedComponentsShape(t *testing.T) {
	s, _ := newTestHeadless()

	rendered := s.GetRenderedComponents()
	assert.NotNil(t, rendered.Rows)
	assert.Empty(t, rendered.Rows)

	s.AppendComponent(component.Component{"type": "text", "markdown": "a"})
	s.AppendComponent(component.Component{"type": "text", "markdown": "b"})

	rendered = s.GetRenderedComponents()
	require.Len(t, rendered.Rows, 2)
}

func TestHeadless_ClearComponentsKeepsStateStore(t *testing.T) {
	s, _ := newTestHeadless()

	s.AppendComponent(component.Component{"type": "slider", "id": "speed", "value": 5})
	s.ClearComponents()

	assert.Empty(t, s.GetRenderedComponents().Rows)
	assert.Equal(t, 5, s.GetComponentState("speed", nil))
}

func TestHeadless_RegisterClientReturnsNilRunner(t *testing.T) {
	s, _ := newTestHeadless()

	runner, err := s.RegisterClient(context.Background(), "client-1")
	assert.NoError(t, err)
	assert.Nil(t, runner)

	assert.NoError(t, s.UnregisterClient(context.Background(), "client-1"))
}

func TestHeadless_HandleClientMessageComponentUpdate(t *testing.T) {
	s, _ := newTestHeadless()

	err := s.HandleClientMessage(context.Background(), "client-1", api.ClientMessage{
		Type:   api.MessageTypeComponentUpdate,
		States: map[string]any{"a": 1, "b": 2},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, s.GetComponentState("a", nil))
	assert.Equal(t, 2, s.GetComponentState("b", nil))
}

func TestHeadless_HandleClientMessageIgnoresOtherTypes(t *testing.T) {
	s, _ := newTestHeadless()

	err := s.HandleClientMessage(context.Background(), "client-1", api.ClientMessage{
		Type:   "ping",
		States: map[string]any{"a": 1},
	})
	require.NoError(t, err)
	assert.Nil(t, s.GetComponentState("a", nil))
}

func TestHeadless_SetScriptPathMissingFileFails(t *testing.T) {
	s, _ := newTestHeadless()

	err := s.SetScriptPath(filepath.Join(t.TempDir(), "missing.go"))
	assert.True(t, api.IsNotFound(err))
}

func TestHeadless_DegradedDataManagerStillServes(t *testing.T) {
	// A script path with no easel.toml next to it degrades the data
	// manager but must not break the service surface.
	script := filepath.Join(t.TempDir(), "app.go")
	var out bytes.Buffer
	s := NewHeadlessWithOutput(script, &out)

	assert.True(t, s.DataManager().Degraded())

	runner, err := s.RegisterClient(context.Background(), "client-1")
	assert.NoError(t, err)
	assert.Nil(t, runner)

	s.AppendComponent(component.Component{"type": "text", "markdown": "works"})
	assert.Contains(t, out.String(), "[text] works")
}

func TestHeadless_ShutdownIdempotentAndLogsOnce(t *testing.T) {
	var logBuf bytes.Buffer
	logging.InitForCLI(logging.LevelDebug, &logBuf)

	s, _ := newTestHeadless()

	require.NoError(t, s.Shutdown(context.Background()))
	require.NoError(t, s.Shutdown(context.Background()))

	assert.Equal(t, StateShuttingDown, s.State())
	assert.Equal(t, 1, strings.Count(logBuf.String(), "Headless service shutting down"))
}

func TestHeadless_AppendAfterShutdownIsNoOp(t *testing.T) {
	s, out := newTestHeadless()
	require.NoError(t, s.Shutdown(context.Background()))

	s.AppendComponent(component.Component{"type": "text", "markdown": "late"})

	assert.Empty(t, out.String())
	assert.Empty(t, s.GetRenderedComponents().Rows)
}

func TestHeadless_ExecutionContext(t *testing.T) {
	s, _ := newTestHeadless()
	assert.Equal(t, api.ContextHeadless, s.ExecutionContext())
	assert.Equal(t, StateActive, s.State())
}
