package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"easel/internal/api"
	"easel/internal/env"
)

// resetFacade pins the execution context to headless and clears both the
// detector cache and the singleton between lifecycles.
func resetFacade(t *testing.T) {
	t.Helper()
	ResetForTest()
	env.ResetForTest()
	require.NoError(t, env.SetContext(api.ContextHeadless))
	t.Cleanup(func() {
		ResetForTest()
		env.ResetForTest()
	})
}

func TestFacade_InstanceBeforeInitializeFails(t *testing.T) {
	resetFacade(t)

	_, err := Instance()
	assert.True(t, api.IsNotInitialized(err))
}

func TestFacade_InitializeThenInstanceReturnsSameSingleton(t *testing.T) {
	resetFacade(t)

	first, err := Initialize("")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, api.ContextHeadless, first.ExecutionContext())

	again, err := Initialize("")
	require.NoError(t, err)
	assert.Same(t, first, again)

	got, err := Instance()
	require.NoError(t, err)
	assert.Same(t, first, got)
}

func TestFacade_InitializeAfterShutdownFailsLoudly(t *testing.T) {
	resetFacade(t)

	svc, err := Initialize("")
	require.NoError(t, err)
	require.NoError(t, svc.Shutdown(context.Background()))

	_, err = Initialize("")
	assert.True(t, api.IsAlreadyShutdown(err))
}

func TestFacade_SelectsServerVariant(t *testing.T) {
	ResetForTest()
	env.ResetForTest()
	require.NoError(t, env.SetContext(api.ContextServer))
	t.Cleanup(func() {
		svc, _ := Instance()
		if svc != nil {
			svc.Shutdown(context.Background())
		}
		ResetForTest()
		env.ResetForTest()
	})

	svc, err := Initialize("")
	require.NoError(t, err)
	assert.Equal(t, api.ContextServer, svc.ExecutionContext())
}

func TestFacade_SelectsVirtualVariant(t *testing.T) {
	ResetForTest()
	env.ResetForTest()
	require.NoError(t, env.SetContext(api.ContextVirtual))
	t.Cleanup(func() {
		ResetForTest()
		env.ResetForTest()
	})

	svc, err := Initialize("")
	require.NoError(t, err)
	assert.Equal(t, api.ContextVirtual, svc.ExecutionContext())
}
