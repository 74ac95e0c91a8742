package service

import (
	"sync"

	"easel/internal/api"
	"easel/internal/env"
	"easel/pkg/logging"
)

// The facade holds the process-wide singleton. Application code and the
// widget catalog go through Initialize/Instance and never branch on the
// execution context themselves. Tests that want isolation construct
// their own variant with NewHeadless/NewServer/NewVirtual instead of
// touching the singleton.
var (
	facadeMu  sync.Mutex
	singleton Service
)

// Initialize performs environment detection once, constructs the
// matching service implementation and caches it as the process
// singleton. Later calls return the cached instance; the script path of
// later calls is ignored. Initializing after the singleton was shut
// down fails loudly instead of resurrecting it.
func Initialize(scriptPath string) (Service, error) {
	facadeMu.Lock()
	defer facadeMu.Unlock()

	if singleton != nil {
		if singleton.State() == StateShuttingDown {
			return nil, api.NewAlreadyShutdownError()
		}
		return singleton, nil
	}

	if scriptPath == "" {
		scriptPath = env.ScriptPath()
	}

	switch env.Detect() {
	case api.ContextVirtual:
		logging.Info("Service", "Using virtual service (browser environment)")
		singleton = NewVirtual(scriptPath)
	case api.ContextHeadless:
		logging.Info("Service", "Using headless service (headless mode)")
		singleton = NewHeadless(scriptPath)
	default:
		logging.Info("Service", "Using server service (interactive environment)")
		singleton = NewServer(scriptPath)
	}
	return singleton, nil
}

// Instance returns the cached singleton. Calling it before Initialize
// is a programming error and fails with a NotInitializedError; it never
// hands out a dummy instance.
func Instance() (Service, error) {
	facadeMu.Lock()
	defer facadeMu.Unlock()

	if singleton == nil {
		return nil, api.NewNotInitializedError()
	}
	return singleton, nil
}

// ResetForTest drops the singleton so facade tests can run repeated
// lifecycles in one process. Never call this from production code.
func ResetForTest() {
	facadeMu.Lock()
	defer facadeMu.Unlock()
	singleton = nil
}
