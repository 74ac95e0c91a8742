// Package env classifies the current process into exactly one execution
// context: server, headless or virtual. Classification happens once per
// process and is cached; later changes to the ambient signals do not
// retrigger it.
package env

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"easel/internal/api"
	"easel/pkg/logging"
)

func defaultGetenv(key string) string {
	return os.Getenv(key)
}

// Environment variables consumed by the detector.
const (
	// ContextEnv explicitly selects the execution context
	// ("server", "headless" or "virtual"). This is the preferred signal;
	// the call-stack fallback below exists only for legacy integrations
	// that cannot set it.
	ContextEnv = "EASEL_CONTEXT"

	// HeadlessEnv requests headless mode when set to "1".
	HeadlessEnv = "EASEL_HEADLESS"

	// ScriptPathEnv optionally carries the app script path.
	ScriptPathEnv = "EASEL_SCRIPT_PATH"
)

// Indirections for testing. Production code never reassigns these.
var (
	goosFunc   = func() string { return runtime.GOOS }
	getenvFunc = defaultGetenv
)

var (
	mu          sync.Mutex
	detected    bool
	cached      api.ExecutionContext
	serverEntry string
)

// MarkServerEntry records the caller's source file as the framework's
// server bootstrap entry point. The serve path calls this before
// Initialize so the legacy call-stack fallback can tell "launched through
// the server bootstrap" apart from "run directly as a script".
func MarkServerEntry() {
	_, file, _, ok := runtime.Caller(1)
	if !ok {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	serverEntry = file
}

// Detect returns the execution context for this process. The first call
// performs classification; all subsequent calls return the cached
// verdict regardless of ambient signal changes.
func Detect() api.ExecutionContext {
	mu.Lock()
	defer mu.Unlock()
	if !detected {
		cached = classify()
		detected = true
		logging.Info("Detector", "Classified execution context as %s", cached)
	}
	return cached
}

// SetContext overrides classification with an explicit, caller-supplied
// context. It must be called before the first Detect; afterwards the
// verdict is immutable and SetContext fails.
func SetContext(ctx api.ExecutionContext) error {
	if !ctx.Valid() {
		return fmt.Errorf("unknown execution context %q", ctx)
	}
	mu.Lock()
	defer mu.Unlock()
	if detected {
		return fmt.Errorf("execution context already classified as %s", cached)
	}
	cached = ctx
	detected = true
	return nil
}

// classify inspects ambient signals in priority order. It must stay
// side-effect-free apart from logging. Ambiguous cases resolve to
// server: silently downgrading an interactive deployment to headless
// (swallowed output) is the worse failure mode.
func classify() api.ExecutionContext {
	// Explicit configuration wins over all sniffing.
	if v := api.ExecutionContext(getenvFunc(ContextEnv)); v != "" {
		if v.Valid() {
			return v
		}
		logging.Warn("Detector", "Ignoring invalid %s value %q", ContextEnv, v)
	}

	// Browser-embedded runtime marker.
	if goosFunc() == "js" {
		return api.ContextVirtual
	}

	if getenvFunc(HeadlessEnv) == "1" {
		return api.ContextHeadless
	}

	// Legacy fallback: if main.main is on the stack and the process was
	// not launched through the server bootstrap, the app is being run
	// directly as a script.
	if ctx, ok := classifyFromStack(); ok {
		return ctx
	}

	return api.ContextServer
}

// classifyFromStack walks the call stack from innermost to outermost
// frame. A frame inside the recorded server bootstrap file classifies
// the process as server; reaching main.main without seeing the bootstrap
// classifies it as headless. Returns ok=false when neither frame is
// found, leaving the verdict to the caller's server default.
func classifyFromStack() (api.ExecutionContext, bool) {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if serverEntry != "" && frame.File == serverEntry {
			return api.ContextServer, true
		}
		if frame.Function == "main.main" && frame.File != serverEntry {
			logging.Info("Detector", "Detected direct script execution, using headless mode")
			return api.ContextHeadless, true
		}
		if !more {
			break
		}
	}
	return "", false
}

// ScriptPath returns the script path carried by the environment, if any.
func ScriptPath() string {
	return getenvFunc(ScriptPathEnv)
}

// ResetForTest clears the cached verdict and the server entry marker so
// tests can exercise classification repeatedly. Never call this from
// production code.
func ResetForTest() {
	mu.Lock()
	defer mu.Unlock()
	detected = false
	cached = ""
	serverEntry = ""
	goosFunc = func() string { return runtime.GOOS }
	getenvFunc = defaultGetenv
}
