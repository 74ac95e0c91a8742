// Package service provides the environment-adaptive service layer of
// easel.
//
// This package defines the capability set every service implementation
// must satisfy and the three implementations behind it, one per
// execution context. Application code and the widget catalog program
// against the Service interface and never branch on which context is
// active.
//
// # Core Concepts
//
// Service: the uniform capability set — client registration, client
// message handling, component appending, component state access and
// shutdown. Every variant implements every operation; operations that
// make no sense in a context are documented no-ops that still return
// values of the correct shape.
//
// HeadlessService: the non-interactive variant. Application code runs
// top to bottom, every call is a direct non-suspending function call,
// and components print to the console as single human-readable lines.
//
// ServerService: the interactive variant. Clients register sessions
// with buffered message channels, rendered components and state changes
// broadcast to all sessions, and a filesystem watcher announces script
// changes for hot reload.
//
// VirtualService: the in-browser variant. A single implicit session
// emits messages over an injectable interpreter bridge; messages
// produced before the bridge attaches are buffered.
//
// # Facade
//
// Initialize performs environment detection exactly once (through
// internal/env), constructs the matching implementation and caches it
// as the process singleton. Instance returns the cached singleton and
// fails with a NotInitializedError when none exists. Re-initializing
// after shutdown fails loudly; a stale singleton is never resurrected.
//
// # Lifecycle
//
// Every variant moves Uninitialized -> Active -> ShuttingDown.
// ShuttingDown is terminal: new work is rejected or accepted as a
// logged no-op, never deadlocking or crashing the process. Shutdown is
// idempotent and logs the shutdown event at most once.
//
// # Concurrency
//
// The component state store is the only structure mutated from multiple
// logical call sites (application code, client message handling,
// component rendering); all access serializes through its lock. Every
// other piece of state is either process-wide-immutable (the detected
// execution context) or owned by exactly one service instance.
package service
