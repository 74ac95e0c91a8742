// Package api holds the shared types and error taxonomy of the service
// layer: the execution context enumeration, service lifecycle states,
// the client message contract and the typed errors every component
// reports through.
//
// Keeping these here lets the service variants, the detector and the
// data collaborator agree on contracts without importing each other.
//
// # Error Taxonomy
//
//   - NotInitializedError: Instance() before Initialize(). Fatal to the
//     caller, always surfaced.
//   - NotFoundError: an explicitly supplied path or source name does not
//     exist. Fatal, raised to the caller of the setting operation.
//   - AlreadyShutdownError: initialization after shutdown. Fatal; the
//     singleton is never silently resurrected.
//   - RenderError: one component failed to format or print. Contained
//     and logged by the service; never propagates out of a render pass.
//
// Configuration load failures are not represented here: the data
// package recovers from them locally by substituting a degraded,
// empty manager.
package api
