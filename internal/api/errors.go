package api

import (
	"errors"
	"fmt"
)

// NotInitializedError indicates that Instance() was called before
// Initialize(). This is fatal to the caller: the service layer never
// hands out a dummy instance, the caller must always go through
// Initialize first.
type NotInitializedError struct {
	// Message provides a custom error message if the default is
	// insufficient.
	Message string
}

// Error implements the error interface for NotInitializedError.
func (e *NotInitializedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "service not initialized: call Initialize() first"
}

// IsNotInitialized checks if an error is a NotInitializedError using
// error unwrapping, so wrapped errors are recognized too.
func IsNotInitialized(err error) bool {
	var notInitErr *NotInitializedError
	return errors.As(err, &notInitErr)
}

// NewNotInitializedError creates a new NotInitializedError with the
// default message.
func NewNotInitializedError() *NotInitializedError {
	return &NotInitializedError{}
}

// NotFoundError represents a resource not found error with contextual
// information. It is raised when an explicitly supplied path does not
// exist, which indicates a user configuration error rather than a
// recoverable runtime condition.
type NotFoundError struct {
	// ResourceType categorizes the type of resource that was not found
	// (e.g., "script", "source").
	ResourceType string

	// ResourceName is the specific identifier of the resource.
	ResourceName string
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.ResourceType, e.ResourceName)
}

// IsNotFound checks if an error is a NotFoundError using error
// unwrapping.
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// NewNotFoundError creates a new NotFoundError with the specified
// resource type and name.
func NewNotFoundError(resourceType, resourceName string) *NotFoundError {
	return &NotFoundError{
		ResourceType: resourceType,
		ResourceName: resourceName,
	}
}

// Specific NotFoundError constructors.
var (
	// NewScriptNotFoundError creates a script not found error.
	NewScriptNotFoundError = func(path string) *NotFoundError {
		return NewNotFoundError("script", path)
	}

	// NewSourceNotFoundError creates a data source not found error.
	NewSourceNotFoundError = func(name string) *NotFoundError {
		return NewNotFoundError("source", name)
	}
)

// AlreadyShutdownError indicates an attempt to initialize the service
// layer after the singleton was shut down. Re-initialization after
// shutdown is undefined and must fail loudly rather than silently
// resurrect a stale singleton.
type AlreadyShutdownError struct{}

// Error implements the error interface for AlreadyShutdownError.
func (e *AlreadyShutdownError) Error() string {
	return "service was shut down: re-initialization is not supported"
}

// IsAlreadyShutdown checks if an error is an AlreadyShutdownError.
func IsAlreadyShutdown(err error) bool {
	var shutdownErr *AlreadyShutdownError
	return errors.As(err, &shutdownErr)
}

// NewAlreadyShutdownError creates a new AlreadyShutdownError.
func NewAlreadyShutdownError() *AlreadyShutdownError {
	return &AlreadyShutdownError{}
}

// RenderError wraps a failure that occurred while formatting or printing
// a single component. It is always contained by the caller: one bad
// component must not stop subsequent components from rendering.
type RenderError struct {
	// ComponentKind is the kind discriminator of the failing component,
	// or "unknown" when the payload carried none.
	ComponentKind string

	// Err is the underlying failure.
	Err error
}

// Error implements the error interface for RenderError.
func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering %s component: %v", e.ComponentKind, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *RenderError) Unwrap() error {
	return e.Err
}

// IsRenderError checks if an error is a RenderError.
func IsRenderError(err error) bool {
	var renderErr *RenderError
	return errors.As(err, &renderErr)
}

// NewRenderError creates a new RenderError for the given component kind.
func NewRenderError(kind string, err error) *RenderError {
	if kind == "" {
		kind = "unknown"
	}
	return &RenderError{ComponentKind: kind, Err: err}
}
