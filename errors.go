package plinth

import "errors"

// Sentinel errors for lifecycle and configuration failures.
var (
	ErrRootNotFound   = errors.New("plinth: root element not found")
	ErrNoRenderer     = errors.New("plinth: component does not provide a renderer")
	ErrAlreadyMounted = errors.New("plinth: component already mounted")
	ErrNotMounted     = errors.New("plinth: component not mounted")
	ErrDestroyed      = errors.New("plinth: component destroyed")
	ErrBadTemplate    = errors.New("plinth: template produced unparsable markup")
)

// IsLifecycleError checks if err reports a lifecycle-ordering bug
// (an operation invoked on an instance in the wrong state).
func IsLifecycleError(err error) bool {
	return errors.Is(err, ErrAlreadyMounted) ||
		errors.Is(err, ErrNotMounted) ||
		errors.Is(err, ErrDestroyed)
}

// IsConfigError checks if err reports a mount-time configuration problem
// (missing root target, missing renderer, broken template output).
func IsConfigError(err error) bool {
	return errors.Is(err, ErrRootNotFound) ||
		errors.Is(err, ErrNoRenderer) ||
		errors.Is(err, ErrBadTemplate)
}
