package sim

import (
	"errors"
	"fmt"
)

// ConfigurationError reports that a component cannot be built from the
// settings it was given.
type ConfigurationError struct {
	Component string
	Msg       string
	Err       error
}

// ConfigErrorf creates a ConfigurationError. A %w verb in the format wraps the
// matching argument as the cause.
func ConfigErrorf(component, format string, args ...any) *ConfigurationError {
	err := fmt.Errorf(format, args...)

	return &ConfigurationError{
		Component: component,
		Msg:       err.Error(),
		Err:       errors.Unwrap(err),
	}
}

func (e *ConfigurationError) Error() string {
	if e.Component == "" {
		return "configuration error: " + e.Msg
	}

	return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Msg)
}

// Unwrap returns the underlying cause.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// IsConfigurationError checks if any error in the chain is a
// ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// RuntimeAssertionError is raised, as a panic, when the stepping of a model
// violates an ordering invariant.
type RuntimeAssertionError struct {
	Msg string
}

func (e *RuntimeAssertionError) Error() string {
	return "runtime assertion failed: " + e.Msg
}

// AssertionPanic panics with a RuntimeAssertionError.
func AssertionPanic(format string, args ...any) {
	panic(&RuntimeAssertionError{Msg: fmt.Sprintf(format, args...)})
}

// AsRuntimeAssertion extracts a RuntimeAssertionError from a recovered panic
// value.
func AsRuntimeAssertion(r any) (*RuntimeAssertionError, bool) {
	switch v := r.(type) {
	case *RuntimeAssertionError:
		return v, true
	case error:
		var ra *RuntimeAssertionError
		if errors.As(v, &ra) {
			return ra, true
		}
	}

	return nil, false
}
