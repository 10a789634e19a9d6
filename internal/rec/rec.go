// Package rec provides utilities for recovering from panics and wrapping errors.
package rec

import (
	"fmt"
	"runtime/debug"
)

// Value converts a value returned by recover into an error carrying the stack.
// It returns nil for a nil value.
func Value(r any) error {
	if r == nil {
		return nil
	}
	if err, ok := r.(error); ok {
		return fmt.Errorf("recovered panic: %w\n%s", err, debug.Stack())
	}
	return fmt.Errorf("recovered panic: %v\n%s", r, debug.Stack())
}

// Error recovers a panic and assigns it to the provided error.
func Error(err *error) {
	if r := Value(recover()); r != nil {
		*err = r
	}
}

// Wrap recovers a panic with the provided format and arguments
// and assigns it to the provided error.
// The recovered panic is appended to the end of the arguments.
// If no panic was recovered, but the error is not nil, it is wrapped
// with the provided format and arguments as well.
func Wrap(err *error, format string, a ...any) {
	if r := recover(); r != nil {
		*err = fmt.Errorf(format, append(a, Value(r))...)
	} else if *err != nil {
		*err = fmt.Errorf(format, append(a, *err)...)
	}
}
