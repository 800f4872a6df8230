package tree

import (
	"errors"
	"fmt"
)

// ErrorKind is the category of a generation failure.
type ErrorKind string

const (
	// KindConfiguration marks malformed configs. Reported before any host call.
	KindConfiguration ErrorKind = "configuration"
	// KindHostOperation marks a failed editing primitive.
	KindHostOperation ErrorKind = "host_operation"
	// KindStaleReference marks a point or spline index that no longer exists.
	KindStaleReference ErrorKind = "stale_reference"
)

// Error is the error type returned by the generator and by hosts.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Configurationf creates a configuration error with formatting.
func Configurationf(format string, args ...any) error {
	return &Error{
		Kind:    KindConfiguration,
		Message: fmt.Sprintf(format, args...),
	}
}

// HostFailuref creates a host operation error with formatting.
func HostFailuref(format string, args ...any) error {
	return &Error{
		Kind:    KindHostOperation,
		Message: fmt.Sprintf(format, args...),
	}
}

// StaleReferencef creates a stale reference error with formatting.
func StaleReferencef(format string, args ...any) error {
	return &Error{
		Kind:    KindStaleReference,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapHost adds context to an error returned by a host. An inner *Error keeps
// its kind; anything else becomes a host operation failure.
func WrapHost(message string, err error) error {
	kind := KindHostOperation
	var inner *Error
	if errors.As(err, &inner) {
		kind = inner.Kind
	}
	return &Error{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// KindOf returns the kind of err, or KindHostOperation for foreign errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindHostOperation
}
