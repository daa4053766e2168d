// Package errkind provides the structured error categories shared by the
// idset and live packages.
//
// Every caller-facing failure carries one of the Kind constants so that a
// request/response handler can translate it into a numeric code field
// without string-matching error text.
package errkind

import (
	"errors"
	"fmt"
)

// Kind classifies a failure the way the broker's response payloads do:
// a stable string tag plus a human-readable message.
type Kind string

const (
	// InvalidArgument covers malformed idset text, illegal flag
	// combinations, a nil idset where a value is required, and
	// out-of-range ids in a non-autogrow set.
	InvalidArgument Kind = "EINVAL"

	// Overflow covers a destination buffer too small for a formatter.
	Overflow Kind = "EOVERFLOW"

	// NotFound covers requests (e.g. cmb.exec.write) that target an
	// unknown pid.
	NotFound Kind = "ENOENT"

	// Protocol covers an undecodable request or event payload.
	Protocol Kind = "EPROTO"

	// Transport covers errors propagated without interpretation from
	// the host broker.
	Transport Kind = "ECOMM"

	// Other covers permission errors and anything surfaced verbatim
	// from a caller-supplied callback.
	Other Kind = "EOTHER"
)

// Error is a structured error carrying a Kind and optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is/errors.As to see through to Cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an *Error with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf is New with fmt.Sprintf-style formatting of message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error wrapping cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Is reports whether err (or anything it wraps) carries the given Kind.
func Is(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Kind == kind {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// KindOf extracts the Kind from err, defaulting to Other for errors that
// were not constructed by this package.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return Other
}

// Invalidf is a convenience constructor for the most common case.
func Invalidf(format string, args ...interface{}) *Error {
	return Newf(InvalidArgument, format, args...)
}
