// Package errors provides structured error types for the converter.
//
// Errors carry a machine-readable [Code] so callers can tell apart the three
// failure classes a conversion can produce:
//   - Input defects (MALFORMED_XML, MISSING_DIAGRAM, INVALID_INPUT): the source
//     file cannot be converted; the file fails, a batch keeps going.
//   - Configuration and usage errors (INVALID_CONFIG, INVALID_FORMAT, ...).
//   - Internal invariant violations (INTERNAL_ERROR): a bug in package
//     assembly, never caused by the input.
//
// Recoverable element defects (unknown element kinds, dangling flow
// references) are not errors at all; they are counted and skipped.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMissingDiagram, "no BPMNDiagram in %s", name)
//	if errors.IsInputDefect(err) {
//	    // report and continue with the next file
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeMalformedXML, xmlErr, "parse %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code classifies an [Error]. It is stable text, suitable for scripts and logs.
type Code string

// Codes are grouped as input defects, usage errors and converter faults;
// see the package overview.
const (
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeMalformedXML   Code = "MALFORMED_XML"
	ErrCodeMissingDiagram Code = "MISSING_DIAGRAM"

	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error pairs a [Code] with a message and, optionally, the error that caused it.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error formats as "CODE: message" with ": cause" appended when present.
func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an *Error whose message is fmt.Sprintf(format, args...).
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause attached.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// first returns the outermost *Error in err's chain.
func first(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost *Error in err's chain carries code.
func Is(err error, code Code) bool {
	e, ok := first(err)
	return ok && e.Code == code
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := first(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage renders err for people: codes are dropped and causes are
// joined with ": ".
func UserMessage(err error) string {
	e, ok := first(err)
	switch {
	case !ok:
		return err.Error()
	case e.Cause == nil:
		return e.Message
	}
	return e.Message + ": " + UserMessage(e.Cause)
}

// IsInputDefect reports whether err was caused by an unconvertible source
// document rather than by the converter itself.
func IsInputDefect(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeMalformedXML, ErrCodeMissingDiagram, ErrCodeFileNotFound:
		return true
	}
	return false
}

// IsInternal reports whether err is an invariant violation inside the converter.
func IsInternal(err error) bool {
	return Is(err, ErrCodeInternal)
}
