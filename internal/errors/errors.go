// Package errors defines the structured error used across hazmon. Every
// failure a user can see carries a code, a one-line message, the underlying
// cause and, where there is one, a hint about what to do.
package errors

import (
	"errors"
	"strings"
)

// Code groups errors by the subsystem that failed.
type Code string

const (
	ErrConfig Code = "CONFIG" // bad flags or config file
	ErrConn   Code = "CONN"   // telemetry link dial, read or close
	ErrDecode Code = "DECODE" // malformed telemetry frame
	ErrFetch  Code = "FETCH"  // log endpoint request
	ErrRender Code = "RENDER" // PNG chart output
)

// Error is printed by the CLI as
//
//	✗ <message>
//
//	  <cause>
//
//	  <suggestion>
type Error struct {
	Code       Code
	Message    string
	Suggestion string
	Cause      error
}

// New returns an Error without a cause.
func New(code Code, message, suggestion string) *Error {
	return &Error{Code: code, Message: message, Suggestion: suggestion}
}

// WrapWithCode returns an Error caused by err.
func WrapWithCode(err error, code Code, message, suggestion string) *Error {
	return &Error{Code: code, Message: message, Suggestion: suggestion, Cause: err}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("✗ ")
	b.WriteString(e.Message)
	b.WriteString("\n")
	for _, extra := range []string{e.causeText(), e.Suggestion} {
		if extra != "" {
			b.WriteString("\n  ")
			b.WriteString(extra)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (e *Error) causeText() string {
	if e.Cause == nil {
		return ""
	}
	return e.Cause.Error()
}

// Short is the message and cause on one line, for the dashboard footer and
// log lines.
func (e *Error) Short() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode reports whether err, or anything it wraps, is an *Error with code.
func IsCode(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// Summary describes any error on one line.
func Summary(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Short()
	}
	return err.Error()
}
