// Package oaserrors provides structured error types for oaspublish.
//
// Only the I/O boundary of the publishing pipeline can fail: the transformation
// stages themselves are total functions over an in-memory document. The error
// types here let callers tell those boundary failures apart via errors.Is()
// and errors.As().
//
// # Error Categories
//
//   - SourceError: the document could not be retrieved (file, URL, stdin)
//   - ParseError: the retrieved bytes are not a JSON/YAML mapping document
//   - SinkError: the published document could not be written
//   - ConfigError: invalid configuration or input options
//
// # Usage with errors.Is
//
//	res, err := loader.Load(ctx, "https://example.com/openapi.json")
//	if errors.Is(err, oaserrors.ErrSourceUnavailable) {
//	    // network or file system failure
//	}
package oaserrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrSourceUnavailable indicates the raw document could not be retrieved.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrMalformedSource indicates the retrieved data is not a parseable document.
	ErrMalformedSource = errors.New("malformed source")

	// ErrSinkFailure indicates the output could not be persisted or emitted.
	ErrSinkFailure = errors.New("sink failure")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// SourceError represents a failure to retrieve the raw document.
type SourceError struct {
	// Locator is the file path, URL or "-" that was requested
	Locator string
	// StatusCode is the HTTP status for URL sources (0 if not applicable)
	StatusCode int
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *SourceError) Error() string {
	msg := "source unavailable"
	if e.Locator != "" {
		msg += ": " + e.Locator
	}
	if e.StatusCode > 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *SourceError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *SourceError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

// ParseError represents retrieved data that is not a JSON/YAML mapping document.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Column is the column number where the error occurred (0 if unknown)
	Column int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "malformed source"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrMalformedSource
}

// SinkError represents a failure to render or persist the published document.
type SinkError struct {
	// Destination is the output path, or empty for standard output
	Destination string
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *SinkError) Error() string {
	msg := "sink failure"
	if e.Destination != "" {
		msg += ": " + e.Destination
	} else {
		msg += ": <stdout>"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *SinkError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *SinkError) Is(target error) bool {
	return target == ErrSinkFailure
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
