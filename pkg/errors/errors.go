// Package errors provides structured error types for expedition.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the codec, stores and CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Document errors describe why a wire tree could not be inflated:
//   - UNRESOLVED_REFERENCE: a reference token never matched an object id
//   - UNKNOWN_POLYMORPHIC_TYPE: a type tag is not registered for the slot
//   - TYPE_COERCION: a scalar or object does not fit the declared shape
//   - MALFORMED_DOCUMENT: the wire shape does not match the container kind
//   - INVALID_FORMULA: a formula expression does not compile or run
//
// The remaining codes cover input validation, storage and internal defects.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMalformedDocument, "expected array, got %T", v)
//	if errors.Is(err, errors.ErrCodeMalformedDocument) {
//	    // Handle corrupt document
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStorage, origErr, "save %s", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Document errors
	ErrCodeUnresolvedReference Code = "UNRESOLVED_REFERENCE"
	ErrCodeUnknownType         Code = "UNKNOWN_POLYMORPHIC_TYPE"
	ErrCodeTypeCoercion        Code = "TYPE_COERCION"
	ErrCodeMalformedDocument   Code = "MALFORMED_DOCUMENT"
	ErrCodeInvalidFormula      Code = "INVALID_FORMULA"

	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidName  Code = "INVALID_NAME"

	// Storage errors
	ErrCodeDocumentNotFound Code = "DOCUMENT_NOT_FOUND"
	ErrCodeStorage          Code = "STORAGE_ERROR"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Path    string // Location in the wire tree (optional)
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// At returns e with its wire path set. It mutates and returns the receiver.
func (e *Error) At(path string) *Error {
	e.Path = path
	return e
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message (with its path and cause) without
// the code prefix. For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		msg := e.Message
		if e.Path != "" {
			msg = e.Path + ": " + msg
		}
		if e.Cause != nil {
			msg += ": " + UserMessage(e.Cause)
		}
		return msg
	}
	return err.Error()
}

// IsDocumentError reports whether err means the document itself is corrupt
// or incompatible with the schema it was loaded against.
func IsDocumentError(err error) bool {
	switch GetCode(err) {
	case ErrCodeUnresolvedReference, ErrCodeUnknownType, ErrCodeTypeCoercion,
		ErrCodeMalformedDocument, ErrCodeInvalidFormula:
		return true
	}
	return false
}
