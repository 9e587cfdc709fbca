// Package errors provides centralized error definitions for the application.
// Errors are organized by domain to avoid duplication and provide consistent naming.
//
// Naming conventions:
//   - Exported errors (Err*): Use for errors that callers need to check with errors.Is
//   - Unexported errors (err*): Use for internal package errors
//   - All sentinel errors should be defined as variables, not inline errors.New calls
//   - Use fmt.Errorf with %w to wrap sentinel errors with context
package errors

import "errors"

// Reference decoding errors.
var (
	// ErrMalformedReference indicates a nostr reference that could not be decoded.
	ErrMalformedReference = errors.New("malformed reference")

	// ErrUnsupportedEntity indicates a decoded entity of a kind the caller did not ask for.
	ErrUnsupportedEntity = errors.New("unsupported entity")
)

// Lookup errors.
var (
	// ErrTagNotFound indicates a positional tag reference outside the tag list.
	ErrTagNotFound = errors.New("tag not found")
)

// Response and parsing errors.
var (
	// ErrEmptyDocument indicates a document with no usable content was supplied.
	ErrEmptyDocument = errors.New("empty document")

	// ErrUnexpectedType indicates an unexpected type was encountered.
	ErrUnexpectedType = errors.New("unexpected type")
)

// Validation errors.
var (
	// ErrInvalidInput indicates invalid input was provided.
	ErrInvalidInput = errors.New("invalid input")
)
