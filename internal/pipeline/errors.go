// Package pipeline implements the capability dispatcher and per-capability
// action handlers: manage_productivity, find_and_analyze,
// check_availability, optimize_schedule, plus the shared single-entity
// resolution helper and the RPC-facing Error taxonomy.
package pipeline

import (
	"errors"
	"fmt"
)

// ErrorKind enumerates the internal error taxonomy. Every handler returns
// errors as values wrapped in *Error rather than panicking, so the RPC
// boundary always has a typed value to map onto a Response.
type ErrorKind string

const (
	ErrorKindSetupRequired ErrorKind = "SetupRequired"
	ErrorKindValidation ErrorKind = "Validation"
	ErrorKindInterpretationFailed ErrorKind = "InterpretationFailed"
	ErrorKindNotFound ErrorKind = "NotFound"
	ErrorKindAmbiguous ErrorKind = "Ambiguous"
	ErrorKindConflictUnresolvable ErrorKind = "ConflictUnresolvable"
	ErrorKindProviderError ErrorKind = "ProviderError"
	ErrorKindSyncFailure ErrorKind = "SyncFailure"
	ErrorKindInternal ErrorKind = "Internal"
)

// Error is the single internal error type used across the pipeline. Handlers
// and interpreters wrap causes with the appropriate Kind; the RPC boundary
// (internal/a2a) maps Kind to the wire Response/JSON-RPC error shape.
type Error struct {
	Kind ErrorKind
	Message string
	Cause error
	Provider string
	// Candidates carries up to three {id, title} pairs for NotFound/Ambiguous
	// errors, so the caller can render clarification options.
	Candidates []Candidate
}

// Candidate is a single clarification option surfaced with NotFound/Ambiguous.
type Candidate struct {
	ID string
	Title string
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an *Error of the given kind.
func New(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an *Error of the given kind around a cause.
func Wrap(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Code maps an ErrorKind to the wire `code` string.
func (k ErrorKind) Code() string {
	switch k {
	case ErrorKindInterpretationFailed:
		return "INTERPRETER_FAILED"
	case ErrorKindNotFound:
		return "NOT_FOUND"
	case ErrorKindAmbiguous:
		return "AMBIGUOUS"
	case ErrorKindProviderError:
		return "PROVIDER_ERROR"
	case ErrorKindSyncFailure:
		return "SYNC_FAILURE"
	case ErrorKindValidation:
		return "VALIDATION"
	case ErrorKindInternal:
		return "INTERNAL"
	default:
		return string(k)
	}
}

// As is a convenience wrapper over errors.As for *Error.
func As(err error, target **Error) bool {
	return errors.As(err, target)
}
