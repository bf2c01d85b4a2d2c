// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation   = errors.New("validation error")
	ErrInvalidID    = errors.New("invalid ID")
	ErrInvalidInput = errors.New("invalid input")
	ErrEmptyValue   = errors.New("value cannot be empty")

	// State errors
	ErrInvalidState = errors.New("invalid state")
	ErrExpired      = errors.New("expired")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
	ErrRateLimited        = errors.New("rate limited")

	// Storage errors
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "knowledge", "history", "progress"
	Op      string // Operation that failed, e.g., "Resolve", "Save"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// History domain errors
var (
	ErrSessionNotFound    = NewDomainError("history", "Load", ErrNotFound, "session not found")
	ErrHistoryStoreFailed = NewDomainError("history", "Save", ErrStorageUnavailable, "session store unreachable")
)

// Progress domain errors
var (
	ErrProgressNotFound = NewDomainError("progress", "Find", ErrNotFound, "student progress not found")
	ErrInvalidStudentID = NewDomainError("progress", "Validate", ErrInvalidID, "invalid student ID")
)

// Hub domain errors
var (
	ErrAgentNotFound     = NewDomainError("hub", "Find", ErrNotFound, "agent not registered")
	ErrUnknownMessage    = NewDomainError("hub", "Handle", ErrInvalidInput, "no handler for message type")
	ErrAgentStale        = NewDomainError("hub", "Heartbeat", ErrExpired, "agent missed heartbeats")
	ErrDuplicateAgent    = NewDomainError("hub", "Register", ErrAlreadyExists, "agent already registered")
	ErrEmptyAgentAddress = NewDomainError("hub", "Register", ErrEmptyValue, "agent address is required")
)

// External resource errors
var (
	ErrResourceNotFound    = NewDomainError("resources", "Fetch", ErrNotFound, "resource not found")
	ErrResourceUnavailable = NewDomainError("resources", "Fetch", ErrServiceUnavailable, "resource provider unavailable")
	ErrResourceTimeout     = NewDomainError("resources", "Fetch", ErrTimeout, "resource provider timeout")
	ErrResourceRateLimited = NewDomainError("resources", "Fetch", ErrRateLimited, "resource provider rate limit exceeded")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue)
}

// IsStorage checks if the error came from a persistence collaborator.
// Storage failures never fail an ask; callers log and continue.
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}

// IsRetryable checks if the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout)
}
