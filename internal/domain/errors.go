package domain

import "fmt"

// Error types for consistent error handling across the BFF.
//
// Taxonomy: transient fetch failures surface as ErrExternalService and are
// absorbed by the pollers (stale data retained); rejected mutations surface
// as ErrSubmission with no automatic retry; auth failures surface as
// ErrUnauthorized with the collaborator's message. None of these is fatal.

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrExternalService indicates a failure calling the sales telemetry API.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrTimeout indicates an operation exceeded its deadline.
type ErrTimeout struct {
	Operation string
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("operation timed out: %s", e.Operation)
}

// ErrCircuitOpen indicates the circuit breaker is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}

// ErrValidation indicates a validation error (bad input). Raised before any
// network call is made.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrSubmission indicates a mutation was rejected or the upstream was
// unreachable. The pending change is discarded; the caller must resubmit.
type ErrSubmission struct {
	Target string
	Err    error
}

func (e *ErrSubmission) Error() string {
	return fmt.Sprintf("submission failed [%s]: %v", e.Target, e.Err)
}

func (e *ErrSubmission) Unwrap() error {
	return e.Err
}

// ErrMutationInFlight indicates a submission for the same target is still
// outstanding. Single-flight: the second attempt is rejected, not queued.
type ErrMutationInFlight struct {
	Target string
}

func (e *ErrMutationInFlight) Error() string {
	return fmt.Sprintf("submission already in flight for: %s", e.Target)
}

// ErrUnauthorized indicates invalid credentials or a missing session.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}
