package services

import "errors"

// Error taxonomy surfaced to the transport layer. Handlers translate these
// into HTTP status codes; the services only signal the condition.
var (
	// ErrNotFound means an operation referenced a nonexistent id.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState means an operation violates the request lifecycle,
	// e.g. a follow-up before any supervisor response.
	ErrInvalidState = errors.New("invalid state")

	// ErrUpstreamUnavailable means the persistence collaborator failed.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
