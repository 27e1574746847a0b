package usecase

import "errors"

// Sentinel errors shared by the use case layer, the TBA client, and the
// HTTP handlers. Callers wrap a sentinel with fmt.Errorf("%w: detail", ...)
// and the response writer classifies the chain with errors.Is to pick the
// HTTP status and the Google error envelope reason.
var (
	// ErrInvalidInput marks bad caller input, like a malformed team key,
	// a zero year, or an unparseable JSON payload.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a missing record, like an unknown config key or a
	// TBA 404 for an event that does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized marks a rejected credential, like a bad internal job
	// token or a TBA key the upstream refuses.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrDependencyUnavailable marks a downstream outage, like an open TBA
	// circuit breaker or a service that was never wired at startup.
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
