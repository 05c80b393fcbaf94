package relay

import "errors"

// ErrKind classifies transfer failures. Every failed Outcome carries exactly
// one kind so callers can decide whether a manual resume makes sense.
type ErrKind string

// Failure kinds.
const (
	// ErrKindSourceUnreachable: the initial connection to the source failed.
	ErrKindSourceUnreachable ErrKind = "source_unreachable"

	// ErrKindTransientSource: source reads kept failing after the retry
	// budget was exhausted.
	ErrKindTransientSource ErrKind = "transient_source"

	// ErrKindDestination: a sink write or finalize failed. Never retried,
	// since partial destination writes may be irreversible.
	ErrKindDestination ErrKind = "destination"

	// ErrKindSizeExceeded: the payload exceeds the configured ceiling.
	// Rejected before any stream is opened.
	ErrKindSizeExceeded ErrKind = "size_exceeded"
)

// Sentinel errors for relay operations.
var (
	// ErrSizeExceeded indicates the payload is larger than the configured
	// maximum transfer size.
	ErrSizeExceeded = errors.New("relay: payload exceeds size ceiling")

	// ErrEmptyLocator indicates the request has no source locator.
	ErrEmptyLocator = errors.New("relay: empty source locator")

	// ErrNotFound indicates no transfer with the given ID exists in the
	// registry.
	ErrNotFound = errors.New("relay: transfer not found")
)
