package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmptyQuery indicates a query was empty or whitespace-only.
	// No request is issued for such queries.
	ErrEmptyQuery = errors.New("empty query")

	// ErrQueryInFlight indicates a query is already streaming.
	// Callers treat this as a no-op; only one query may be in flight.
	ErrQueryInFlight = errors.New("query already in flight")

	// ErrBackendUnavailable indicates the answering service could not be
	// reached or rejected the request.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrStreamIncomplete indicates the stream ended before a terminal
	// event. Partial content is preserved and the message marked errored.
	ErrStreamIncomplete = errors.New("stream ended before completion")

	// ErrUploadTooLarge indicates a document exceeds the upload size cap.
	// Rejected client-side before any request is issued.
	ErrUploadTooLarge = errors.New("upload too large")
)
