package domain

// Conversation is a summary entry in the conversation list.
// Identity is the backend-assigned ID; exactly one authoritative copy
// per ID survives reconciliation.
type Conversation struct {
	// ID is the opaque backend-assigned conversation identifier.
	ID string

	// Title is the display title. For optimistic entries it is derived
	// from the first words of the query until the backend confirms.
	Title string
}

// OptimisticTitleLength is the number of query characters used when
// synthesising a title for a conversation the backend has not named yet.
const OptimisticTitleLength = 30

// OptimisticTitle derives a display title from the query text,
// ellipsized at OptimisticTitleLength characters.
func OptimisticTitle(query string) string {
	runes := []rune(query)
	if len(runes) > OptimisticTitleLength {
		return string(runes[:OptimisticTitleLength]) + "..."
	}
	return query
}

// DocumentInfo describes a document known to the backend.
type DocumentInfo struct {
	// ID is the backend document identifier.
	ID string

	// Filename is the original file name.
	Filename string

	// NumChunks is how many chunks the backend split the document into.
	NumChunks int

	// FileSize is the size in bytes, if reported.
	FileSize int64
}

// HealthStatus is the backend health report.
type HealthStatus struct {
	// Status is the health state, e.g. "healthy".
	Status string

	// Service is the backend service name.
	Service string

	// Version is the backend version string.
	Version string
}

// Healthy reports whether the backend considers itself healthy.
func (h HealthStatus) Healthy() bool {
	return h.Status == "healthy"
}
