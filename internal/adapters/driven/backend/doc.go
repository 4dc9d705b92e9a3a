// Package backend provides the HTTP client for the answering service:
// REST endpoints for conversations and documents, and the server-sent
// event stream for queries.
package backend
