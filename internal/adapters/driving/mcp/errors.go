// Package mcp provides an MCP (Model Context Protocol) server adapter for docchat.
// It lets AI assistants query the document backend and browse conversations.
package mcp

import "errors"

// ErrMissingChatFactory is returned when no chat factory is provided.
var ErrMissingChatFactory = errors.New("mcp: chat factory is required")
