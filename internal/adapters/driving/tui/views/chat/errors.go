package chat

import "errors"

// ErrNoChatService is returned when a query is submitted without a chat
// service configured.
var ErrNoChatService = errors.New("chat: no chat service available")
