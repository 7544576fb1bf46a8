package telegram

import "errors"

// Failure kinds surfaced to the host core. Per-attachment resolution
// failures are absorbed by the dispatcher instead and never appear here.
var (
	ErrAlreadyRegistered  = errors.New("interface ID already registered")
	ErrInvalidCredentials = errors.New("invalid bot token")
	ErrNotLoggedIn        = errors.New("interface not logged in")
	ErrChannelNotFound    = errors.New("channel not found")
	ErrUserNotFound       = errors.New("user not found")
)
