package channel

import "errors"

// Sentinel errors for channel operations.
var (
	// ErrNoInbox indicates a channel's inbox callback has not been set.
	ErrNoInbox = errors.New("channel: inbox not set")

	// ErrDenied indicates the message was blocked by the allow-list.
	ErrDenied = errors.New("channel: sender not allowed")

	// ErrEditUnsupported indicates the channel cannot edit sent messages.
	ErrEditUnsupported = errors.New("channel: message editing not supported")
)
