// Package channel defines the bridge between a messaging platform and the
// mirror. It provides the Channel interface, allow-list filtering, and
// message chunking.
package channel

import (
	"context"

	"github.com/arkrelay/arkrelay/internal/core"
	"github.com/arkrelay/arkrelay/internal/relay"
)

// Channel is the bridge between a messaging platform and the mirror.
//
// A channel receives commands from its platform, checks the allow-list, and
// pushes them to the mirror via the inbox callback. The mirror talks back
// through Send/Edit for status messages and through the relay.SinkOpener
// surface for media uploads.
type Channel interface {
	core.Module
	relay.SinkOpener

	// Send delivers a status message and returns a reference for later edits.
	Send(ctx context.Context, msg OutboundMessage) (MessageRef, error)

	// Edit replaces the text of a previously sent message. Channels that
	// cannot edit may return ErrEditUnsupported; callers fall back to Send.
	Edit(ctx context.Context, ref MessageRef, text string) error

	// SetInbox gives the channel a function to push inbound messages to the
	// mirror. The mirror calls this during wiring, before Start().
	SetInbox(fn func(msg InboundMessage) error)
}

// Sender identifies the author of an inbound message.
type Sender struct {
	ID          string `json:"id"`
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// Chat identifies the conversation a message belongs to.
type Chat struct {
	ID    int64  `json:"id"`
	Type  string `json:"type,omitempty"`
	Title string `json:"title,omitempty"`
}

// InboundMessage represents a command message received from a channel.
type InboundMessage struct {
	ID      string `json:"id"`
	Channel string `json:"channel"`
	Sender  Sender `json:"sender"`
	Chat    Chat   `json:"chat"`
	Text    string `json:"text"`
}

// OutboundMessage represents a status message to be sent through a channel.
type OutboundMessage struct {
	ChatID              int64  `json:"chat_id"`
	Text                string `json:"text"`
	ReplyToID           string `json:"reply_to_id,omitempty"`
	ParseMode           string `json:"parse_mode,omitempty"`
	DisablePreview      bool   `json:"disable_preview,omitempty"`
	DisableNotification bool   `json:"disable_notification,omitempty"`
}

// MessageRef identifies a sent message so it can be edited later.
type MessageRef struct {
	ChatID    int64 `json:"chat_id"`
	MessageID int   `json:"message_id"`
}
