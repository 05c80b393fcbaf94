package telegram

import (
	"fmt"
	"strconv"

	"github.com/arkrelay/arkrelay/internal/channel"
)

// convertInbound transforms a Telegram Update into a channel.InboundMessage.
// Only text messages are of interest; everything else is skipped.
func convertInbound(update *Update, channelName string) (channel.InboundMessage, error) {
	msg := update.Message
	if msg == nil {
		msg = update.ChannelPost
	}
	if msg == nil {
		return channel.InboundMessage{}, fmt.Errorf("telegram: update %d contains no message", update.UpdateID)
	}
	if msg.Text == "" {
		return channel.InboundMessage{}, fmt.Errorf("telegram: update %d contains no text", update.UpdateID)
	}

	return channel.InboundMessage{
		ID:      strconv.Itoa(msg.MessageID),
		Channel: channelName,
		Sender:  convertSender(msg.From),
		Chat: channel.Chat{
			ID:    msg.Chat.ID,
			Type:  msg.Chat.Type,
			Title: msg.Chat.Title,
		},
		Text: msg.Text,
	}, nil
}

// convertSender maps a Telegram User to a channel.Sender.
func convertSender(user *User) channel.Sender {
	if user == nil {
		return channel.Sender{}
	}
	displayName := user.FirstName
	if user.LastName != "" {
		displayName += " " + user.LastName
	}
	return channel.Sender{
		ID:          strconv.FormatInt(user.ID, 10),
		Username:    user.Username,
		DisplayName: displayName,
	}
}
