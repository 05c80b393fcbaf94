package channel

import (
	"strconv"
	"strings"
)

// AllowList controls which users and chats are permitted to issue commands.
// An empty or nil AllowList denies everyone.
type AllowList struct {
	users map[string]struct{}
	chats map[int64]struct{}
}

// NewAllowList creates an AllowList with O(1) lookups. User keys are trimmed
// and lowercased at construction time so that IsAllowed can use direct map
// lookups; a leading "@" on usernames is stripped.
func NewAllowList(users []string, chats []int64) *AllowList {
	a := &AllowList{
		users: make(map[string]struct{}, len(users)),
		chats: make(map[int64]struct{}, len(chats)),
	}
	for _, u := range users {
		a.users[normalize(u)] = struct{}{}
	}
	for _, c := range chats {
		a.chats[c] = struct{}{}
	}
	return a
}

// IsAllowed reports whether the message sender or chat is permitted.
//
// Rules:
//   - If both maps are empty, deny (no one is allowed).
//   - If the sender's ID or username matches a user entry, allow.
//   - If the chat's ID matches a chat entry, allow.
//   - Otherwise deny.
func (a *AllowList) IsAllowed(msg InboundMessage) bool {
	if a == nil || (len(a.users) == 0 && len(a.chats) == 0) {
		return false
	}

	if _, ok := a.users[normalize(msg.Sender.ID)]; ok {
		return true
	}
	if msg.Sender.Username != "" {
		if _, ok := a.users[normalize(msg.Sender.Username)]; ok {
			return true
		}
	}
	if _, ok := a.chats[msg.Chat.ID]; ok {
		return true
	}
	return false
}

// ParseChatIDs converts string chat identifiers from config into int64 IDs,
// ignoring entries that do not parse.
func ParseChatIDs(raw []string) []int64 {
	ids := make([]int64, 0, len(raw))
	for _, s := range raw {
		id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "@"))
}
