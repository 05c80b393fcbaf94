package mirror

import "strings"

// Command is a parsed bot command.
type Command struct {
	Name string
	Args []string
}

// ParseCommand parses a message text of the form "/name[@bot] arg1 arg2".
// Returns false when the text is not a command.
func ParseCommand(text string) (Command, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return Command{}, false
	}

	fields := strings.Fields(text)
	name := strings.TrimPrefix(fields[0], "/")
	// Strip the @botname suffix used in group chats.
	if at := strings.Index(name, "@"); at >= 0 {
		name = name[:at]
	}
	if name == "" {
		return Command{}, false
	}

	return Command{
		Name: strings.ToLower(name),
		Args: fields[1:],
	}, true
}
