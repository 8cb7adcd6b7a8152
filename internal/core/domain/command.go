package domain

import "strings"

// Command is the closed set of commands the bot understands.
type Command int

const (
	Unknown Command = iota
	Speak
	Ping
	SearchVideo
)

var commandTokens = map[string]Command{
	"speak":  Speak,
	"ping":   Ping,
	"search": SearchVideo,
}

func (c Command) String() string {
	switch c {
	case Speak:
		return "speak"
	case Ping:
		return "ping"
	case SearchVideo:
		return "search"
	case Unknown:
		return "unknown"
	}

	return "unknown"
}

// ParseCommand resolves the first whitespace-delimited token of line into a Command.
// Tokens are matched case-sensitively.
func ParseCommand(line string) Command {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Unknown
	}

	cmd, ok := commandTokens[fields[0]]
	if !ok {
		return Unknown
	}

	return cmd
}

// ParseCommandArgs drops the command token and joins the remaining tokens with single spaces.
func ParseCommandArgs(line string) string {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return ""
	}

	return strings.Join(fields[1:], " ")
}

// StripPrefix returns the command line following prefix and whether text carried it at all.
func StripPrefix(text, prefix string) (string, bool) {
	if !strings.HasPrefix(text, prefix) {
		return "", false
	}

	return strings.TrimPrefix(text, prefix), true
}
