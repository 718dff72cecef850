package agent

import (
	"strings"

	"github.com/Cyclone1070/projectgen/internal/provider"
)

const (
	thinkOpen  = "<think>"
	thinkClose = "</think>"
)

// StripThinking returns the text after the last closing think tag,
// trimmed. Text without a closing tag is returned unchanged, so applying
// it twice changes nothing.
func StripThinking(text string) string {
	idx := strings.LastIndex(text, thinkClose)
	if idx == -1 {
		return text
	}
	return strings.TrimSpace(text[idx+len(thinkClose):])
}

// EnsureThinking prepends an opening think tag when the text does not
// already start with one. Some models drop the opening tag but keep the
// closing one. This is a display aid, not a parser.
func EnsureThinking(text string) string {
	if strings.HasPrefix(text, thinkOpen) {
		return text
	}
	return thinkOpen + "\n" + text
}

// HasThinking reports whether text contains a closing think tag.
func HasThinking(text string) bool {
	return strings.Contains(text, thinkClose)
}

// Normalize applies exactly one of StripThinking or EnsureThinking.
func Normalize(text string, includeThinking bool) string {
	if includeThinking {
		return EnsureThinking(text)
	}
	return StripThinking(text)
}

// FinalText returns the trimmed content of the last message when it is
// from the assistant.
func FinalText(messages []provider.Message) (string, error) {
	if len(messages) == 0 || messages[len(messages)-1].Role != provider.RoleAssistant {
		return "", ErrNoFinalMessage
	}
	return strings.TrimSpace(messages[len(messages)-1].Content), nil
}
