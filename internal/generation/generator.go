package generation

import (
	"context"
	"fmt"
	"strings"
)

// Role identifies the author of a chat message.
type Role string

// Message roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	Role    Role
	Content string
}

// ChatGenerator produces the next assistant reply for a conversation.
type ChatGenerator interface {
	// Chat returns the reply to messages. Errors wrap the sentinels of this
	// package so that callers can map them without knowing the provider.
	Chat(ctx context.Context, messages []Message) (string, error)
}

// ValidateConversation checks that messages can be sent to a model: at least
// one message, known roles, non-blank content, and a user message last.
func ValidateConversation(messages []Message) error {
	if len(messages) == 0 {
		return fmt.Errorf("%w: no messages", ErrInvalidConversation)
	}
	for i, m := range messages {
		switch m.Role {
		case RoleSystem, RoleUser, RoleAssistant:
		default:
			return fmt.Errorf("%w: message %d has unknown role %q", ErrInvalidConversation, i, m.Role)
		}
		if strings.TrimSpace(m.Content) == "" {
			return fmt.Errorf("%w: message %d is empty", ErrInvalidConversation, i)
		}
	}
	if last := messages[len(messages)-1]; last.Role != RoleUser {
		return fmt.Errorf("%w: last message must come from the user, got %q", ErrInvalidConversation, last.Role)
	}
	return nil
}
