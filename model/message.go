// Package model provides the domain types shared across packages.
package model

// Role identifies the author of a conversation turn.
// The set is closed: system, user, assistant.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single conversation turn. Values are immutable once built;
// Name and ImageURL are optional and absent when empty.
type Message struct {
	Role     Role
	Content  string
	Name     string
	ImageURL string
}

// Prompt is an ordered conversation with an optional system header.
// The header is prepended before all conversation turns during rendering
// and is included in token accounting, but is never part of Conversation.
type Prompt struct {
	Header       *Message
	Conversation []Message
}

// NewPrompt builds a Prompt from a history list, dropping nil placeholders.
// History stores keep nil entries for deleted or unavailable turns; they
// must never reach rendering.
func NewPrompt(header *Message, history []*Message) Prompt {
	conversation := make([]Message, 0, len(history))
	for _, msg := range history {
		if msg != nil {
			conversation = append(conversation, *msg)
		}
	}
	return Prompt{Header: header, Conversation: conversation}
}
