package model

import "testing"

func TestNewPromptFiltersNilPlaceholders(t *testing.T) {
	header := Message{Role: RoleSystem, Content: "be helpful"}
	history := []*Message{
		nil,
		{Role: RoleUser, Content: "hi"},
		nil,
		{Role: RoleAssistant, Content: "hello"},
	}

	prompt := NewPrompt(&header, history)

	if len(prompt.Conversation) != 2 {
		t.Fatalf("expected 2 conversation turns, got %d", len(prompt.Conversation))
	}
	if prompt.Conversation[0].Content != "hi" || prompt.Conversation[1].Content != "hello" {
		t.Errorf("conversation order not preserved: %+v", prompt.Conversation)
	}
	if prompt.Header == nil || prompt.Header.Content != "be helpful" {
		t.Errorf("header not attached: %+v", prompt.Header)
	}
}

func TestNewPromptWithoutHeader(t *testing.T) {
	prompt := NewPrompt(nil, []*Message{{Role: RoleUser, Content: "hi"}})

	if prompt.Header != nil {
		t.Errorf("expected no header, got %+v", prompt.Header)
	}
	if len(prompt.Conversation) != 1 {
		t.Errorf("expected 1 conversation turn, got %d", len(prompt.Conversation))
	}
}

func TestCompletionResultString(t *testing.T) {
	cases := map[CompletionResult]string{
		ResultOK:             "ok",
		ResultTooLong:        "too_long",
		ResultBlocked:        "blocked",
		ResultInvalidRequest: "invalid_request",
		ResultOtherError:     "other_error",
		CompletionResult(42): "unknown",
	}

	for result, expected := range cases {
		if result.String() != expected {
			t.Errorf("%d.String() = %q, expected %q", result, result.String(), expected)
		}
	}
}
