package chat

import "github.com/richinex/parley/model"

// WireMessage is the wire-shaped form of a model.Message: role, optional
// name, and content. Content is either a plain string or, for messages with
// an attached image, a two-part []ContentPart. Absent fields are omitted
// from serialization, never emitted as null or empty.
type WireMessage struct {
	Role    string `json:"role"`
	Name    string `json:"name,omitempty"`
	Content any    `json:"content"`
}

// ContentPart is one element of multimodal message content.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL wraps an image reference in the shape the wire format expects.
type ImageURL struct {
	URL string `json:"url"`
}

const (
	contentPartText     = "text"
	contentPartImageURL = "image_url"
)

// RenderMessage converts one Message to its wire form.
func RenderMessage(msg model.Message) WireMessage {
	var content any = msg.Content
	if msg.ImageURL != "" {
		content = []ContentPart{
			{Type: contentPartText, Text: msg.Content},
			{Type: contentPartImageURL, ImageURL: &ImageURL{URL: msg.ImageURL}},
		}
	}
	return WireMessage{
		Role:    string(msg.Role),
		Name:    msg.Name,
		Content: content,
	}
}

// RenderPrompt converts a Prompt to ordered wire messages: the header first
// (when present), then each conversation turn in order.
func RenderPrompt(prompt model.Prompt) []WireMessage {
	messages := make([]WireMessage, 0, len(prompt.Conversation)+1)
	if prompt.Header != nil {
		messages = append(messages, RenderMessage(*prompt.Header))
	}
	for _, msg := range prompt.Conversation {
		messages = append(messages, RenderMessage(msg))
	}
	return messages
}

// wireField is a present, string-valued field of a rendered message.
type wireField struct {
	key   string
	value string
}

// stringFields returns the rendered message's present string-valued fields
// in stable order. Multipart content carries no plain string value and
// contributes nothing here; token accounting iterates these fields.
func (w WireMessage) stringFields() []wireField {
	fields := []wireField{{key: "role", value: w.Role}}
	if w.Name != "" {
		fields = append(fields, wireField{key: "name", value: w.Name})
	}
	if text, ok := w.Content.(string); ok {
		fields = append(fields, wireField{key: "content", value: text})
	}
	return fields
}
