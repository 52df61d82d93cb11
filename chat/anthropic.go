package chat

import (
	"context"
	"log/slog"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/richinex/parley/config"
	"github.com/richinex/parley/model"
)

const anthropicSystemInstruction = "You are Claude, a large language model trained by Anthropic. " +
	"Your job is to answer questions accurately and provide detailed examples."

// AnthropicService implements Service for Anthropic Claude via the official
// SDK.
type AnthropicService struct {
	client      anthropic.Client
	initialized bool
	model       model.Model
	maxTokens   int64
	temperature float64
	logger      *slog.Logger
	classify    classifier
}

// NewAnthropicService creates an unbound Anthropic service. Call InitEnv
// before sending.
func NewAnthropicService() *AnthropicService {
	logger := slog.With("backend", "anthropic")
	return &AnthropicService{logger: logger, classify: classifier{logger: logger}}
}

// Name returns the backend name.
func (s *AnthropicService) Name() string { return "anthropic" }

// InitEnv loads the API key from the environment and builds the SDK client.
func (s *AnthropicService) InitEnv() error {
	settings, err := config.Anthropic()
	if err != nil {
		return err
	}
	llmSettings, err := config.LLM()
	if err != nil {
		return err
	}

	s.client = anthropic.NewClient(option.WithAPIKey(settings.APIKey))
	s.initialized = true
	s.maxTokens = int64(llmSettings.MaxTokens)
	s.temperature = llmSettings.Temperature
	return nil
}

// SupportedModels returns the Anthropic model table.
func (s *AnthropicService) SupportedModels() []model.Model {
	return cloneModels(anthropicModels)
}

// UseModel binds the service to a model.
func (s *AnthropicService) UseModel(m model.Model) { s.model = m }

// SystemHeader returns the system instruction for this backend.
func (s *AnthropicService) SystemHeader() model.Message {
	return model.Message{Role: model.RoleSystem, Content: anthropicSystemInstruction}
}

// BuildPrompt assembles a Prompt from a history list, dropping nil entries.
func (s *AnthropicService) BuildPrompt(history []*model.Message) model.Prompt {
	header := s.SystemHeader()
	return model.NewPrompt(&header, history)
}

// RenderPrompt converts a Prompt to wire messages.
func (s *AnthropicService) RenderPrompt(prompt model.Prompt) []WireMessage {
	return RenderPrompt(prompt)
}

// CountTokens counts the prompt cost via the Anthropic count-tokens
// endpoint. A network call; Claude models have no local framing table.
func (s *AnthropicService) CountTokens(ctx context.Context, messages []model.Message) (int, error) {
	params, system := toAnthropicMessages(messages)

	countParams := anthropic.MessageCountTokensParams{
		Model:    anthropic.Model(s.model.Name),
		Messages: params,
	}
	if system != "" {
		countParams.System = anthropic.MessageCountTokensParamsSystemUnion{
			OfTextBlockArray: []anthropic.TextBlockParam{{Text: system}},
		}
	}

	count, err := s.client.Messages.CountTokens(ctx, countParams)
	if err != nil {
		return 0, err
	}
	return int(count.InputTokens), nil
}

// Send performs one completion call and classifies the outcome.
func (s *AnthropicService) Send(ctx context.Context, prompt model.Prompt) model.CompletionData {
	rendered := s.RenderPrompt(prompt)
	s.logger.Debug("sending chat completion", "model", s.model.Name, "messages", len(rendered))

	if !s.initialized {
		s.logger.Error("client not initialized; InitEnv was not called")
		return model.CompletionData{
			Status:     model.ResultOtherError,
			StatusText: "chat client not initialized",
		}
	}

	messages := prompt.Conversation
	if prompt.Header != nil {
		messages = append([]model.Message{*prompt.Header}, messages...)
	}
	params, system := toAnthropicMessages(messages)

	newParams := anthropic.MessageNewParams{
		Model:       anthropic.Model(s.model.Name),
		MaxTokens:   s.maxTokens,
		Messages:    params,
		Temperature: anthropic.Float(s.temperature),
	}
	if system != "" {
		newParams.System = []anthropic.TextBlockParam{{Text: system}}
	}

	message, err := s.client.Messages.New(ctx, newParams)
	if err != nil {
		return s.classify.fromFault(err)
	}

	text := ""
	for _, block := range message.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			text += variant.Text
		}
	}
	if text == "" {
		s.logger.Error("completion returned no text", "model", s.model.Name)
		return model.CompletionData{
			Status:     model.ResultOtherError,
			StatusText: "completion response contained no text",
		}
	}

	return model.CompletionData{Status: model.ResultOK, ReplyText: text}
}

// toAnthropicMessages converts messages to Anthropic message params. The
// system message is returned separately: the Messages API takes it as a
// top-level field, not a conversation turn.
func toAnthropicMessages(messages []model.Message) ([]anthropic.MessageParam, string) {
	var params []anthropic.MessageParam
	var system string

	for _, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			system = msg.Content
		case model.RoleUser:
			params = append(params, anthropic.NewUserMessage(anthropicBlocks(msg)...))
		case model.RoleAssistant:
			params = append(params, anthropic.NewAssistantMessage(anthropicBlocks(msg)...))
		}
	}

	return params, system
}

func anthropicBlocks(msg model.Message) []anthropic.ContentBlockParamUnion {
	blocks := []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(msg.Content)}
	if msg.ImageURL != "" {
		blocks = append(blocks, anthropic.NewImageBlock(anthropic.URLImageSourceParam{URL: msg.ImageURL}))
	}
	return blocks
}

// Verify AnthropicService implements Service.
var _ Service = (*AnthropicService)(nil)
