package chat

import (
	"context"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/richinex/parley/config"
	"github.com/richinex/parley/model"
)

const openaiSystemInstruction = "You are ChatGPT, a large language model trained by OpenAI. " +
	"Your job is to answer questions accurately and provide detailed examples."

// OpenAIService implements Service for the OpenAI Chat Completions API.
type OpenAIService struct {
	client   *openai.Client
	model    model.Model
	logger   *slog.Logger
	classify classifier
}

// NewOpenAIService creates an unbound OpenAI service. Call InitEnv before
// sending.
func NewOpenAIService() *OpenAIService {
	logger := slog.With("backend", "openai")
	return &OpenAIService{logger: logger, classify: classifier{logger: logger}}
}

// Name returns the backend name.
func (s *OpenAIService) Name() string { return "openai" }

// InitEnv loads the API key from the environment and builds the client.
func (s *OpenAIService) InitEnv() error {
	settings, err := config.OpenAI()
	if err != nil {
		return err
	}
	s.client = openai.NewClient(settings.APIKey)
	return nil
}

// SupportedModels returns the OpenAI model table.
func (s *OpenAIService) SupportedModels() []model.Model {
	return cloneModels(openaiModels)
}

// UseModel binds the service to a model.
func (s *OpenAIService) UseModel(m model.Model) { s.model = m }

// SystemHeader returns the system instruction for this backend.
func (s *OpenAIService) SystemHeader() model.Message {
	return model.Message{Role: model.RoleSystem, Content: openaiSystemInstruction}
}

// BuildPrompt assembles a Prompt from a history list, dropping nil entries.
func (s *OpenAIService) BuildPrompt(history []*model.Message) model.Prompt {
	header := s.SystemHeader()
	return model.NewPrompt(&header, history)
}

// RenderPrompt converts a Prompt to wire messages.
func (s *OpenAIService) RenderPrompt(prompt model.Prompt) []WireMessage {
	return RenderPrompt(prompt)
}

// CountTokens counts the prompt cost under the bound model's framing rules.
// Tokenization is local CPU work; ctx is accepted for interface symmetry
// with the SDK-counting backends.
func (s *OpenAIService) CountTokens(_ context.Context, messages []model.Message) (int, error) {
	return CountConversationTokens(messages, s.model.Name)
}

// Send performs one completion call and classifies the outcome.
func (s *OpenAIService) Send(ctx context.Context, prompt model.Prompt) model.CompletionData {
	return sendOpenAICompatible(ctx, s.client, s.model, prompt, s.logger, s.classify)
}

// sendOpenAICompatible is the shared invoker for the OpenAI-compatible REST
// backends. One request/response cycle, no retries.
func sendOpenAICompatible(ctx context.Context, client *openai.Client, m model.Model, prompt model.Prompt, logger *slog.Logger, classify classifier) model.CompletionData {
	rendered := RenderPrompt(prompt)
	logger.Debug("sending chat completion", "model", m.Name, "messages", len(rendered))

	if client == nil {
		logger.Error("client not initialized; InitEnv was not called")
		return model.CompletionData{
			Status:     model.ResultOtherError,
			StatusText: "chat client not initialized",
		}
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    m.Name,
		Messages: toOpenAIMessages(rendered),
	})
	if err != nil {
		return classify.fromFault(err)
	}

	if len(resp.Choices) == 0 {
		logger.Error("completion returned no choices", "model", m.Name)
		return model.CompletionData{
			Status:     model.ResultOtherError,
			StatusText: "completion response contained no choices",
		}
	}

	return model.CompletionData{
		Status:    model.ResultOK,
		ReplyText: resp.Choices[0].Message.Content,
	}
}

// toOpenAIMessages converts wire messages to go-openai request messages.
// Plain string content maps to Content, multipart content to MultiContent.
func toOpenAIMessages(rendered []WireMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(rendered))
	for i, wire := range rendered {
		msg := openai.ChatCompletionMessage{
			Role: wire.Role,
			Name: wire.Name,
		}
		switch content := wire.Content.(type) {
		case string:
			msg.Content = content
		case []ContentPart:
			for _, part := range content {
				oaiPart := openai.ChatMessagePart{Type: openai.ChatMessagePartType(part.Type)}
				if part.ImageURL != nil {
					oaiPart.ImageURL = &openai.ChatMessageImageURL{URL: part.ImageURL.URL}
				} else {
					oaiPart.Text = part.Text
				}
				msg.MultiContent = append(msg.MultiContent, oaiPart)
			}
		}
		out[i] = msg
	}
	return out
}

// Verify OpenAIService implements Service.
var _ Service = (*OpenAIService)(nil)
