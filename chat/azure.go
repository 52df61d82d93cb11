package chat

import (
	"context"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/richinex/parley/config"
	"github.com/richinex/parley/model"
)

// AzureService implements Service for Azure OpenAI. The API is
// OpenAI-compatible; endpoint, auth header, and model naming differ.
// Azure deployment names spell gpt-3.5 as gpt-35, which the token
// accountant normalizes before family lookup.
type AzureService struct {
	client   *openai.Client
	model    model.Model
	logger   *slog.Logger
	classify classifier
}

// NewAzureService creates an unbound Azure OpenAI service. Call InitEnv
// before sending.
func NewAzureService() *AzureService {
	logger := slog.With("backend", "azure")
	return &AzureService{logger: logger, classify: classifier{logger: logger}}
}

// Name returns the backend name.
func (s *AzureService) Name() string { return "azure" }

// InitEnv loads the API key and resource endpoint from the environment and
// builds the client.
func (s *AzureService) InitEnv() error {
	settings, err := config.Azure()
	if err != nil {
		return err
	}
	s.client = openai.NewClientWithConfig(openai.DefaultAzureConfig(settings.APIKey, settings.Endpoint))
	return nil
}

// SupportedModels returns the Azure OpenAI model table.
func (s *AzureService) SupportedModels() []model.Model {
	return cloneModels(azureModels)
}

// UseModel binds the service to a model.
func (s *AzureService) UseModel(m model.Model) { s.model = m }

// SystemHeader returns the system instruction for this backend.
func (s *AzureService) SystemHeader() model.Message {
	return model.Message{Role: model.RoleSystem, Content: openaiSystemInstruction}
}

// BuildPrompt assembles a Prompt from a history list, dropping nil entries.
func (s *AzureService) BuildPrompt(history []*model.Message) model.Prompt {
	header := s.SystemHeader()
	return model.NewPrompt(&header, history)
}

// RenderPrompt converts a Prompt to wire messages.
func (s *AzureService) RenderPrompt(prompt model.Prompt) []WireMessage {
	return RenderPrompt(prompt)
}

// CountTokens counts the prompt cost under the bound model's framing rules.
func (s *AzureService) CountTokens(_ context.Context, messages []model.Message) (int, error) {
	return CountConversationTokens(messages, s.model.Name)
}

// Send performs one completion call and classifies the outcome.
func (s *AzureService) Send(ctx context.Context, prompt model.Prompt) model.CompletionData {
	return sendOpenAICompatible(ctx, s.client, s.model, prompt, s.logger, s.classify)
}

// Verify AzureService implements Service.
var _ Service = (*AzureService)(nil)
