package chat

import (
	"context"
	"log/slog"
	"path"
	"strings"

	"google.golang.org/genai"

	"github.com/richinex/parley/config"
	"github.com/richinex/parley/model"
)

const geminiSystemInstruction = "You are a helpful assistant. " +
	"Your job is to answer questions accurately and provide detailed examples."

// GeminiService implements Service for Google Gemini via the official SDK.
type GeminiService struct {
	client      *genai.Client
	model       model.Model
	maxTokens   int32
	temperature float32
	logger      *slog.Logger
	classify    classifier
}

// NewGeminiService creates an unbound Gemini service. Call InitEnv before
// sending.
func NewGeminiService() *GeminiService {
	logger := slog.With("backend", "gemini")
	return &GeminiService{logger: logger, classify: classifier{logger: logger}}
}

// Name returns the backend name.
func (s *GeminiService) Name() string { return "gemini" }

// InitEnv loads the API key from the environment and builds the SDK client.
func (s *GeminiService) InitEnv() error {
	settings, err := config.Gemini()
	if err != nil {
		return err
	}
	llmSettings, err := config.LLM()
	if err != nil {
		return err
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  settings.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return err
	}

	s.client = client
	s.maxTokens = int32(llmSettings.MaxTokens)
	s.temperature = float32(llmSettings.Temperature)
	return nil
}

// SupportedModels returns the Gemini model table.
func (s *GeminiService) SupportedModels() []model.Model {
	return cloneModels(geminiModels)
}

// UseModel binds the service to a model.
func (s *GeminiService) UseModel(m model.Model) { s.model = m }

// SystemHeader returns the system instruction for this backend.
func (s *GeminiService) SystemHeader() model.Message {
	return model.Message{Role: model.RoleSystem, Content: geminiSystemInstruction}
}

// BuildPrompt assembles a Prompt from a history list, dropping nil entries.
func (s *GeminiService) BuildPrompt(history []*model.Message) model.Prompt {
	header := s.SystemHeader()
	return model.NewPrompt(&header, history)
}

// RenderPrompt converts a Prompt to wire messages.
func (s *GeminiService) RenderPrompt(prompt model.Prompt) []WireMessage {
	return RenderPrompt(prompt)
}

// CountTokens counts the prompt cost via the Gemini count-tokens endpoint.
// Unlike the tiktoken-backed backends this is a network call; the model's
// own tokenizer is authoritative and no local framing table exists for it.
func (s *GeminiService) CountTokens(ctx context.Context, messages []model.Message) (int, error) {
	contents, systemInstruction := toGeminiContents(messages)

	countConfig := &genai.CountTokensConfig{}
	if systemInstruction != "" {
		countConfig.SystemInstruction = genai.NewContentFromText(systemInstruction, genai.RoleUser)
	}

	resp, err := s.client.Models.CountTokens(ctx, s.model.Name, contents, countConfig)
	if err != nil {
		return 0, err
	}
	return int(resp.TotalTokens), nil
}

// Send performs one completion call and classifies the outcome.
func (s *GeminiService) Send(ctx context.Context, prompt model.Prompt) model.CompletionData {
	rendered := s.RenderPrompt(prompt)
	s.logger.Debug("sending chat completion", "model", s.model.Name, "messages", len(rendered))

	if s.client == nil {
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
	contents, systemInstruction := toGeminiContents(messages)

	genConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(s.temperature),
		MaxOutputTokens: s.maxTokens,
	}
	if systemInstruction != "" {
		genConfig.SystemInstruction = genai.NewContentFromText(systemInstruction, genai.RoleUser)
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model.Name, contents, genConfig)
	if err != nil {
		return s.classify.fromFault(err)
	}

	text := resp.Text()
	if text == "" {
		s.logger.Error("completion returned no text", "model", s.model.Name)
		return model.CompletionData{
			Status:     model.ResultOtherError,
			StatusText: "completion response contained no text",
		}
	}

	return model.CompletionData{Status: model.ResultOK, ReplyText: text}
}

// toGeminiContents converts messages to Gemini contents. The system message
// is returned separately: Gemini takes it as a config-level instruction, not
// a conversation turn.
func toGeminiContents(messages []model.Message) ([]*genai.Content, string) {
	var contents []*genai.Content
	var systemInstruction string

	for _, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			systemInstruction = msg.Content
		case model.RoleUser:
			contents = append(contents, geminiContent(msg, genai.RoleUser))
		case model.RoleAssistant:
			contents = append(contents, geminiContent(msg, genai.RoleModel))
		}
	}

	return contents, systemInstruction
}

func geminiContent(msg model.Message, role genai.Role) *genai.Content {
	if msg.ImageURL == "" {
		return genai.NewContentFromText(msg.Content, role)
	}
	parts := []*genai.Part{
		genai.NewPartFromText(msg.Content),
		genai.NewPartFromURI(msg.ImageURL, imageMIMEType(msg.ImageURL)),
	}
	return genai.NewContentFromParts(parts, role)
}

func imageMIMEType(url string) string {
	switch strings.ToLower(path.Ext(url)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// Verify GeminiService implements Service.
var _ Service = (*GeminiService)(nil)
