// Package chat provides the provider-agnostic chat-completion core.
//
// A Service renders an ordered conversation into the wire shape its backend
// expects, counts token usage for context-window decisions, performs a single
// request/response cycle, and maps every outcome into the closed
// model.CompletionResult taxonomy. Retry, backoff, and rate limiting are
// caller concerns and deliberately absent.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/richinex/parley/model"
)

// ErrUnsupportedBackend is returned by Select for identifiers outside the
// closed backend set.
var ErrUnsupportedBackend = errors.New("unsupported chat backend")

// Backend identifies a supported chat-completion backend.
type Backend int

const (
	// BackendOpenAI is the OpenAI Chat Completions API.
	BackendOpenAI Backend = iota
	// BackendAzure is Azure OpenAI (OpenAI-compatible REST, different
	// endpoint, auth, and model naming).
	BackendAzure
	// BackendGemini is Google Gemini via the official genai SDK.
	BackendGemini
	// BackendAnthropic is Anthropic Claude via the official SDK.
	BackendAnthropic
)

// String returns the backend name.
func (b Backend) String() string {
	switch b {
	case BackendOpenAI:
		return "openai"
	case BackendAzure:
		return "azure"
	case BackendGemini:
		return "gemini"
	case BackendAnthropic:
		return "anthropic"
	default:
		return "unknown"
	}
}

// ParseBackend parses a backend from string (case-insensitive).
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "openai", "gpt":
		return BackendOpenAI, nil
	case "azure":
		return BackendAzure, nil
	case "gemini", "google":
		return BackendGemini, nil
	case "anthropic", "claude":
		return BackendAnthropic, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedBackend, s)
	}
}

// Service is the capability set every backend implements.
// Construction via Select has no side effects; credentials are loaded by an
// explicit InitEnv call on the returned service.
type Service interface {
	// Name returns the backend name (for logging).
	Name() string

	// InitEnv loads credentials and builds the underlying client.
	// Must be called before Send or CountTokens.
	InitEnv() error

	// SupportedModels returns the static model table for this backend.
	SupportedModels() []model.Model

	// UseModel binds the service to a model from SupportedModels.
	UseModel(m model.Model)

	// SystemHeader returns the system instruction prepended to every prompt.
	SystemHeader() model.Message

	// BuildPrompt assembles a Prompt from a history list, filtering out
	// nil placeholders and attaching the system header.
	BuildPrompt(history []*model.Message) model.Prompt

	// RenderPrompt converts a Prompt into ordered wire messages.
	// Pure and deterministic, no I/O.
	RenderPrompt(prompt model.Prompt) []WireMessage

	// CountTokens computes the token cost of the given messages under the
	// bound model, so callers can trim history before sending.
	CountTokens(ctx context.Context, messages []model.Message) (int, error)

	// Send performs one completion call and classifies the outcome.
	// It never returns an error: every fault is logged and folded into
	// the CompletionData taxonomy.
	Send(ctx context.Context, prompt model.Prompt) model.CompletionData
}

// Select returns a freshly constructed service for the given backend.
// Anything outside the closed set fails with ErrUnsupportedBackend.
func Select(backend Backend) (Service, error) {
	switch backend {
	case BackendOpenAI:
		return NewOpenAIService(), nil
	case BackendAzure:
		return NewAzureService(), nil
	case BackendGemini:
		return NewGeminiService(), nil
	case BackendAnthropic:
		return NewAnthropicService(), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBackend, backend)
	}
}
