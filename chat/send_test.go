package chat

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/richinex/parley/model"
)

// newStubOpenAIService points an OpenAI service at a stub HTTP backend.
func newStubOpenAIService(t *testing.T, handler http.HandlerFunc) *OpenAIService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = server.URL + "/v1"

	svc := NewOpenAIService()
	svc.client = openai.NewClientWithConfig(cfg)
	svc.UseModel(model.Model{Name: "gpt-4o", ContextWindow: 128000, Vision: true})
	return svc
}

func completionHandler(reply string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"choices": [{
				"index": 0,
				"message": {"role": "assistant", "content": %q},
				"finish_reason": "stop"
			}],
			"usage": {"prompt_tokens": 9, "completion_tokens": 12, "total_tokens": 21}
		}`, reply)
	}
}

func badRequestHandler(message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, `{"error": {"message": %q, "type": "invalid_request_error"}}`, message)
	}
}

func userPrompt(content string) model.Prompt {
	header := model.Message{Role: model.RoleSystem, Content: "be helpful"}
	return model.Prompt{
		Header:       &header,
		Conversation: []model.Message{{Role: model.RoleUser, Content: content}},
	}
}

func TestSendSuccess(t *testing.T) {
	svc := newStubOpenAIService(t, completionHandler("Hello there, how may I assist you today?"))

	data := svc.Send(context.Background(), userPrompt("Hello"))

	if data.Status != model.ResultOK {
		t.Fatalf("expected ok, got %v (%s)", data.Status, data.StatusText)
	}
	if data.ReplyText != "Hello there, how may I assist you today?" {
		t.Errorf("unexpected reply text: %q", data.ReplyText)
	}
	if data.StatusText != "" {
		t.Errorf("expected no status text on success, got %q", data.StatusText)
	}
}

func TestSendTooLong(t *testing.T) {
	svc := newStubOpenAIService(t, badRequestHandler(
		"This model's maximum context length is 8192 tokens. However, your messages resulted in 9021 tokens."))

	data := svc.Send(context.Background(), userPrompt("Hello"))

	if data.Status != model.ResultTooLong {
		t.Fatalf("expected too_long, got %v", data.Status)
	}
	if data.StatusText == "" {
		t.Error("expected the fault's diagnostic message")
	}
}

func TestSendBlocked(t *testing.T) {
	svc := newStubOpenAIService(t, badRequestHandler(
		"The response was filtered due to the prompt triggering content management policy."))

	data := svc.Send(context.Background(), userPrompt("Hello"))

	if data.Status != model.ResultBlocked {
		t.Fatalf("expected blocked, got %v", data.Status)
	}
}

func TestSendInvalidRequest(t *testing.T) {
	svc := newStubOpenAIService(t, badRequestHandler(
		"Invalid value for 'messages': must be a non-empty array."))

	data := svc.Send(context.Background(), userPrompt("Hello"))

	if data.Status != model.ResultInvalidRequest {
		t.Fatalf("expected invalid_request, got %v", data.Status)
	}
}

func TestSendNetworkFault(t *testing.T) {
	server := httptest.NewServer(completionHandler("unused"))
	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = server.URL + "/v1"
	server.Close()

	svc := NewOpenAIService()
	svc.client = openai.NewClientWithConfig(cfg)
	svc.UseModel(model.Model{Name: "gpt-4o", ContextWindow: 128000})

	data := svc.Send(context.Background(), userPrompt("Hello"))

	if data.Status != model.ResultOtherError {
		t.Fatalf("expected other_error, got %v", data.Status)
	}
	if data.StatusText == "" {
		t.Error("expected the fault's diagnostic message")
	}
}

func TestSendCancelledContext(t *testing.T) {
	svc := newStubOpenAIService(t, completionHandler("unused"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	data := svc.Send(ctx, userPrompt("Hello"))

	if data.Status != model.ResultOtherError {
		t.Fatalf("expected other_error for cancelled context, got %v", data.Status)
	}
}

func TestSendEmptyChoices(t *testing.T) {
	svc := newStubOpenAIService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "chatcmpl-1", "object": "chat.completion", "choices": []}`)
	})

	data := svc.Send(context.Background(), userPrompt("Hello"))

	if data.Status != model.ResultOtherError {
		t.Fatalf("expected other_error for empty choices, got %v", data.Status)
	}
}

func TestSendUninitializedClient(t *testing.T) {
	svc := NewOpenAIService()
	svc.UseModel(model.Model{Name: "gpt-4o"})

	data := svc.Send(context.Background(), userPrompt("Hello"))

	if data.Status != model.ResultOtherError {
		t.Fatalf("expected other_error, got %v", data.Status)
	}
}

func TestSendExactlyOneFieldPopulated(t *testing.T) {
	handlers := map[string]http.HandlerFunc{
		"ok":       completionHandler("hi"),
		"too_long": badRequestHandler("This model's maximum context length is 4097 tokens."),
		"blocked":  badRequestHandler("content was filtered"),
		"invalid":  badRequestHandler("bad request"),
	}

	for name, handler := range handlers {
		svc := newStubOpenAIService(t, handler)
		data := svc.Send(context.Background(), userPrompt("Hello"))

		hasReply := data.ReplyText != ""
		hasStatus := data.StatusText != ""
		if hasReply == hasStatus {
			t.Errorf("%s: expected exactly one of reply/status text, got %+v", name, data)
		}
		if (data.Status == model.ResultOK) != hasReply {
			t.Errorf("%s: reply text does not match status: %+v", name, data)
		}
	}
}

func TestAzureSendSharesClassification(t *testing.T) {
	server := httptest.NewServer(badRequestHandler(
		"This model's maximum context length is 16385 tokens."))
	t.Cleanup(server.Close)

	svc := NewAzureService()
	svc.client = openai.NewClientWithConfig(openai.DefaultAzureConfig("test-key", server.URL))
	svc.UseModel(model.Model{Name: "gpt-35-turbo", ContextWindow: 16385})

	data := svc.Send(context.Background(), userPrompt("Hello"))

	if data.Status != model.ResultTooLong {
		t.Fatalf("expected too_long, got %v (%s)", data.Status, data.StatusText)
	}
}
