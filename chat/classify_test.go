package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"github.com/richinex/parley/model"
)

func quietClassifier() classifier {
	return classifier{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func openaiBadRequest(message string) error {
	apiErr := &openai.APIError{
		HTTPStatusCode: 400,
		Type:           "invalid_request_error",
		Message:        message,
	}
	return fmt.Errorf("chat completion failed: %w", apiErr)
}

func TestClassifyTooLong(t *testing.T) {
	err := openaiBadRequest("This model's maximum context length is 8192 tokens. However, your messages resulted in 9021 tokens.")

	data := quietClassifier().fromFault(err)

	if data.Status != model.ResultTooLong {
		t.Errorf("expected too_long, got %v", data.Status)
	}
	if data.StatusText == "" {
		t.Error("expected status text for a fault")
	}
	if data.ReplyText != "" {
		t.Errorf("expected no reply text, got %q", data.ReplyText)
	}
}

func TestClassifyBlocked(t *testing.T) {
	err := openaiBadRequest("The response was filtered due to the prompt triggering content management policy.")

	data := quietClassifier().fromFault(err)

	if data.Status != model.ResultBlocked {
		t.Errorf("expected blocked, got %v", data.Status)
	}
}

func TestClassifyInvalidRequest(t *testing.T) {
	err := openaiBadRequest("Invalid value for 'messages': must be a non-empty array.")

	data := quietClassifier().fromFault(err)

	if data.Status != model.ResultInvalidRequest {
		t.Errorf("expected invalid_request, got %v", data.Status)
	}
}

func TestClassifyNonBadRequestAPIError(t *testing.T) {
	apiErr := &openai.APIError{
		HTTPStatusCode: 429,
		Message:        "Rate limit reached.",
	}

	data := quietClassifier().fromFault(fmt.Errorf("chat completion failed: %w", apiErr))

	if data.Status != model.ResultOtherError {
		t.Errorf("expected other_error for 429, got %v", data.Status)
	}
}

func TestClassifyTransportError(t *testing.T) {
	data := quietClassifier().fromFault(errors.New("dial tcp: connection refused"))

	if data.Status != model.ResultOtherError {
		t.Errorf("expected other_error, got %v", data.Status)
	}
	if data.StatusText == "" {
		t.Error("expected status text for a fault")
	}
}

func TestClassifyCancellation(t *testing.T) {
	data := quietClassifier().fromFault(context.Canceled)

	if data.Status != model.ResultOtherError {
		t.Errorf("expected other_error for cancellation, got %v", data.Status)
	}
}

func TestClassifyGenaiBadRequest(t *testing.T) {
	apiErr := genai.APIError{
		Code:    400,
		Status:  "INVALID_ARGUMENT",
		Message: "The input token count exceeds the maximum context length for this model.",
	}

	data := quietClassifier().fromFault(fmt.Errorf("chat completion failed: %w", apiErr))

	if data.Status != model.ResultTooLong {
		t.Errorf("expected too_long, got %v", data.Status)
	}
}

func TestClassifyGenaiServerError(t *testing.T) {
	apiErr := genai.APIError{
		Code:    500,
		Status:  "INTERNAL",
		Message: "Internal error encountered.",
	}

	data := quietClassifier().fromFault(apiErr)

	if data.Status != model.ResultOtherError {
		t.Errorf("expected other_error, got %v", data.Status)
	}
}

func TestClassifyExactlyOneFieldPopulated(t *testing.T) {
	faults := []error{
		openaiBadRequest("This model's maximum context length is 4097 tokens."),
		openaiBadRequest("content was filtered"),
		openaiBadRequest("bad request"),
		errors.New("boom"),
	}

	for _, err := range faults {
		data := quietClassifier().fromFault(err)
		if data.ReplyText != "" {
			t.Errorf("fault %v produced reply text %q", err, data.ReplyText)
		}
		if data.StatusText == "" {
			t.Errorf("fault %v produced no status text", err)
		}
	}
}
