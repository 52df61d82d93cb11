package chat

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"github.com/richinex/parley/model"
)

// Fault classification is a best-effort substring match against the
// provider's free-text error messages: none of the backends expose a
// structured sub-code that separates "context too long" from "content
// filtered" within the bad-request class. The wording is English-only and
// can change under us, which is why the heuristic lives in this one file
// and nowhere else.
const (
	contextLengthMarker = "maximum context length"
	filteredMarker      = "filtered"
)

// classifier folds raw SDK faults into the closed CompletionData taxonomy.
// Every fault is logged with full detail before conversion; callers never
// see an error value, only CompletionData.
type classifier struct {
	logger *slog.Logger
}

// fromFault converts any completion-call fault into CompletionData.
func (c classifier) fromFault(err error) model.CompletionData {
	if badRequest, message := badRequestFault(err); badRequest {
		return c.fromBadRequest(message, err)
	}

	c.logger.Error("completion failed", "error", err)
	return model.CompletionData{
		Status:     model.ResultOtherError,
		StatusText: err.Error(),
	}
}

// fromBadRequest distinguishes the overlapping bad-request causes in
// priority order: context overflow, then content filtering, then the
// malformed-request catch-all.
func (c classifier) fromBadRequest(message string, err error) model.CompletionData {
	c.logger.Error("completion rejected", "error", err, "message", message)

	status := model.ResultInvalidRequest
	switch {
	case strings.Contains(message, contextLengthMarker):
		status = model.ResultTooLong
	case strings.Contains(message, filteredMarker):
		status = model.ResultBlocked
	}

	return model.CompletionData{
		Status:     status,
		StatusText: err.Error(),
	}
}

// badRequestFault reports whether err is a bad-request-class fault from any
// of the supported SDKs, and if so returns the provider-supplied message.
func badRequestFault(err error) (bool, string) {
	var openaiErr *openai.APIError
	if errors.As(err, &openaiErr) {
		return openaiErr.HTTPStatusCode == http.StatusBadRequest, openaiErr.Message
	}

	var genaiErr genai.APIError
	if errors.As(err, &genaiErr) {
		return genaiErr.Code == http.StatusBadRequest, genaiErr.Message
	}

	var anthropicErr *anthropic.Error
	if errors.As(err, &anthropicErr) {
		// The anthropic error body is carried in the rendered error text.
		return anthropicErr.StatusCode == http.StatusBadRequest, err.Error()
	}

	return false, ""
}
